package plan

import (
	"context"
	"errors"
	"fmt"

	"github.com/minischetti/meal-planner-api/domain"
	"github.com/minischetti/meal-planner-api/entities"
	"github.com/minischetti/meal-planner-api/pkg/mirror"
	"github.com/minischetti/meal-planner-api/pkg/store"
)

type (
	PlanRepository interface {
		GetPlans(ctx context.Context, person string) ([]entities.Plan, error)
		GetPlan(ctx context.Context, person, id string) (entities.Plan, error)
		GetDays(ctx context.Context, person, id string) ([]entities.PlanDay, error)
		// CreatePlan writes the plan and its days in one batch.
		CreatePlan(ctx context.Context, person string, plan entities.Plan, days []entities.PlanDay) error
		DeletePlan(ctx context.Context, person, id string) error
		SetDay(ctx context.Context, person, id string, day entities.PlanDay) error
		RemoveDay(ctx context.Context, person, id string, day int) error
		SetActive(ctx context.Context, person, id string) error
	}

	planRepository struct {
		store store.Store
	}
)

func NewPlanRepository(st store.Store) PlanRepository {
	return &planRepository{store: st}
}

func (r *planRepository) GetPlans(ctx context.Context, person string) ([]entities.Plan, error) {
	snaps, err := r.store.List(ctx, entities.PersonPlans(person))
	if err != nil {
		return nil, fmt.Errorf("plan: listing plans of %s: %w", person, err)
	}
	return store.DecodeAll[entities.Plan](snaps)
}

func (r *planRepository) GetPlan(ctx context.Context, person, id string) (entities.Plan, error) {
	snap, err := r.store.Get(ctx, entities.PersonPlans(person).Doc(id))
	if err != nil {
		return entities.Plan{}, fmt.Errorf("plan: getting plan %s: %w", id, err)
	}
	var plan entities.Plan
	if err := snap.DataTo(&plan); err != nil {
		return entities.Plan{}, fmt.Errorf("plan: parsing plan %s: %w", id, err)
	}
	return plan, nil
}

func (r *planRepository) GetDays(ctx context.Context, person, id string) ([]entities.PlanDay, error) {
	snaps, err := r.store.List(ctx, entities.PlanDays(person, id))
	if err != nil {
		return nil, fmt.Errorf("plan: listing days of %s: %w", id, err)
	}
	return store.DecodeAll[entities.PlanDay](snaps)
}

func (r *planRepository) CreatePlan(ctx context.Context, person string, plan entities.Plan, days []entities.PlanDay) error {
	writes := []store.Write{store.Create(entities.PersonPlans(person).Doc(plan.ID), plan)}
	for _, d := range days {
		writes = append(writes, store.Set(entities.PlanDayDoc(person, plan.ID, d.ID), d))
	}
	if err := r.store.Apply(ctx, writes...); err != nil {
		return fmt.Errorf("plan: creating plan %s: %w", plan.ID, err)
	}
	return nil
}

// DeletePlan removes the plan with every day and clears the person's active plan when it pointed
// here.
func (r *planRepository) DeletePlan(ctx context.Context, person, id string) error {
	err := mirror.SyncWithin(ctx, r.store, func(ctx context.Context, tx store.Tx) ([]store.Write, error) {
		doc := entities.PersonPlans(person).Doc(id)
		if _, err := tx.Get(doc); errors.Is(err, store.ErrNotFound) {
			return nil, domain.ErrEmpty
		} else if err != nil {
			return nil, err
		}
		days, err := tx.List(entities.PlanDays(person, id))
		if err != nil {
			return nil, err
		}
		owner, err := activePlan(tx, person)
		if err != nil {
			return nil, err
		}

		writes := make([]store.Write, 0, len(days)+2)
		for _, d := range days {
			writes = append(writes, store.Delete(d.Ref))
		}
		writes = append(writes, store.Delete(doc))
		if owner != nil && *owner == id {
			writes = append(writes, store.Merge(entities.PersonDoc(person), map[string]any{"activeMealPlan": nil}))
		}
		return writes, nil
	})
	if err != nil {
		return fmt.Errorf("plan: deleting plan %s: %w", id, err)
	}
	return nil
}

func (r *planRepository) SetDay(ctx context.Context, person, id string, day entities.PlanDay) error {
	err := mirror.SyncWithin(ctx, r.store, func(ctx context.Context, tx store.Tx) ([]store.Write, error) {
		if _, err := tx.Get(entities.PersonPlans(person).Doc(id)); errors.Is(err, store.ErrNotFound) {
			return nil, domain.ErrEmpty
		} else if err != nil {
			return nil, err
		}
		return []store.Write{store.Set(entities.PlanDayDoc(person, id, day.ID), day)}, nil
	})
	if err != nil {
		return fmt.Errorf("plan: setting day %d of %s: %w", day.ID, id, err)
	}
	return nil
}

func (r *planRepository) RemoveDay(ctx context.Context, person, id string, day int) error {
	if err := r.store.Apply(ctx, store.Delete(entities.PlanDayDoc(person, id, day))); err != nil {
		return fmt.Errorf("plan: removing day %d of %s: %w", day, id, err)
	}
	return nil
}

// SetActive flips the active flag from every other plan to id and records id on the person.
func (r *planRepository) SetActive(ctx context.Context, person, id string) error {
	err := mirror.SyncWithin(ctx, r.store, func(ctx context.Context, tx store.Tx) ([]store.Write, error) {
		target := entities.PersonPlans(person).Doc(id)
		if _, err := tx.Get(target); errors.Is(err, store.ErrNotFound) {
			return nil, domain.ErrEmpty
		} else if err != nil {
			return nil, err
		}
		snaps, err := tx.List(entities.PersonPlans(person))
		if err != nil {
			return nil, err
		}
		plans, err := store.DecodeAll[entities.Plan](snaps)
		if err != nil {
			return nil, err
		}

		var writes []store.Write
		for _, p := range plans {
			if p.Active && p.ID != id {
				writes = append(writes, store.UpdateFields(entities.PersonPlans(person).Doc(p.ID),
					store.Update{Path: "active", Value: false}))
			}
		}
		writes = append(writes,
			store.UpdateFields(target, store.Update{Path: "active", Value: true}),
			store.Merge(entities.PersonDoc(person), map[string]any{"activeMealPlan": id}),
		)
		return writes, nil
	})
	if err != nil {
		return fmt.Errorf("plan: activating plan %s: %w", id, err)
	}
	return nil
}

func activePlan(tx store.Tx, person string) (*string, error) {
	snap, err := tx.Get(entities.PersonDoc(person))
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var p entities.Person
	if err := snap.DataTo(&p); err != nil {
		return nil, err
	}
	return p.ActiveMealPlan, nil
}
