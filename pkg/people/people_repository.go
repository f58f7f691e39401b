package people

import (
	"context"
	"fmt"

	"github.com/minischetti/meal-planner-api/entities"
	"github.com/minischetti/meal-planner-api/pkg/store"
)

type (
	PeopleRepository interface {
		CreatePerson(ctx context.Context, person entities.Person) error
		GetPerson(ctx context.Context, id string) (entities.Person, error)
		UpdatePerson(ctx context.Context, id string, fields ...store.Update) error
		GetRecipeMirrors(ctx context.Context, id string) ([]entities.Association, error)
		GetGroupMirrors(ctx context.Context, id string) ([]entities.Association, error)
		GetInvites(ctx context.Context, id string) ([]entities.RecipientInvite, error)
		GetRecipes(ctx context.Context, ids []string) ([]entities.Recipe, error)
		GetGroups(ctx context.Context, ids []string) ([]entities.Group, error)
	}

	peopleRepository struct {
		store store.Store
	}
)

func NewPeopleRepository(st store.Store) PeopleRepository {
	return &peopleRepository{store: st}
}

func (r *peopleRepository) CreatePerson(ctx context.Context, person entities.Person) error {
	if err := r.store.Apply(ctx, store.Create(entities.PersonDoc(person.ID), person)); err != nil {
		return fmt.Errorf("people: creating person %s: %w", person.ID, err)
	}
	return nil
}

func (r *peopleRepository) GetPerson(ctx context.Context, id string) (entities.Person, error) {
	snap, err := r.store.Get(ctx, entities.PersonDoc(id))
	if err != nil {
		return entities.Person{}, fmt.Errorf("people: getting person %s: %w", id, err)
	}
	var person entities.Person
	if err := snap.DataTo(&person); err != nil {
		return entities.Person{}, fmt.Errorf("people: parsing person %s: %w", id, err)
	}
	return person, nil
}

func (r *peopleRepository) UpdatePerson(ctx context.Context, id string, fields ...store.Update) error {
	if err := r.store.Apply(ctx, store.UpdateFields(entities.PersonDoc(id), fields...)); err != nil {
		return fmt.Errorf("people: updating person %s: %w", id, err)
	}
	return nil
}

func (r *peopleRepository) GetRecipeMirrors(ctx context.Context, id string) ([]entities.Association, error) {
	return listAs[entities.Association](ctx, r.store, entities.PersonRecipes(id))
}

func (r *peopleRepository) GetGroupMirrors(ctx context.Context, id string) ([]entities.Association, error) {
	return listAs[entities.Association](ctx, r.store, entities.PersonGroups(id))
}

func (r *peopleRepository) GetInvites(ctx context.Context, id string) ([]entities.RecipientInvite, error) {
	return listAs[entities.RecipientInvite](ctx, r.store, entities.PersonInvites(id))
}

func (r *peopleRepository) GetRecipes(ctx context.Context, ids []string) ([]entities.Recipe, error) {
	refs := make([]store.DocRef, len(ids))
	for i, id := range ids {
		refs[i] = entities.RecipeDoc(id)
	}
	return store.GetAll[entities.Recipe](ctx, r.store, refs)
}

func (r *peopleRepository) GetGroups(ctx context.Context, ids []string) ([]entities.Group, error) {
	refs := make([]store.DocRef, len(ids))
	for i, id := range ids {
		refs[i] = entities.GroupDoc(id)
	}
	return store.GetAll[entities.Group](ctx, r.store, refs)
}

func listAs[T any](ctx context.Context, st store.Store, col store.CollectionRef) ([]T, error) {
	snaps, err := st.List(ctx, col)
	if err != nil {
		return nil, fmt.Errorf("people: listing %s: %w", col.Path, err)
	}
	out, err := store.DecodeAll[T](snaps)
	if err != nil {
		return nil, fmt.Errorf("people: parsing %s: %w", col.Path, err)
	}
	return out, nil
}
