package plan

import (
	"context"
	"strconv"
	"strings"

	"github.com/minischetti/meal-planner-api/domain"
	"github.com/minischetti/meal-planner-api/entities"
	"github.com/minischetti/meal-planner-api/pkg/validation"
)

type (
	PlanService interface {
		GetPlans(ctx context.Context, person string) ([]entities.Plan, error)
		GetPlan(ctx context.Context, person, id string) (entities.PlanWithDays, error)
		CreatePlan(ctx context.Context, person string, req domain.CreatePlanRequest) (entities.PlanWithDays, error)
		DeletePlan(ctx context.Context, person, id string) error
		SetDay(ctx context.Context, person, id string, req domain.PlanDayRequest) error
		RemoveDay(ctx context.Context, person, id, day string) error
		SetActive(ctx context.Context, person, id string) error
	}

	planService struct {
		planRepository PlanRepository
	}
)

func NewPlanService(planRepository PlanRepository) PlanService {
	return &planService{planRepository: planRepository}
}

func (s *planService) GetPlans(ctx context.Context, person string) ([]entities.Plan, error) {
	plans, err := s.planRepository.GetPlans(ctx, person)
	if err != nil {
		return nil, err
	}
	if !validation.NonEmpty(plans) {
		return nil, domain.ErrEmpty
	}
	return plans, nil
}

func (s *planService) GetPlan(ctx context.Context, person, id string) (entities.PlanWithDays, error) {
	plan, err := s.planRepository.GetPlan(ctx, person, id)
	if err != nil {
		return entities.PlanWithDays{}, err
	}
	days, err := s.planRepository.GetDays(ctx, person, id)
	if err != nil {
		return entities.PlanWithDays{}, err
	}
	return entities.PlanWithDays{Plan: plan, Days: days}, nil
}

// CreatePlan keeps the last entry when the request repeats a day index.
func (s *planService) CreatePlan(ctx context.Context, person string, req domain.CreatePlanRequest) (entities.PlanWithDays, error) {
	if !validation.NonEmptyString(req.Name) {
		return entities.PlanWithDays{}, domain.NewValidationError(domain.SecondaryName, "name is required")
	}

	index := map[int]int{}
	days := make([]entities.PlanDay, 0, len(req.Days))
	for _, d := range req.Days {
		day, err := planDay(d)
		if err != nil {
			return entities.PlanWithDays{}, err
		}
		if i, ok := index[day.ID]; ok {
			days[i] = day
			continue
		}
		index[day.ID] = len(days)
		days = append(days, day)
	}

	plan := entities.Plan{
		ID:   entities.PersonPlans(person).NewDoc().ID,
		Name: strings.TrimSpace(req.Name),
	}
	if err := s.planRepository.CreatePlan(ctx, person, plan, days); err != nil {
		return entities.PlanWithDays{}, err
	}
	return entities.PlanWithDays{Plan: plan, Days: days}, nil
}

func (s *planService) DeletePlan(ctx context.Context, person, id string) error {
	return s.planRepository.DeletePlan(ctx, person, id)
}

func (s *planService) SetDay(ctx context.Context, person, id string, req domain.PlanDayRequest) error {
	day, err := planDay(req)
	if err != nil {
		return err
	}
	return s.planRepository.SetDay(ctx, person, id, day)
}

func (s *planService) RemoveDay(ctx context.Context, person, id, day string) error {
	n, err := strconv.Atoi(day)
	if err != nil || n < 0 {
		return domain.NewValidationError(domain.SecondaryPlans, "day must be a non-negative integer")
	}
	return s.planRepository.RemoveDay(ctx, person, id, n)
}

func (s *planService) SetActive(ctx context.Context, person, id string) error {
	return s.planRepository.SetActive(ctx, person, id)
}

func planDay(req domain.PlanDayRequest) (entities.PlanDay, error) {
	if req.ID == nil || *req.ID < 0 {
		return entities.PlanDay{}, domain.NewValidationError(domain.SecondaryPlans, "day id must be a non-negative integer")
	}
	if !validation.NonEmptyString(req.RecipeID) {
		return entities.PlanDay{}, domain.NewValidationError(domain.SecondaryPlans, "recipeId is required")
	}
	return entities.PlanDay{ID: *req.ID, RecipeID: req.RecipeID}, nil
}
