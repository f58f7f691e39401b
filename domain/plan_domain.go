package domain

type (
	PlanDayRequest struct {
		ID       *int   `json:"id" validate:"required,min=0"`
		RecipeID string `json:"recipeId" validate:"notblank"`
	}

	CreatePlanRequest struct {
		Name string           `json:"name" validate:"notblank"`
		Days []PlanDayRequest `json:"days" validate:"dive"`
	}
)
