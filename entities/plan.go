package entities

type Plan struct {
	ID     string `firestore:"id" json:"id"`
	Name   string `firestore:"name" json:"name"`
	Active bool   `firestore:"active" json:"active"`
}

// PlanDay is keyed by its day index, so setting a day twice overwrites it.
type PlanDay struct {
	ID       int    `firestore:"id" json:"id"`
	RecipeID string `firestore:"recipeId" json:"recipeId"`
}

type PlanWithDays struct {
	Plan
	Days []PlanDay `json:"days"`
}
