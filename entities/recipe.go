package entities

import "github.com/minischetti/meal-planner-api/domain"

type Recipe struct {
	ID           string               `firestore:"id" json:"id"`
	Owner        string               `firestore:"owner" json:"owner"`
	Name         string               `firestore:"name" json:"name"`
	PrepTime     string               `firestore:"prepTime" json:"prepTime"`
	CookTime     string               `firestore:"cookTime" json:"cookTime"`
	RecipeYield  string               `firestore:"recipeYield" json:"recipeYield"`
	Description  string               `firestore:"description" json:"description"`
	ImageURL     string               `firestore:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	Ingredients  []domain.Ingredient  `firestore:"ingredients" json:"ingredients"`
	Instructions []domain.Instruction `firestore:"instructions" json:"instructions"`
}

// Association links a person and a recipe or group. It is stored on both sides: ID names the
// other end of the relationship.
type Association struct {
	ID          string      `firestore:"id" json:"id"`
	Association domain.Role `firestore:"association" json:"association"`
}

// RecipeWithAssociations is the read model returned for a single recipe.
type RecipeWithAssociations struct {
	Recipe
	Associations []Association `json:"associations"`
}
