package domain

var (
	MessageSuccessCreateRecipe = "recipe created"
	MessageSuccessDeleteRecipe = "recipe deleted"
	MessageSuccessUploadImage  = "recipe image uploaded"
)

type (
	Ingredient struct {
		Description string `json:"description" firestore:"description" validate:"notblank"`
		Optional    bool   `json:"optional" firestore:"optional"`
	}

	Instruction struct {
		Body string `json:"body" firestore:"body" validate:"notblank"`
	}

	// Author is one entry of a recipe author list.
	Author struct {
		ID          string `json:"id" validate:"notblank"`
		Association Role   `json:"association" validate:"recipe_role"`
	}

	CreateRecipeRequest struct {
		ProfileID    string        `json:"profileId" validate:"notblank"`
		Name         string        `json:"name" validate:"notblank"`
		PrepTime     string        `json:"prepTime"`
		CookTime     string        `json:"cookTime"`
		RecipeYield  string        `json:"recipeYield"`
		Description  string        `json:"description"`
		Ingredients  []Ingredient  `json:"ingredients" validate:"required,min=1,dive"`
		Instructions []Instruction `json:"instructions" validate:"required,min=1,dive"`
	}

	UpdateRecipeRequest struct {
		ProfileID    string        `json:"profileId" validate:"notblank"`
		Name         string        `json:"name" validate:"notblank"`
		PrepTime     string        `json:"prepTime"`
		CookTime     string        `json:"cookTime"`
		RecipeYield  string        `json:"recipeYield"`
		Description  string        `json:"description"`
		Ingredients  []Ingredient  `json:"ingredients" validate:"required,min=1,dive"`
		Instructions []Instruction `json:"instructions" validate:"required,min=1,dive"`
	}

	RecipeNameRequest struct {
		ProfileID string `json:"profileId" validate:"notblank"`
		Name      string `json:"name" validate:"notblank"`
	}

	RecipeAuthorsRequest struct {
		ProfileID string   `json:"profileId" validate:"notblank"`
		Authors   []Author `json:"authors" validate:"required,min=1,has_owner,dive"`
	}

	RecipeIngredientsRequest struct {
		ProfileID   string       `json:"profileId" validate:"notblank"`
		Ingredients []Ingredient `json:"ingredients" validate:"required,min=1,dive"`
	}

	RecipeInstructionsRequest struct {
		ProfileID    string        `json:"profileId" validate:"notblank"`
		Instructions []Instruction `json:"instructions" validate:"required,min=1,dive"`
	}

	AddAssociationRequest struct {
		ProfileID   string `json:"profileId" validate:"notblank"`
		Association Role   `json:"association" validate:"recipe_role"`
	}

	RecipeImageRequest struct {
		ProfileID string `form:"profileId" validate:"notblank"`
	}
)
