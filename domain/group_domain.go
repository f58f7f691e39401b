package domain

var MessageInviteSubject = "You have been invited to a group"

type (
	InitialMember struct {
		ID   string `json:"id" validate:"notblank"`
		Role Role   `json:"role" validate:"omitempty,group_role"`
	}

	CreateGroupRequest struct {
		Name        string          `json:"name" validate:"notblank"`
		Description string          `json:"description" validate:"notblank"`
		ProfileID   string          `json:"profileId" validate:"notblank"`
		Members     []InitialMember `json:"members" validate:"dive"`
	}

	SendInviteRequest struct {
		Sender    string `json:"sender" validate:"notblank"`
		Recipient string `json:"recipient" validate:"notblank"`
	}

	LinkRecipeRequest struct {
		RecipeOwnerID string `json:"recipeOwnerId" validate:"notblank"`
		RecipeID      string `json:"recipeId" validate:"notblank"`
	}

	// Member is a group member's role merged with their person document.
	Member struct {
		Role           Role    `json:"role"`
		ID             string  `json:"id"`
		Name           string  `json:"name,omitempty"`
		FirstName      string  `json:"firstName,omitempty"`
		LastName       string  `json:"lastName,omitempty"`
		Email          string  `json:"email,omitempty"`
		ActiveMealPlan *string `json:"activeMealPlan,omitempty"`
	}
)
