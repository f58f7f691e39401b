package entities

import "github.com/minischetti/meal-planner-api/domain"

type Group struct {
	ID          string `firestore:"id" json:"id"`
	Name        string `firestore:"name" json:"name"`
	Description string `firestore:"description" json:"description"`
	Owner       string `firestore:"owner" json:"owner"`
}

type GroupMember struct {
	ID   string      `firestore:"id" json:"id"`
	Role domain.Role `firestore:"role" json:"role"`
}

// SenderInvite is the group-side copy of an invite.
type SenderInvite struct {
	ID        string `firestore:"id" json:"id"`
	Sender    string `firestore:"sender" json:"sender"`
	Recipient string `firestore:"recipient" json:"recipient"`
	Group     string `firestore:"group" json:"group"`
	Active    bool   `firestore:"active" json:"active"`
	Answer    *bool  `firestore:"answer" json:"answer"`
}

// RecipientInvite is the person-side copy. The recipient is implied by its location.
type RecipientInvite struct {
	ID     string `firestore:"id" json:"id"`
	Sender string `firestore:"sender" json:"sender"`
	Group  string `firestore:"group" json:"group"`
	Active bool   `firestore:"active" json:"active"`
	Answer *bool  `firestore:"answer" json:"answer"`
}

type GroupRecipe struct {
	RecipeOwnerID string `firestore:"recipeOwnerId" json:"recipeOwnerId"`
	RecipeID      string `firestore:"recipeId" json:"recipeId"`
}
