package entities

import (
	"strconv"

	"github.com/minischetti/meal-planner-api/pkg/store"
)

// Root collections.
var (
	People   = store.Collection("people")
	Recipes  = store.Collection("recipes")
	Groups   = store.Collection("groups")
	Accounts = store.Collection("accounts")
)

const (
	subRecipes      = "recipes"
	subGroups       = "groups"
	subInvites      = "invites"
	subPlans        = "plans"
	subDays         = "days"
	subAssociations = "associations"
	subGroupMembers = "group_members"
)

func PersonDoc(person string) store.DocRef { return People.Doc(person) }
func RecipeDoc(recipe string) store.DocRef { return Recipes.Doc(recipe) }
func GroupDoc(group string) store.DocRef   { return Groups.Doc(group) }

func PersonRecipes(person string) store.CollectionRef {
	return PersonDoc(person).Collection(subRecipes)
}

func PersonGroups(person string) store.CollectionRef {
	return PersonDoc(person).Collection(subGroups)
}

func PersonInvites(person string) store.CollectionRef {
	return PersonDoc(person).Collection(subInvites)
}

func PersonPlans(person string) store.CollectionRef {
	return PersonDoc(person).Collection(subPlans)
}

func PlanDays(person, plan string) store.CollectionRef {
	return PersonPlans(person).Doc(plan).Collection(subDays)
}

func PlanDayDoc(person, plan string, day int) store.DocRef {
	return PlanDays(person, plan).Doc(strconv.Itoa(day))
}

func RecipeAssociations(recipe string) store.CollectionRef {
	return RecipeDoc(recipe).Collection(subAssociations)
}

func GroupMembers(group string) store.CollectionRef {
	return GroupDoc(group).Collection(subGroupMembers)
}

func GroupInvites(group string) store.CollectionRef {
	return GroupDoc(group).Collection(subInvites)
}

func GroupRecipes(group string) store.CollectionRef {
	return GroupDoc(group).Collection(subRecipes)
}
