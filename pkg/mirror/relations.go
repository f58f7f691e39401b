package mirror

import (
	"github.com/minischetti/meal-planner-api/domain"
	"github.com/minischetti/meal-planner-api/entities"
	"github.com/minischetti/meal-planner-api/pkg/store"
)

// RecipeAuthor returns the person-side and recipe-side copies of a recipe association.
func RecipeAuthor(person, recipe string, role domain.Role) (Side, Side) {
	return Side{
			Doc:  entities.PersonRecipes(person).Doc(recipe),
			Data: entities.Association{ID: recipe, Association: role},
		}, Side{
			Doc:  entities.RecipeAssociations(recipe).Doc(person),
			Data: entities.Association{ID: person, Association: role},
		}
}

// GroupMembership returns the group-side member record and the person-side group mirror.
func GroupMembership(group, person string, role domain.Role) (Side, Side) {
	return Side{
			Doc:  entities.GroupMembers(group).Doc(person),
			Data: entities.GroupMember{ID: person, Role: role},
		}, Side{
			Doc:  entities.PersonGroups(person).Doc(group),
			Data: entities.Association{ID: group, Association: role},
		}
}

// Invite returns the sender-shaped group copy and the recipient-shaped person copy of a new
// invite. Both share id.
func Invite(id, group, sender, recipient string) (Side, Side) {
	return Side{
			Doc: entities.GroupInvites(group).Doc(id),
			Data: entities.SenderInvite{
				ID:        id,
				Sender:    sender,
				Recipient: recipient,
				Group:     group,
				Active:    true,
			},
		}, Side{
			Doc: entities.PersonInvites(recipient).Doc(id),
			Data: entities.RecipientInvite{
				ID:     id,
				Sender: sender,
				Group:  group,
				Active: true,
			},
		}
}

// InviteAnswer returns both invite copies carrying the answer and closing the invite.
func InviteAnswer(id, group, recipient string, answer bool) (Side, Side) {
	fields := []store.Update{
		{Path: "answer", Value: answer},
		{Path: "active", Value: false},
	}
	return Side{Doc: entities.GroupInvites(group).Doc(id), Fields: fields},
		Side{Doc: entities.PersonInvites(recipient).Doc(id), Fields: fields}
}
