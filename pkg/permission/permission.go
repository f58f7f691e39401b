// Package permission decides whether a role may mutate the entity it is attached to.
package permission

import "github.com/minischetti/meal-planner-api/domain"

// CanEdit reports whether role may change a recipe's fields.
func CanEdit(role domain.Role) bool {
	return role == domain.RoleOwner || role == domain.RoleContributor
}

// CanDelete reports whether role may delete the entity outright.
func CanDelete(role domain.Role) bool {
	return role == domain.RoleOwner
}

type Editor interface {
	CanEdit(role domain.Role) bool
	CanDelete(role domain.Role) bool
}

// RoleEditor applies the fixed role table above.
type RoleEditor struct{}

func (RoleEditor) CanEdit(role domain.Role) bool   { return CanEdit(role) }
func (RoleEditor) CanDelete(role domain.Role) bool { return CanDelete(role) }
