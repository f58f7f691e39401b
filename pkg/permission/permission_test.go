package permission

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/minischetti/meal-planner-api/domain"
)

func TestRoleTable(t *testing.T) {
	tests := []struct {
		role      domain.Role
		canEdit   bool
		canDelete bool
	}{
		{domain.RoleOwner, true, true},
		{domain.RoleContributor, true, false},
		{domain.RoleSubscriber, false, false},
		{domain.RoleMember, false, false},
		{"", false, false},
		{"OWNER", false, false},
	}
	var editor Editor = RoleEditor{}
	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			assert.Equal(t, tt.canEdit, CanEdit(tt.role))
			assert.Equal(t, tt.canDelete, CanDelete(tt.role))
			assert.Equal(t, tt.canEdit, editor.CanEdit(tt.role))
			assert.Equal(t, tt.canDelete, editor.CanDelete(tt.role))
		})
	}
}
