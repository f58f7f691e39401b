package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minischetti/meal-planner-api/domain"
)

func TestValidateAuthors(t *testing.T) {
	tests := []struct {
		name    string
		authors []domain.Author
		want    bool
	}{
		{"empty", nil, false},
		{"owner only", []domain.Author{{ID: "p1", Association: domain.RoleOwner}}, true},
		{"contributor only", []domain.Author{{ID: "p1", Association: domain.RoleContributor}}, false},
		{"owner among others", []domain.Author{
			{ID: "p2", Association: domain.RoleSubscriber},
			{ID: "p1", Association: domain.RoleOwner},
		}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateAuthors(tt.authors))
		})
	}
}

func TestPredicates(t *testing.T) {
	assert.False(t, NonEmptyString(""))
	assert.False(t, NonEmptyString("  \t"))
	assert.True(t, NonEmptyString("Tacos"))

	assert.False(t, NonEmpty([]domain.Ingredient{}))
	assert.True(t, NonEmpty([]domain.Instruction{{Body: "Fill and fold"}}))
}

func TestRegister(t *testing.T) {
	v := validator.New()
	require.NoError(t, Register(v))

	t.Run("recipe create", func(t *testing.T) {
		req := domain.CreateRecipeRequest{
			ProfileID:    "p1",
			Name:         "Tacos",
			Ingredients:  []domain.Ingredient{{Description: "Tortilla"}},
			Instructions: []domain.Instruction{{Body: "Fill and fold"}},
		}
		assert.NoError(t, v.Struct(req))

		req.Name = "   "
		assert.Error(t, v.Struct(req))
	})

	t.Run("authors need an owner", func(t *testing.T) {
		req := domain.RecipeAuthorsRequest{
			ProfileID: "p1",
			Authors:   []domain.Author{{ID: "p1", Association: domain.RoleContributor}},
		}
		assert.Error(t, v.Struct(req))

		req.Authors = append(req.Authors, domain.Author{ID: "p2", Association: domain.RoleOwner})
		assert.NoError(t, v.Struct(req))
	})

	t.Run("roles", func(t *testing.T) {
		assert.Error(t, v.Struct(domain.AddAssociationRequest{ProfileID: "p1", Association: domain.RoleMember}))
		assert.NoError(t, v.Struct(domain.AddAssociationRequest{ProfileID: "p1", Association: domain.RoleSubscriber}))
		assert.Error(t, v.Struct(domain.InitialMember{ID: "p1", Role: domain.RoleSubscriber}))
	})
}
