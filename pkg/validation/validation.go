// Package validation holds the checks run on request payloads before anything is written.
package validation

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/minischetti/meal-planner-api/domain"
)

func NonEmptyString(s string) bool {
	return strings.TrimSpace(s) != ""
}

func NonEmpty[T any](xs []T) bool {
	return len(xs) > 0
}

func HasOwner(authors []domain.Author) bool {
	for _, a := range authors {
		if a.Association == domain.RoleOwner {
			return true
		}
	}
	return false
}

// ValidateAuthors accepts a non-empty author list with at least one owner.
func ValidateAuthors(authors []domain.Author) bool {
	return NonEmpty(authors) && HasOwner(authors)
}

// Register installs the checks above as validator tags: notblank, has_owner, recipe_role and
// group_role.
func Register(v *validator.Validate) error {
	tags := map[string]validator.Func{
		"notblank":    notBlank,
		"has_owner":   hasOwner,
		"recipe_role": roleFn(domain.Role.IsRecipeRole),
		"group_role":  roleFn(domain.Role.IsGroupRole),
	}
	for tag, fn := range tags {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}

func notBlank(fl validator.FieldLevel) bool {
	f := fl.Field()
	if f.Kind() != reflect.String {
		return false
	}
	return NonEmptyString(f.String())
}

func hasOwner(fl validator.FieldLevel) bool {
	authors, ok := fl.Field().Interface().([]domain.Author)
	return ok && HasOwner(authors)
}

func roleFn(allowed func(domain.Role) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		f := fl.Field()
		if f.Kind() != reflect.String {
			return false
		}
		return allowed(domain.Role(f.String()))
	}
}
