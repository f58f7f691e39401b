package presenters

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"github.com/minischetti/meal-planner-api/domain"
	"github.com/minischetti/meal-planner-api/pkg/store"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		result domain.Result
	}{
		{"validation", domain.NewValidationError(domain.SecondaryAuthors, "no owner"), fiber.StatusBadRequest, domain.ResultBadRequest},
		{"empty", fmt.Errorf("people: %w", domain.ErrEmpty), fiber.StatusNotFound, domain.ResultEmpty},
		{"missing document", fmt.Errorf("group: getting: %w", store.ErrNotFound), fiber.StatusNotFound, domain.ResultEmpty},
		{"permission", domain.ErrPermissionDenied, fiber.StatusForbidden, domain.ResultPermissionDeny},
		{"duplicate", fmt.Errorf("mirror: %w", store.ErrAlreadyExists), fiber.StatusConflict, domain.ResultAlreadyExists},
		{"credentials", domain.ErrInvalidCredentials, fiber.StatusUnauthorized, domain.ResultPermissionDeny},
		{"store", errors.New("deadline exceeded"), fiber.StatusBadRequest, domain.ResultError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, result := Classify(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.result, result)
		})
	}
}
