package handlers

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/minischetti/meal-planner-api/domain"
	"github.com/minischetti/meal-planner-api/internal/middleware"
)

// bind parses the JSON body into req and runs its validate tags.
func bind(c *fiber.Ctx, v *validator.Validate, req any) error {
	if err := c.BodyParser(req); err != nil {
		return err
	}
	return v.Struct(req)
}

// actingAs rejects a request made on behalf of someone other than the token's person. Routes
// without the auth middleware carry no person id and pass.
func actingAs(c *fiber.Ctx, personID string) error {
	caller, ok := c.Locals(middleware.LocalPersonID).(string)
	if !ok || caller == personID {
		return nil
	}
	return fmt.Errorf("acting as %s: %w", personID, domain.ErrPermissionDenied)
}
