package utils

import (
	"github.com/go-playground/validator/v10"

	"github.com/minischetti/meal-planner-api/pkg/validation"
)

// InitValidator builds the validator shared by all handlers.
func InitValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := validation.Register(v); err != nil {
		panic(err)
	}
	return v
}
