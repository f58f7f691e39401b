package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/minischetti/meal-planner-api/domain"
	"github.com/minischetti/meal-planner-api/internal/api/presenters"
	"github.com/minischetti/meal-planner-api/pkg/recipe"
)

type (
	RecipeHandler interface {
		CreateRecipe(c *fiber.Ctx) error
		GetRecipe(c *fiber.Ctx) error
		UpdateRecipe(c *fiber.Ctx) error
		UpdateName(c *fiber.Ctx) error
		UpdateAuthors(c *fiber.Ctx) error
		UpdateIngredients(c *fiber.Ctx) error
		UpdateInstructions(c *fiber.Ctx) error
		UploadImage(c *fiber.Ctx) error
		AddAssociation(c *fiber.Ctx) error
		RemoveAssociation(c *fiber.Ctx) error
		DeleteRecipe(c *fiber.Ctx) error
	}

	recipeHandler struct {
		recipeService recipe.RecipeService
		validator     *validator.Validate
	}
)

func NewRecipeHandler(recipeService recipe.RecipeService, validator *validator.Validate) RecipeHandler {
	return &recipeHandler{
		recipeService: recipeService,
		validator:     validator,
	}
}

func (h *recipeHandler) CreateRecipe(c *fiber.Ctx) error {
	msg := domain.NewMessage(domain.DomainRecipe, domain.OperationCreate)
	req := new(domain.CreateRecipeRequest)
	if err := bind(c, h.validator, req); err != nil {
		return presenters.BodyErrorResponse(c, msg, err)
	}

	if err := actingAs(c, req.ProfileID); err != nil {
		return presenters.ErrorResponse(c, msg, err)
	}
	res, err := h.recipeService.CreateRecipe(c.UserContext(), *req)
	if err != nil {
		return presenters.ErrorResponse(c, msg, err)
	}
	return presenters.SuccessResponse(c, msg.WithMessage(domain.MessageSuccessCreateRecipe).WithData(res), fiber.StatusOK)
}

func (h *recipeHandler) GetRecipe(c *fiber.Ctx) error {
	res, err := h.recipeService.GetRecipe(c.UserContext(), c.Params("recipe"))
	if err != nil {
		return presenters.ErrorResponse(c, domain.NewMessage(domain.DomainRecipe, domain.OperationGet), err)
	}
	return presenters.DataResponse(c, res)
}

func (h *recipeHandler) UpdateRecipe(c *fiber.Ctx) error {
	msg := domain.NewMessage(domain.DomainRecipe, domain.OperationUpdate)
	req := new(domain.UpdateRecipeRequest)
	if err := bind(c, h.validator, req); err != nil {
		return presenters.BodyErrorResponse(c, msg, err)
	}

	if err := actingAs(c, req.ProfileID); err != nil {
		return presenters.ErrorResponse(c, msg, err)
	}
	if err := h.recipeService.UpdateRecipe(c.UserContext(), c.Params("recipe"), *req); err != nil {
		return presenters.ErrorResponse(c, msg, err)
	}
	return presenters.SuccessResponse(c, msg, fiber.StatusOK)
}

func (h *recipeHandler) UpdateName(c *fiber.Ctx) error {
	msg := domain.NewMessage(domain.DomainRecipe, domain.OperationUpdate).WithSecondary(domain.SecondaryName)
	req := new(domain.RecipeNameRequest)
	if err := bind(c, h.validator, req); err != nil {
		return presenters.BodyErrorResponse(c, msg, err)
	}

	if err := actingAs(c, req.ProfileID); err != nil {
		return presenters.ErrorResponse(c, msg, err)
	}
	if err := h.recipeService.UpdateName(c.UserContext(), c.Params("recipe"), *req); err != nil {
		return presenters.ErrorResponse(c, msg, err)
	}
	return presenters.SuccessResponse(c, msg, fiber.StatusOK)
}

func (h *recipeHandler) UpdateAuthors(c *fiber.Ctx) error {
	msg := domain.NewMessage(domain.DomainRecipe, domain.OperationUpdate).WithSecondary(domain.SecondaryAuthors)
	req := new(domain.RecipeAuthorsRequest)
	if err := bind(c, h.validator, req); err != nil {
		return presenters.BodyErrorResponse(c, msg, err)
	}

	if err := actingAs(c, req.ProfileID); err != nil {
		return presenters.ErrorResponse(c, msg, err)
	}
	if err := h.recipeService.UpdateAuthors(c.UserContext(), c.Params("recipe"), *req); err != nil {
		return presenters.ErrorResponse(c, msg, err)
	}
	return presenters.SuccessResponse(c, msg, fiber.StatusOK)
}

func (h *recipeHandler) UpdateIngredients(c *fiber.Ctx) error {
	msg := domain.NewMessage(domain.DomainRecipe, domain.OperationUpdate).WithSecondary(domain.SecondaryIngredients)
	req := new(domain.RecipeIngredientsRequest)
	if err := bind(c, h.validator, req); err != nil {
		return presenters.BodyErrorResponse(c, msg, err)
	}

	if err := actingAs(c, req.ProfileID); err != nil {
		return presenters.ErrorResponse(c, msg, err)
	}
	if err := h.recipeService.UpdateIngredients(c.UserContext(), c.Params("recipe"), *req); err != nil {
		return presenters.ErrorResponse(c, msg, err)
	}
	return presenters.SuccessResponse(c, msg, fiber.StatusOK)
}

func (h *recipeHandler) UpdateInstructions(c *fiber.Ctx) error {
	msg := domain.NewMessage(domain.DomainRecipe, domain.OperationUpdate).WithSecondary(domain.SecondaryInstructions)
	req := new(domain.RecipeInstructionsRequest)
	if err := bind(c, h.validator, req); err != nil {
		return presenters.BodyErrorResponse(c, msg, err)
	}

	if err := actingAs(c, req.ProfileID); err != nil {
		return presenters.ErrorResponse(c, msg, err)
	}
	if err := h.recipeService.UpdateInstructions(c.UserContext(), c.Params("recipe"), *req); err != nil {
		return presenters.ErrorResponse(c, msg, err)
	}
	return presenters.SuccessResponse(c, msg, fiber.StatusOK)
}

func (h *recipeHandler) UploadImage(c *fiber.Ctx) error {
	msg := domain.NewMessage(domain.DomainRecipe, domain.OperationUpdate)
	req := new(domain.RecipeImageRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.BodyErrorResponse(c, msg, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.BodyErrorResponse(c, msg, err)
	}
	image, err := c.FormFile("image")
	if err != nil {
		return presenters.BodyErrorResponse(c, msg, err)
	}

	if err := actingAs(c, req.ProfileID); err != nil {
		return presenters.ErrorResponse(c, msg, err)
	}
	url, err := h.recipeService.UploadImage(c.UserContext(), c.Params("recipe"), req.ProfileID, image)
	if err != nil {
		return presenters.ErrorResponse(c, msg, err)
	}
	return presenters.SuccessResponse(c, msg.
		WithMessage(domain.MessageSuccessUploadImage).
		WithData(fiber.Map{"imageUrl": url}), fiber.StatusOK)
}

func (h *recipeHandler) AddAssociation(c *fiber.Ctx) error {
	msg := domain.NewMessage(domain.DomainRecipe, domain.OperationCreate).WithSecondary(domain.SecondaryAuthors)
	req := new(domain.AddAssociationRequest)
	if err := bind(c, h.validator, req); err != nil {
		return presenters.BodyErrorResponse(c, msg, err)
	}

	if err := actingAs(c, req.ProfileID); err != nil {
		return presenters.ErrorResponse(c, msg, err)
	}
	if err := h.recipeService.AddAssociation(c.UserContext(), c.Params("recipe"), *req); err != nil {
		return presenters.ErrorResponse(c, msg, err)
	}
	return presenters.SuccessResponse(c, msg, fiber.StatusOK)
}

func (h *recipeHandler) RemoveAssociation(c *fiber.Ctx) error {
	msg := domain.NewMessage(domain.DomainRecipe, domain.OperationDelete).WithSecondary(domain.SecondaryAuthors)
	if err := actingAs(c, c.Params("profileId")); err != nil {
		return presenters.ErrorResponse(c, msg, err)
	}
	if err := h.recipeService.RemoveAssociation(c.UserContext(), c.Params("recipe"), c.Params("profileId")); err != nil {
		return presenters.ErrorResponse(c, msg, err)
	}
	return presenters.SuccessResponse(c, msg, fiber.StatusOK)
}

// DeleteRecipe serves DELETE /api/people/:person/recipes/:recipe. Only the owner may delete.
func (h *recipeHandler) DeleteRecipe(c *fiber.Ctx) error {
	msg := domain.NewMessage(domain.DomainRecipe, domain.OperationDelete)
	if err := actingAs(c, c.Params("person")); err != nil {
		return presenters.ErrorResponse(c, msg, err)
	}
	if err := h.recipeService.DeleteRecipe(c.UserContext(), c.Params("person"), c.Params("recipe")); err != nil {
		return presenters.ErrorResponse(c, msg, err)
	}
	return presenters.SuccessResponse(c, msg.WithMessage(domain.MessageSuccessDeleteRecipe), fiber.StatusOK)
}
