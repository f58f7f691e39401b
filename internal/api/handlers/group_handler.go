package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/minischetti/meal-planner-api/domain"
	"github.com/minischetti/meal-planner-api/internal/api/presenters"
	"github.com/minischetti/meal-planner-api/pkg/group"
)

type (
	GroupHandler interface {
		CreateGroup(c *fiber.Ctx) error
		GetGroups(c *fiber.Ctx) error
		GetGroup(c *fiber.Ctx) error
		GetMembers(c *fiber.Ctx) error
		GetInvites(c *fiber.Ctx) error
		SendInvite(c *fiber.Ctx) error
		GetRecipes(c *fiber.Ctx) error
		LinkRecipe(c *fiber.Ctx) error
		UnlinkRecipe(c *fiber.Ctx) error
	}

	groupHandler struct {
		groupService group.GroupService
		validator    *validator.Validate
	}
)

func NewGroupHandler(groupService group.GroupService, validator *validator.Validate) GroupHandler {
	return &groupHandler{
		groupService: groupService,
		validator:    validator,
	}
}

func (h *groupHandler) CreateGroup(c *fiber.Ctx) error {
	msg := domain.NewMessage(domain.DomainGroup, domain.OperationCreate)
	req := new(domain.CreateGroupRequest)
	if err := bind(c, h.validator, req); err != nil {
		return presenters.BodyErrorResponse(c, msg, err)
	}

	if err := actingAs(c, req.ProfileID); err != nil {
		return presenters.ErrorResponse(c, msg, err)
	}
	g, err := h.groupService.CreateGroup(c.UserContext(), *req)
	if err != nil {
		return presenters.ErrorResponse(c, msg, err)
	}
	return presenters.SuccessResponse(c, msg.WithData(g), fiber.StatusOK)
}

func (h *groupHandler) GetGroups(c *fiber.Ctx) error {
	groups, err := h.groupService.GetGroups(c.UserContext())
	if err != nil {
		return presenters.ErrorResponse(c, domain.NewMessage(domain.DomainGroup, domain.OperationGet), err)
	}
	return presenters.DataResponse(c, groups)
}

func (h *groupHandler) GetGroup(c *fiber.Ctx) error {
	g, err := h.groupService.GetGroup(c.UserContext(), c.Params("group"))
	if err != nil {
		return presenters.ErrorResponse(c, domain.NewMessage(domain.DomainGroup, domain.OperationGet), err)
	}
	return presenters.DataResponse(c, g)
}

func (h *groupHandler) GetMembers(c *fiber.Ctx) error {
	members, err := h.groupService.GetMembers(c.UserContext(), c.Params("group"))
	if err != nil {
		msg := domain.NewMessage(domain.DomainGroup, domain.OperationGet).WithSecondary(domain.SecondaryGroupMembers)
		return presenters.ErrorResponse(c, msg, err)
	}
	return presenters.DataResponse(c, members)
}

func (h *groupHandler) GetInvites(c *fiber.Ctx) error {
	invites, err := h.groupService.GetInvites(c.UserContext(), c.Params("group"))
	if err != nil {
		msg := domain.NewMessage(domain.DomainGroup, domain.OperationGet).WithSecondary(domain.SecondaryInvites)
		return presenters.ErrorResponse(c, msg, err)
	}
	return presenters.DataResponse(c, invites)
}

func (h *groupHandler) SendInvite(c *fiber.Ctx) error {
	msg := domain.NewMessage(domain.DomainGroup, domain.OperationCreate).WithSecondary(domain.SecondaryInvites)
	req := new(domain.SendInviteRequest)
	if err := bind(c, h.validator, req); err != nil {
		return presenters.BodyErrorResponse(c, msg, err)
	}

	if err := actingAs(c, req.Sender); err != nil {
		return presenters.ErrorResponse(c, msg, err)
	}
	invite, err := h.groupService.SendInvite(c.UserContext(), c.Params("group"), *req)
	if err != nil {
		return presenters.ErrorResponse(c, msg, err)
	}
	return presenters.SuccessResponse(c, msg.WithData(invite), fiber.StatusOK)
}

func (h *groupHandler) GetRecipes(c *fiber.Ctx) error {
	recipes, err := h.groupService.GetRecipes(c.UserContext(), c.Params("group"))
	if err != nil {
		msg := domain.NewMessage(domain.DomainGroup, domain.OperationGet).WithSecondary(domain.SecondaryRecipes)
		return presenters.ErrorResponse(c, msg, err)
	}
	return presenters.DataResponse(c, recipes)
}

func (h *groupHandler) LinkRecipe(c *fiber.Ctx) error {
	msg := domain.NewMessage(domain.DomainGroup, domain.OperationCreate).WithSecondary(domain.SecondaryRecipes)
	req := new(domain.LinkRecipeRequest)
	if err := bind(c, h.validator, req); err != nil {
		return presenters.BodyErrorResponse(c, msg, err)
	}

	if err := h.groupService.LinkRecipe(c.UserContext(), c.Params("group"), *req); err != nil {
		return presenters.ErrorResponse(c, msg, err)
	}
	return presenters.SuccessResponse(c, msg, fiber.StatusOK)
}

func (h *groupHandler) UnlinkRecipe(c *fiber.Ctx) error {
	msg := domain.NewMessage(domain.DomainGroup, domain.OperationDelete).WithSecondary(domain.SecondaryRecipes)
	if err := h.groupService.UnlinkRecipe(c.UserContext(), c.Params("group"), c.Params("recipe")); err != nil {
		return presenters.ErrorResponse(c, msg, err)
	}
	return presenters.SuccessResponse(c, msg, fiber.StatusOK)
}
