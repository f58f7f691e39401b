package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/minischetti/meal-planner-api/domain"
	"github.com/minischetti/meal-planner-api/internal/api/presenters"
	"github.com/minischetti/meal-planner-api/pkg/people"
)

type (
	PeopleHandler interface {
		CreatePerson(c *fiber.Ctx) error
		GetPerson(c *fiber.Ctx) error
		UpdatePerson(c *fiber.Ctx) error
		GetRecipes(c *fiber.Ctx) error
		GetGroups(c *fiber.Ctx) error
		GetInvites(c *fiber.Ctx) error
		AnswerInvite(c *fiber.Ctx) error
	}

	peopleHandler struct {
		peopleService people.PeopleService
		validator     *validator.Validate
	}
)

func NewPeopleHandler(peopleService people.PeopleService, validator *validator.Validate) PeopleHandler {
	return &peopleHandler{
		peopleService: peopleService,
		validator:     validator,
	}
}

func (h *peopleHandler) CreatePerson(c *fiber.Ctx) error {
	msg := domain.NewMessage(domain.DomainPeople, domain.OperationCreate)
	req := new(domain.CreatePersonRequest)
	if err := bind(c, h.validator, req); err != nil {
		return presenters.BodyErrorResponse(c, msg, err)
	}

	if err := actingAs(c, req.ID); err != nil {
		return presenters.ErrorResponse(c, msg, err)
	}
	person, err := h.peopleService.CreatePerson(c.UserContext(), *req)
	if err != nil {
		return presenters.ErrorResponse(c, msg, err)
	}
	return presenters.SuccessResponse(c, msg.WithData(person), fiber.StatusOK)
}

func (h *peopleHandler) GetPerson(c *fiber.Ctx) error {
	person, err := h.peopleService.GetPerson(c.UserContext(), c.Params("person"))
	if err != nil {
		return presenters.ErrorResponse(c, domain.NewMessage(domain.DomainPeople, domain.OperationGet), err)
	}
	return presenters.DataResponse(c, person)
}

func (h *peopleHandler) UpdatePerson(c *fiber.Ctx) error {
	msg := domain.NewMessage(domain.DomainPeople, domain.OperationUpdate)
	req := new(domain.UpdatePersonRequest)
	if err := bind(c, h.validator, req); err != nil {
		return presenters.BodyErrorResponse(c, msg, err)
	}

	if err := actingAs(c, c.Params("person")); err != nil {
		return presenters.ErrorResponse(c, msg, err)
	}
	person, err := h.peopleService.UpdatePerson(c.UserContext(), c.Params("person"), *req)
	if err != nil {
		return presenters.ErrorResponse(c, msg, err)
	}
	return presenters.SuccessResponse(c, msg.WithData(person), fiber.StatusOK)
}

func (h *peopleHandler) GetRecipes(c *fiber.Ctx) error {
	recipes, err := h.peopleService.GetRecipes(c.UserContext(), c.Params("person"))
	if err != nil {
		msg := domain.NewMessage(domain.DomainPeople, domain.OperationGet).WithSecondary(domain.SecondaryRecipes)
		return presenters.ErrorResponse(c, msg, err)
	}
	return presenters.DataResponse(c, recipes)
}

func (h *peopleHandler) GetGroups(c *fiber.Ctx) error {
	groups, err := h.peopleService.GetGroups(c.UserContext(), c.Params("person"))
	if err != nil {
		msg := domain.NewMessage(domain.DomainPeople, domain.OperationGet).WithSecondary(domain.SecondaryGroups)
		return presenters.ErrorResponse(c, msg, err)
	}
	return presenters.DataResponse(c, groups)
}

func (h *peopleHandler) GetInvites(c *fiber.Ctx) error {
	invites, err := h.peopleService.GetInvites(c.UserContext(), c.Params("person"))
	if err != nil {
		msg := domain.NewMessage(domain.DomainPeople, domain.OperationGet).WithSecondary(domain.SecondaryInvites)
		return presenters.ErrorResponse(c, msg, err)
	}
	return presenters.DataResponse(c, invites)
}

func (h *peopleHandler) AnswerInvite(c *fiber.Ctx) error {
	msg := domain.NewMessage(domain.DomainPeople, domain.OperationUpdate).WithSecondary(domain.SecondaryInvites)
	req := new(domain.InviteAnswerRequest)
	if err := bind(c, h.validator, req); err != nil {
		return presenters.BodyErrorResponse(c, msg, err)
	}

	if err := actingAs(c, c.Params("person")); err != nil {
		return presenters.ErrorResponse(c, msg, err)
	}
	if err := h.peopleService.AnswerInvite(c.UserContext(), c.Params("person"), c.Params("invite"), *req.Answer); err != nil {
		return presenters.ErrorResponse(c, msg, err)
	}
	return presenters.SuccessResponse(c, msg, fiber.StatusOK)
}
