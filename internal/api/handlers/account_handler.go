package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/minischetti/meal-planner-api/domain"
	"github.com/minischetti/meal-planner-api/internal/api/presenters"
	"github.com/minischetti/meal-planner-api/internal/middleware"
	"github.com/minischetti/meal-planner-api/pkg/account"
	"github.com/minischetti/meal-planner-api/pkg/jwt"
)

type (
	AccountHandler interface {
		Register(c *fiber.Ctx) error
		Login(c *fiber.Ctx) error
		Logout(c *fiber.Ctx) error
	}

	accountHandler struct {
		accountService account.AccountService
		validator      *validator.Validate
	}
)

func NewAccountHandler(accountService account.AccountService, validator *validator.Validate) AccountHandler {
	return &accountHandler{
		accountService: accountService,
		validator:      validator,
	}
}

func (h *accountHandler) Register(c *fiber.Ctx) error {
	msg := domain.NewMessage(domain.DomainPeople, domain.OperationCreate)
	req := new(domain.AccountRequest)
	if err := bind(c, h.validator, req); err != nil {
		return presenters.BodyErrorResponse(c, msg, err)
	}

	res, err := h.accountService.Register(c.UserContext(), *req)
	if err != nil {
		return presenters.ErrorResponse(c, msg.WithMessage(domain.MessageFailedRegister), err)
	}
	return presenters.SuccessResponse(c, msg.WithMessage(domain.MessageSuccessRegister).WithData(res), fiber.StatusOK)
}

func (h *accountHandler) Login(c *fiber.Ctx) error {
	msg := domain.NewMessage(domain.DomainPeople, domain.OperationGet)
	req := new(domain.AccountRequest)
	if err := bind(c, h.validator, req); err != nil {
		return presenters.BodyErrorResponse(c, msg, err)
	}

	res, err := h.accountService.Login(c.UserContext(), *req)
	if err != nil {
		return presenters.ErrorResponse(c, msg, err)
	}
	return presenters.SuccessResponse(c, msg.WithMessage(domain.MessageSuccessLogin).WithData(res), fiber.StatusOK)
}

func (h *accountHandler) Logout(c *fiber.Ctx) error {
	msg := domain.NewMessage(domain.DomainPeople, domain.OperationUpdate)
	sub, ok := c.Locals(middleware.LocalSubject).(jwt.Subject)
	if !ok {
		return presenters.ErrorResponse(c, msg, domain.ErrTokenNotFound)
	}

	if err := h.accountService.Logout(c.UserContext(), sub); err != nil {
		return presenters.ErrorResponse(c, msg.WithMessage(domain.MessageFailedLogout), err)
	}
	return presenters.SuccessResponse(c, msg.WithMessage(domain.MessageSuccessLogout), fiber.StatusOK)
}
