package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/minischetti/meal-planner-api/domain"
	"github.com/minischetti/meal-planner-api/internal/api/presenters"
	"github.com/minischetti/meal-planner-api/pkg/plan"
)

type (
	PlanHandler interface {
		GetPlans(c *fiber.Ctx) error
		GetPlan(c *fiber.Ctx) error
		CreatePlan(c *fiber.Ctx) error
		DeletePlan(c *fiber.Ctx) error
		SetDay(c *fiber.Ctx) error
		RemoveDay(c *fiber.Ctx) error
		SetActive(c *fiber.Ctx) error
	}

	planHandler struct {
		planService plan.PlanService
		validator   *validator.Validate
	}
)

func NewPlanHandler(planService plan.PlanService, validator *validator.Validate) PlanHandler {
	return &planHandler{
		planService: planService,
		validator:   validator,
	}
}

func (h *planHandler) GetPlans(c *fiber.Ctx) error {
	plans, err := h.planService.GetPlans(c.UserContext(), c.Params("person"))
	if err != nil {
		return presenters.ErrorResponse(c, domain.NewMessage(domain.DomainPlan, domain.OperationGet), err)
	}
	return presenters.DataResponse(c, plans)
}

func (h *planHandler) GetPlan(c *fiber.Ctx) error {
	p, err := h.planService.GetPlan(c.UserContext(), c.Params("person"), c.Params("plan"))
	if err != nil {
		msg := domain.NewMessage(domain.DomainPeople, domain.OperationGet).WithSecondary(domain.SecondaryPlans)
		return presenters.ErrorResponse(c, msg, err)
	}
	return presenters.DataResponse(c, p)
}

func (h *planHandler) CreatePlan(c *fiber.Ctx) error {
	msg := domain.NewMessage(domain.DomainPlan, domain.OperationCreate)
	req := new(domain.CreatePlanRequest)
	if err := bind(c, h.validator, req); err != nil {
		return presenters.BodyErrorResponse(c, msg, err)
	}

	if err := actingAs(c, c.Params("person")); err != nil {
		return presenters.ErrorResponse(c, msg, err)
	}
	p, err := h.planService.CreatePlan(c.UserContext(), c.Params("person"), *req)
	if err != nil {
		return presenters.ErrorResponse(c, msg, err)
	}
	return presenters.SuccessResponse(c, msg.WithData(p), fiber.StatusOK)
}

func (h *planHandler) DeletePlan(c *fiber.Ctx) error {
	msg := domain.NewMessage(domain.DomainPlan, domain.OperationDelete)
	if err := actingAs(c, c.Params("person")); err != nil {
		return presenters.ErrorResponse(c, msg, err)
	}
	if err := h.planService.DeletePlan(c.UserContext(), c.Params("person"), c.Params("plan")); err != nil {
		return presenters.ErrorResponse(c, msg, err)
	}
	return presenters.SuccessResponse(c, msg, fiber.StatusOK)
}

func (h *planHandler) SetDay(c *fiber.Ctx) error {
	msg := domain.NewMessage(domain.DomainPlan, domain.OperationCreate)
	req := new(domain.PlanDayRequest)
	if err := bind(c, h.validator, req); err != nil {
		return presenters.BodyErrorResponse(c, msg, err)
	}

	if err := actingAs(c, c.Params("person")); err != nil {
		return presenters.ErrorResponse(c, msg, err)
	}
	if err := h.planService.SetDay(c.UserContext(), c.Params("person"), c.Params("plan"), *req); err != nil {
		return presenters.ErrorResponse(c, msg, err)
	}
	return presenters.SuccessResponse(c, msg, fiber.StatusOK)
}

func (h *planHandler) RemoveDay(c *fiber.Ctx) error {
	msg := domain.NewMessage(domain.DomainPlan, domain.OperationDelete)
	if err := actingAs(c, c.Params("person")); err != nil {
		return presenters.ErrorResponse(c, msg, err)
	}
	if err := h.planService.RemoveDay(c.UserContext(), c.Params("person"), c.Params("plan"), c.Params("day")); err != nil {
		return presenters.ErrorResponse(c, msg, err)
	}
	return presenters.SuccessResponse(c, msg, fiber.StatusOK)
}

func (h *planHandler) SetActive(c *fiber.Ctx) error {
	msg := domain.NewMessage(domain.DomainPlan, domain.OperationUpdate)
	id := c.Params("plan")
	if err := actingAs(c, c.Params("person")); err != nil {
		return presenters.ErrorResponse(c, msg, err)
	}
	if err := h.planService.SetActive(c.UserContext(), c.Params("person"), id); err != nil {
		return presenters.ErrorResponse(c, msg, err)
	}
	return presenters.SuccessResponse(c, msg.WithMessage("set "+id+" as the active meal plan"), fiber.StatusOK)
}
