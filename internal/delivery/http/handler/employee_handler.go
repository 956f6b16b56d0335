package handler

import (
	"skill-ledger/internal/delivery/http/dto"
	"skill-ledger/internal/delivery/http/middleware"
	"skill-ledger/internal/delivery/http/validation"
	"skill-ledger/internal/domain/employee"
	"skill-ledger/internal/pkg/response"
	"skill-ledger/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type EmployeeHandler struct {
	uc usecase.EmployeeUsecase
}

func NewEmployeeHandler(uc usecase.EmployeeUsecase) *EmployeeHandler {
	return &EmployeeHandler{uc: uc}
}

func (h *EmployeeHandler) RegisterRoutes(r fiber.Router, v *middleware.ValidateMiddleware) {
	if r == nil {
		return
	}

	grp := r.Group("/employee")
	grp.Post("/add", v.Body(validation.EmployeeAdd), h.Add)
	grp.Post("/get", v.Body(validation.EmpID), h.Get)
	grp.Get("/getByEmail", h.GetByEmail)
	grp.Post("/skill/meta", h.SkillMeta)
}

func (h *EmployeeHandler) Add(c fiber.Ctx) error {
	var req employee.Employee
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}

	created, err := h.uc.AddEmployee(c.Context(), req)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, created)
}

func (h *EmployeeHandler) Get(c fiber.Ctx) error {
	var req dto.EmpIDRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}
	id, err := req.ID()
	if err != nil {
		return badRequest(err)
	}

	e, err := h.uc.GetEmployee(c.Context(), id)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, e)
}

func (h *EmployeeHandler) GetByEmail(c fiber.Ctx) error {
	e, err := h.uc.GetEmployeeByEmail(c.Context(), c.Query("email"))
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, e)
}

func (h *EmployeeHandler) SkillMeta(c fiber.Ctx) error {
	data, err := h.uc.SkillMeta(c.Context())
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, data)
}
