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

type AdminHandler struct {
	uc usecase.EmployeeUsecase
}

func NewAdminHandler(uc usecase.EmployeeUsecase) *AdminHandler {
	return &AdminHandler{uc: uc}
}

// RegisterRoutes expects r to already carry the admin auth middleware.
func (h *AdminHandler) RegisterRoutes(r fiber.Router, v *middleware.ValidateMiddleware) {
	if r == nil {
		return
	}

	grp := r.Group("/user")
	grp.Post("/approve", v.Body(validation.EmpID), h.verify(employee.VerificationApproved))
	grp.Post("/reject", v.Body(validation.EmpID), h.verify(employee.VerificationRejected))
	grp.Get("/all", h.All)
}

func (h *AdminHandler) verify(status int) fiber.Handler {
	return func(c fiber.Ctx) error {
		var req dto.EmpIDRequest
		if err := c.Bind().Body(&req); err != nil {
			return badRequest(err)
		}
		id, err := req.ID()
		if err != nil {
			return badRequest(err)
		}

		if err := h.uc.SetVerification(c.Context(), id, status); err != nil {
			return mapUsecaseError(err)
		}
		return response.Success(c, fiber.StatusOK, response.MessageOK, dto.VerificationResponse{EmpID: id, Verified: status})
	}
}

func (h *AdminHandler) All(c fiber.Ctx) error {
	items, err := h.uc.ListEmployees(c.Context())
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, items)
}
