package handler

import (
	"context"

	"skill-ledger/internal/delivery/http/dto"
	"skill-ledger/internal/delivery/http/middleware"
	"skill-ledger/internal/delivery/http/validation"
	"skill-ledger/internal/domain/employee"
	"skill-ledger/internal/pkg/response"
	"skill-ledger/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type SkillHandler struct {
	uc usecase.SkillUsecase
}

func NewSkillHandler(uc usecase.SkillUsecase) *SkillHandler {
	return &SkillHandler{uc: uc}
}

func (h *SkillHandler) RegisterRoutes(r fiber.Router, v *middleware.ValidateMiddleware) {
	if r == nil {
		return
	}

	emp := r.Group("/employee")
	emp.Post("/skill/add", v.Body(validation.SkillAdd), h.Add)
	emp.Post("/skill/comment", v.Body(validation.SkillComment), h.Comment)
	emp.Post("/skill/confirm", v.Body(validation.SkillRef), h.Confirm)
	emp.Post("/skill/resync", v.Body(validation.SkillRef), h.Resync)
	emp.Post("/skills", v.Body(validation.EmpID), h.LedgerSkills)

	r.Post("/manager/getPendingSkills", v.Body(validation.ManagerPending), h.Pending)
}

func (h *SkillHandler) Add(c fiber.Ctx) error {
	var req dto.SkillAddRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}
	id, err := req.ID()
	if err != nil {
		return badRequest(err)
	}

	sk, err := h.uc.AddSkill(c.Context(), id, req.Skill.Input())
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, sk)
}

func (h *SkillHandler) Comment(c fiber.Ctx) error {
	var req dto.SkillCommentRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}
	id, err := req.ID()
	if err != nil {
		return badRequest(err)
	}

	sk, err := h.uc.CommentSkill(c.Context(), id, req.Ref(), usecase.CommentInput{
		Message:        req.Comment.Message,
		SenderName:     req.Comment.SenderName,
		SenderID:       req.Comment.SenderID,
		NewProficiency: req.Comment.NewProficiency,
	})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, sk)
}

func (h *SkillHandler) Confirm(c fiber.Ctx) error {
	return h.mirror(c, h.uc.ConfirmSkill)
}

func (h *SkillHandler) Resync(c fiber.Ctx) error {
	return h.mirror(c, h.uc.ResyncSkill)
}

type mirrorFunc func(ctx context.Context, empID int64, ref employee.SkillRef) (usecase.ConfirmResult, error)

func (h *SkillHandler) mirror(c fiber.Ctx, fn mirrorFunc) error {
	var req dto.SkillRefRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}
	id, err := req.ID()
	if err != nil {
		return badRequest(err)
	}

	res, err := fn(c.Context(), id, req.Ref())
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

func (h *SkillHandler) LedgerSkills(c fiber.Ctx) error {
	var req dto.EmpIDRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}
	id, err := req.ID()
	if err != nil {
		return badRequest(err)
	}

	skills, err := h.uc.LedgerSkills(c.Context(), id)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.LedgerSkillsResponse{Skills: skills})
}

func (h *SkillHandler) Pending(c fiber.Ctx) error {
	var req dto.ManagerRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}
	id, err := req.ID()
	if err != nil {
		return badRequest(err)
	}

	items, err := h.uc.PendingSkills(c.Context(), id)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, items)
}
