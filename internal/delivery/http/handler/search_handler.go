package handler

import (
	"skill-ledger/internal/delivery/http/dto"
	"skill-ledger/internal/delivery/http/middleware"
	"skill-ledger/internal/delivery/http/validation"
	"skill-ledger/internal/pkg/response"
	"skill-ledger/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type SearchHandler struct {
	uc usecase.SearchUsecase
}

func NewSearchHandler(uc usecase.SearchUsecase) *SearchHandler {
	return &SearchHandler{uc: uc}
}

func (h *SearchHandler) RegisterRoutes(r fiber.Router, v *middleware.ValidateMiddleware) {
	if r == nil {
		return
	}

	grp := r.Group("/employee")
	grp.Post("/searchSkill", v.Body(validation.Search), h.Search)
	grp.Post("/search/analytics/date", h.ByDate)
	grp.Post("/search/analytics/loc", h.ByLocation)
}

func (h *SearchHandler) Search(c fiber.Ctx) error {
	var req dto.SearchRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}

	hits, err := h.uc.Search(c.Context(), usecase.SearchInput{
		Query:      req.Query,
		Location:   req.Loc,
		Date:       req.Date,
		SortByProf: req.SortByProf,
	})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, hits)
}

func (h *SearchHandler) ByDate(c fiber.Ctx) error {
	trends, err := h.uc.AnalyticsByDate(c.Context())
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, trends)
}

func (h *SearchHandler) ByLocation(c fiber.Ctx) error {
	trends, err := h.uc.AnalyticsByLocation(c.Context())
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, trends)
}
