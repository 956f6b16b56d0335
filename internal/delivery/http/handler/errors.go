package handler

import (
	"errors"

	"skill-ledger/internal/delivery/http/dto"
	"skill-ledger/internal/delivery/http/middleware"
	"skill-ledger/internal/pkg/response"
	"skill-ledger/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

func mapUsecaseError(err error) error {
	var be *usecase.BackendError
	switch {
	case errors.As(err, &be):
		return middleware.NewAppError(fiber.StatusBadRequest, response.MessageStoreError, dto.BackendErrorResponse{Error: be.Error()}, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	case errors.Is(err, usecase.ErrManagerNotFound):
		return middleware.NewAppError(fiber.StatusBadRequest, "Manager not found", nil, err)
	case errors.Is(err, usecase.ErrEmployeeNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Employee not found", nil, err)
	case errors.Is(err, usecase.ErrSkillNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Skill not found", nil, err)
	case errors.Is(err, usecase.ErrSkillMetaNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Skills metadata not found", nil, err)
	case errors.Is(err, usecase.ErrSkillAlreadyConfirmed):
		return middleware.NewAppError(fiber.StatusConflict, "Skill already confirmed", nil, err)
	case errors.Is(err, usecase.ErrSkillNotResyncable):
		return middleware.NewAppError(fiber.StatusConflict, "Skill is not awaiting resync", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, "", nil, err)
	}
}

func badRequest(err error) error {
	return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
}
