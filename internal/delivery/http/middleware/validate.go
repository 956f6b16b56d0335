package middleware

import (
	"skill-ledger/internal/delivery/http/validation"
	"skill-ledger/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type ValidateMiddleware struct {
	v *validation.Validator
}

func NewValidateMiddleware(v *validation.Validator) *ValidateMiddleware {
	return &ValidateMiddleware{v: v}
}

// Body checks the request body against the named schema before the
// handler binds it.
func (m *ValidateMiddleware) Body(schema string) fiber.Handler {
	return func(c fiber.Ctx) error {
		if m == nil || m.v == nil {
			return c.Next()
		}
		errs, err := m.v.Validate(c.Context(), schema, c.Body())
		if err != nil {
			return NewAppError(fiber.StatusInternalServerError, "", nil, err)
		}
		if len(errs) > 0 {
			return NewAppError(fiber.StatusBadRequest, response.MessageValidationFailed, errs, nil)
		}
		return c.Next()
	}
}
