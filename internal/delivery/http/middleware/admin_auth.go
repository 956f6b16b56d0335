package middleware

import (
	"errors"
	"strings"

	"skill-ledger/internal/pkg/jwt"

	"github.com/gofiber/fiber/v3"
)

const CtxAdminSubjectKey = "admin_subject"

type AdminAuthMiddleware struct {
	jwt jwt.Service
}

// NewAdminAuthMiddleware returns a middleware that lets every request
// through when jwtSvc is nil.
func NewAdminAuthMiddleware(jwtSvc jwt.Service) *AdminAuthMiddleware {
	return &AdminAuthMiddleware{jwt: jwtSvc}
}

func (m *AdminAuthMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		if m == nil || m.jwt == nil {
			return c.Next()
		}

		token, ok := bearerTokenFromHeader(c.Get("Authorization"))
		if !ok {
			return NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
		}

		claims, err := m.jwt.ValidateAdminToken(token)
		if err != nil {
			switch {
			case errors.Is(err, jwt.ErrTokenExpired):
				return NewAppError(fiber.StatusUnauthorized, "Token expired", nil, err)
			case errors.Is(err, jwt.ErrNotAdmin):
				return NewAppError(fiber.StatusForbidden, "Admin role required", nil, err)
			default:
				return NewAppError(fiber.StatusUnauthorized, "Invalid token", nil, err)
			}
		}

		c.Locals(CtxAdminSubjectKey, claims.Subject)
		return c.Next()
	}
}

func bearerTokenFromHeader(authHeader string) (string, bool) {
	authHeader = strings.TrimSpace(authHeader)
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}

	return token, true
}
