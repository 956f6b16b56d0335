package middleware

import (
	"errors"
	"log"

	"skill-ledger/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type AppError struct {
	StatusCode int
	Message    string
	Data       interface{}
	Cause      error
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func NewAppError(statusCode int, message string, data interface{}, cause error) *AppError {
	return &AppError{StatusCode: statusCode, Message: message, Data: data, Cause: cause}
}

type ErrorMiddleware struct {
	logger *log.Logger
}

func NewErrorMiddleware(logger *log.Logger) *ErrorMiddleware {
	if logger == nil {
		logger = log.Default()
	}
	return &ErrorMiddleware{logger: logger}
}

func (m *ErrorMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				rid := requestID(c)
				m.logger.Printf("[HTTP] panic recovered | request_id=%s path=%s panic=%v", rid, c.Path(), r)
				err = response.Error(c, fiber.StatusInternalServerError, "", response.Hidden{RequestID: rid})
			}
		}()

		err = c.Next()
		if err == nil {
			return nil
		}

		status, msg, data := normalizeError(err)
		if status >= 500 {
			rid := requestID(c)
			m.logger.Printf("[HTTP] request failed | request_id=%s path=%s status=%d err=%v", rid, c.Path(), status, err)
			if status != fiber.StatusServiceUnavailable {
				data = response.Hidden{RequestID: rid}
			}
		}
		return response.Error(c, status, msg, data)
	}
}

func requestID(c fiber.Ctx) string {
	if rid, ok := c.Locals(CtxRequestIDKey).(string); ok {
		return rid
	}
	return ""
}

// normalizeError maps err to an envelope. Causes of 5xx never reach the
// body, except that a 503 keeps its message so callers can tell a store or
// ledger outage apart from a bug.
func normalizeError(err error) (int, string, interface{}) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		status := appErr.StatusCode
		switch {
		case status <= 0:
			return fiber.StatusInternalServerError, response.MessageInternalServerError, nil
		case status == fiber.StatusServiceUnavailable:
			return status, messageOr(appErr.Message, status), nil
		case status >= 500:
			return fiber.StatusInternalServerError, response.MessageInternalServerError, nil
		}
		return status, messageOr(appErr.Message, status), appErr.Data
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		status := fiberErr.Code
		if status == fiber.StatusServiceUnavailable {
			return status, messageOr(fiberErr.Message, status), nil
		}
		if status <= 0 || status >= 500 {
			return fiber.StatusInternalServerError, response.MessageInternalServerError, nil
		}
		return status, messageOr(fiberErr.Message, status), nil
	}

	return fiber.StatusInternalServerError, response.MessageInternalServerError, nil
}

func messageOr(msg string, status int) string {
	if msg != "" {
		return msg
	}
	return response.DefaultMessage(status)
}
