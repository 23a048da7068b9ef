package middleware

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"log/slog"
	"net"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"student-housing/internal/domain"
)

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
	TraceID string `json:"trace_id,omitempty"`
}

func errorCode(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return "BAD_REQUEST"
	case fiber.StatusUnauthorized:
		return "UNAUTHORIZED"
	case fiber.StatusForbidden:
		return "FORBIDDEN"
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusConflict:
		return "CONFLICT"
	case fiber.StatusRequestEntityTooLarge:
		return "PAYLOAD_TOO_LARGE"
	case fiber.StatusUnprocessableEntity:
		return "VALIDATION_ERROR"
	case fiber.StatusBadGateway, fiber.StatusServiceUnavailable:
		return "UPSTREAM_ERROR"
	default:
		return "INTERNAL_ERROR"
	}
}

// NewErrorHandler renders every error as ErrorResponse. Unexpected errors are
// logged with their trace id and reported with a generic message.
func NewErrorHandler(logger *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		traceID := uuid.New().String()[:8]
		resp := ErrorResponse{TraceID: traceID}
		status := fiber.StatusInternalServerError

		var fe *fiber.Error
		var verr *domain.ValidationError
		switch {
		case errors.As(err, &verr):
			status = fiber.StatusUnprocessableEntity
			resp.Message = verr.Message
			resp.Field = verr.Field
		case errors.As(err, &fe):
			status = fe.Code
			resp.Message = fe.Message
		case isUpstream(err):
			status = fiber.StatusBadGateway
			resp.Message = "Upstream service unavailable"
		default:
			resp.Message = "Internal server error"
		}
		resp.Code = errorCode(status)

		if status >= fiber.StatusInternalServerError {
			logger.Error("request failed",
				"trace_id", traceID,
				"method", c.Method(),
				"path", c.Path(),
				"status", status,
				"error", err)
		}

		return c.Status(status).JSON(resp)
	}
}

// isUpstream reports whether err comes from an unreachable or failing remote
// store rather than from a bug or a rejected statement.
func isUpstream(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Class() {
		case "08", "53", "57", "58":
			return true
		}
		return false
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}

func NewError(code int, message string) *fiber.Error {
	return fiber.NewError(code, message)
}

func BadRequest(message string) *fiber.Error {
	return fiber.NewError(fiber.StatusBadRequest, message)
}

func Unauthorized(message string) *fiber.Error {
	return fiber.NewError(fiber.StatusUnauthorized, message)
}

func NotFound(message string) *fiber.Error {
	return fiber.NewError(fiber.StatusNotFound, message)
}

func Conflict(message string) *fiber.Error {
	return fiber.NewError(fiber.StatusConflict, message)
}

func Upstream(message string) *fiber.Error {
	return fiber.NewError(fiber.StatusBadGateway, message)
}
