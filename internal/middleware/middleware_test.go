package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"student-housing/internal/domain"
)

func TestErrorHandler(t *testing.T) {
	refused := &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}

	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"fiber error", NotFound("Listing not found"), fiber.StatusNotFound, "NOT_FOUND"},
		{"validation error", domain.NewValidationError("message", "is required"), fiber.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"upstream", Upstream("Store unavailable"), fiber.StatusBadGateway, "UPSTREAM_ERROR"},
		{"dial failure", refused, fiber.StatusBadGateway, "UPSTREAM_ERROR"},
		{"wrapped dial failure", fmt.Errorf("failed to get listing: %w", refused), fiber.StatusBadGateway, "UPSTREAM_ERROR"},
		{"store timeout", context.DeadlineExceeded, fiber.StatusBadGateway, "UPSTREAM_ERROR"},
		{"admin shutdown", &pq.Error{Code: "57P01"}, fiber.StatusBadGateway, "UPSTREAM_ERROR"},
		{"constraint violation", &pq.Error{Code: "23505"}, fiber.StatusInternalServerError, "INTERNAL_ERROR"},
		{"unexpected", errors.New("template: no such key"), fiber.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New(fiber.Config{ErrorHandler: NewErrorHandler(slog.New(slog.NewTextHandler(io.Discard, nil)))})
			app.Get("/", func(c *fiber.Ctx) error { return tc.err })

			resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)

			var body ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tc.code, body.Code)
			assert.NotEmpty(t, body.TraceID)
			switch tc.code {
			case "INTERNAL_ERROR":
				assert.Equal(t, "Internal server error", body.Message)
			case "UPSTREAM_ERROR":
				assert.NotContains(t, body.Message, "refused")
			}
		})
	}
}

func TestBearerToken(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		token, ok := bearerToken(c)
		if !ok {
			return c.SendStatus(fiber.StatusUnauthorized)
		}
		return c.SendString(token)
	})

	t.Run("Header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer abc")
		resp, err := app.Test(req)
		require.NoError(t, err)
		body, _ := io.ReadAll(resp.Body)
		assert.Equal(t, "abc", string(body))
	})

	t.Run("Query fallback", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/?access_token=xyz", nil))
		require.NoError(t, err)
		body, _ := io.ReadAll(resp.Body)
		assert.Equal(t, "xyz", string(body))
	})

	t.Run("Malformed", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Token abc")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})
}
