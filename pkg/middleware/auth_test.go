package middleware

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"material-kb/pkg/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestAuthMiddleware(t *testing.T) {
	jwtManager := auth.NewJWTManager("secret", time.Hour, time.Hour)
	app := fiber.New()
	app.Get("/me", AuthMiddleware(jwtManager, zaptest.NewLogger(t)), func(c *fiber.Ctx) error {
		return c.SendString(c.Locals(LocalUsername).(string))
	})

	access, err := jwtManager.GenerateToken("u-1", "alice", "alice@example.com")
	require.NoError(t, err)
	refresh, err := jwtManager.GenerateRefreshToken("u-1")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{name: "missing", header: "", status: fiber.StatusUnauthorized},
		{name: "garbage", header: "Bearer nope", status: fiber.StatusUnauthorized},
		{name: "refresh token", header: "Bearer " + refresh, status: fiber.StatusUnauthorized},
		{name: "bearer", header: "Bearer " + access, status: fiber.StatusOK},
		{name: "bare token", header: access, status: fiber.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/me", nil)
			if tt.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
			if tt.status == fiber.StatusOK {
				body, _ := io.ReadAll(resp.Body)
				assert.Equal(t, "alice", string(body))
			}
		})
	}
}
