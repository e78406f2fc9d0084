package handlers

import (
	"material-kb/internal/service"
	"material-kb/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func getUserID(c *fiber.Ctx) (uuid.UUID, error) {
	userIDStr, ok := c.Locals(middleware.LocalUserID).(string)
	if !ok {
		return uuid.Nil, fiber.ErrUnauthorized
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, err
	}

	return userID, nil
}

// getActor returns the reviewer name recorded on approval decisions.
func getActor(c *fiber.Ctx) string {
	if username, ok := c.Locals(middleware.LocalUsername).(string); ok && username != "" {
		return username
	}
	if email, ok := c.Locals(middleware.LocalEmail).(string); ok && email != "" {
		return email
	}
	return service.SystemActor
}
