package handlers

import (
	"github.com/gofiber/fiber/v2"

	"minimart/internal/domain"
)

// message writes the standard {"message": ...} error body.
func message(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"message": msg})
}

func currentUser(c *fiber.Ctx) *domain.User {
	u, _ := c.Locals("user").(*domain.User)
	return u
}
