package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"minimart/internal/domain"
	applog "minimart/internal/log"
	"minimart/internal/services"
)

// Protect verifies the bearer token, loads the user and attaches it to the
// request context. No token, a bad token, or a deleted user all fail 401.
func Protect(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(header, "Bearer ") {
			return message(c, fiber.StatusUnauthorized, "Not authorized, no token.")
		}
		u, err := auth.UserFromToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			applog.Security(c, "auth.token.fail", nil)
			return message(c, fiber.StatusUnauthorized, "Not authorized, token failed.")
		}
		c.Locals("user", u)
		c.Locals("userID", u.ID)
		return c.Next()
	}
}

// RequireSeller gates seller-only routes. Must run after Protect.
func RequireSeller() fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := currentUser(c)
		if u == nil || u.Role != domain.RoleSeller {
			applog.Security(c, "access.denied.seller", nil)
			return message(c, fiber.StatusForbidden, "Forbidden. Access restricted to sellers.")
		}
		return c.Next()
	}
}
