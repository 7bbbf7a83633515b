package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	applog "minimart/internal/log"
	"minimart/internal/services"
	"minimart/internal/validate"
)

type AuthHandler struct {
	Auth *services.AuthService
}

type credentialsBody struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// POST /api/users/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var body credentialsBody
	if err := c.BodyParser(&body); err != nil {
		return message(c, fiber.StatusBadRequest, "Invalid request body.")
	}
	name, okName := validate.Name(body.Name)
	email, okEmail := validate.Email(body.Email)
	if !okName || !okEmail || !validate.Password(body.Password) {
		return message(c, fiber.StatusBadRequest, "Please enter all required fields.")
	}

	u, tok, err := h.Auth.Register(name, email, body.Password, body.Role)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmailTaken):
			return message(c, fiber.StatusBadRequest, "User with this email already exists.")
		case errors.Is(err, services.ErrSellerExists):
			return message(c, fiber.StatusBadRequest, "A Seller account already exists. Only one is allowed.")
		default:
			applog.Error(c, "auth.register.fail", err, nil)
			return message(c, fiber.StatusInternalServerError, "Server error during user registration.")
		}
	}
	applog.Audit(c, "auth.register", map[string]any{"user_id": u.ID, "role": u.Role})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id": u.ID, "name": u.Name, "email": u.Email, "role": u.Role, "token": tok,
	})
}

// POST /api/users/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var body credentialsBody
	if err := c.BodyParser(&body); err != nil {
		return message(c, fiber.StatusBadRequest, "Invalid request body.")
	}
	if body.Email == "" || body.Password == "" {
		return message(c, fiber.StatusBadRequest, "Please provide email and password.")
	}
	u, tok, err := h.Auth.Login(body.Email, body.Password)
	if err != nil {
		applog.Security(c, "auth.login.fail", map[string]any{"email": body.Email})
		return message(c, fiber.StatusUnauthorized, "Invalid credentials.")
	}
	applog.Audit(c, "auth.login", map[string]any{"user_id": u.ID})
	return c.JSON(fiber.Map{
		"id": u.ID, "name": u.Name, "email": u.Email, "role": u.Role, "token": tok,
	})
}
