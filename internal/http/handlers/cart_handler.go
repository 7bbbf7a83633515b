package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	applog "minimart/internal/log"
	"minimart/internal/repos"
	"minimart/internal/services"
	"minimart/internal/validate"
)

type CartHandler struct {
	Cart *services.CartService
}

// GET /api/cart
func (h *CartHandler) View(c *fiber.Ctx) error {
	cart, err := h.Cart.View(currentUser(c).ID)
	if err != nil {
		applog.Error(c, "cart.view.fail", err, nil)
		return message(c, fiber.StatusInternalServerError, "Server error while fetching cart.")
	}
	return c.JSON(cart)
}

type cartBody struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// POST /api/cart adds a product or overwrites its quantity.
func (h *CartHandler) Add(c *fiber.Ctx) error {
	var body cartBody
	if err := c.BodyParser(&body); err != nil {
		return message(c, fiber.StatusBadRequest, "Invalid request body.")
	}
	productID, ok := validate.ID(body.ProductID)
	if !ok {
		return message(c, fiber.StatusBadRequest, "Invalid product id.")
	}
	cart, err := h.Cart.Add(currentUser(c).ID, productID, body.Quantity)
	if err != nil {
		if repos.IsNotFound(err) {
			return message(c, fiber.StatusNotFound, "Product not found.")
		}
		applog.Error(c, "cart.add.fail", err, nil)
		return message(c, fiber.StatusInternalServerError, "Server error while adding to cart.")
	}
	return c.JSON(cart)
}

// DELETE /api/cart/:productId
func (h *CartHandler) Remove(c *fiber.Ctx) error {
	productID, ok := validate.ID(c.Params("productId"))
	if !ok {
		return message(c, fiber.StatusNotFound, "Cart not found.")
	}
	cart, err := h.Cart.Remove(currentUser(c).ID, productID)
	if err != nil {
		if errors.Is(err, services.ErrCartNotFound) {
			return message(c, fiber.StatusNotFound, "Cart not found.")
		}
		applog.Error(c, "cart.remove.fail", err, nil)
		return message(c, fiber.StatusInternalServerError, "Server error while removing from cart.")
	}
	return c.JSON(cart)
}
