package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"minimart/internal/domain"
	applog "minimart/internal/log"
	"minimart/internal/repos"
	"minimart/internal/services"
)

type OrderHandler struct {
	Order *services.OrderService
}

type placeOrderBody struct {
	ShippingAddress domain.ShippingAddress `json:"shippingAddress"`
}

// POST /api/orders checks out the caller's cart.
func (h *OrderHandler) Place(c *fiber.Ctx) error {
	var body placeOrderBody
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&body); err != nil {
			return message(c, fiber.StatusBadRequest, "Invalid request body.")
		}
	}

	u := currentUser(c)
	order, err := h.Order.Place(u.ID, body.ShippingAddress)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCartEmpty):
			return message(c, fiber.StatusBadRequest, "Your cart is empty.")
		case errors.Is(err, services.ErrProductGone):
			return message(c, fiber.StatusBadRequest, "A product in your cart was not found.")
		case errors.Is(err, services.ErrOutOfStock):
			return message(c, fiber.StatusBadRequest, "Not enough stock to complete your order.")
		default:
			applog.Error(c, "orders.place.fail", err, nil)
			return message(c, fiber.StatusInternalServerError, "Server error while creating order: "+err.Error())
		}
	}
	applog.Audit(c, "orders.place", map[string]any{"order_id": order.ID, "total": order.TotalAmount})
	return c.Status(fiber.StatusCreated).JSON(order)
}

// GET /api/orders/myorders
func (h *OrderHandler) Mine(c *fiber.Ctx) error {
	orders, err := h.Order.MyOrders(currentUser(c).ID)
	if err != nil {
		applog.Error(c, "orders.mine.fail", err, nil)
		return message(c, fiber.StatusInternalServerError, "Server error while fetching orders.")
	}
	return c.JSON(orders)
}

// PUT /api/orders/:id/status (seller)
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	var body struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&body); err != nil || body.Status == "" {
		return message(c, fiber.StatusBadRequest, "Order status is required.")
	}

	order, err := h.Order.SetStatus(c.Params("id"), body.Status)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrBadStatus):
			return message(c, fiber.StatusBadRequest, "Invalid order status.")
		case repos.IsNotFound(err):
			return message(c, fiber.StatusNotFound, "Order not found.")
		default:
			applog.Error(c, "orders.status.fail", err, nil)
			return message(c, fiber.StatusInternalServerError, "Server error while updating order.")
		}
	}
	applog.Audit(c, "orders.status", map[string]any{"order_id": order.ID, "status": order.Status})
	return c.JSON(order)
}

// GET /api/orders (seller)
func (h *OrderHandler) All(c *fiber.Ctx) error {
	orders, err := h.Order.AllOrders()
	if err != nil {
		applog.Error(c, "orders.all.fail", err, nil)
		return message(c, fiber.StatusInternalServerError, "Server error while fetching all orders.")
	}
	return c.JSON(orders)
}
