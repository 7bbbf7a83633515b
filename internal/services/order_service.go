package services

import (
	"errors"

	"minimart/internal/domain"
	"minimart/internal/repos"
)

var (
	ErrCartEmpty   = repos.ErrCartEmpty
	ErrProductGone = repos.ErrProductGone
	ErrOutOfStock  = repos.ErrOutOfStock

	ErrBadStatus = errors.New("unknown order status")
)

var orderStatuses = map[string]bool{
	domain.OrderPending:   true,
	domain.OrderShipped:   true,
	domain.OrderDelivered: true,
	domain.OrderCancelled: true,
	domain.OrderReturned:  true,
}

type OrderService struct {
	Orders *repos.OrderRepo
}

func NewOrderService(orders *repos.OrderRepo) *OrderService {
	return &OrderService{Orders: orders}
}

// Place turns the user's cart into a Pending order. The repo runs the
// whole workflow in one transaction; on success the cart is gone and each
// product's stock and purchase counter reflect the purchase.
func (s *OrderService) Place(userID string, ship domain.ShippingAddress) (domain.Order, error) {
	return s.Orders.PlaceFromCart(userID, ship)
}

func (s *OrderService) MyOrders(userID string) ([]domain.Order, error) {
	return s.Orders.ListByUser(userID)
}

func (s *OrderService) AllOrders() ([]domain.Order, error) {
	return s.Orders.ListAll()
}

// SetStatus moves an order to a new fulfillment status and returns the
// updated order.
func (s *OrderService) SetStatus(orderID, status string) (domain.Order, error) {
	if !orderStatuses[status] {
		return domain.Order{}, ErrBadStatus
	}
	if _, err := s.Orders.Get(orderID); err != nil {
		return domain.Order{}, err
	}
	if err := s.Orders.UpdateStatus(orderID, status); err != nil {
		return domain.Order{}, err
	}
	return s.Orders.Get(orderID)
}
