package services

import (
	"database/sql"

	"minimart/internal/domain"
	"minimart/internal/repos"
	"minimart/internal/validate"
)

var (
	ErrCartNotFound = sql.ErrNoRows
)

type CartService struct {
	Carts *repos.CartRepo
	Prods *repos.ProductRepo
}

func NewCartService(carts *repos.CartRepo, prods *repos.ProductRepo) *CartService {
	return &CartService{Carts: carts, Prods: prods}
}

// View returns the user's cart. A user with no cart gets an empty item
// list, never an error.
func (s *CartService) View(userID string) (domain.Cart, error) {
	cartID, err := s.Carts.ID(userID)
	if err == sql.ErrNoRows {
		return domain.Cart{UserID: userID, Items: []domain.CartItem{}}, nil
	}
	if err != nil {
		return domain.Cart{}, err
	}
	items, err := s.Carts.Items(cartID)
	if err != nil {
		return domain.Cart{}, err
	}
	return domain.Cart{ID: cartID, UserID: userID, Items: items}, nil
}

// Add sets the quantity for a product in the user's cart, creating the
// cart lazily. A repeated product's quantity is overwritten, not summed.
func (s *CartService) Add(userID, productID string, qty int) (domain.Cart, error) {
	qty = validate.Qty(qty)
	if _, err := s.Prods.Get(productID); err != nil {
		return domain.Cart{}, err
	}
	cartID, err := s.Carts.Ensure(userID)
	if err != nil {
		return domain.Cart{}, err
	}
	if err := s.Carts.UpsertItem(cartID, productID, qty); err != nil {
		return domain.Cart{}, err
	}
	return s.View(userID)
}

// Remove deletes a line item. Removing an absent product from an existing
// cart succeeds; a user without a cart gets ErrCartNotFound.
func (s *CartService) Remove(userID, productID string) (domain.Cart, error) {
	cartID, err := s.Carts.ID(userID)
	if err != nil {
		return domain.Cart{}, err
	}
	if err := s.Carts.RemoveItem(cartID, productID); err != nil {
		return domain.Cart{}, err
	}
	return s.View(userID)
}
