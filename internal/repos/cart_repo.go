package repos

import (
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"minimart/internal/domain"
)

type CartRepo struct{ db *sqlx.DB }

func NewCartRepo(db *sqlx.DB) *CartRepo { return &CartRepo{db: db} }

// ID returns the user's cart id, or sql.ErrNoRows when none exists yet.
func (r *CartRepo) ID(userID string) (string, error) {
	var cartID string
	err := r.db.Get(&cartID, `SELECT id FROM carts WHERE user_id = ?`, userID)
	return cartID, err
}

// Ensure returns the user's cart id, creating the cart lazily on first use.
func (r *CartRepo) Ensure(userID string) (string, error) {
	cartID, err := r.ID(userID)
	if err == nil {
		return cartID, nil
	}
	if err != sql.ErrNoRows {
		return "", err
	}
	cartID = uuid.NewString()
	_, err = r.db.Exec(`INSERT INTO carts(id,user_id,updated_at) VALUES(?,?,CURRENT_TIMESTAMP)`, cartID, userID)
	if err != nil {
		return "", err
	}
	return cartID, nil
}

// UpsertItem sets the quantity for the product, overwriting any previous
// quantity rather than accumulating it.
func (r *CartRepo) UpsertItem(cartID, productID string, qty int) error {
	_, err := r.db.Exec(`
	  INSERT INTO cart_items(cart_id,product_id,qty,created_at)
	  VALUES(?,?,?,CURRENT_TIMESTAMP)
	  ON CONFLICT(cart_id,product_id) DO UPDATE
	  SET qty = excluded.qty, updated_at = CURRENT_TIMESTAMP
	`, cartID, productID, qty)
	return err
}

func (r *CartRepo) RemoveItem(cartID, productID string) error {
	_, err := r.db.Exec(`DELETE FROM cart_items WHERE cart_id=? AND product_id=?`, cartID, productID)
	return err
}

// Items returns the cart's line items joined with live product fields for
// display. Items whose product vanished are dropped from the view.
func (r *CartRepo) Items(cartID string) ([]domain.CartItem, error) {
	out := []domain.CartItem{}
	err := r.db.Select(&out, `
	  SELECT ci.product_id, p.name, p.price, p.image_url, ci.qty
	  FROM cart_items ci JOIN products p ON p.id = ci.product_id
	  WHERE ci.cart_id = ?
	  ORDER BY ci.created_at, ci.product_id
	`, cartID)
	return out, err
}

// CheckoutLine carries everything the order workflow needs per line item.
// Missing products surface as Exists=false instead of silently dropping.
type CheckoutLine struct {
	ProductID string  `db:"product_id"`
	Qty       int     `db:"qty"`
	Exists    bool    `db:"found"`
	Name      string  `db:"name"`
	Price     float64 `db:"price"`
	Discount  float64 `db:"discount"`
}

func checkoutLines(tx *sqlx.Tx, cartID string) ([]CheckoutLine, error) {
	var out []CheckoutLine
	err := tx.Select(&out, `
	  SELECT ci.product_id, ci.qty,
	         p.id IS NOT NULL AS found,
	         COALESCE(p.name,'') AS name,
	         COALESCE(p.price,0) AS price,
	         COALESCE(p.discount,0) AS discount
	  FROM cart_items ci LEFT JOIN products p ON p.id = ci.product_id
	  WHERE ci.cart_id = ?
	  ORDER BY ci.created_at, ci.product_id
	`, cartID)
	return out, err
}
