package repos

import (
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"minimart/internal/domain"
)

var (
	ErrCartEmpty   = errors.New("cart is empty")
	ErrProductGone = errors.New("a product in the cart no longer exists")
	ErrOutOfStock  = errors.New("insufficient stock")
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

type orderRow struct {
	ID        string  `db:"id"`
	UserID    string  `db:"user_id"`
	UserName  string  `db:"user_name"`
	Total     float64 `db:"total"`
	Status    string  `db:"status"`
	CreatedAt string  `db:"created_at"`

	ShipAddress    string `db:"ship_address"`
	ShipCity       string `db:"ship_city"`
	ShipPostalCode string `db:"ship_postal_code"`
	ShipCountry    string `db:"ship_country"`

	PayID         string `db:"pay_id"`
	PayStatus     string `db:"pay_status"`
	PayUpdateTime string `db:"pay_update_time"`
	PayEmail      string `db:"pay_email"`
}

func (row orderRow) toDomain(items []domain.OrderItem) domain.Order {
	return domain.Order{
		ID:          row.ID,
		UserID:      row.UserID,
		UserName:    row.UserName,
		Items:       items,
		TotalAmount: row.Total,
		Status:      row.Status,
		Shipping: domain.ShippingAddress{
			Address:    row.ShipAddress,
			City:       row.ShipCity,
			PostalCode: row.ShipPostalCode,
			Country:    row.ShipCountry,
		},
		Payment: domain.PaymentResult{
			ID:           row.PayID,
			Status:       row.PayStatus,
			UpdateTime:   row.PayUpdateTime,
			EmailAddress: row.PayEmail,
		},
		CreatedAt: row.CreatedAt,
	}
}

const orderCols = `
  o.id, o.user_id, o.total, o.status, o.created_at,
  COALESCE(o.ship_address,'') AS ship_address,
  COALESCE(o.ship_city,'') AS ship_city,
  COALESCE(o.ship_postal_code,'') AS ship_postal_code,
  COALESCE(o.ship_country,'') AS ship_country,
  COALESCE(o.pay_id,'') AS pay_id,
  COALESCE(o.pay_status,'') AS pay_status,
  COALESCE(o.pay_update_time,'') AS pay_update_time,
  COALESCE(o.pay_email,'') AS pay_email`

// PlaceFromCart converts the user's cart into an order in one transaction:
// validate every referenced product, insert the order with a captured
// line-item snapshot, decrement stock behind a stock >= qty guard, bump
// purchase counters, and delete the cart. Any failure rolls the whole
// thing back, so stock is never decremented without an order and the cart
// survives a failed checkout.
func (r *OrderRepo) PlaceFromCart(userID string, ship domain.ShippingAddress) (domain.Order, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return domain.Order{}, err
	}
	defer func() { _ = tx.Rollback() }()

	var cartID string
	if err := tx.Get(&cartID, `SELECT id FROM carts WHERE user_id=?`, userID); err != nil {
		if IsNotFound(err) {
			return domain.Order{}, ErrCartEmpty
		}
		return domain.Order{}, err
	}

	lines, err := checkoutLines(tx, cartID)
	if err != nil {
		return domain.Order{}, err
	}
	if len(lines) == 0 {
		return domain.Order{}, ErrCartEmpty
	}
	// Validate all products before mutating anything.
	for _, l := range lines {
		if !l.Exists {
			return domain.Order{}, ErrProductGone
		}
	}

	total := 0.0
	items := make([]domain.OrderItem, 0, len(lines))
	for _, l := range lines {
		price := l.Price * (1 - l.Discount/100)
		total += float64(l.Qty) * price
		items = append(items, domain.OrderItem{
			ProductID: l.ProductID,
			Name:      l.Name,
			Quantity:  l.Qty,
			Price:     price,
		})
	}

	orderID := uuid.NewString()
	if _, err := tx.Exec(`
	  INSERT INTO orders(id,user_id,total,status,ship_address,ship_city,ship_postal_code,ship_country,created_at)
	  VALUES(?,?,?,?,?,?,?,?,CURRENT_TIMESTAMP)
	`, orderID, userID, total, domain.OrderPending, ship.Address, ship.City, ship.PostalCode, ship.Country); err != nil {
		return domain.Order{}, err
	}
	for _, it := range items {
		if _, err := tx.Exec(`
		  INSERT INTO order_items(order_id,product_id,name,qty,price) VALUES(?,?,?,?,?)
		`, orderID, it.ProductID, it.Name, it.Quantity, it.Price); err != nil {
			return domain.Order{}, err
		}
	}

	// Guarded decrement: zero rows affected means another checkout won the
	// remaining stock, so this whole order rolls back.
	for _, it := range items {
		res, err := tx.Exec(`
		  UPDATE products
		  SET stock = stock - ?, purchase_count = purchase_count + ?
		  WHERE id = ? AND stock >= ?
		`, it.Quantity, it.Quantity, it.ProductID, it.Quantity)
		if err != nil {
			return domain.Order{}, err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return domain.Order{}, ErrOutOfStock
		}
	}

	if _, err := tx.Exec(`DELETE FROM carts WHERE id=?`, cartID); err != nil {
		return domain.Order{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Order{}, err
	}
	return r.Get(orderID)
}

func (r *OrderRepo) items(orderID string) ([]domain.OrderItem, error) {
	out := []domain.OrderItem{}
	err := r.db.Select(&out, `
	  SELECT product_id, name, qty, price FROM order_items WHERE order_id=? ORDER BY product_id
	`, orderID)
	return out, err
}

func (r *OrderRepo) Get(orderID string) (domain.Order, error) {
	var row orderRow
	if err := r.db.Get(&row, `
	  SELECT `+orderCols+`, '' AS user_name FROM orders o WHERE o.id=?
	`, orderID); err != nil {
		return domain.Order{}, err
	}
	items, err := r.items(orderID)
	if err != nil {
		return domain.Order{}, err
	}
	return row.toDomain(items), nil
}

// ListByUser returns the user's orders, newest first.
func (r *OrderRepo) ListByUser(userID string) ([]domain.Order, error) {
	var rows []orderRow
	if err := r.db.Select(&rows, `
	  SELECT `+orderCols+`, '' AS user_name
	  FROM orders o
	  WHERE o.user_id=?
	  ORDER BY datetime(o.created_at) DESC, o.id
	`, userID); err != nil {
		return nil, err
	}
	return r.expand(rows)
}

// ListAll returns every order, newest first, with the purchaser's name
// populated for the seller dashboard.
func (r *OrderRepo) ListAll() ([]domain.Order, error) {
	var rows []orderRow
	if err := r.db.Select(&rows, `
	  SELECT `+orderCols+`, COALESCE(u.name,'') AS user_name
	  FROM orders o LEFT JOIN users u ON u.id = o.user_id
	  ORDER BY datetime(o.created_at) DESC, o.id
	`); err != nil {
		return nil, err
	}
	return r.expand(rows)
}

func (r *OrderRepo) expand(rows []orderRow) ([]domain.Order, error) {
	out := make([]domain.Order, 0, len(rows))
	for _, row := range rows {
		items, err := r.items(row.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, row.toDomain(items))
	}
	return out, nil
}

// UpdateStatus moves an order through the fulfillment states.
func (r *OrderRepo) UpdateStatus(id, status string) error {
	_, err := r.db.Exec(`UPDATE orders SET status=? WHERE id=?`, status, id)
	return err
}
