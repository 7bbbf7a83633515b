package domain

type Category struct {
	ID        string   `db:"id" json:"id"`
	Name      string   `db:"name" json:"name"`
	SubCats   []string `db:"-" json:"subCategories"`
	CreatedAt string   `db:"created_at" json:"createdAt"`
	UpdatedAt string   `db:"updated_at" json:"updatedAt,omitempty"`
}

// HasSub reports whether name is one of the category's declared sub-categories.
func (c Category) HasSub(name string) bool {
	for _, s := range c.SubCats {
		if s == name {
			return true
		}
	}
	return false
}

type Product struct {
	ID            string  `db:"id" json:"id"`
	CategoryID    string  `db:"category_id" json:"categoryId"`
	CategoryName  string  `db:"category_name" json:"categoryName,omitempty"`
	SubCategory   string  `db:"sub_category" json:"subCategory"`
	Name          string  `db:"name" json:"name"`
	Description   string  `db:"description" json:"description"`
	Price         float64 `db:"price" json:"price"`
	Discount      float64 `db:"discount" json:"discount"`
	ImageURL      string  `db:"image_url" json:"imageUrl"`
	Stock         int     `db:"stock" json:"stock"`
	PurchaseCount int     `db:"purchase_count" json:"purchaseCount"`
	CreatedAt     string  `db:"created_at" json:"createdAt"`
	UpdatedAt     string  `db:"updated_at" json:"updatedAt,omitempty"`
}

// EffectivePrice is the sale price after applying the discount percentage.
func (p Product) EffectivePrice() float64 {
	return p.Price * (1 - p.Discount/100)
}

type CartItem struct {
	ProductID string  `db:"product_id" json:"productId"`
	Name      string  `db:"name" json:"name"`
	Price     float64 `db:"price" json:"price"`
	ImageURL  string  `db:"image_url" json:"imageUrl"`
	Quantity  int     `db:"qty" json:"quantity"`
}

type Cart struct {
	ID     string     `db:"id" json:"id,omitempty"`
	UserID string     `db:"user_id" json:"userId,omitempty"`
	Items  []CartItem `db:"-" json:"items"`
}

// Order statuses. Pending is the only status ever set at creation time.
const (
	OrderPending   = "Pending"
	OrderShipped   = "Shipped"
	OrderDelivered = "Delivered"
	OrderCancelled = "Cancelled"
	OrderReturned  = "Returned"
)

type ShippingAddress struct {
	Address    string `db:"ship_address" json:"address,omitempty"`
	City       string `db:"ship_city" json:"city,omitempty"`
	PostalCode string `db:"ship_postal_code" json:"postalCode,omitempty"`
	Country    string `db:"ship_country" json:"country,omitempty"`
}

type PaymentResult struct {
	ID           string `db:"pay_id" json:"id,omitempty"`
	Status       string `db:"pay_status" json:"status,omitempty"`
	UpdateTime   string `db:"pay_update_time" json:"updateTime,omitempty"`
	EmailAddress string `db:"pay_email" json:"emailAddress,omitempty"`
}

// OrderItem is a snapshot taken at checkout. Name and Price are captured
// values; later product edits never change them.
type OrderItem struct {
	ProductID string  `db:"product_id" json:"productId"`
	Name      string  `db:"name" json:"name"`
	Quantity  int     `db:"qty" json:"quantity"`
	Price     float64 `db:"price" json:"price"`
}

type Order struct {
	ID          string          `db:"id" json:"id"`
	UserID      string          `db:"user_id" json:"userId"`
	UserName    string          `db:"user_name" json:"userName,omitempty"`
	Items       []OrderItem     `db:"-" json:"items"`
	TotalAmount float64         `db:"total" json:"totalAmount"`
	Status      string          `db:"status" json:"status"`
	Shipping    ShippingAddress `db:"-" json:"shippingAddress"`
	Payment     PaymentResult   `db:"-" json:"paymentResult"`
	CreatedAt   string          `db:"created_at" json:"createdAt"`
}
