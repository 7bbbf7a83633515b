package repos

import (
	"strings"

	"github.com/jmoiron/sqlx"

	"minimart/internal/domain"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

const productCols = `
  p.id, p.category_id, COALESCE(c.name,'') AS category_name, p.sub_category,
  p.name, p.description, p.price, p.discount, p.image_url, p.stock,
  p.purchase_count, p.created_at, COALESCE(p.updated_at,'') AS updated_at`

// Count returns how many products match the keyword (case-insensitive
// substring over the name; empty keyword matches everything).
func (r *ProductRepo) Count(keyword string) (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM products WHERE LOWER(name) LIKE ?`,
		"%"+strings.ToLower(keyword)+"%")
	return n, err
}

func (r *ProductRepo) List(keyword string, limit, offset int) ([]domain.Product, error) {
	out := []domain.Product{}
	err := r.db.Select(&out, `
	  SELECT `+productCols+`
	  FROM products p LEFT JOIN categories c ON c.id = p.category_id
	  WHERE LOWER(p.name) LIKE ?
	  ORDER BY p.created_at DESC, p.id
	  LIMIT ? OFFSET ?
	`, "%"+strings.ToLower(keyword)+"%", limit, offset)
	return out, err
}

func (r *ProductRepo) Get(id string) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `
	  SELECT `+productCols+`
	  FROM products p LEFT JOIN categories c ON c.id = p.category_id
	  WHERE p.id = ?
	`, id)
	return p, err
}

func (r *ProductRepo) Create(p *domain.Product) error {
	_, err := r.db.Exec(`
	  INSERT INTO products(id,category_id,sub_category,name,description,price,discount,image_url,stock)
	  VALUES(?,?,?,?,?,?,?,?,?)
	`, p.ID, p.CategoryID, p.SubCategory, p.Name, p.Description, p.Price, p.Discount, p.ImageURL, p.Stock)
	return err
}

// Update writes the full row; callers merge partial input into the loaded
// product first.
func (r *ProductRepo) Update(p *domain.Product) error {
	_, err := r.db.Exec(`
	  UPDATE products
	  SET category_id=?, sub_category=?, name=?, description=?, price=?,
	      discount=?, image_url=?, stock=?, updated_at=CURRENT_TIMESTAMP
	  WHERE id=?
	`, p.CategoryID, p.SubCategory, p.Name, p.Description, p.Price, p.Discount, p.ImageURL, p.Stock, p.ID)
	return err
}

func (r *ProductRepo) Delete(id string) (bool, error) {
	res, err := r.db.Exec(`DELETE FROM products WHERE id=?`, id)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
