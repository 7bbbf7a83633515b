package repos

import (
	"errors"

	"github.com/jmoiron/sqlx"

	"minimart/internal/domain"
)

var ErrNameTaken = errors.New("category with this name already exists")

type CategoryRepo struct{ db *sqlx.DB }

func NewCategoryRepo(db *sqlx.DB) *CategoryRepo { return &CategoryRepo{db: db} }

func (r *CategoryRepo) List() ([]domain.Category, error) {
	var out []domain.Category
	err := r.db.Select(&out, `
	  SELECT id, name, created_at, COALESCE(updated_at,'') AS updated_at
	  FROM categories
	  ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	for i := range out {
		subs, err := r.subs(out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].SubCats = subs
	}
	return out, nil
}

func (r *CategoryRepo) Get(id string) (domain.Category, error) {
	var c domain.Category
	err := r.db.Get(&c, `
	  SELECT id, name, created_at, COALESCE(updated_at,'') AS updated_at
	  FROM categories WHERE id=?
	`, id)
	if err != nil {
		return domain.Category{}, err
	}
	c.SubCats, err = r.subs(id)
	return c, err
}

func (r *CategoryRepo) subs(categoryID string) ([]string, error) {
	subs := []string{}
	err := r.db.Select(&subs, `SELECT name FROM category_subs WHERE category_id=? ORDER BY pos`, categoryID)
	return subs, err
}

func (r *CategoryRepo) Create(c *domain.Category) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var n int
	if err := tx.Get(&n, `SELECT COUNT(*) FROM categories WHERE LOWER(name)=LOWER(?)`, c.Name); err != nil {
		return err
	}
	if n > 0 {
		return ErrNameTaken
	}
	if _, err := tx.Exec(`INSERT INTO categories(id,name) VALUES(?,?)`, c.ID, c.Name); err != nil {
		return err
	}
	for i, s := range c.SubCats {
		if _, err := tx.Exec(`INSERT INTO category_subs(category_id,name,pos) VALUES(?,?,?)`, c.ID, s, i); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Update renames the category and, when subs is non-nil, replaces the whole
// sub-category list. Callers must send the complete desired list.
func (r *CategoryRepo) Update(id, name string, subs []string) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if name != "" {
		var n int
		if err := tx.Get(&n, `SELECT COUNT(*) FROM categories WHERE LOWER(name)=LOWER(?) AND id<>?`, name, id); err != nil {
			return err
		}
		if n > 0 {
			return ErrNameTaken
		}
		if _, err := tx.Exec(`UPDATE categories SET name=?, updated_at=CURRENT_TIMESTAMP WHERE id=?`, name, id); err != nil {
			return err
		}
	}
	if subs != nil {
		if _, err := tx.Exec(`DELETE FROM category_subs WHERE category_id=?`, id); err != nil {
			return err
		}
		for i, s := range subs {
			if _, err := tx.Exec(`INSERT INTO category_subs(category_id,name,pos) VALUES(?,?,?)`, id, s, i); err != nil {
				return err
			}
		}
		if _, err := tx.Exec(`UPDATE categories SET updated_at=CURRENT_TIMESTAMP WHERE id=?`, id); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Delete removes the category and its sub-category rows. Products keep
// their category_id; no cascade and no validation of referencing products.
func (r *CategoryRepo) Delete(id string) (bool, error) {
	res, err := r.db.Exec(`DELETE FROM categories WHERE id=?`, id)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
