package repos

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"minimart/internal/domain"
)

var (
	ErrEmailTaken   = errors.New("user with this email already exists")
	ErrSellerExists = errors.New("a seller account already exists")
)

type UserRepo struct{ DB *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db} }

func (r *UserRepo) ByEmail(email string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `SELECT id,email,name,password_hash,role FROM users WHERE LOWER(email)=LOWER(?)`, email)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) ByID(id string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `SELECT id,email,name,password_hash,role FROM users WHERE id=?`, id)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user. The duplicate-email and single-seller checks
// run inside the same transaction as the insert so two racing registrations
// cannot both pass.
func (r *UserRepo) Create(u *domain.User) error {
	tx, err := r.DB.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var n int
	if err := tx.Get(&n, `SELECT COUNT(*) FROM users WHERE LOWER(email)=LOWER(?)`, u.Email); err != nil {
		return err
	}
	if n > 0 {
		return ErrEmailTaken
	}
	if u.Role == domain.RoleSeller {
		if err := tx.Get(&n, `SELECT COUNT(*) FROM users WHERE role=?`, domain.RoleSeller); err != nil {
			return err
		}
		if n > 0 {
			return ErrSellerExists
		}
	}
	if _, err := tx.Exec(`INSERT INTO users(id,email,name,password_hash,role) VALUES(?,?,?,?,?)`,
		u.ID, u.Email, u.Name, u.Hash, u.Role); err != nil {
		return err
	}
	return tx.Commit()
}

// IsNotFound reports whether err means "no such row".
func IsNotFound(err error) bool { return errors.Is(err, sql.ErrNoRows) }
