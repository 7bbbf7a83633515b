package repos

import (
	"log"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Seed baseline catalog if DB is empty (idempotent; safe to run every start)
	if err := seedIfEmpty(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Categories
CREATE TABLE IF NOT EXISTS categories(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_categories_name_nocase ON categories(LOWER(name));

-- Sub-categories: the ordered list declared under each category
CREATE TABLE IF NOT EXISTS category_subs(
  category_id TEXT NOT NULL REFERENCES categories(id) ON DELETE CASCADE,
  name TEXT NOT NULL,
  pos INTEGER NOT NULL,
  PRIMARY KEY(category_id, name)
);

-- Products. category_id is a weak reference on purpose: deleting a
-- category leaves its products dangling rather than cascading.
CREATE TABLE IF NOT EXISTS products(
  id TEXT PRIMARY KEY,
  category_id TEXT NOT NULL,
  sub_category TEXT NOT NULL,
  name TEXT NOT NULL,
  description TEXT NOT NULL,
  price NUMERIC NOT NULL CHECK (price > 0),
  discount NUMERIC NOT NULL DEFAULT 0 CHECK (discount >= 0 AND discount <= 100),
  image_url TEXT NOT NULL,
  stock INTEGER NOT NULL DEFAULT 1 CHECK (stock >= 0),
  purchase_count INTEGER NOT NULL DEFAULT 0 CHECK (purchase_count >= 0),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_products_category ON products(category_id);
CREATE INDEX IF NOT EXISTS idx_products_name     ON products(LOWER(name));

-- Carts: exactly one per user
CREATE TABLE IF NOT EXISTS carts(
  id TEXT PRIMARY KEY,
  user_id TEXT UNIQUE NOT NULL,
  updated_at TEXT
);

CREATE TABLE IF NOT EXISTS cart_items(
  cart_id    TEXT NOT NULL REFERENCES carts(id) ON DELETE CASCADE,
  product_id TEXT NOT NULL,
  qty INTEGER NOT NULL CHECK (qty >= 1),
  created_at TEXT,
  updated_at TEXT,
  PRIMARY KEY (cart_id, product_id)
);

-- Orders: immutable checkout snapshots, never deleted
CREATE TABLE IF NOT EXISTS orders(
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  total NUMERIC NOT NULL,
  status TEXT NOT NULL DEFAULT 'Pending'
    CHECK (status IN ('Pending','Shipped','Delivered','Cancelled','Returned')),
  ship_address TEXT,
  ship_city TEXT,
  ship_postal_code TEXT,
  ship_country TEXT,
  pay_id TEXT,
  pay_status TEXT,
  pay_update_time TEXT,
  pay_email TEXT,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_orders_user       ON orders(user_id);
CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at);

CREATE TABLE IF NOT EXISTS order_items(
  order_id   TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
  product_id TEXT NOT NULL,
  name TEXT NOT NULL,
  qty INTEGER NOT NULL,
  price NUMERIC NOT NULL,
  PRIMARY KEY (order_id, product_id)
);

-- Users
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL,
  name TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL CHECK (role IN ('Client','Seller')),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email_nocase ON users(LOWER(email));
`
	_, err := db.Exec(schema)
	return err
}

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM categories`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo categories/products")

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	tx.MustExec(`INSERT INTO categories(id,name) VALUES
	  ('cat-electronics','Electronics'),
	  ('cat-apparel','Apparel')`)

	tx.MustExec(`INSERT INTO category_subs(category_id,name,pos) VALUES
	  ('cat-electronics','Audio',0),
	  ('cat-electronics','Cameras',1),
	  ('cat-apparel','Shoes',0),
	  ('cat-apparel','Jackets',1)`)

	tx.MustExec(`INSERT INTO products(id,category_id,sub_category,name,description,price,discount,image_url,stock) VALUES
	  ('prod-headphones','cat-electronics','Audio','Studio Headphones','Closed-back studio headphones',129.99,0,'/uploads/seed/headphones.jpg',25),
	  ('prod-camera','cat-electronics','Cameras','Compact Camera','Point-and-shoot 20MP compact camera',349.50,10,'/uploads/seed/camera.jpg',8),
	  ('prod-runners','cat-apparel','Shoes','Canvas Runners','Lightweight canvas running shoes',59.00,0,'/uploads/seed/runners.jpg',40)`)

	// Demo accounts: one seller, one client (bcrypt cost 12 like production)
	for _, u := range []struct{ id, email, name, role, raw string }{
		{"u-seller", "seller@minimart.test", "Seller", "Seller", "Passw0rd!"},
		{"u-client", "client@minimart.test", "Client", "Client", "Passw0rd!"},
	} {
		h, err := bcrypt.GenerateFromPassword([]byte(u.raw), 12)
		if err != nil {
			return err
		}
		tx.MustExec(`INSERT INTO users(id,email,name,password_hash,role) VALUES(?,?,?,?,?)`,
			u.id, u.email, u.name, string(h), u.role)
	}

	return tx.Commit()
}
