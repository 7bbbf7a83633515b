package services_test

import (
	"math"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"minimart/internal/domain"
	"minimart/internal/repos"
	"minimart/internal/services"
)

func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	return db
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func newOrderEnv(db *sqlx.DB) (*services.CartService, *services.OrderService, *repos.ProductRepo) {
	cartSvc := services.NewCartService(repos.NewCartRepo(db), repos.NewProductRepo(db))
	orderSvc := services.NewOrderService(repos.NewOrderRepo(db))
	return cartSvc, orderSvc, repos.NewProductRepo(db)
}

func TestPlaceOrderSnapshotTotalsAndClearsCart(t *testing.T) {
	db := memdb(t)
	cartSvc, orderSvc, prods := newOrderEnv(db)

	// seeded: prod-headphones 129.99 / 0%, prod-camera 349.50 / 10%
	if _, err := cartSvc.Add("u-client", "prod-headphones", 1); err != nil {
		t.Fatal(err)
	}
	if _, err := cartSvc.Add("u-client", "prod-camera", 2); err != nil {
		t.Fatal(err)
	}

	camBefore, err := prods.Get("prod-camera")
	if err != nil {
		t.Fatal(err)
	}

	order, err := orderSvc.Place("u-client", domain.ShippingAddress{City: "Springfield"})
	if err != nil {
		t.Fatal(err)
	}
	if order.ID == "" || order.Status != domain.OrderPending {
		t.Fatalf("bad order header: %+v", order)
	}
	want := 1*129.99 + 2*349.50*0.9
	if !approx(order.TotalAmount, want) {
		t.Fatalf("want total %v, got %v", want, order.TotalAmount)
	}
	if len(order.Items) != 2 {
		t.Fatalf("want 2 items, got %d", len(order.Items))
	}
	for _, it := range order.Items {
		if it.ProductID == "prod-camera" && !approx(it.Price, 349.50*0.9) {
			t.Fatalf("camera price not discounted: %v", it.Price)
		}
	}
	if order.Shipping.City != "Springfield" {
		t.Fatalf("shipping address not captured: %+v", order.Shipping)
	}

	// cart is empty immediately after
	cart, err := cartSvc.View("u-client")
	if err != nil {
		t.Fatal(err)
	}
	if len(cart.Items) != 0 {
		t.Fatalf("cart not cleared: %+v", cart.Items)
	}

	// counters moved by exactly the ordered quantity
	camAfter, err := prods.Get("prod-camera")
	if err != nil {
		t.Fatal(err)
	}
	if camAfter.Stock != camBefore.Stock-2 {
		t.Fatalf("stock: want %d, got %d", camBefore.Stock-2, camAfter.Stock)
	}
	if camAfter.PurchaseCount != camBefore.PurchaseCount+2 {
		t.Fatalf("purchaseCount: want %d, got %d", camBefore.PurchaseCount+2, camAfter.PurchaseCount)
	}
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	db := memdb(t)
	cartSvc, orderSvc, prods := newOrderEnv(db)

	// no cart at all
	if _, err := orderSvc.Place("u-client", domain.ShippingAddress{}); err != services.ErrCartEmpty {
		t.Fatalf("want ErrCartEmpty, got %v", err)
	}

	// cart exists but has no items
	if _, err := cartSvc.Add("u-client", "prod-runners", 1); err != nil {
		t.Fatal(err)
	}
	if _, err := cartSvc.Remove("u-client", "prod-runners"); err != nil {
		t.Fatal(err)
	}
	if _, err := orderSvc.Place("u-client", domain.ShippingAddress{}); err != services.ErrCartEmpty {
		t.Fatalf("want ErrCartEmpty, got %v", err)
	}

	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM orders`); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatalf("order created from empty cart")
	}
	p, err := prods.Get("prod-runners")
	if err != nil {
		t.Fatal(err)
	}
	if p.PurchaseCount != 0 {
		t.Fatalf("product mutated by rejected checkout")
	}
}

func TestPlaceOrderMissingProductNoPartialApply(t *testing.T) {
	db := memdb(t)
	cartSvc, orderSvc, prods := newOrderEnv(db)

	if _, err := cartSvc.Add("u-client", "prod-headphones", 1); err != nil {
		t.Fatal(err)
	}
	// sneak in a line whose product is gone
	var cartID string
	if err := db.Get(&cartID, `SELECT id FROM carts WHERE user_id='u-client'`); err != nil {
		t.Fatal(err)
	}
	db.MustExec(`INSERT INTO cart_items(cart_id,product_id,qty) VALUES(?,?,?)`, cartID, "prod-ghost", 1)

	if _, err := orderSvc.Place("u-client", domain.ShippingAddress{}); err != services.ErrProductGone {
		t.Fatalf("want ErrProductGone, got %v", err)
	}

	// all referenced products are validated before any mutation
	p, err := prods.Get("prod-headphones")
	if err != nil {
		t.Fatal(err)
	}
	if p.Stock != 25 || p.PurchaseCount != 0 {
		t.Fatalf("partial mutation applied: %+v", p)
	}
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM orders`); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatal("order created despite missing product")
	}
	// cart survived the failed checkout
	cart, err := cartSvc.View("u-client")
	if err != nil {
		t.Fatal(err)
	}
	if len(cart.Items) == 0 {
		t.Fatal("cart cleared by failed checkout")
	}
}

func TestPlaceOrderOutOfStock(t *testing.T) {
	db := memdb(t)
	cartSvc, orderSvc, _ := newOrderEnv(db)

	db.MustExec(`UPDATE products SET stock=1 WHERE id='prod-headphones'`)
	if _, err := cartSvc.Add("u-client", "prod-headphones", 2); err != nil {
		t.Fatal(err)
	}

	if _, err := orderSvc.Place("u-client", domain.ShippingAddress{}); err != services.ErrOutOfStock {
		t.Fatalf("want ErrOutOfStock, got %v", err)
	}

	// nothing committed: no order, stock intact, cart intact
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM orders`); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatal("order committed despite stock failure")
	}
	var stock int
	if err := db.Get(&stock, `SELECT stock FROM products WHERE id='prod-headphones'`); err != nil {
		t.Fatal(err)
	}
	if stock != 1 {
		t.Fatalf("stock mutated: %d", stock)
	}
	cart, err := cartSvc.View("u-client")
	if err != nil {
		t.Fatal(err)
	}
	if len(cart.Items) != 1 {
		t.Fatal("cart cleared by failed checkout")
	}
}

// Two checkouts wanting the last unit: the guard lets exactly one through.
func TestCompetingCheckoutsLastUnit(t *testing.T) {
	db := memdb(t)
	cartSvc, orderSvc, _ := newOrderEnv(db)

	db.MustExec(`UPDATE products SET stock=1 WHERE id='prod-runners'`)
	db.MustExec(`INSERT INTO users(id,email,name,password_hash,role) VALUES('u-other','other@minimart.test','Other','x','Client')`)

	if _, err := cartSvc.Add("u-client", "prod-runners", 1); err != nil {
		t.Fatal(err)
	}
	if _, err := cartSvc.Add("u-other", "prod-runners", 1); err != nil {
		t.Fatal(err)
	}

	if _, err := orderSvc.Place("u-client", domain.ShippingAddress{}); err != nil {
		t.Fatal(err)
	}
	if _, err := orderSvc.Place("u-other", domain.ShippingAddress{}); err != services.ErrOutOfStock {
		t.Fatalf("want ErrOutOfStock for the loser, got %v", err)
	}

	var stock int
	if err := db.Get(&stock, `SELECT stock FROM products WHERE id='prod-runners'`); err != nil {
		t.Fatal(err)
	}
	if stock != 0 {
		t.Fatalf("stock went negative or stayed put: %d", stock)
	}
}

// Editing the product after checkout must not change the recorded order.
func TestOrderSnapshotIsolation(t *testing.T) {
	db := memdb(t)
	cartSvc, orderSvc, prods := newOrderEnv(db)

	if _, err := cartSvc.Add("u-client", "prod-headphones", 1); err != nil {
		t.Fatal(err)
	}
	order, err := orderSvc.Place("u-client", domain.ShippingAddress{})
	if err != nil {
		t.Fatal(err)
	}

	p, err := prods.Get("prod-headphones")
	if err != nil {
		t.Fatal(err)
	}
	p.Name = "Renamed Headphones"
	p.Price = 999.99
	if err := prods.Update(&p); err != nil {
		t.Fatal(err)
	}

	reloaded, err := repos.NewOrderRepo(db).Get(order.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !approx(reloaded.TotalAmount, 129.99) {
		t.Fatalf("total drifted after product edit: %v", reloaded.TotalAmount)
	}
	if reloaded.Items[0].Name != "Studio Headphones" || !approx(reloaded.Items[0].Price, 129.99) {
		t.Fatalf("captured line item drifted: %+v", reloaded.Items[0])
	}
}

func TestOrderListsNewestFirstWithUserName(t *testing.T) {
	db := memdb(t)
	cartSvc, orderSvc, _ := newOrderEnv(db)

	for i := 0; i < 2; i++ {
		if _, err := cartSvc.Add("u-client", "prod-runners", 1); err != nil {
			t.Fatal(err)
		}
		if _, err := orderSvc.Place("u-client", domain.ShippingAddress{}); err != nil {
			t.Fatal(err)
		}
	}

	mine, err := orderSvc.MyOrders("u-client")
	if err != nil {
		t.Fatal(err)
	}
	if len(mine) != 2 {
		t.Fatalf("want 2 orders, got %d", len(mine))
	}

	all, err := orderSvc.AllOrders()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Fatalf("want 2 orders, got %d", len(all))
	}
	for _, o := range all {
		if o.UserName != "Client" {
			t.Fatalf("purchaser name not populated: %+v", o)
		}
	}
}
