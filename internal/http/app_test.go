package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"minimart/internal/config"
	"minimart/internal/http/handlers"
	"minimart/internal/repos"
)

// newTestApp wires the JSON API exactly like cmd/minimart, minus the
// server-rendered pages and static routes.
func newTestApp(t *testing.T) (*fiber.App, *sqlx.DB, config.Config) {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	cfg := config.Config{
		DBDSN:     ":memory:",
		JWTSecret: "test-secret",
		TokenDays: 30,
		UploadDir: t.TempDir(),
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Something went wrong. Please try again.",
			})
		},
	})
	app.Use(requestid.New())

	deps := handlers.NewDeps(db, cfg)
	protect := handlers.Protect(deps.Auth)
	seller := handlers.RequireSeller()

	api := app.Group("/api")
	users := api.Group("/users")
	users.Post("/register", deps.AuthHandler.Register)
	users.Post("/login", deps.AuthHandler.Login)

	products := api.Group("/products")
	products.Get("/", deps.ProductHandler.List)
	products.Get("/:id", deps.ProductHandler.Get)
	products.Post("/", protect, seller, deps.ProductHandler.Create)
	products.Put("/:id", protect, seller, deps.ProductHandler.Update)
	products.Delete("/:id", protect, seller, deps.ProductHandler.Delete)

	categories := api.Group("/categories")
	categories.Get("/", deps.CategoryHandler.List)
	categories.Post("/", protect, seller, deps.CategoryHandler.Create)
	categories.Put("/:id", protect, seller, deps.CategoryHandler.Update)
	categories.Delete("/:id", protect, seller, deps.CategoryHandler.Delete)

	cart := api.Group("/cart", protect)
	cart.Get("/", deps.CartHandler.View)
	cart.Post("/", deps.CartHandler.Add)
	cart.Delete("/:productId", deps.CartHandler.Remove)

	orders := api.Group("/orders", protect)
	orders.Post("/", deps.OrderHandler.Place)
	orders.Get("/myorders", deps.OrderHandler.Mine)
	orders.Get("/", seller, deps.OrderHandler.All)
	orders.Put("/:id/status", seller, deps.OrderHandler.UpdateStatus)

	return app, db, cfg
}

// doJSON fires a JSON request; body may be nil.
func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) *http.Response {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, int(5*time.Second/time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func decode(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

// login fetches a token for a seeded account.
func login(t *testing.T, app *fiber.App, email, password string) string {
	t.Helper()
	resp := doJSON(t, app, "POST", "/api/users/login", "", fiber.Map{
		"email": email, "password": password,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login %s: status %d", email, resp.StatusCode)
	}
	var body struct {
		Token string `json:"token"`
	}
	decode(t, resp, &body)
	if body.Token == "" {
		t.Fatal("no token in login response")
	}
	return body.Token
}
