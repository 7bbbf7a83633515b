package main

import (
	"io"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"

	"minimart/internal/config"
	"minimart/internal/http/handlers"
	applog "minimart/internal/log"
	"minimart/internal/repos"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			log.SetOutput(io.MultiWriter(os.Stdout, f))
		}
	}

	if err := os.MkdirAll(cfg.UploadDir, 0755); err != nil {
		log.Fatal(err)
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	engine := html.New("./web/templates", ".html")

	app := fiber.New(fiber.Config{
		Views: engine,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Error(c, "server.error", err, nil)
			// Generic body; full detail stays in the server log
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Something went wrong. Please try again.",
			})
		},
	})
	// Multipart product images can be a few MiB
	app.Server().MaxRequestBodySize = 8 << 20

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(cors.New())

	// ---------- Static assets ----------
	app.Static("/static", "./web/static")
	app.Static("/uploads", cfg.UploadDir)

	deps := handlers.NewDeps(db, cfg)
	protect := handlers.Protect(deps.Auth)
	seller := handlers.RequireSeller()

	// Storefront pages
	app.Get("/", deps.PageHandler.Home)
	app.Get("/product/:id", deps.PageHandler.Product)

	// API
	api := app.Group("/api")
	api.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "Welcome to the minimart API! Server is running."})
	})

	users := api.Group("/users")
	users.Post("/register", deps.AuthHandler.Register)
	users.Post("/login", limiter.New(limiter.Config{
		Max:        10,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"message": "Too many attempts. Please try again later."})
		},
	}), deps.AuthHandler.Login)

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

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Not found."})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}
