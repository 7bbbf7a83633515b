package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "minimart/internal/log"
	"minimart/internal/services"
	"minimart/internal/validate"
)

// PageHandler serves the minimal server-rendered storefront. The JSON API
// is the real surface; these pages are read-only.
type PageHandler struct {
	Catalog *services.CatalogService
}

// GET /
func (h *PageHandler) Home(c *fiber.Ctx) error {
	page := validate.Page(c.Query("page"))
	result, err := h.Catalog.ListProducts(c.Query("keyword"), page)
	if err != nil {
		applog.Error(c, "pages.home.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Something went wrong. Please try again."})
	}
	return c.Render("home", fiber.Map{
		"Products": result.Products,
		"Page":     result.Page,
		"Pages":    result.Pages,
		"Keyword":  c.Query("keyword"),
	})
}

// GET /product/:id
func (h *PageHandler) Product(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "This item is no longer available"})
	}
	p, err := h.Catalog.GetProduct(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "This item is no longer available"})
	}
	return c.Render("product", fiber.Map{"P": p})
}
