package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	applog "minimart/internal/log"
	"minimart/internal/repos"
	"minimart/internal/services"
	"minimart/internal/validate"
)

type CategoryHandler struct {
	Catalog *services.CatalogService
}

type categoryBody struct {
	Name          string   `json:"name"`
	SubCategories []string `json:"subCategories"`
}

// GET /api/categories
func (h *CategoryHandler) List(c *fiber.Ctx) error {
	cats, err := h.Catalog.ListCategories()
	if err != nil {
		applog.Error(c, "categories.list.fail", err, nil)
		return message(c, fiber.StatusInternalServerError, "Server error while fetching categories.")
	}
	return c.JSON(cats)
}

// POST /api/categories (seller)
func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	var body categoryBody
	if err := c.BodyParser(&body); err != nil {
		return message(c, fiber.StatusBadRequest, "Invalid request body.")
	}
	name, ok := validate.Name(body.Name)
	if !ok {
		return message(c, fiber.StatusBadRequest, "Category name is required.")
	}
	cat, err := h.Catalog.CreateCategory(name, body.SubCategories)
	if err != nil {
		if errors.Is(err, services.ErrNameTaken) {
			return message(c, fiber.StatusBadRequest, "Category with this name already exists.")
		}
		applog.Error(c, "categories.create.fail", err, nil)
		return message(c, fiber.StatusInternalServerError, "Server error while creating category.")
	}
	applog.Audit(c, "categories.create", map[string]any{"category_id": cat.ID})
	return c.Status(fiber.StatusCreated).JSON(cat)
}

// PUT /api/categories/:id (seller). A supplied subCategories list replaces
// the whole set; clients must send the complete desired list.
func (h *CategoryHandler) Update(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return message(c, fiber.StatusNotFound, "Category not found.")
	}
	var body categoryBody
	if err := c.BodyParser(&body); err != nil {
		return message(c, fiber.StatusBadRequest, "Invalid request body.")
	}
	cat, err := h.Catalog.UpdateCategory(id, body.Name, body.SubCategories)
	if err != nil {
		if repos.IsNotFound(err) {
			return message(c, fiber.StatusNotFound, "Category not found.")
		}
		if errors.Is(err, services.ErrNameTaken) {
			return message(c, fiber.StatusBadRequest, "Category with this name already exists.")
		}
		applog.Error(c, "categories.update.fail", err, nil)
		return message(c, fiber.StatusInternalServerError, "Server error while updating category.")
	}
	applog.Audit(c, "categories.update", map[string]any{"category_id": id})
	return c.JSON(cat)
}

// DELETE /api/categories/:id (seller). Products referencing the category
// keep their reference; nothing cascades.
func (h *CategoryHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return message(c, fiber.StatusNotFound, "Category not found.")
	}
	removed, err := h.Catalog.DeleteCategory(id)
	if err != nil {
		applog.Error(c, "categories.delete.fail", err, nil)
		return message(c, fiber.StatusInternalServerError, "Server error while deleting category.")
	}
	if !removed {
		return message(c, fiber.StatusNotFound, "Category not found.")
	}
	applog.Audit(c, "categories.delete", map[string]any{"category_id": id})
	return c.JSON(fiber.Map{"message": "Category removed."})
}
