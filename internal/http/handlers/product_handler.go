package handlers

import (
	"errors"
	"mime/multipart"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	applog "minimart/internal/log"
	"minimart/internal/repos"
	"minimart/internal/services"
	"minimart/internal/validate"
)

type ProductHandler struct {
	Catalog   *services.CatalogService
	UploadDir string
}

// GET /api/products?keyword=&pageNumber=
func (h *ProductHandler) List(c *fiber.Ctx) error {
	page := validate.Page(c.Query("pageNumber"))
	result, err := h.Catalog.ListProducts(c.Query("keyword"), page)
	if err != nil {
		applog.Error(c, "products.list.fail", err, nil)
		return message(c, fiber.StatusInternalServerError, "Server error while fetching products.")
	}
	return c.JSON(result)
}

// GET /api/products/:id
func (h *ProductHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return message(c, fiber.StatusNotFound, "Product not found.")
	}
	p, err := h.Catalog.GetProduct(id)
	if err != nil {
		if repos.IsNotFound(err) {
			return message(c, fiber.StatusNotFound, "Product not found.")
		}
		applog.Error(c, "products.get.fail", err, nil)
		return message(c, fiber.StatusInternalServerError, "Server error while fetching product.")
	}
	return c.JSON(p)
}

// productInput reads the multipart form into a partial-update input.
// Absent keys stay nil so updates only touch supplied fields.
func productInput(c *fiber.Ctx) (services.ProductInput, error) {
	var in services.ProductInput
	form, err := c.MultipartForm()
	if err != nil {
		return in, err
	}
	str := func(key string) *string {
		if vs, ok := form.Value[key]; ok && len(vs) > 0 {
			v := vs[0]
			return &v
		}
		return nil
	}
	in.Name = str("name")
	in.Description = str("description")
	in.CategoryID = str("category")
	in.SubCategory = str("subCategory")
	if v := str("price"); v != nil {
		f, err := strconv.ParseFloat(*v, 64)
		if err != nil {
			return in, errors.New("invalid price")
		}
		in.Price = &f
	}
	if v := str("discount"); v != nil {
		f, err := strconv.ParseFloat(*v, 64)
		if err != nil {
			return in, errors.New("invalid discount")
		}
		in.Discount = &f
	}
	if v := str("stock"); v != nil {
		n, err := strconv.Atoi(*v)
		if err != nil {
			return in, errors.New("invalid stock")
		}
		in.Stock = &n
	}
	return in, nil
}

// saveImage stores the upload under a fresh name and returns its URL path.
func (h *ProductHandler) saveImage(c *fiber.Ctx, file *multipart.FileHeader) (string, error) {
	name := uuid.NewString() + filepath.Ext(file.Filename)
	if err := c.SaveFile(file, filepath.Join(h.UploadDir, name)); err != nil {
		return "", err
	}
	return "/uploads/" + name, nil
}

// removeImage deletes a stored product image. Best effort: a failure is
// logged and the surrounding request still succeeds.
func (h *ProductHandler) removeImage(c *fiber.Ctx, imageURL string) {
	if imageURL == "" {
		return
	}
	path := filepath.Join(h.UploadDir, filepath.Base(imageURL))
	if err := os.Remove(path); err != nil {
		applog.Error(c, "products.image.remove.fail", err, map[string]any{"path": path})
	}
}

// POST /api/products (seller, multipart)
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	in, err := productInput(c)
	if err != nil {
		return message(c, fiber.StatusBadRequest, err.Error())
	}
	file, err := c.FormFile("image")
	if err != nil {
		return message(c, fiber.StatusBadRequest, "Product image is required.")
	}
	imageURL, err := h.saveImage(c, file)
	if err != nil {
		applog.Error(c, "products.image.save.fail", err, nil)
		return message(c, fiber.StatusInternalServerError, "Server error while creating product.")
	}
	in.ImageURL = &imageURL

	p, err := h.Catalog.CreateProduct(in)
	if err != nil {
		// The stored image has no owner now; clean it up.
		h.removeImage(c, imageURL)
		if errors.Is(err, services.ErrBadCategory) {
			return message(c, fiber.StatusBadRequest, "Category or sub-category not found.")
		}
		return message(c, fiber.StatusBadRequest, err.Error())
	}
	applog.Audit(c, "products.create", map[string]any{"product_id": p.ID})
	return c.Status(fiber.StatusCreated).JSON(p)
}

// PUT /api/products/:id (seller, partial update)
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return message(c, fiber.StatusNotFound, "Product not found.")
	}
	in, err := productInput(c)
	if err != nil {
		return message(c, fiber.StatusBadRequest, err.Error())
	}
	if file, err := c.FormFile("image"); err == nil {
		imageURL, err := h.saveImage(c, file)
		if err != nil {
			applog.Error(c, "products.image.save.fail", err, nil)
			return message(c, fiber.StatusInternalServerError, "Server error while updating product.")
		}
		in.ImageURL = &imageURL
	}

	p, oldImage, err := h.Catalog.UpdateProduct(id, in)
	if err != nil {
		if repos.IsNotFound(err) {
			return message(c, fiber.StatusNotFound, "Product not found.")
		}
		if errors.Is(err, services.ErrBadCategory) {
			return message(c, fiber.StatusBadRequest, "Category or sub-category not found.")
		}
		return message(c, fiber.StatusBadRequest, err.Error())
	}
	h.removeImage(c, oldImage)
	applog.Audit(c, "products.update", map[string]any{"product_id": id})
	return c.JSON(p)
}

// DELETE /api/products/:id (seller)
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return message(c, fiber.StatusNotFound, "Product not found.")
	}
	imageURL, err := h.Catalog.DeleteProduct(id)
	if err != nil {
		if repos.IsNotFound(err) {
			return message(c, fiber.StatusNotFound, "Product not found.")
		}
		applog.Error(c, "products.delete.fail", err, nil)
		return message(c, fiber.StatusInternalServerError, "Server error while deleting product.")
	}
	h.removeImage(c, imageURL)
	applog.Audit(c, "products.delete", map[string]any{"product_id": id})
	return c.JSON(fiber.Map{"message": "Product removed successfully."})
}
