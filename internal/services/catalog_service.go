package services

import (
	"errors"

	"github.com/google/uuid"

	"minimart/internal/domain"
	"minimart/internal/repos"
	"minimart/internal/validate"
)

// PageSize is the fixed catalog page size.
const PageSize = 12

var (
	ErrBadCategory = errors.New("category or sub-category not found")
	ErrBadPrice    = errors.New("price must be greater than zero")
	ErrBadDiscount = errors.New("discount must be between 0 and 100")
	ErrNameTaken   = repos.ErrNameTaken
)

type CatalogService struct {
	Cats  *repos.CategoryRepo
	Prods *repos.ProductRepo
}

func NewCatalogService(cats *repos.CategoryRepo, prods *repos.ProductRepo) *CatalogService {
	return &CatalogService{Cats: cats, Prods: prods}
}

// ProductPage is one page of catalog results.
type ProductPage struct {
	Products []domain.Product `json:"products"`
	Page     int              `json:"page"`
	Pages    int              `json:"pages"`
}

func (s *CatalogService) ListProducts(keyword string, page int) (ProductPage, error) {
	if page < 1 {
		page = 1
	}
	keyword = validate.Keyword(keyword)
	count, err := s.Prods.Count(keyword)
	if err != nil {
		return ProductPage{}, err
	}
	products, err := s.Prods.List(keyword, PageSize, PageSize*(page-1))
	if err != nil {
		return ProductPage{}, err
	}
	pages := (count + PageSize - 1) / PageSize
	return ProductPage{Products: products, Page: page, Pages: pages}, nil
}

func (s *CatalogService) GetProduct(id string) (domain.Product, error) {
	return s.Prods.Get(id)
}

// ProductInput carries the fields a seller submits; pointers distinguish
// "absent" from zero on partial updates.
type ProductInput struct {
	Name        *string
	Description *string
	Price       *float64
	Discount    *float64
	CategoryID  *string
	SubCategory *string
	Stock       *int
	ImageURL    *string
}

func (s *CatalogService) checkCategory(categoryID, subCategory string) error {
	cat, err := s.Cats.Get(categoryID)
	if err != nil {
		return ErrBadCategory
	}
	if !cat.HasSub(subCategory) {
		return ErrBadCategory
	}
	return nil
}

func (s *CatalogService) CreateProduct(in ProductInput) (domain.Product, error) {
	if in.Name == nil || in.Description == nil || in.Price == nil ||
		in.CategoryID == nil || in.SubCategory == nil || in.Stock == nil || in.ImageURL == nil {
		return domain.Product{}, errors.New("missing required product fields")
	}
	if !validate.Price(*in.Price) {
		return domain.Product{}, ErrBadPrice
	}
	discount := 0.0
	if in.Discount != nil {
		discount = *in.Discount
	}
	if !validate.Discount(discount) {
		return domain.Product{}, ErrBadDiscount
	}
	if *in.Stock < 0 {
		return domain.Product{}, errors.New("stock must not be negative")
	}
	if err := s.checkCategory(*in.CategoryID, *in.SubCategory); err != nil {
		return domain.Product{}, err
	}

	p := domain.Product{
		ID:          uuid.NewString(),
		CategoryID:  *in.CategoryID,
		SubCategory: *in.SubCategory,
		Name:        *in.Name,
		Description: *in.Description,
		Price:       *in.Price,
		Discount:    discount,
		ImageURL:    *in.ImageURL,
		Stock:       *in.Stock,
	}
	if err := s.Prods.Create(&p); err != nil {
		return domain.Product{}, err
	}
	return s.Prods.Get(p.ID)
}

// UpdateProduct merges the supplied fields into the existing product.
// Returns the old image URL when a new one replaced it, so the caller can
// clean up the stored file.
func (s *CatalogService) UpdateProduct(id string, in ProductInput) (domain.Product, string, error) {
	p, err := s.Prods.Get(id)
	if err != nil {
		return domain.Product{}, "", err
	}
	oldImage := ""
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Price != nil {
		if !validate.Price(*in.Price) {
			return domain.Product{}, "", ErrBadPrice
		}
		p.Price = *in.Price
	}
	if in.Discount != nil {
		if !validate.Discount(*in.Discount) {
			return domain.Product{}, "", ErrBadDiscount
		}
		p.Discount = *in.Discount
	}
	if in.CategoryID != nil {
		p.CategoryID = *in.CategoryID
	}
	if in.SubCategory != nil {
		p.SubCategory = *in.SubCategory
	}
	if in.CategoryID != nil || in.SubCategory != nil {
		if err := s.checkCategory(p.CategoryID, p.SubCategory); err != nil {
			return domain.Product{}, "", err
		}
	}
	if in.Stock != nil {
		if *in.Stock < 0 {
			return domain.Product{}, "", errors.New("stock must not be negative")
		}
		p.Stock = *in.Stock
	}
	if in.ImageURL != nil && *in.ImageURL != p.ImageURL {
		oldImage = p.ImageURL
		p.ImageURL = *in.ImageURL
	}
	if err := s.Prods.Update(&p); err != nil {
		return domain.Product{}, "", err
	}
	updated, err := s.Prods.Get(id)
	return updated, oldImage, err
}

// DeleteProduct removes the product and reports its image URL for cleanup.
func (s *CatalogService) DeleteProduct(id string) (string, error) {
	p, err := s.Prods.Get(id)
	if err != nil {
		return "", err
	}
	if _, err := s.Prods.Delete(id); err != nil {
		return "", err
	}
	return p.ImageURL, nil
}

// ---------- Categories ----------

func (s *CatalogService) ListCategories() ([]domain.Category, error) {
	return s.Cats.List()
}

func (s *CatalogService) CreateCategory(name string, subs []string) (domain.Category, error) {
	if subs == nil {
		subs = []string{}
	}
	c := domain.Category{ID: uuid.NewString(), Name: name, SubCats: subs}
	if err := s.Cats.Create(&c); err != nil {
		return domain.Category{}, err
	}
	return s.Cats.Get(c.ID)
}

// UpdateCategory renames and/or replaces the complete sub-category list.
// A nil subs slice leaves sub-categories untouched.
func (s *CatalogService) UpdateCategory(id, name string, subs []string) (domain.Category, error) {
	if _, err := s.Cats.Get(id); err != nil {
		return domain.Category{}, err
	}
	if err := s.Cats.Update(id, name, subs); err != nil {
		return domain.Category{}, err
	}
	return s.Cats.Get(id)
}

func (s *CatalogService) DeleteCategory(id string) (bool, error) {
	return s.Cats.Delete(id)
}
