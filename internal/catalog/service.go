package catalog

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/sandeepk26/orbis-backend/internal/apperror"
)

type Service interface {
	ListCategories() ([]Category, error)
	CreateCategory(name, slug string) (*Category, error)
	UpdateCategory(id uint, name, slug string) (*Category, error)
	DeleteCategory(id uint) error

	ListProducts(categoryID uint) ([]Product, error)
	GetProduct(id uint) (*Product, error)
	CreateProduct(in ProductInput) (*Product, error)
	UpdateProduct(id uint, in ProductInput) (*Product, error)
	DeleteProduct(id uint) error

	ListServices(categoryID uint) ([]ServiceItem, error)
	GetService(id uint) (*ServiceItem, error)
	// GetServicesByIDs errors when any id is unknown; booking uses it to
	// price and validate service_ids.
	GetServicesByIDs(ids []uint) ([]ServiceItem, error)
	CreateService(in ServiceInput) (*ServiceItem, error)
	UpdateService(id uint, in ServiceInput) (*ServiceItem, error)
	DeleteService(id uint) error
}

type service struct{ repo Repository }

func NewService(r Repository) Service {
	return &service{repo: r}
}

type ProductInput struct {
	CategoryID uint
	Name       string
	Slug       string
	Price      float64
	Stock      int
	Image      string
}

type ServiceInput struct {
	CategoryID      uint
	Name            string
	Slug            string
	Price           float64
	DurationMinutes int
	Description     string
}

// ==============================
// Categories
// ==============================

func (s *service) ListCategories() ([]Category, error) {
	return s.repo.ListCategories()
}

func (s *service) CreateCategory(name, slug string) (*Category, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperror.Validation("name is required")
	}
	slug = resolveSlug(name, slug)

	exists, err := s.repo.CategorySlugExists(slug, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.Conflict("a category with this slug already exists")
	}

	cat := &Category{Name: name, Slug: slug}
	if err := s.repo.CreateCategory(cat); err != nil {
		return nil, err
	}
	return cat, nil
}

func (s *service) UpdateCategory(id uint, name, slug string) (*Category, error) {
	cat, err := s.repo.FindCategory(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("category not found")
	}
	if err != nil {
		return nil, err
	}

	if name != "" {
		cat.Name = name
	}
	if slug != "" || name != "" {
		newSlug := resolveSlug(cat.Name, slug)
		exists, err := s.repo.CategorySlugExists(newSlug, id)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, apperror.Conflict("a category with this slug already exists")
		}
		cat.Slug = newSlug
	}

	if err := s.repo.UpdateCategory(cat); err != nil {
		return nil, err
	}
	return cat, nil
}

func (s *service) DeleteCategory(id uint) error {
	if _, err := s.repo.FindCategory(id); errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFound("category not found")
	} else if err != nil {
		return err
	}
	return s.repo.DeleteCategory(id)
}

// ==============================
// Products
// ==============================

func (s *service) ListProducts(categoryID uint) ([]Product, error) {
	return s.repo.ListProducts(categoryID)
}

func (s *service) GetProduct(id uint) (*Product, error) {
	p, err := s.repo.FindProduct(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("product not found")
	}
	return p, err
}

func (s *service) CreateProduct(in ProductInput) (*Product, error) {
	if err := s.validateProduct(in); err != nil {
		return nil, err
	}
	slug := resolveSlug(in.Name, in.Slug)

	exists, err := s.repo.ProductSlugExists(slug, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.Conflict("a product with this slug already exists")
	}

	p := &Product{
		CategoryID: in.CategoryID,
		Name:       in.Name,
		Slug:       slug,
		Price:      in.Price,
		Stock:      in.Stock,
		Image:      in.Image,
	}
	if err := s.repo.CreateProduct(p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) UpdateProduct(id uint, in ProductInput) (*Product, error) {
	p, err := s.GetProduct(id)
	if err != nil {
		return nil, err
	}

	if in.Name != "" {
		p.Name = in.Name
	}
	if in.Slug != "" || in.Name != "" {
		newSlug := resolveSlug(p.Name, in.Slug)
		exists, err := s.repo.ProductSlugExists(newSlug, id)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, apperror.Conflict("a product with this slug already exists")
		}
		p.Slug = newSlug
	}
	if in.CategoryID != 0 {
		p.CategoryID = in.CategoryID
	}
	if in.Price > 0 {
		p.Price = in.Price
	}
	if in.Stock >= 0 {
		p.Stock = in.Stock
	}
	if in.Image != "" {
		p.Image = in.Image
	}

	if err := s.repo.UpdateProduct(p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) DeleteProduct(id uint) error {
	if _, err := s.GetProduct(id); err != nil {
		return err
	}
	return s.repo.DeleteProduct(id)
}

func (s *service) validateProduct(in ProductInput) error {
	var errs []string
	if strings.TrimSpace(in.Name) == "" {
		errs = append(errs, "name is required")
	}
	if in.CategoryID == 0 {
		errs = append(errs, "category_id is required")
	}
	if in.Price <= 0 {
		errs = append(errs, "price must be greater than zero")
	}
	if len(errs) > 0 {
		return apperror.Validation(errs...)
	}
	return nil
}

// ==============================
// Services
// ==============================

func (s *service) ListServices(categoryID uint) ([]ServiceItem, error) {
	return s.repo.ListServices(categoryID)
}

func (s *service) GetService(id uint) (*ServiceItem, error) {
	item, err := s.repo.FindService(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("service not found")
	}
	return item, err
}

func (s *service) GetServicesByIDs(ids []uint) ([]ServiceItem, error) {
	if len(ids) == 0 {
		return nil, apperror.Validation("at least one service is required")
	}
	items, err := s.repo.FindServicesByIDs(ids)
	if err != nil {
		return nil, err
	}
	if len(items) != len(ids) {
		return nil, apperror.Validation("one or more services do not exist")
	}
	return items, nil
}

func (s *service) CreateService(in ServiceInput) (*ServiceItem, error) {
	var errs []string
	if strings.TrimSpace(in.Name) == "" {
		errs = append(errs, "name is required")
	}
	if in.CategoryID == 0 {
		errs = append(errs, "category_id is required")
	}
	if in.Price <= 0 {
		errs = append(errs, "price must be greater than zero")
	}
	if len(errs) > 0 {
		return nil, apperror.Validation(errs...)
	}
	slug := resolveSlug(in.Name, in.Slug)

	exists, err := s.repo.ServiceSlugExists(slug, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.Conflict("a service with this slug already exists")
	}

	item := &ServiceItem{
		CategoryID:      in.CategoryID,
		Name:            in.Name,
		Slug:            slug,
		Price:           in.Price,
		DurationMinutes: in.DurationMinutes,
		Description:     in.Description,
	}
	if item.DurationMinutes <= 0 {
		item.DurationMinutes = 30
	}
	if err := s.repo.CreateService(item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *service) UpdateService(id uint, in ServiceInput) (*ServiceItem, error) {
	item, err := s.GetService(id)
	if err != nil {
		return nil, err
	}

	if in.Name != "" {
		item.Name = in.Name
	}
	if in.Slug != "" || in.Name != "" {
		newSlug := resolveSlug(item.Name, in.Slug)
		exists, err := s.repo.ServiceSlugExists(newSlug, id)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, apperror.Conflict("a service with this slug already exists")
		}
		item.Slug = newSlug
	}
	if in.CategoryID != 0 {
		item.CategoryID = in.CategoryID
	}
	if in.Price > 0 {
		item.Price = in.Price
	}
	if in.DurationMinutes > 0 {
		item.DurationMinutes = in.DurationMinutes
	}
	if in.Description != "" {
		item.Description = in.Description
	}

	if err := s.repo.UpdateService(item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *service) DeleteService(id uint) error {
	if _, err := s.GetService(id); err != nil {
		return err
	}
	return s.repo.DeleteService(id)
}

func resolveSlug(name, slug string) string {
	if slug != "" {
		return Slugify(slug)
	}
	return Slugify(name)
}
