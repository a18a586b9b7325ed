package catalog

import (
	"gorm.io/gorm"
)

type Repository interface {
	// Categories
	ListCategories() ([]Category, error)
	FindCategory(id uint) (*Category, error)
	CategorySlugExists(slug string, excludeID uint) (bool, error)
	CreateCategory(cat *Category) error
	UpdateCategory(cat *Category) error
	DeleteCategory(id uint) error

	// Products
	ListProducts(categoryID uint) ([]Product, error)
	FindProduct(id uint) (*Product, error)
	ProductSlugExists(slug string, excludeID uint) (bool, error)
	CreateProduct(p *Product) error
	UpdateProduct(p *Product) error
	DeleteProduct(id uint) error

	// Services
	ListServices(categoryID uint) ([]ServiceItem, error)
	FindService(id uint) (*ServiceItem, error)
	FindServicesByIDs(ids []uint) ([]ServiceItem, error)
	ServiceSlugExists(slug string, excludeID uint) (bool, error)
	CreateService(s *ServiceItem) error
	UpdateService(s *ServiceItem) error
	DeleteService(id uint) error
}

type repository struct{ db *gorm.DB }

func NewRepository(db *gorm.DB) Repository {
	return &repository{db}
}

func (r *repository) ListCategories() ([]Category, error) {
	var cats []Category
	err := r.db.Order("name").Find(&cats).Error
	return cats, err
}

func (r *repository) FindCategory(id uint) (*Category, error) {
	var cat Category
	err := r.db.First(&cat, id).Error
	return &cat, err
}

func (r *repository) CategorySlugExists(slug string, excludeID uint) (bool, error) {
	return r.slugExists(&Category{}, slug, excludeID)
}

func (r *repository) CreateCategory(cat *Category) error { return r.db.Create(cat).Error }
func (r *repository) UpdateCategory(cat *Category) error { return r.db.Save(cat).Error }

func (r *repository) DeleteCategory(id uint) error {
	return r.db.Delete(&Category{}, id).Error
}

func (r *repository) ListProducts(categoryID uint) ([]Product, error) {
	var products []Product
	q := r.db.Order("name")
	if categoryID != 0 {
		q = q.Where("category_id = ?", categoryID)
	}
	err := q.Find(&products).Error
	return products, err
}

func (r *repository) FindProduct(id uint) (*Product, error) {
	var p Product
	err := r.db.First(&p, id).Error
	return &p, err
}

func (r *repository) ProductSlugExists(slug string, excludeID uint) (bool, error) {
	return r.slugExists(&Product{}, slug, excludeID)
}

func (r *repository) CreateProduct(p *Product) error { return r.db.Create(p).Error }
func (r *repository) UpdateProduct(p *Product) error { return r.db.Save(p).Error }

func (r *repository) DeleteProduct(id uint) error {
	return r.db.Delete(&Product{}, id).Error
}

func (r *repository) ListServices(categoryID uint) ([]ServiceItem, error) {
	var services []ServiceItem
	q := r.db.Order("name")
	if categoryID != 0 {
		q = q.Where("category_id = ?", categoryID)
	}
	err := q.Find(&services).Error
	return services, err
}

func (r *repository) FindService(id uint) (*ServiceItem, error) {
	var s ServiceItem
	err := r.db.First(&s, id).Error
	return &s, err
}

func (r *repository) FindServicesByIDs(ids []uint) ([]ServiceItem, error) {
	var services []ServiceItem
	err := r.db.Where("id IN ?", ids).Find(&services).Error
	return services, err
}

func (r *repository) ServiceSlugExists(slug string, excludeID uint) (bool, error) {
	return r.slugExists(&ServiceItem{}, slug, excludeID)
}

func (r *repository) CreateService(s *ServiceItem) error { return r.db.Create(s).Error }
func (r *repository) UpdateService(s *ServiceItem) error { return r.db.Save(s).Error }

func (r *repository) DeleteService(id uint) error {
	return r.db.Delete(&ServiceItem{}, id).Error
}

func (r *repository) slugExists(model interface{}, slug string, excludeID uint) (bool, error) {
	var count int64
	q := r.db.Model(model).Where("slug = ?", slug)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}
