package catalog

import (
	"time"

	"gorm.io/gorm"
)

// Category groups products and services for the storefront.
type Category struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"size:100;not null" json:"name"`
	Slug      string         `gorm:"size:120;uniqueIndex;not null" json:"slug"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Category) TableName() string { return "categories" }

// Product is a physical item sold alongside wash services.
type Product struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	CategoryID uint           `gorm:"column:category_id;index;not null" json:"category_id"`
	Name       string         `gorm:"size:150;not null" json:"name"`
	Slug       string         `gorm:"size:170;uniqueIndex;not null" json:"slug"`
	Price      float64        `gorm:"not null" json:"price"`
	Stock      int            `gorm:"default:0" json:"stock"`
	Image      string         `gorm:"size:255" json:"image"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Product) TableName() string { return "products" }

// ServiceItem is a bookable wash service.
type ServiceItem struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	CategoryID      uint           `gorm:"column:category_id;index;not null" json:"category_id"`
	Name            string         `gorm:"size:150;not null" json:"name"`
	Slug            string         `gorm:"size:170;uniqueIndex;not null" json:"slug"`
	Price           float64        `gorm:"not null" json:"price"`
	DurationMinutes int            `gorm:"column:duration_minutes;default:30" json:"duration_minutes"`
	Description     string         `gorm:"type:text" json:"description"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

func (ServiceItem) TableName() string { return "service_items" }
