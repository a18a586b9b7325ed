package vehicle

import (
	"time"

	"gorm.io/gorm"
)

// Vehicle belongs to a customer; the plate number is unique per customer so
// two customers may register the same plate (fleet handovers happen).
type Vehicle struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	CustomerID  uint           `gorm:"column:customer_id;not null;uniqueIndex:idx_customer_plate" json:"customer_id"`
	VehicleType string         `gorm:"column:vehicle_type;size:30;not null" json:"vehicle_type"`
	Maker       string         `gorm:"size:50" json:"maker"`
	Model       string         `gorm:"size:50" json:"model"`
	PlateNumber string         `gorm:"column:plate_number;size:20;not null;uniqueIndex:idx_customer_plate" json:"plate_number"`
	Color       string         `gorm:"size:30" json:"color"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Vehicle) TableName() string { return "vehicles" }
