package vehicle

import (
	"gorm.io/gorm"
)

type Repository interface {
	ListByCustomer(customerID uint) ([]Vehicle, error)
	FindByID(id uint) (*Vehicle, error)
	PlateExists(customerID uint, plate string, excludeID uint) (bool, error)
	Create(v *Vehicle) error
	Update(v *Vehicle) error
	Delete(id uint) error
}

type repository struct{ db *gorm.DB }

func NewRepository(db *gorm.DB) Repository {
	return &repository{db}
}

func (r *repository) ListByCustomer(customerID uint) ([]Vehicle, error) {
	var vehicles []Vehicle
	err := r.db.Where("customer_id = ?", customerID).Order("created_at DESC").Find(&vehicles).Error
	return vehicles, err
}

func (r *repository) FindByID(id uint) (*Vehicle, error) {
	var v Vehicle
	err := r.db.First(&v, id).Error
	return &v, err
}

func (r *repository) PlateExists(customerID uint, plate string, excludeID uint) (bool, error) {
	var count int64
	q := r.db.Model(&Vehicle{}).
		Where("customer_id = ? AND plate_number = ?", customerID, plate)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

func (r *repository) Create(v *Vehicle) error { return r.db.Create(v).Error }

func (r *repository) Update(v *Vehicle) error { return r.db.Save(v).Error }

func (r *repository) Delete(id uint) error {
	return r.db.Delete(&Vehicle{}, id).Error
}
