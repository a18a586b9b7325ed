package booking

import (
	"gorm.io/gorm"
)

type Repository interface {
	Create(b *Booking) error
	FindByID(id uint) (*Booking, error)
	FindByOrderID(orderID string) (*Booking, error)
	ListByCustomer(customerID uint, status string) ([]Booking, error)
	ListByWasher(washerID uint, status string) ([]Booking, error)
	ListAll(status string) ([]Booking, error)
	Update(b *Booking) error

	CreateHistory(h *BookingHistory) error
	FindHistory(bookingID uint) (*BookingHistory, error)
}

type repository struct{ db *gorm.DB }

func NewRepository(db *gorm.DB) Repository {
	return &repository{db}
}

func (r *repository) Create(b *Booking) error { return r.db.Create(b).Error }

func (r *repository) FindByID(id uint) (*Booking, error) {
	var b Booking
	err := r.db.First(&b, id).Error
	return &b, err
}

func (r *repository) FindByOrderID(orderID string) (*Booking, error) {
	var b Booking
	err := r.db.Where("order_id = ?", orderID).First(&b).Error
	return &b, err
}

func (r *repository) ListByCustomer(customerID uint, status string) ([]Booking, error) {
	return r.list(r.db.Where("customer_id = ?", customerID), status)
}

func (r *repository) ListByWasher(washerID uint, status string) ([]Booking, error) {
	return r.list(r.db.Where("washer_id = ?", washerID), status)
}

func (r *repository) ListAll(status string) ([]Booking, error) {
	return r.list(r.db, status)
}

func (r *repository) list(q *gorm.DB, status string) ([]Booking, error) {
	var bookings []Booking
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Order("scheduled_date DESC").Find(&bookings).Error
	return bookings, err
}

func (r *repository) Update(b *Booking) error { return r.db.Save(b).Error }

func (r *repository) CreateHistory(h *BookingHistory) error {
	return r.db.Create(h).Error
}

func (r *repository) FindHistory(bookingID uint) (*BookingHistory, error) {
	var h BookingHistory
	err := r.db.Where("booking_id = ?", bookingID).First(&h).Error
	return &h, err
}
