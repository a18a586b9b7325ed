package booking

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Booking statuses.
const (
	StatusPending    = "pending"
	StatusConfirmed  = "confirmed"
	StatusAllocated  = "allocated"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// Payment statuses.
const (
	PaymentUnpaid   = "unpaid"
	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentRefunded = "refunded"
)

// Booking is one wash appointment for a customer's vehicle.
type Booking struct {
	ID         uint  `gorm:"primaryKey" json:"id"`
	CustomerID uint  `gorm:"column:customer_id;index;not null" json:"customer_id"`
	WasherID   *uint `gorm:"column:washer_id;index" json:"washer_id,omitempty"`
	VehicleID  uint  `gorm:"column:vehicle_id;not null" json:"vehicle_id"`

	// IDs of the booked service items, stored as a JSON array.
	ServiceIDs datatypes.JSON `gorm:"column:service_ids;type:jsonb;not null" json:"service_ids"`

	ScheduledDate time.Time `gorm:"column:scheduled_date;not null" json:"scheduled_date"`
	TimeSlot      string    `gorm:"column:time_slot;size:30;not null" json:"time_slot"`
	Address       string    `gorm:"size:255;not null" json:"address"`
	Latitude      float64   `json:"latitude"`
	Longitude     float64   `json:"longitude"`

	Status string `gorm:"size:20;default:pending;index" json:"status"`

	PaymentStatus string  `gorm:"column:payment_status;size:20;default:unpaid" json:"payment_status"`
	PaymentMethod string  `gorm:"column:payment_method;size:30" json:"payment_method,omitempty"`
	OrderID       string  `gorm:"column:order_id;size:64;index" json:"order_id,omitempty"`
	PaymentID     string  `gorm:"column:payment_id;size:64" json:"payment_id,omitempty"`
	Amount        float64 `gorm:"not null" json:"amount"`

	Notes string `gorm:"type:text" json:"notes,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Booking) TableName() string { return "bookings" }

// BookingHistory records the proof-of-work attached when a wash completes.
type BookingHistory struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	BookingID     uint           `gorm:"column:booking_id;uniqueIndex;not null" json:"booking_id"`
	BeforePhotos  datatypes.JSON `gorm:"column:before_photos;type:jsonb" json:"before_photos"`
	AfterPhotos   datatypes.JSON `gorm:"column:after_photos;type:jsonb" json:"after_photos"`
	SignaturePath string         `gorm:"column:signature_path;size:255" json:"signature_path"`
	CompletedAt   time.Time      `gorm:"column:completed_at" json:"completed_at"`
	CreatedAt     time.Time      `json:"created_at"`
}

func (BookingHistory) TableName() string { return "booking_histories" }

// Event is published to kafka on every status change.
type Event struct {
	BookingID  uint      `json:"booking_id"`
	CustomerID uint      `json:"customer_id"`
	WasherID   *uint     `json:"washer_id,omitempty"`
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	Amount     float64   `json:"amount"`
	OccurredAt time.Time `json:"occurred_at"`
}
