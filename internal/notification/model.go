package notification

import (
	"time"
)

// InAppNotification is a per-user bell notification.
type InAppNotification struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         uint      `gorm:"not null;index" json:"user_id"`
	OrganizationID *uint     `gorm:"column:organization_id;index" json:"organization_id,omitempty"`
	Title          string    `gorm:"size:150;not null" json:"title"`
	Message        string    `gorm:"type:text;not null" json:"message"`
	Category       string    `gorm:"size:30;not null" json:"category"` // booking, payment, account, system
	IsRead         bool      `gorm:"default:false" json:"is_read"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (InAppNotification) TableName() string { return "in_app_notifications" }

// FCMDeviceToken stores a user's device registration for push notifications.
type FCMDeviceToken struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	DeviceToken string    `gorm:"size:255;not null;uniqueIndex" json:"device_token"`
	DeviceType  string    `gorm:"size:20" json:"device_type"` // android, ios, web
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (FCMDeviceToken) TableName() string { return "fcm_device_tokens" }
