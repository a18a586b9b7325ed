package session

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Session is an academic period of one organization. Date ranges may not
// overlap within the same organization.
type Session struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	OrganizationID uint           `gorm:"column:organization_id;index;not null" json:"organization_id"`
	Name           string         `gorm:"size:100;not null" json:"name"`
	StartDate      time.Time      `gorm:"column:start_date;not null" json:"start_date"`
	EndDate        time.Time      `gorm:"column:end_date;not null" json:"end_date"`
	TermStructure  datatypes.JSON `gorm:"column:term_structure;type:jsonb" json:"term_structure,omitempty"`
	Status         string         `gorm:"size:20;default:upcoming" json:"status"` // upcoming/active/completed
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Session) TableName() string { return "sessions" }
