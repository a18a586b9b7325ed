package organization

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Organization is a tenant. Every organization-scope row in the system hangs
// off one of these via organization_id.
type Organization struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:150;not null" json:"name"`
	OrgType     string `gorm:"column:org_type;size:30" json:"org_type"`
	Email       string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Phone       string `gorm:"size:20" json:"phone"`
	Address     string `gorm:"size:255" json:"address"`
	Description string `gorm:"type:text" json:"description"`

	// pending -> active | rejected; active <-> inactive
	Status          string     `gorm:"size:20;default:pending" json:"status"`
	RejectionReason string     `gorm:"column:rejection_reason;size:255" json:"rejection_reason,omitempty"`
	ApprovedAt      *time.Time `gorm:"column:approved_at" json:"approved_at,omitempty"`
	RejectedAt      *time.Time `gorm:"column:rejected_at" json:"rejected_at,omitempty"`

	LoginEnabled        bool `gorm:"column:login_enabled;default:true" json:"login_enabled"`
	RegistrationEnabled bool `gorm:"column:registration_enabled;default:true" json:"registration_enabled"`

	// Feature tree granted to the tenant; org users inherit this unless they
	// carry their own assigned_features.
	SelectedFeatures datatypes.JSON `gorm:"column:selected_features;type:jsonb" json:"selected_features,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Organization) TableName() string { return "organizations" }
