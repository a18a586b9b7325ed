package auth

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// User is a global-scope account (superadmins, platform staff, customers and
// washers of the commerce side).
type User struct {
	ID                  uint           `gorm:"primaryKey" json:"id"`
	FullName            string         `gorm:"column:full_name;size:100;not null" json:"full_name"`
	Email               string         `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Phone               string         `gorm:"size:20" json:"phone"`
	PasswordHash        string         `gorm:"column:password_hash;size:255;not null" json:"-"`
	UserType            string         `gorm:"column:user_type;size:30;not null" json:"user_type"`
	InstitutionID       *uint          `gorm:"column:institution_id;index" json:"institution_id,omitempty"`
	Status              string         `gorm:"size:20;default:pending" json:"status"`
	AssignedFeatures    datatypes.JSON `gorm:"column:assigned_features;type:jsonb" json:"assigned_features,omitempty"`
	FailedLoginAttempts int            `gorm:"column:failed_login_attempts;default:0" json:"-"`
	LockedUntil         *time.Time     `gorm:"column:locked_until" json:"-"`
	LastLoginAt         *time.Time     `gorm:"column:last_login_at" json:"last_login_at,omitempty"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string { return "users" }

// OrgUser is an organization-scope account. All tenants share one table with
// a mandatory organization_id; email is unique per organization.
type OrgUser struct {
	ID                  uint           `gorm:"primaryKey" json:"id"`
	OrganizationID      uint           `gorm:"column:organization_id;not null;uniqueIndex:idx_org_users_email" json:"organization_id"`
	FullName            string         `gorm:"column:full_name;size:100;not null" json:"full_name"`
	Email               string         `gorm:"size:100;not null;uniqueIndex:idx_org_users_email" json:"email"`
	Phone               string         `gorm:"size:20" json:"phone"`
	PasswordHash        string         `gorm:"column:password_hash;size:255;not null" json:"-"`
	UserType            string         `gorm:"column:user_type;size:30;not null" json:"user_type"`
	Status              string         `gorm:"size:20;default:pending" json:"status"`
	AssignedFeatures    datatypes.JSON `gorm:"column:assigned_features;type:jsonb" json:"assigned_features,omitempty"`
	FailedLoginAttempts int            `gorm:"column:failed_login_attempts;default:0" json:"-"`
	LockedUntil         *time.Time     `gorm:"column:locked_until" json:"-"`
	LastLoginAt         *time.Time     `gorm:"column:last_login_at" json:"last_login_at,omitempty"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"-"`
}

func (OrgUser) TableName() string { return "organization_users" }

// Principal is the resolved identity behind a validated token, independent of
// which table it came from.
type Principal struct {
	ID             uint
	FullName       string
	Email          string
	UserType       string
	Status         string
	OrganizationID *uint
}
