package auditlog

import (
	"time"
)

// AuditLog is one row of the audit_logs table.
type AuditLog struct {
	ID             uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID         *uint     `gorm:"index" json:"user_id"`         // nullable (e.g. failed login)
	OrganizationID *uint     `gorm:"index" json:"organization_id"` // nullable for global actions
	Action         string    `gorm:"size:100;not null;index" json:"action"`
	Details        string    `gorm:"type:jsonb" json:"details"`
	IPAddress      string    `gorm:"size:45" json:"ip_address"`
	Status         string    `gorm:"size:20;not null;index" json:"status"` // success/failure
	CreatedAt      time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

// Filter narrows audit log queries.
type Filter struct {
	UserID         *uint
	OrganizationID *uint
	Action         string
	Status         string
	FromDate       *time.Time
	ToDate         *time.Time
	Page           int
	Limit          int
}

// Page is one page of audit log results.
type Page struct {
	Data       []AuditLog `json:"data"`
	Total      int64      `json:"total"`
	Page       int        `json:"page"`
	Limit      int        `json:"limit"`
	TotalPages int        `json:"total_pages"`
}
