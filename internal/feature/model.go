package feature

import (
	"time"

	"gorm.io/datatypes"
)

// SystemFeature is the closed catalog of assignable systems. Feature trees on
// organizations and users may only reference keys present here.
type SystemFeature struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	SystemKey   string         `gorm:"size:100;uniqueIndex;not null" json:"system_key"`
	SystemName  string         `gorm:"size:150;not null" json:"system_name"`
	Description string         `gorm:"type:text" json:"description"`
	Modules     datatypes.JSON `gorm:"type:jsonb" json:"modules"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func (SystemFeature) TableName() string { return "system_features" }

// Module is one assignable unit inside a system.
type Module struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// System is one entry of a feature tree: system metadata plus the modules
// selected from it.
type System struct {
	SystemName        string   `json:"system_name"`
	SystemDescription string   `json:"system_description"`
	Enabled           bool     `json:"enabled"`
	SelectedModules   []Module `json:"selected_modules"`
}

// Tree is the two-level feature document stored as jsonb on organizations
// (selected_features) and users (assigned_features), keyed by system key.
type Tree map[string]System

type SystemFeatureInput struct {
	SystemKey   string   `json:"system_key" binding:"required"`
	SystemName  string   `json:"system_name" binding:"required"`
	Description string   `json:"description"`
	Modules     []Module `json:"modules" binding:"required"`
}
