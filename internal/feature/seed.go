package feature

import (
	"encoding/json"
	"errors"
	"log"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// defaultCatalog is the baseline set of systems every deployment starts with.
var defaultCatalog = []SystemFeatureInput{
	{
		SystemKey:   "booking",
		SystemName:  "Booking Management",
		Description: "Vehicle wash booking lifecycle",
		Modules: []Module{
			{Key: "create", Name: "Create Bookings", Description: "Place new bookings"},
			{Key: "allocate", Name: "Allocate Washers", Description: "Assign washers to bookings"},
			{Key: "reports", Name: "Booking Reports", Description: "Export booking reports"},
		},
	},
	{
		SystemKey:   "catalog",
		SystemName:  "Catalog Management",
		Description: "Categories, products and service items",
		Modules: []Module{
			{Key: "products", Name: "Products", Description: "Manage products"},
			{Key: "services", Name: "Services", Description: "Manage service items"},
		},
	},
	{
		SystemKey:   "sessions",
		SystemName:  "Academic Sessions",
		Description: "Academic year and term planning",
		Modules: []Module{
			{Key: "manage", Name: "Manage Sessions", Description: "Create and edit sessions"},
		},
	},
	{
		SystemKey:   "employees",
		SystemName:  "Employee Management",
		Description: "Organization member administration",
		Modules: []Module{
			{Key: "manage", Name: "Manage Employees", Description: "Create and edit members"},
			{Key: "activate", Name: "Activate Accounts", Description: "Approve pending accounts"},
		},
	},
}

// SeedCatalog inserts the default system features that are not present yet.
// Existing rows are left untouched.
func SeedCatalog(db *gorm.DB) error {
	for _, in := range defaultCatalog {
		var existing SystemFeature
		err := db.Where("system_key = ?", in.SystemKey).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		modules, err := json.Marshal(in.Modules)
		if err != nil {
			return err
		}
		if err := db.Create(&SystemFeature{
			SystemKey:   in.SystemKey,
			SystemName:  in.SystemName,
			Description: in.Description,
			Modules:     datatypes.JSON(modules),
		}).Error; err != nil {
			return err
		}
		log.Printf("seeded system feature %s", in.SystemKey)
	}
	return nil
}
