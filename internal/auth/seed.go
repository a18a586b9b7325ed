package auth

import (
	"errors"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/sandeepk26/orbis-backend/config"
)

// SeedSuperAdmin ensures the platform superadmin exists. Runs at startup and
// is a no-op when the account is already present.
func SeedSuperAdmin(db *gorm.DB, cfg *config.Config) {
	if cfg.SuperAdminEmail == "" || cfg.SuperAdminPassword == "" {
		log.Println("superadmin seed skipped: SUPERADMIN_EMAIL / SUPERADMIN_PASSWORD not set")
		return
	}

	var existing User
	err := db.Where("email = ?", cfg.SuperAdminEmail).First(&existing).Error
	if err == nil {
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("superadmin seed lookup failed: %v", err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.SuperAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("superadmin seed hash failed: %v", err)
		return
	}

	admin := User{
		FullName:     "Super Admin",
		Email:        cfg.SuperAdminEmail,
		PasswordHash: string(hash),
		UserType:     "superadmin",
		Status:       "active",
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Printf("superadmin seed create failed: %v", err)
		return
	}
	log.Printf("seeded superadmin account %s", cfg.SuperAdminEmail)
}
