package auth

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	// Global users
	CreateUser(u *User) error
	FindUserByEmail(email string) (*User, error)
	FindUserByID(id uint) (*User, error)
	UpdateUser(u *User) error
	EmailExistsGlobal(email string) (bool, error)

	// Organization users
	CreateOrgUser(u *OrgUser) error
	FindOrgUserByEmail(orgID uint, email string) (*OrgUser, error)
	FindOrgUserByID(orgID, id uint) (*OrgUser, error)
	UpdateOrgUser(u *OrgUser) error
	EmailExistsInOrg(orgID uint, email string) (bool, error)

	// Organization status lookup for the org auth flows
	OrgStatus(orgID uint) (status string, loginEnabled, registrationEnabled bool, err error)

	ResetLockout(authType string, userID uint) error
	RecordFailedAttempt(authType string, userID uint, attempts int, lockedUntil *time.Time) error
	StampLogin(authType string, userID uint, at time.Time) error
}

type repository struct{ db *gorm.DB }

func NewRepository(db *gorm.DB) Repository {
	return &repository{db}
}

func (r *repository) CreateUser(u *User) error { return r.db.Create(u).Error }

func (r *repository) FindUserByEmail(email string) (*User, error) {
	var u User
	err := r.db.Where("email = ?", email).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return &u, err
}

func (r *repository) FindUserByID(id uint) (*User, error) {
	var u User
	err := r.db.First(&u, id).Error
	return &u, err
}

func (r *repository) UpdateUser(u *User) error { return r.db.Save(u).Error }

func (r *repository) EmailExistsGlobal(email string) (bool, error) {
	var count int64
	err := r.db.Model(&User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func (r *repository) CreateOrgUser(u *OrgUser) error { return r.db.Create(u).Error }

func (r *repository) FindOrgUserByEmail(orgID uint, email string) (*OrgUser, error) {
	var u OrgUser
	err := r.db.Where("organization_id = ? AND email = ?", orgID, email).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return &u, err
}

func (r *repository) FindOrgUserByID(orgID, id uint) (*OrgUser, error) {
	var u OrgUser
	err := r.db.Where("organization_id = ?", orgID).First(&u, id).Error
	return &u, err
}

func (r *repository) UpdateOrgUser(u *OrgUser) error { return r.db.Save(u).Error }

func (r *repository) EmailExistsInOrg(orgID uint, email string) (bool, error) {
	var count int64
	err := r.db.Model(&OrgUser{}).
		Where("organization_id = ? AND email = ?", orgID, email).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) OrgStatus(orgID uint) (string, bool, bool, error) {
	var row struct {
		Status              string
		LoginEnabled        bool
		RegistrationEnabled bool
	}
	err := r.db.Table("organizations").
		Select("status, login_enabled, registration_enabled").
		Where("id = ?", orgID).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, false, gorm.ErrRecordNotFound
	}
	return row.Status, row.LoginEnabled, row.RegistrationEnabled, err
}

func (r *repository) lockoutModel(authType string) *gorm.DB {
	if authType == "organization" {
		return r.db.Model(&OrgUser{})
	}
	return r.db.Model(&User{})
}

func (r *repository) ResetLockout(authType string, userID uint) error {
	return r.lockoutModel(authType).Where("id = ?", userID).Updates(map[string]interface{}{
		"failed_login_attempts": 0,
		"locked_until":          nil,
	}).Error
}

func (r *repository) RecordFailedAttempt(authType string, userID uint, attempts int, lockedUntil *time.Time) error {
	return r.lockoutModel(authType).Where("id = ?", userID).Updates(map[string]interface{}{
		"failed_login_attempts": attempts,
		"locked_until":          lockedUntil,
	}).Error
}

func (r *repository) StampLogin(authType string, userID uint, at time.Time) error {
	return r.lockoutModel(authType).Where("id = ?", userID).Updates(map[string]interface{}{
		"failed_login_attempts": 0,
		"locked_until":          nil,
		"last_login_at":         at,
	}).Error
}
