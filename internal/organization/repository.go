package organization

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/sandeepk26/orbis-backend/internal/auth"
)

type Repository interface {
	CreateWithAdmin(org *Organization, admin *auth.OrgUser) error
	FindByID(id uint) (*Organization, error)
	EmailExists(email string) (bool, error)
	List(status string) ([]Organization, error)
	Update(org *Organization) error
	UpdateStatus(id uint, status, reason string) error
	UpdateToggles(id uint, loginEnabled, registrationEnabled bool) error
	UpdateSelectedFeatures(id uint, doc datatypes.JSON) error
	Delete(id uint) error
}

type repository struct{ db *gorm.DB }

func NewRepository(db *gorm.DB) Repository {
	return &repository{db}
}

// CreateWithAdmin inserts the organization and its first admin account in a
// single transaction so a failed admin insert never leaves an orphan tenant.
func (r *repository) CreateWithAdmin(org *Organization, admin *auth.OrgUser) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(org).Error; err != nil {
			return err
		}
		admin.OrganizationID = org.ID
		return tx.Create(admin).Error
	})
}

func (r *repository) FindByID(id uint) (*Organization, error) {
	var org Organization
	err := r.db.First(&org, id).Error
	return &org, err
}

func (r *repository) EmailExists(email string) (bool, error) {
	var count int64
	err := r.db.Model(&Organization{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func (r *repository) List(status string) ([]Organization, error) {
	var orgs []Organization
	q := r.db.Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Find(&orgs).Error
	return orgs, err
}

func (r *repository) Update(org *Organization) error { return r.db.Save(org).Error }

func (r *repository) UpdateStatus(id uint, status, reason string) error {
	fields := map[string]interface{}{"status": status}
	now := time.Now()
	switch status {
	case "active":
		fields["approved_at"] = now
	case "rejected":
		fields["rejected_at"] = now
		fields["rejection_reason"] = reason
	}
	res := r.db.Model(&Organization{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) UpdateToggles(id uint, loginEnabled, registrationEnabled bool) error {
	res := r.db.Model(&Organization{}).Where("id = ?", id).Updates(map[string]interface{}{
		"login_enabled":        loginEnabled,
		"registration_enabled": registrationEnabled,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) UpdateSelectedFeatures(id uint, doc datatypes.JSON) error {
	res := r.db.Model(&Organization{}).Where("id = ?", id).Update("selected_features", doc)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) Delete(id uint) error {
	return r.db.Delete(&Organization{}, id).Error
}
