package employee

import (
	"gorm.io/gorm"

	"github.com/sandeepk26/orbis-backend/internal/auth"
)

type Repository interface {
	List(orgID uint, userType, status string) ([]auth.OrgUser, error)
	FindByID(orgID, id uint) (*auth.OrgUser, error)
	EmailExistsInOrg(orgID uint, email string) (bool, error)
	EmailExistsGlobal(email string) (bool, error)
	Create(u *auth.OrgUser) error
	Update(u *auth.OrgUser) error
	UpdateStatus(orgID, id uint, status string) error
	UpdatePassword(orgID, id uint, passwordHash string) error
	Delete(orgID, id uint) error
}

type repository struct{ db *gorm.DB }

func NewRepository(db *gorm.DB) Repository {
	return &repository{db}
}

func (r *repository) List(orgID uint, userType, status string) ([]auth.OrgUser, error) {
	var users []auth.OrgUser
	q := r.db.Where("organization_id = ?", orgID).Order("created_at DESC")
	if userType != "" {
		q = q.Where("user_type = ?", userType)
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Find(&users).Error
	return users, err
}

func (r *repository) FindByID(orgID, id uint) (*auth.OrgUser, error) {
	var u auth.OrgUser
	err := r.db.Where("organization_id = ?", orgID).First(&u, id).Error
	return &u, err
}

func (r *repository) EmailExistsInOrg(orgID uint, email string) (bool, error) {
	var count int64
	err := r.db.Model(&auth.OrgUser{}).
		Where("organization_id = ? AND email = ?", orgID, email).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) EmailExistsGlobal(email string) (bool, error) {
	var count int64
	err := r.db.Model(&auth.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func (r *repository) Create(u *auth.OrgUser) error { return r.db.Create(u).Error }

func (r *repository) Update(u *auth.OrgUser) error { return r.db.Save(u).Error }

func (r *repository) UpdateStatus(orgID, id uint, status string) error {
	return r.scoped(orgID, id).Update("status", status).Error
}

func (r *repository) UpdatePassword(orgID, id uint, passwordHash string) error {
	return r.scoped(orgID, id).Update("password_hash", passwordHash).Error
}

func (r *repository) Delete(orgID, id uint) error {
	return r.db.Where("organization_id = ?", orgID).Delete(&auth.OrgUser{}, id).Error
}

func (r *repository) scoped(orgID, id uint) *gorm.DB {
	return r.db.Model(&auth.OrgUser{}).Where("organization_id = ? AND id = ?", orgID, id)
}
