package feature

import (
	"errors"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/sandeepk26/orbis-backend/internal/apperror"
)

type Repository interface {
	// Catalog
	ListCatalog() ([]SystemFeature, error)
	FindCatalogByKey(systemKey string) (*SystemFeature, error)
	CreateCatalog(sf *SystemFeature) error
	UpdateCatalog(sf *SystemFeature) error
	DeleteCatalog(id uint) error

	// Feature documents. Global users live in `users`, organization users in
	// `organization_users`; both carry an assigned_features jsonb column.
	GetGlobalUserFeatures(userID uint) (datatypes.JSON, *uint, error)
	UpdateGlobalUserFeatures(userID uint, doc datatypes.JSON) error
	GetOrgUserFeatures(orgID, userID uint) (datatypes.JSON, error)
	UpdateOrgUserFeatures(orgID, userID uint, doc datatypes.JSON) error
	BulkAssignOrgUsers(orgID uint, userType string, doc datatypes.JSON) (int64, error)
	GetOrganizationFeatures(orgID uint) (datatypes.JSON, error)
}

type repository struct{ db *gorm.DB }

func NewRepository(db *gorm.DB) Repository {
	return &repository{db}
}

func (r *repository) ListCatalog() ([]SystemFeature, error) {
	var features []SystemFeature
	err := r.db.Order("system_key").Find(&features).Error
	return features, err
}

func (r *repository) FindCatalogByKey(systemKey string) (*SystemFeature, error) {
	var sf SystemFeature
	err := r.db.Where("system_key = ?", systemKey).First(&sf).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("feature not found in catalog")
	}
	return &sf, err
}

func (r *repository) CreateCatalog(sf *SystemFeature) error {
	return r.db.Create(sf).Error
}

func (r *repository) UpdateCatalog(sf *SystemFeature) error {
	return r.db.Save(sf).Error
}

func (r *repository) DeleteCatalog(id uint) error {
	res := r.db.Delete(&SystemFeature{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("feature not found in catalog")
	}
	return nil
}

func (r *repository) GetGlobalUserFeatures(userID uint) (datatypes.JSON, *uint, error) {
	var row struct {
		AssignedFeatures datatypes.JSON
		InstitutionID    *uint
	}
	err := r.db.Table("users").
		Select("assigned_features, institution_id").
		Where("id = ?", userID).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, apperror.NotFound("user not found")
	}
	return row.AssignedFeatures, row.InstitutionID, err
}

func (r *repository) UpdateGlobalUserFeatures(userID uint, doc datatypes.JSON) error {
	res := r.db.Table("users").Where("id = ?", userID).Update("assigned_features", doc)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("user not found")
	}
	return nil
}

func (r *repository) GetOrgUserFeatures(orgID, userID uint) (datatypes.JSON, error) {
	var row struct {
		AssignedFeatures datatypes.JSON
	}
	err := r.db.Table("organization_users").
		Select("assigned_features").
		Where("id = ? AND organization_id = ?", userID, orgID).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("user not found in organization")
	}
	return row.AssignedFeatures, err
}

func (r *repository) UpdateOrgUserFeatures(orgID, userID uint, doc datatypes.JSON) error {
	res := r.db.Table("organization_users").
		Where("id = ? AND organization_id = ?", userID, orgID).
		Update("assigned_features", doc)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("user not found in organization")
	}
	return nil
}

func (r *repository) BulkAssignOrgUsers(orgID uint, userType string, doc datatypes.JSON) (int64, error) {
	res := r.db.Table("organization_users").
		Where("organization_id = ? AND user_type = ?", orgID, userType).
		Update("assigned_features", doc)
	return res.RowsAffected, res.Error
}

func (r *repository) GetOrganizationFeatures(orgID uint) (datatypes.JSON, error) {
	var row struct {
		SelectedFeatures datatypes.JSON
	}
	err := r.db.Table("organizations").
		Select("selected_features").
		Where("id = ?", orgID).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("organization not found")
	}
	return row.SelectedFeatures, err
}
