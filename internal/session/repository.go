package session

import (
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	List(orgID uint) ([]Session, error)
	FindByID(orgID, id uint) (*Session, error)
	// Overlapping reports whether [start, end] intersects any other session
	// of the organization. excludeID skips the session being updated.
	Overlapping(orgID uint, start, end time.Time, excludeID uint) (bool, error)
	Create(s *Session) error
	Update(s *Session) error
	Delete(orgID, id uint) error
}

type repository struct{ db *gorm.DB }

func NewRepository(db *gorm.DB) Repository {
	return &repository{db}
}

func (r *repository) List(orgID uint) ([]Session, error) {
	var sessions []Session
	err := r.db.Where("organization_id = ?", orgID).Order("start_date DESC").Find(&sessions).Error
	return sessions, err
}

func (r *repository) FindByID(orgID, id uint) (*Session, error) {
	var s Session
	err := r.db.Where("organization_id = ?", orgID).First(&s, id).Error
	return &s, err
}

func (r *repository) Overlapping(orgID uint, start, end time.Time, excludeID uint) (bool, error) {
	var count int64
	q := r.db.Model(&Session{}).
		Where("organization_id = ?", orgID).
		Where("start_date <= ? AND end_date >= ?", end, start)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

func (r *repository) Create(s *Session) error { return r.db.Create(s).Error }

func (r *repository) Update(s *Session) error { return r.db.Save(s).Error }

func (r *repository) Delete(orgID, id uint) error {
	return r.db.Where("organization_id = ?", orgID).Delete(&Session{}, id).Error
}
