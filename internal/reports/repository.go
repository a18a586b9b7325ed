package reports

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	GetBookingRows(ctx context.Context, f Filter) ([]BookingReportRow, error)
	GetOrganizationRows(ctx context.Context, f Filter) ([]OrganizationReportRow, error)
	GetOrgUserRows(ctx context.Context, f Filter) ([]OrgUserReportRow, error)
}

type repository struct{ db *gorm.DB }

func NewRepository(db *gorm.DB) Repository {
	return &repository{db}
}

func (r *repository) GetBookingRows(ctx context.Context, f Filter) ([]BookingReportRow, error) {
	q := r.db.WithContext(ctx).Table("bookings b").
		Select(`b.id, c.full_name AS customer_name, c.email AS customer_email,
			COALESCE(w.full_name, '') AS washer_name, v.plate_number,
			b.scheduled_date, b.time_slot, b.status, b.payment_status,
			b.amount, b.created_at`).
		Joins("JOIN users c ON c.id = b.customer_id").
		Joins("LEFT JOIN users w ON w.id = b.washer_id").
		Joins("JOIN vehicles v ON v.id = b.vehicle_id").
		Where("b.deleted_at IS NULL")

	if f.Status != "" {
		q = q.Where("b.status = ?", f.Status)
	}
	if f.FromDate != nil {
		q = q.Where("b.scheduled_date >= ?", *f.FromDate)
	}
	if f.ToDate != nil {
		q = q.Where("b.scheduled_date <= ?", *f.ToDate)
	}

	var rows []BookingReportRow
	err := q.Order("b.scheduled_date DESC").Scan(&rows).Error
	return rows, err
}

func (r *repository) GetOrganizationRows(ctx context.Context, f Filter) ([]OrganizationReportRow, error) {
	q := r.db.WithContext(ctx).Table("organizations").
		Select("id, name, org_type, email, status, approved_at, created_at").
		Where("deleted_at IS NULL")

	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var rows []OrganizationReportRow
	err := q.Order("created_at DESC").Scan(&rows).Error
	return rows, err
}

func (r *repository) GetOrgUserRows(ctx context.Context, f Filter) ([]OrgUserReportRow, error) {
	q := r.db.WithContext(ctx).Table("organization_users u").
		Select(`u.id, o.name AS org_name, u.full_name, u.email, u.user_type,
			u.status, u.created_at`).
		Joins("JOIN organizations o ON o.id = u.organization_id").
		Where("u.deleted_at IS NULL")

	if f.OrgID != nil {
		q = q.Where("u.organization_id = ?", *f.OrgID)
	}
	if f.Status != "" {
		q = q.Where("u.status = ?", f.Status)
	}

	var rows []OrgUserReportRow
	err := q.Order("u.created_at DESC").Scan(&rows).Error
	return rows, err
}
