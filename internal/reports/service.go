package reports

import (
	"context"

	"github.com/sandeepk26/orbis-backend/internal/apperror"
)

type Service interface {
	Export(ctx context.Context, reportType, format string, f Filter) ([]byte, string, string, error)
}

type service struct {
	repo     Repository
	exporter Exporter
}

func NewService(repo Repository) Service {
	return &service{repo: repo, exporter: NewExporter()}
}

func (s *service) Export(ctx context.Context, reportType, format string, f Filter) ([]byte, string, string, error) {
	switch format {
	case FormatCSV, FormatExcel, FormatPDF:
	default:
		return nil, "", "", apperror.Validation("format must be one of csv, excel, pdf")
	}

	var data Data
	switch reportType {
	case TypeBookings:
		rows, err := s.repo.GetBookingRows(ctx, f)
		if err != nil {
			return nil, "", "", err
		}
		data.Bookings = rows
	case TypeOrganizations:
		rows, err := s.repo.GetOrganizationRows(ctx, f)
		if err != nil {
			return nil, "", "", err
		}
		data.Organizations = rows
	case TypeOrgUsers:
		rows, err := s.repo.GetOrgUserRows(ctx, f)
		if err != nil {
			return nil, "", "", err
		}
		data.OrgUsers = rows
	default:
		return nil, "", "", apperror.Validation("report type must be one of bookings, organizations, org-users")
	}

	return s.exporter.Export(reportType, format, data)
}
