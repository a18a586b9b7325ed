package reports

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/sandeepk26/orbis-backend/internal/apperror"
)

func sampleBookings() []BookingReportRow {
	return []BookingReportRow{
		{
			ID: 1, CustomerName: "Asha Rao", CustomerEmail: "asha@example.com",
			WasherName: "Ravi", PlateNumber: "KA01AB1234",
			ScheduledDate: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
			TimeSlot:      "10:00-11:00", Status: "completed", PaymentStatus: "paid",
			Amount: 499.50, CreatedAt: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
		},
		{
			ID: 2, CustomerName: "Vikram Shah", CustomerEmail: "vikram@example.com",
			ScheduledDate: time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC),
			TimeSlot:      "14:00-15:00", Status: "pending", PaymentStatus: "unpaid",
			Amount: 199, CreatedAt: time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC),
		},
	}
}

func TestBookingsCSV(t *testing.T) {
	e := NewExporter()
	data, filename, contentType, err := e.Export(TypeBookings, FormatCSV, Data{Bookings: sampleBookings()})
	require.NoError(t, err)
	assert.Equal(t, "text/csv", contentType)
	assert.True(t, strings.HasPrefix(filename, "bookings_report_"))
	assert.True(t, strings.HasSuffix(filename, ".csv"))

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3) // header + 2 rows
	assert.Equal(t, bookingHeaders, records[0])
	assert.Equal(t, "Asha Rao", records[1][1])
	assert.Equal(t, "499.50", records[1][9])
	assert.Equal(t, "", records[2][3]) // no washer assigned
}

func TestBookingsExcel(t *testing.T) {
	e := NewExporter()
	data, filename, contentType, err := e.Export(TypeBookings, FormatExcel, Data{Bookings: sampleBookings()})
	require.NoError(t, err)
	assert.Equal(t, excelContentType, contentType)
	assert.True(t, strings.HasSuffix(filename, ".xlsx"))

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Bookings")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Asha Rao", rows[1][1])
}

func TestBookingsPDF(t *testing.T) {
	e := NewExporter()
	data, filename, contentType, err := e.Export(TypeBookings, FormatPDF, Data{Bookings: sampleBookings()})
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", contentType)
	assert.True(t, strings.HasSuffix(filename, ".pdf"))
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestOrganizationsCSV(t *testing.T) {
	approved := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	rows := []OrganizationReportRow{
		{ID: 1, Name: "Sunrise College", OrgType: "college", Email: "admin@sunrise.edu",
			Status: "active", ApprovedAt: &approved, CreatedAt: time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)},
		{ID: 2, Name: "Hilltop School", OrgType: "school", Email: "office@hilltop.edu",
			Status: "pending", CreatedAt: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)},
	}

	e := NewExporter()
	data, _, _, err := e.Export(TypeOrganizations, FormatCSV, Data{Organizations: rows})
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "2025-01-15 10:00:00", records[1][5])
	assert.Equal(t, "", records[2][5]) // pending orgs have no approval stamp
}

func TestUnsupportedTypeAndFormat(t *testing.T) {
	e := NewExporter()
	_, _, _, err := e.Export("unknown", FormatCSV, Data{})
	assert.Error(t, err)

	_, _, _, err = e.Export(TypeBookings, "docx", Data{})
	assert.Error(t, err)
}

type fakeRepo struct {
	bookings []BookingReportRow
}

func (f *fakeRepo) GetBookingRows(context.Context, Filter) ([]BookingReportRow, error) {
	return f.bookings, nil
}
func (f *fakeRepo) GetOrganizationRows(context.Context, Filter) ([]OrganizationReportRow, error) {
	return nil, nil
}
func (f *fakeRepo) GetOrgUserRows(context.Context, Filter) ([]OrgUserReportRow, error) {
	return nil, nil
}

func TestServiceValidatesInput(t *testing.T) {
	svc := NewService(&fakeRepo{bookings: sampleBookings()})
	ctx := context.Background()

	_, _, _, err := svc.Export(ctx, TypeBookings, "docx", Filter{})
	assert.True(t, apperror.IsCode(err, apperror.CodeValidationFailed))

	_, _, _, err = svc.Export(ctx, "payroll", FormatCSV, Filter{})
	assert.True(t, apperror.IsCode(err, apperror.CodeValidationFailed))

	data, filename, contentType, err := svc.Export(ctx, TypeBookings, FormatCSV, Filter{})
	require.NoError(t, err)
	assert.NotEmpty(t, data)
	assert.NotEmpty(t, filename)
	assert.Equal(t, "text/csv", contentType)
}
