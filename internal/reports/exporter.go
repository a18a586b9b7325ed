package reports

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

// Exporter renders a report into a downloadable file. It returns the file
// bytes, a filename and the content type.
type Exporter interface {
	Export(reportType, format string, data Data) ([]byte, string, string, error)
}

type exporter struct{}

func NewExporter() Exporter {
	return &exporter{}
}

const excelContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (e *exporter) Export(reportType, format string, data Data) ([]byte, string, string, error) {
	timestamp := time.Now().Format("20060102_150405")

	switch reportType {
	case TypeBookings:
		return e.exportBookings(format, timestamp, data.Bookings)
	case TypeOrganizations:
		return e.exportOrganizations(format, timestamp, data.Organizations)
	case TypeOrgUsers:
		return e.exportOrgUsers(format, timestamp, data.OrgUsers)
	default:
		return nil, "", "", fmt.Errorf("unsupported report type: %s", reportType)
	}
}

// ==============================
// Bookings
// ==============================

func (e *exporter) exportBookings(format, timestamp string, rows []BookingReportRow) ([]byte, string, string, error) {
	switch format {
	case FormatCSV:
		data, err := e.bookingsCSV(rows)
		if err != nil {
			return nil, "", "", err
		}
		return data, fmt.Sprintf("bookings_report_%s.csv", timestamp), "text/csv", nil
	case FormatExcel:
		data, err := e.bookingsExcel(rows)
		if err != nil {
			return nil, "", "", err
		}
		return data, fmt.Sprintf("bookings_report_%s.xlsx", timestamp), excelContentType, nil
	case FormatPDF:
		data, err := e.bookingsPDF(rows)
		if err != nil {
			return nil, "", "", err
		}
		return data, fmt.Sprintf("bookings_report_%s.pdf", timestamp), "application/pdf", nil
	default:
		return nil, "", "", fmt.Errorf("unsupported format: %s", format)
	}
}

var bookingHeaders = []string{"ID", "Customer", "Customer Email", "Washer", "Plate", "Scheduled", "Slot", "Status", "Payment", "Amount", "Created At"}

func bookingRecord(r BookingReportRow) []string {
	return []string{
		strconv.FormatUint(uint64(r.ID), 10),
		r.CustomerName,
		r.CustomerEmail,
		r.WasherName,
		r.PlateNumber,
		r.ScheduledDate.Format("2006-01-02"),
		r.TimeSlot,
		r.Status,
		r.PaymentStatus,
		fmt.Sprintf("%.2f", r.Amount),
		r.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

func (e *exporter) bookingsCSV(rows []BookingReportRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(bookingHeaders); err != nil {
		return nil, err
	}
	for _, r := range rows {
		if err := w.Write(bookingRecord(r)); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *exporter) bookingsExcel(rows []BookingReportRow) ([]byte, error) {
	f := excelize.NewFile()
	sheet := "Bookings"
	f.SetSheetName("Sheet1", sheet)

	for i, h := range bookingHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		f.SetCellValue(sheet, cell, h)
	}

	for rIdx, r := range rows {
		for cIdx, v := range bookingRecord(r) {
			cell, err := excelize.CoordinatesToCellName(cIdx+1, rIdx+2)
			if err != nil {
				return nil, err
			}
			f.SetCellValue(sheet, cell, v)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *exporter) bookingsPDF(rows []BookingReportRow) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 10, "Bookings Report")
	pdf.Ln(15)

	widths := []float64{12, 30, 45, 30, 25, 22, 22, 22, 20, 20, 30}

	pdf.SetFont("Arial", "B", 8)
	for i, h := range bookingHeaders {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 7)
	for _, r := range rows {
		for i, v := range bookingRecord(r) {
			pdf.CellFormat(widths[i], 6, truncate(v, 30), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ==============================
// Organizations
// ==============================

func (e *exporter) exportOrganizations(format, timestamp string, rows []OrganizationReportRow) ([]byte, string, string, error) {
	switch format {
	case FormatCSV:
		data, err := e.organizationsCSV(rows)
		if err != nil {
			return nil, "", "", err
		}
		return data, fmt.Sprintf("organizations_report_%s.csv", timestamp), "text/csv", nil
	case FormatExcel:
		data, err := e.organizationsExcel(rows)
		if err != nil {
			return nil, "", "", err
		}
		return data, fmt.Sprintf("organizations_report_%s.xlsx", timestamp), excelContentType, nil
	case FormatPDF:
		data, err := e.organizationsPDF(rows)
		if err != nil {
			return nil, "", "", err
		}
		return data, fmt.Sprintf("organizations_report_%s.pdf", timestamp), "application/pdf", nil
	default:
		return nil, "", "", fmt.Errorf("unsupported format: %s", format)
	}
}

var organizationHeaders = []string{"ID", "Name", "Type", "Email", "Status", "Approved At", "Created At"}

func organizationRecord(r OrganizationReportRow) []string {
	approvedAt := ""
	if r.ApprovedAt != nil {
		approvedAt = r.ApprovedAt.Format("2006-01-02 15:04:05")
	}
	return []string{
		strconv.FormatUint(uint64(r.ID), 10),
		r.Name,
		r.OrgType,
		r.Email,
		r.Status,
		approvedAt,
		r.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

func (e *exporter) organizationsCSV(rows []OrganizationReportRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(organizationHeaders); err != nil {
		return nil, err
	}
	for _, r := range rows {
		if err := w.Write(organizationRecord(r)); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *exporter) organizationsExcel(rows []OrganizationReportRow) ([]byte, error) {
	f := excelize.NewFile()
	sheet := "Organizations"
	f.SetSheetName("Sheet1", sheet)

	for i, h := range organizationHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		f.SetCellValue(sheet, cell, h)
	}

	for rIdx, r := range rows {
		for cIdx, v := range organizationRecord(r) {
			cell, err := excelize.CoordinatesToCellName(cIdx+1, rIdx+2)
			if err != nil {
				return nil, err
			}
			f.SetCellValue(sheet, cell, v)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *exporter) organizationsPDF(rows []OrganizationReportRow) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 10, "Organizations Report")
	pdf.Ln(15)

	widths := []float64{12, 40, 22, 45, 20, 28, 28}

	pdf.SetFont("Arial", "B", 8)
	for i, h := range organizationHeaders {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 7)
	for _, r := range rows {
		for i, v := range organizationRecord(r) {
			pdf.CellFormat(widths[i], 6, truncate(v, 28), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ==============================
// Organization users
// ==============================

func (e *exporter) exportOrgUsers(format, timestamp string, rows []OrgUserReportRow) ([]byte, string, string, error) {
	switch format {
	case FormatCSV:
		data, err := e.orgUsersCSV(rows)
		if err != nil {
			return nil, "", "", err
		}
		return data, fmt.Sprintf("org_users_report_%s.csv", timestamp), "text/csv", nil
	case FormatExcel:
		data, err := e.orgUsersExcel(rows)
		if err != nil {
			return nil, "", "", err
		}
		return data, fmt.Sprintf("org_users_report_%s.xlsx", timestamp), excelContentType, nil
	case FormatPDF:
		data, err := e.orgUsersPDF(rows)
		if err != nil {
			return nil, "", "", err
		}
		return data, fmt.Sprintf("org_users_report_%s.pdf", timestamp), "application/pdf", nil
	default:
		return nil, "", "", fmt.Errorf("unsupported format: %s", format)
	}
}

var orgUserHeaders = []string{"ID", "Organization", "Full Name", "Email", "Role", "Status", "Created At"}

func orgUserRecord(r OrgUserReportRow) []string {
	return []string{
		strconv.FormatUint(uint64(r.ID), 10),
		r.OrgName,
		r.FullName,
		r.Email,
		r.UserType,
		r.Status,
		r.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

func (e *exporter) orgUsersCSV(rows []OrgUserReportRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(orgUserHeaders); err != nil {
		return nil, err
	}
	for _, r := range rows {
		if err := w.Write(orgUserRecord(r)); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *exporter) orgUsersExcel(rows []OrgUserReportRow) ([]byte, error) {
	f := excelize.NewFile()
	sheet := "Organization Users"
	f.SetSheetName("Sheet1", sheet)

	for i, h := range orgUserHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		f.SetCellValue(sheet, cell, h)
	}

	for rIdx, r := range rows {
		for cIdx, v := range orgUserRecord(r) {
			cell, err := excelize.CoordinatesToCellName(cIdx+1, rIdx+2)
			if err != nil {
				return nil, err
			}
			f.SetCellValue(sheet, cell, v)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *exporter) orgUsersPDF(rows []OrgUserReportRow) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 10, "Organization Users Report")
	pdf.Ln(15)

	widths := []float64{12, 38, 35, 48, 20, 18, 28}

	pdf.SetFont("Arial", "B", 8)
	for i, h := range orgUserHeaders {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 7)
	for _, r := range rows {
		for i, v := range orgUserRecord(r) {
			pdf.CellFormat(widths[i], 6, truncate(v, 30), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
