package reports

import "time"

// Report types.
const (
	TypeBookings      = "bookings"
	TypeOrganizations = "organizations"
	TypeOrgUsers      = "org-users"
)

// Export formats.
const (
	FormatCSV   = "csv"
	FormatExcel = "excel"
	FormatPDF   = "pdf"
)

// BookingReportRow is one booking flattened for export.
type BookingReportRow struct {
	ID            uint      `json:"id"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email"`
	WasherName    string    `json:"washer_name"`
	PlateNumber   string    `json:"plate_number"`
	ScheduledDate time.Time `json:"scheduled_date"`
	TimeSlot      string    `json:"time_slot"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	Amount        float64   `json:"amount"`
	CreatedAt     time.Time `json:"created_at"`
}

// OrganizationReportRow is one tenant flattened for export.
type OrganizationReportRow struct {
	ID         uint       `json:"id"`
	Name       string     `json:"name"`
	OrgType    string     `json:"org_type"`
	Email      string     `json:"email"`
	Status     string     `json:"status"`
	ApprovedAt *time.Time `json:"approved_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// OrgUserReportRow is one organization member flattened for export.
type OrgUserReportRow struct {
	ID        uint      `json:"id"`
	OrgName   string    `json:"org_name"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	UserType  string    `json:"user_type"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Data carries the rows for whichever report type is being exported.
type Data struct {
	Bookings      []BookingReportRow
	Organizations []OrganizationReportRow
	OrgUsers      []OrgUserReportRow
}

// Filter narrows report queries.
type Filter struct {
	OrgID    *uint
	Status   string
	FromDate *time.Time
	ToDate   *time.Time
}
