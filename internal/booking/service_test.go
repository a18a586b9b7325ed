package booking

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/sandeepk26/orbis-backend/config"
	"github.com/sandeepk26/orbis-backend/internal/apperror"
	"github.com/sandeepk26/orbis-backend/internal/auditlog"
	"github.com/sandeepk26/orbis-backend/internal/auth"
	"github.com/sandeepk26/orbis-backend/internal/catalog"
	"github.com/sandeepk26/orbis-backend/internal/vehicle"
	"github.com/sandeepk26/orbis-backend/middleware"
)

func computeTestSignature(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// ==============================
// Fakes
// ==============================

type fakeRepo struct {
	bookings  map[uint]*Booking
	histories map[uint]*BookingHistory
	nextID    uint
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{bookings: map[uint]*Booking{}, histories: map[uint]*BookingHistory{}, nextID: 1}
}

func (f *fakeRepo) Create(b *Booking) error {
	b.ID = f.nextID
	f.nextID++
	f.bookings[b.ID] = b
	return nil
}

func (f *fakeRepo) FindByID(id uint) (*Booking, error) {
	if b, ok := f.bookings[id]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) FindByOrderID(orderID string) (*Booking, error) {
	for _, b := range f.bookings {
		if b.OrderID == orderID {
			cp := *b
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) ListByCustomer(customerID uint, status string) ([]Booking, error) {
	return f.filter(func(b *Booking) bool { return b.CustomerID == customerID }, status), nil
}

func (f *fakeRepo) ListByWasher(washerID uint, status string) ([]Booking, error) {
	return f.filter(func(b *Booking) bool { return b.WasherID != nil && *b.WasherID == washerID }, status), nil
}

func (f *fakeRepo) ListAll(status string) ([]Booking, error) {
	return f.filter(func(*Booking) bool { return true }, status), nil
}

func (f *fakeRepo) filter(pred func(*Booking) bool, status string) []Booking {
	var out []Booking
	for _, b := range f.bookings {
		if pred(b) && (status == "" || b.Status == status) {
			out = append(out, *b)
		}
	}
	return out
}

func (f *fakeRepo) Update(b *Booking) error {
	cp := *b
	f.bookings[b.ID] = &cp
	return nil
}

func (f *fakeRepo) CreateHistory(h *BookingHistory) error {
	h.ID = f.nextID
	f.nextID++
	f.histories[h.BookingID] = h
	return nil
}

func (f *fakeRepo) FindHistory(bookingID uint) (*BookingHistory, error) {
	if h, ok := f.histories[bookingID]; ok {
		return h, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeCatalog struct {
	catalog.Service
	items map[uint]catalog.ServiceItem
}

func (f *fakeCatalog) GetServicesByIDs(ids []uint) ([]catalog.ServiceItem, error) {
	var out []catalog.ServiceItem
	for _, id := range ids {
		item, ok := f.items[id]
		if !ok {
			return nil, apperror.Validation("one or more services do not exist")
		}
		out = append(out, item)
	}
	if len(out) == 0 {
		return nil, apperror.Validation("at least one service is required")
	}
	return out, nil
}

type fakeVehicles struct {
	vehicle.Repository
	vehicles map[uint]*vehicle.Vehicle
}

func (f *fakeVehicles) FindByID(id uint) (*vehicle.Vehicle, error) {
	if v, ok := f.vehicles[id]; ok {
		return v, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeUsers struct {
	auth.Repository
	users map[uint]*auth.User
}

func (f *fakeUsers) FindUserByID(id uint) (*auth.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type recordingAudit struct {
	auditlog.Service
	actions []string
}

func (f *recordingAudit) LogAction(_ context.Context, _ *uint, _ *uint, action string, _ map[string]interface{}, _, _ string) error {
	f.actions = append(f.actions, action)
	return nil
}

// ==============================
// Fixture
// ==============================

type fixture struct {
	svc   Service
	repo  *fakeRepo
	audit *recordingAudit
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo := newFakeRepo()
	cat := &fakeCatalog{items: map[uint]catalog.ServiceItem{
		1: {ID: 1, Name: "Basic Wash", Price: 199},
		2: {ID: 2, Name: "Wax", Price: 301},
	}}
	vehicles := &fakeVehicles{vehicles: map[uint]*vehicle.Vehicle{
		7: {ID: 7, CustomerID: 100, VehicleType: "sedan", PlateNumber: "KA01AB1234"},
	}}
	users := &fakeUsers{users: map[uint]*auth.User{
		50: {ID: 50, UserType: "washer", Status: "active"},
		51: {ID: 51, UserType: "customer", Status: "active"},
	}}
	audit := &recordingAudit{}

	return &fixture{
		svc:   NewService(repo, cat, vehicles, users, audit, &config.Config{RazorpaySecret: "test-secret"}),
		repo:  repo,
		audit: audit,
	}
}

var (
	customer = middleware.AccessContext{UserID: 100, UserType: "customer", AuthType: "global"}
	admin    = middleware.AccessContext{UserID: 1, UserType: "admin", AuthType: "global"}
	washer   = middleware.AccessContext{UserID: 50, UserType: "washer", AuthType: "global"}
)

func validCreate() CreateInput {
	return CreateInput{
		VehicleID:     7,
		ServiceIDs:    []uint{1, 2},
		ScheduledDate: time.Now().Add(48 * time.Hour),
		TimeSlot:      "10:00-11:00",
		Address:       "12 MG Road, Bengaluru",
	}
}

func mustCreate(t *testing.T, f *fixture) *Booking {
	t.Helper()
	b, err := f.svc.Create(customer, validCreate())
	require.NoError(t, err)
	return b
}

// ==============================
// Tests
// ==============================

func TestCreateBooking(t *testing.T) {
	f := newFixture(t)

	b := mustCreate(t, f)
	assert.Equal(t, StatusPending, b.Status)
	assert.Equal(t, PaymentUnpaid, b.PaymentStatus)
	assert.Equal(t, 500.0, b.Amount) // 199 + 301
	assert.Equal(t, uint(100), b.CustomerID)
}

func TestCreateBookingValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(customer, CreateInput{})
	require.Error(t, err)
	assert.Len(t, apperror.From(err).Errs, 5)

	in := validCreate()
	in.ScheduledDate = time.Now().Add(-48 * time.Hour)
	_, err = f.svc.Create(customer, in)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidationFailed))

	in = validCreate()
	in.ServiceIDs = []uint{1, 999}
	_, err = f.svc.Create(customer, in)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidationFailed))
}

func TestCreateBookingRejectsForeignVehicle(t *testing.T) {
	f := newFixture(t)

	other := middleware.AccessContext{UserID: 999, UserType: "customer"}
	_, err := f.svc.Create(other, validCreate())
	assert.True(t, apperror.IsCode(err, apperror.CodeAccessDenied))
}

func TestBookingVisibility(t *testing.T) {
	f := newFixture(t)
	b := mustCreate(t, f)

	// The owner and staff see it; another customer does not.
	_, err := f.svc.Get(customer, b.ID)
	require.NoError(t, err)
	_, err = f.svc.Get(admin, b.ID)
	require.NoError(t, err)

	other := middleware.AccessContext{UserID: 999, UserType: "customer"}
	_, err = f.svc.Get(other, b.ID)
	assert.True(t, apperror.IsCode(err, apperror.CodeAccessDenied))

	// An unassigned washer cannot see it either.
	_, err = f.svc.Get(washer, b.ID)
	assert.True(t, apperror.IsCode(err, apperror.CodeAccessDenied))
}

func TestFullLifecycle(t *testing.T) {
	f := newFixture(t)
	b := mustCreate(t, f)

	b, err := f.svc.UpdateStatus(admin, b.ID, StatusConfirmed, "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, b.Status)

	b, err = f.svc.Allocate(admin, b.ID, 50, "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, StatusAllocated, b.Status)
	require.NotNil(t, b.WasherID)
	assert.Equal(t, uint(50), *b.WasherID)

	// Assigned washer starts and completes.
	b, err = f.svc.UpdateStatus(washer, b.ID, StatusInProgress, "10.0.0.2")
	require.NoError(t, err)

	b, err = f.svc.Complete(washer, b.ID, CompletionInput{
		BeforePhotoURLs: []string{"http://x/before.jpg"},
		AfterPhotoURLs:  []string{"http://x/after.jpg"},
		SignatureURL:    "http://x/sig.png",
	}, "10.0.0.2")
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, b.Status)

	h, err := f.svc.GetHistory(admin, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "http://x/sig.png", h.SignaturePath)

	assert.Contains(t, f.audit.actions, "BOOKING_ALLOCATED")
	assert.Contains(t, f.audit.actions, "BOOKING_COMPLETED")
}

func TestAllocateRequiresActiveWasher(t *testing.T) {
	f := newFixture(t)
	b := mustCreate(t, f)
	_, err := f.svc.UpdateStatus(admin, b.ID, StatusConfirmed, "")
	require.NoError(t, err)

	_, err = f.svc.Allocate(admin, b.ID, 51, "") // a customer, not a washer
	assert.True(t, apperror.IsCode(err, apperror.CodeValidationFailed))

	_, err = f.svc.Allocate(admin, b.ID, 999, "")
	assert.True(t, apperror.IsCode(err, apperror.CodeValidationFailed))
}

func TestCustomerCancelOwnBooking(t *testing.T) {
	f := newFixture(t)
	b := mustCreate(t, f)

	b, err := f.svc.UpdateStatus(customer, b.ID, StatusCancelled, "")
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, b.Status)

	// Terminal: no way out.
	_, err = f.svc.UpdateStatus(admin, b.ID, StatusConfirmed, "")
	assert.True(t, apperror.IsCode(err, apperror.CodeConflict))
}

func TestCompleteRequiresAfterPhotos(t *testing.T) {
	f := newFixture(t)
	b := mustCreate(t, f)
	_, err := f.svc.UpdateStatus(admin, b.ID, StatusConfirmed, "")
	require.NoError(t, err)
	_, err = f.svc.Allocate(admin, b.ID, 50, "")
	require.NoError(t, err)
	_, err = f.svc.UpdateStatus(washer, b.ID, StatusInProgress, "")
	require.NoError(t, err)

	_, err = f.svc.Complete(washer, b.ID, CompletionInput{}, "")
	assert.True(t, apperror.IsCode(err, apperror.CodeValidationFailed))
}

func TestListScoping(t *testing.T) {
	f := newFixture(t)
	b := mustCreate(t, f)
	_, err := f.svc.UpdateStatus(admin, b.ID, StatusConfirmed, "")
	require.NoError(t, err)
	_, err = f.svc.Allocate(admin, b.ID, 50, "")
	require.NoError(t, err)

	mine, err := f.svc.List(customer, "")
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	jobs, err := f.svc.List(washer, "")
	require.NoError(t, err)
	assert.Len(t, jobs, 1)

	other := middleware.AccessContext{UserID: 999, UserType: "customer"}
	none, err := f.svc.List(other, "")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestVerifyPaymentFlow(t *testing.T) {
	f := newFixture(t)
	b := mustCreate(t, f)

	// Simulate an order created earlier.
	stored, err := f.repo.FindByID(b.ID)
	require.NoError(t, err)
	stored.OrderID = "order_abc"
	stored.PaymentStatus = PaymentPending
	require.NoError(t, f.repo.Update(stored))

	sig := computeTestSignature("test-secret", "order_abc", "pay_xyz")

	// Bad signature rejected.
	err = f.svc.VerifyPayment(customer, VerifyPaymentInput{
		OrderID: "order_abc", PaymentID: "pay_xyz", RazorpaySig: "tampered",
	}, "")
	assert.True(t, apperror.IsCode(err, apperror.CodeValidationFailed))

	// Good signature marks the booking paid.
	err = f.svc.VerifyPayment(customer, VerifyPaymentInput{
		OrderID: "order_abc", PaymentID: "pay_xyz", RazorpaySig: sig,
	}, "")
	require.NoError(t, err)

	paid, err := f.repo.FindByID(b.ID)
	require.NoError(t, err)
	assert.Equal(t, PaymentPaid, paid.PaymentStatus)
	assert.Equal(t, "pay_xyz", paid.PaymentID)

	// Retry is idempotent.
	err = f.svc.VerifyPayment(customer, VerifyPaymentInput{
		OrderID: "order_abc", PaymentID: "pay_xyz", RazorpaySig: sig,
	}, "")
	require.NoError(t, err)

	// Unknown order.
	sig2 := computeTestSignature("test-secret", "order_missing", "pay_xyz")
	err = f.svc.VerifyPayment(customer, VerifyPaymentInput{
		OrderID: "order_missing", PaymentID: "pay_xyz", RazorpaySig: sig2,
	}, "")
	assert.True(t, apperror.IsCode(err, apperror.CodeNotFound))
}
