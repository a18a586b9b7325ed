package booking

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	razorpay "github.com/razorpay/razorpay-go"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/sandeepk26/orbis-backend/config"
	"github.com/sandeepk26/orbis-backend/internal/apperror"
	"github.com/sandeepk26/orbis-backend/internal/auditlog"
	"github.com/sandeepk26/orbis-backend/internal/auth"
	"github.com/sandeepk26/orbis-backend/internal/catalog"
	"github.com/sandeepk26/orbis-backend/internal/vehicle"
	"github.com/sandeepk26/orbis-backend/middleware"
	"github.com/sandeepk26/orbis-backend/utils"
)

type Service interface {
	Create(ac middleware.AccessContext, in CreateInput) (*Booking, error)
	List(ac middleware.AccessContext, status string) ([]Booking, error)
	Get(ac middleware.AccessContext, id uint) (*Booking, error)
	Update(ac middleware.AccessContext, id uint, in UpdateInput) (*Booking, error)
	UpdateStatus(ac middleware.AccessContext, id uint, to, ip string) (*Booking, error)
	Allocate(ac middleware.AccessContext, id, washerID uint, ip string) (*Booking, error)
	Complete(ac middleware.AccessContext, id uint, in CompletionInput, ip string) (*Booking, error)
	GetHistory(ac middleware.AccessContext, id uint) (*BookingHistory, error)

	CreatePaymentOrder(ac middleware.AccessContext, id uint, ip string) (*PaymentOrder, error)
	VerifyPayment(ac middleware.AccessContext, in VerifyPaymentInput, ip string) error
}

type service struct {
	repo     Repository
	services catalog.Service
	vehicles vehicle.Repository
	users    auth.Repository
	auditSvc auditlog.Service
	client   *razorpay.Client
	cfg      *config.Config
}

func NewService(repo Repository, services catalog.Service, vehicles vehicle.Repository,
	users auth.Repository, auditSvc auditlog.Service, cfg *config.Config) Service {
	return &service{
		repo:     repo,
		services: services,
		vehicles: vehicles,
		users:    users,
		auditSvc: auditSvc,
		client:   razorpay.NewClient(cfg.RazorpayKey, cfg.RazorpaySecret),
		cfg:      cfg,
	}
}

type CreateInput struct {
	VehicleID     uint
	ServiceIDs    []uint
	ScheduledDate time.Time
	TimeSlot      string
	Address       string
	Latitude      float64
	Longitude     float64
	Notes         string
}

type UpdateInput struct {
	ScheduledDate time.Time
	TimeSlot      string
	Address       string
	Latitude      float64
	Longitude     float64
	Notes         string
}

type CompletionInput struct {
	BeforePhotoURLs []string
	AfterPhotoURLs  []string
	SignatureURL    string
}

type PaymentOrder struct {
	BookingID uint    `json:"booking_id"`
	OrderID   string  `json:"order_id"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	KeyID     string  `json:"key_id"`
}

type VerifyPaymentInput struct {
	OrderID     string
	PaymentID   string
	RazorpaySig string
}

// ==============================
// CRUD
// ==============================

func (s *service) Create(ac middleware.AccessContext, in CreateInput) (*Booking, error) {
	var errs []string
	if in.VehicleID == 0 {
		errs = append(errs, "vehicle_id is required")
	}
	if len(in.ServiceIDs) == 0 {
		errs = append(errs, "service_ids is required")
	}
	if in.ScheduledDate.IsZero() {
		errs = append(errs, "scheduled_date is required")
	} else if in.ScheduledDate.Before(time.Now().Truncate(24 * time.Hour)) {
		errs = append(errs, "scheduled_date cannot be in the past")
	}
	if in.TimeSlot == "" {
		errs = append(errs, "time_slot is required")
	}
	if in.Address == "" {
		errs = append(errs, "address is required")
	}
	if len(errs) > 0 {
		return nil, apperror.Validation(errs...)
	}

	v, err := s.vehicles.FindByID(in.VehicleID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.Validation("vehicle does not exist")
	}
	if err != nil {
		return nil, err
	}
	if v.CustomerID != ac.UserID {
		return nil, apperror.AccessDenied("you do not own this vehicle")
	}

	items, err := s.services.GetServicesByIDs(in.ServiceIDs)
	if err != nil {
		return nil, err
	}
	var amount float64
	for _, item := range items {
		amount += item.Price
	}

	serviceIDs, err := json.Marshal(in.ServiceIDs)
	if err != nil {
		return nil, err
	}

	b := &Booking{
		CustomerID:    ac.UserID,
		VehicleID:     in.VehicleID,
		ServiceIDs:    datatypes.JSON(serviceIDs),
		ScheduledDate: in.ScheduledDate,
		TimeSlot:      in.TimeSlot,
		Address:       in.Address,
		Latitude:      in.Latitude,
		Longitude:     in.Longitude,
		Status:        StatusPending,
		PaymentStatus: PaymentUnpaid,
		Amount:        amount,
		Notes:         in.Notes,
	}
	if err := s.repo.Create(b); err != nil {
		return nil, err
	}

	s.publish(b, "", StatusPending)
	return b, nil
}

func (s *service) List(ac middleware.AccessContext, status string) ([]Booking, error) {
	switch ac.UserType {
	case middleware.RoleCustomer:
		return s.repo.ListByCustomer(ac.UserID, status)
	case middleware.RoleWasher:
		return s.repo.ListByWasher(ac.UserID, status)
	default:
		return s.repo.ListAll(status)
	}
}

func (s *service) Get(ac middleware.AccessContext, id uint) (*Booking, error) {
	b, err := s.repo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("booking not found")
	}
	if err != nil {
		return nil, err
	}

	switch ac.UserType {
	case middleware.RoleCustomer:
		if b.CustomerID != ac.UserID {
			return nil, apperror.AccessDenied("you do not own this booking")
		}
	case middleware.RoleWasher:
		if b.WasherID == nil || *b.WasherID != ac.UserID {
			return nil, apperror.AccessDenied("this booking is not assigned to you")
		}
	}
	return b, nil
}

// Update lets the customer reschedule while the booking is still pending.
func (s *service) Update(ac middleware.AccessContext, id uint, in UpdateInput) (*Booking, error) {
	b, err := s.Get(ac, id)
	if err != nil {
		return nil, err
	}
	if b.Status != StatusPending {
		return nil, apperror.Conflict("only pending bookings can be edited")
	}

	if !in.ScheduledDate.IsZero() {
		if in.ScheduledDate.Before(time.Now().Truncate(24 * time.Hour)) {
			return nil, apperror.Validation("scheduled_date cannot be in the past")
		}
		b.ScheduledDate = in.ScheduledDate
	}
	if in.TimeSlot != "" {
		b.TimeSlot = in.TimeSlot
	}
	if in.Address != "" {
		b.Address = in.Address
		b.Latitude = in.Latitude
		b.Longitude = in.Longitude
	}
	if in.Notes != "" {
		b.Notes = in.Notes
	}

	if err := s.repo.Update(b); err != nil {
		return nil, err
	}
	return b, nil
}

// ==============================
// Lifecycle
// ==============================

func (s *service) actor(ac middleware.AccessContext, b *Booking) Actor {
	return Actor{
		UserType:   ac.UserType,
		IsCustomer: b.CustomerID == ac.UserID,
		IsWasher:   b.WasherID != nil && *b.WasherID == ac.UserID,
	}
}

func (s *service) UpdateStatus(ac middleware.AccessContext, id uint, to, ip string) (*Booking, error) {
	b, err := s.repo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("booking not found")
	}
	if err != nil {
		return nil, err
	}

	if err := CanTransition(s.actor(ac, b), b.Status, to); err != nil {
		return nil, err
	}

	from := b.Status
	b.Status = to
	if err := s.repo.Update(b); err != nil {
		return nil, err
	}

	s.publish(b, from, to)
	s.audit(ac, b, "BOOKING_STATUS_CHANGED", map[string]interface{}{
		"from": from, "to": to,
	}, ip, "success")
	return b, nil
}

// Allocate assigns a washer and moves the booking to allocated.
func (s *service) Allocate(ac middleware.AccessContext, id, washerID uint, ip string) (*Booking, error) {
	b, err := s.repo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("booking not found")
	}
	if err != nil {
		return nil, err
	}

	if err := CanTransition(s.actor(ac, b), b.Status, StatusAllocated); err != nil {
		return nil, err
	}

	washer, err := s.users.FindUserByID(washerID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.Validation("washer does not exist")
	}
	if err != nil {
		return nil, err
	}
	if washer.UserType != middleware.RoleWasher || washer.Status != "active" {
		return nil, apperror.Validation("user is not an active washer")
	}

	from := b.Status
	b.WasherID = &washerID
	b.Status = StatusAllocated
	if err := s.repo.Update(b); err != nil {
		return nil, err
	}

	s.publish(b, from, StatusAllocated)
	s.audit(ac, b, "BOOKING_ALLOCATED", map[string]interface{}{
		"washer_id": washerID,
	}, ip, "success")
	return b, nil
}

// Complete finishes an in-progress job and attaches the proof-of-work photos
// and customer signature.
func (s *service) Complete(ac middleware.AccessContext, id uint, in CompletionInput, ip string) (*Booking, error) {
	b, err := s.repo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("booking not found")
	}
	if err != nil {
		return nil, err
	}

	if err := CanTransition(s.actor(ac, b), b.Status, StatusCompleted); err != nil {
		return nil, err
	}
	if len(in.AfterPhotoURLs) == 0 {
		return nil, apperror.Validation("at least one after photo is required")
	}

	before, err := json.Marshal(in.BeforePhotoURLs)
	if err != nil {
		return nil, err
	}
	after, err := json.Marshal(in.AfterPhotoURLs)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	history := &BookingHistory{
		BookingID:     b.ID,
		BeforePhotos:  datatypes.JSON(before),
		AfterPhotos:   datatypes.JSON(after),
		SignaturePath: in.SignatureURL,
		CompletedAt:   now,
	}
	if err := s.repo.CreateHistory(history); err != nil {
		return nil, err
	}

	from := b.Status
	b.Status = StatusCompleted
	if err := s.repo.Update(b); err != nil {
		return nil, err
	}

	s.publish(b, from, StatusCompleted)
	s.audit(ac, b, "BOOKING_COMPLETED", map[string]interface{}{
		"after_photos": len(in.AfterPhotoURLs),
	}, ip, "success")
	return b, nil
}

func (s *service) GetHistory(ac middleware.AccessContext, id uint) (*BookingHistory, error) {
	if _, err := s.Get(ac, id); err != nil {
		return nil, err
	}
	h, err := s.repo.FindHistory(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("booking has no completion record")
	}
	return h, err
}

// ==============================
// Payments
// ==============================

// CreatePaymentOrder opens a razorpay order for the booking amount. Calling
// it again for an unpaid booking reuses the existing order.
func (s *service) CreatePaymentOrder(ac middleware.AccessContext, id uint, ip string) (*PaymentOrder, error) {
	b, err := s.Get(ac, id)
	if err != nil {
		return nil, err
	}
	if b.CustomerID != ac.UserID && ac.UserType == middleware.RoleCustomer {
		return nil, apperror.AccessDenied("you do not own this booking")
	}
	if b.PaymentStatus == PaymentPaid {
		return nil, apperror.Conflict("booking is already paid")
	}
	if b.Status == StatusCancelled {
		return nil, apperror.Conflict("cancelled bookings cannot be paid")
	}

	if b.OrderID != "" {
		return &PaymentOrder{
			BookingID: b.ID, OrderID: b.OrderID, Amount: b.Amount,
			Currency: "INR", KeyID: s.cfg.RazorpayKey,
		}, nil
	}

	data := map[string]interface{}{
		"amount":          int(b.Amount * 100),
		"currency":        "INR",
		"payment_capture": 1,
		"notes": map[string]interface{}{
			"booking_id":  b.ID,
			"customer_id": b.CustomerID,
		},
	}
	order, err := s.client.Order.Create(data, nil)
	if err != nil {
		s.audit(ac, b, "PAYMENT_ORDER_FAILED", map[string]interface{}{"error": err.Error()}, ip, "failure")
		return nil, fmt.Errorf("razorpay order creation failed: %w", err)
	}
	orderID, ok := order["id"].(string)
	if !ok {
		return nil, errors.New("unable to extract order_id from razorpay response")
	}

	b.OrderID = orderID
	b.PaymentStatus = PaymentPending
	if err := s.repo.Update(b); err != nil {
		return nil, err
	}

	s.audit(ac, b, "PAYMENT_ORDER_CREATED", map[string]interface{}{
		"order_id": orderID, "amount": b.Amount,
	}, ip, "success")

	return &PaymentOrder{
		BookingID: b.ID, OrderID: orderID, Amount: b.Amount,
		Currency: "INR", KeyID: s.cfg.RazorpayKey,
	}, nil
}

// VerifyPayment checks the razorpay HMAC signature and marks the booking
// paid. Already-paid orders are accepted silently so client retries stay
// idempotent.
func (s *service) VerifyPayment(ac middleware.AccessContext, in VerifyPaymentInput, ip string) error {
	if !VerifySignature(s.cfg.RazorpaySecret, in.OrderID, in.PaymentID, in.RazorpaySig) {
		s.auditSvc.LogAction(context.Background(), &ac.UserID, nil, "PAYMENT_VERIFICATION_FAILED", map[string]interface{}{
			"order_id": in.OrderID, "reason": "invalid payment signature",
		}, ip, "failure")
		return apperror.Validation("invalid payment signature")
	}

	b, err := s.repo.FindByOrderID(in.OrderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFound("no booking found for this order")
	}
	if err != nil {
		return err
	}

	if b.PaymentStatus == PaymentPaid {
		return nil // already processed
	}

	b.PaymentStatus = PaymentPaid
	b.PaymentID = in.PaymentID
	b.PaymentMethod = "razorpay"
	if err := s.repo.Update(b); err != nil {
		return err
	}

	s.audit(ac, b, "PAYMENT_VERIFIED", map[string]interface{}{
		"order_id": in.OrderID, "payment_id": in.PaymentID, "amount": b.Amount,
	}, ip, "success")
	return nil
}

// VerifySignature computes the razorpay checkout signature over
// "orderID|paymentID" and compares it in constant time.
func VerifySignature(secret, orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// ==============================
// Helpers
// ==============================

func (s *service) publish(b *Booking, from, to string) {
	utils.PublishEvent(fmt.Sprintf("booking-%d", b.ID), Event{
		BookingID:  b.ID,
		CustomerID: b.CustomerID,
		WasherID:   b.WasherID,
		FromStatus: from,
		ToStatus:   to,
		Amount:     b.Amount,
		OccurredAt: time.Now(),
	})
}

func (s *service) audit(ac middleware.AccessContext, b *Booking, action string, details map[string]interface{}, ip, status string) {
	if details == nil {
		details = map[string]interface{}{}
	}
	details["booking_id"] = b.ID
	_ = s.auditSvc.LogAction(context.Background(), &ac.UserID, nil, action, details, ip, status)
}
