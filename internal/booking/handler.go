package booking

import (
	"mime/multipart"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sandeepk26/orbis-backend/internal/apperror"
	"github.com/sandeepk26/orbis-backend/middleware"
	"github.com/sandeepk26/orbis-backend/utils"
)

type Handler struct{ service Service }

func NewHandler(s Service) *Handler { return &Handler{s} }

type CreateRequest struct {
	VehicleID     uint    `json:"vehicle_id"`
	ServiceIDs    []uint  `json:"service_ids"`
	ScheduledDate string  `json:"scheduled_date"` // YYYY-MM-DD
	TimeSlot      string  `json:"time_slot"`
	Address       string  `json:"address"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	Notes         string  `json:"notes"`
}

func (h *Handler) Create(c *gin.Context) {
	ac, _ := middleware.GetAccessContext(c)
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperror.Fail(c, apperror.Validation("request body is not valid JSON"))
		return
	}

	in := CreateInput{
		VehicleID:  req.VehicleID,
		ServiceIDs: req.ServiceIDs,
		TimeSlot:   req.TimeSlot,
		Address:    req.Address,
		Latitude:   req.Latitude,
		Longitude:  req.Longitude,
		Notes:      req.Notes,
	}
	if req.ScheduledDate != "" {
		ts, err := time.Parse("2006-01-02", req.ScheduledDate)
		if err != nil {
			apperror.Fail(c, apperror.Validation("scheduled_date must be YYYY-MM-DD"))
			return
		}
		in.ScheduledDate = ts
	}

	b, err := h.service.Create(ac, in)
	if err != nil {
		apperror.Fail(c, err)
		return
	}
	apperror.Created(c, "Booking created", b)
}

func (h *Handler) List(c *gin.Context) {
	ac, _ := middleware.GetAccessContext(c)
	bookings, err := h.service.List(ac, c.Query("status"))
	if err != nil {
		apperror.Fail(c, err)
		return
	}
	apperror.OK(c, "Bookings fetched", bookings)
}

func (h *Handler) Get(c *gin.Context) {
	ac, _ := middleware.GetAccessContext(c)
	id, err := idParam(c)
	if err != nil {
		apperror.Fail(c, err)
		return
	}
	b, err := h.service.Get(ac, id)
	if err != nil {
		apperror.Fail(c, err)
		return
	}
	apperror.OK(c, "Booking fetched", b)
}

type UpdateRequest struct {
	ScheduledDate string  `json:"scheduled_date"`
	TimeSlot      string  `json:"time_slot"`
	Address       string  `json:"address"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	Notes         string  `json:"notes"`
}

func (h *Handler) Update(c *gin.Context) {
	ac, _ := middleware.GetAccessContext(c)
	id, err := idParam(c)
	if err != nil {
		apperror.Fail(c, err)
		return
	}
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperror.Fail(c, apperror.Validation("request body is not valid JSON"))
		return
	}

	in := UpdateInput{
		TimeSlot:  req.TimeSlot,
		Address:   req.Address,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Notes:     req.Notes,
	}
	if req.ScheduledDate != "" {
		ts, err := time.Parse("2006-01-02", req.ScheduledDate)
		if err != nil {
			apperror.Fail(c, apperror.Validation("scheduled_date must be YYYY-MM-DD"))
			return
		}
		in.ScheduledDate = ts
	}

	b, err := h.service.Update(ac, id, in)
	if err != nil {
		apperror.Fail(c, err)
		return
	}
	apperror.OK(c, "Booking updated", b)
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	ac, _ := middleware.GetAccessContext(c)
	id, err := idParam(c)
	if err != nil {
		apperror.Fail(c, err)
		return
	}
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Status == "" {
		apperror.Fail(c, apperror.Validation("status is required"))
		return
	}

	b, err := h.service.UpdateStatus(ac, id, req.Status, middleware.ClientIP(c))
	if err != nil {
		apperror.Fail(c, err)
		return
	}
	apperror.OK(c, "Booking status updated", b)
}

type allocateRequest struct {
	WasherID uint `json:"washer_id"`
}

func (h *Handler) Allocate(c *gin.Context) {
	ac, _ := middleware.GetAccessContext(c)
	id, err := idParam(c)
	if err != nil {
		apperror.Fail(c, err)
		return
	}
	var req allocateRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.WasherID == 0 {
		apperror.Fail(c, apperror.Validation("washer_id is required"))
		return
	}

	b, err := h.service.Allocate(ac, id, req.WasherID, middleware.ClientIP(c))
	if err != nil {
		apperror.Fail(c, err)
		return
	}
	apperror.OK(c, "Booking allocated", b)
}

// Complete accepts multipart form data: before_photos[], after_photos[] and
// an optional signature file.
func (h *Handler) Complete(c *gin.Context) {
	ac, _ := middleware.GetAccessContext(c)
	id, err := idParam(c)
	if err != nil {
		apperror.Fail(c, err)
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		apperror.Fail(c, apperror.Validation("multipart form data is required"))
		return
	}

	before, err := h.saveAll(c, form.File["before_photos"], id)
	if err != nil {
		apperror.Fail(c, err)
		return
	}
	after, err := h.saveAll(c, form.File["after_photos"], id)
	if err != nil {
		apperror.Fail(c, err)
		return
	}

	in := CompletionInput{BeforePhotoURLs: before, AfterPhotoURLs: after}
	if sigs := form.File["signature"]; len(sigs) > 0 {
		url, err := utils.SaveUploadedFile(c, sigs[0], "bookings", id)
		if err != nil {
			apperror.Fail(c, err)
			return
		}
		in.SignatureURL = url
	}

	b, err := h.service.Complete(ac, id, in, middleware.ClientIP(c))
	if err != nil {
		apperror.Fail(c, err)
		return
	}
	apperror.OK(c, "Booking completed", b)
}

func (h *Handler) saveAll(c *gin.Context, files []*multipart.FileHeader, bookingID uint) ([]string, error) {
	var urls []string
	for _, fh := range files {
		url, err := utils.SaveUploadedFile(c, fh, "bookings", bookingID)
		if err != nil {
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}

func (h *Handler) GetHistory(c *gin.Context) {
	ac, _ := middleware.GetAccessContext(c)
	id, err := idParam(c)
	if err != nil {
		apperror.Fail(c, err)
		return
	}
	history, err := h.service.GetHistory(ac, id)
	if err != nil {
		apperror.Fail(c, err)
		return
	}
	apperror.OK(c, "Booking history fetched", history)
}

// ==============================
// Payments
// ==============================

func (h *Handler) CreatePaymentOrder(c *gin.Context) {
	ac, _ := middleware.GetAccessContext(c)
	id, err := idParam(c)
	if err != nil {
		apperror.Fail(c, err)
		return
	}
	order, err := h.service.CreatePaymentOrder(ac, id, middleware.ClientIP(c))
	if err != nil {
		apperror.Fail(c, err)
		return
	}
	apperror.OK(c, "Payment order created", order)
}

type verifyPaymentRequest struct {
	OrderID     string `json:"razorpay_order_id"`
	PaymentID   string `json:"razorpay_payment_id"`
	RazorpaySig string `json:"razorpay_signature"`
}

func (h *Handler) VerifyPayment(c *gin.Context) {
	ac, _ := middleware.GetAccessContext(c)
	var req verifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.OrderID == "" || req.PaymentID == "" {
		apperror.Fail(c, apperror.Validation("razorpay_order_id, razorpay_payment_id and razorpay_signature are required"))
		return
	}

	if err := h.service.VerifyPayment(ac, VerifyPaymentInput(req), middleware.ClientIP(c)); err != nil {
		apperror.Fail(c, err)
		return
	}
	apperror.OK(c, "Payment verified", nil)
}

func idParam(c *gin.Context) (uint, error) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, apperror.Validation("id must be a positive integer")
	}
	return uint(id), nil
}
