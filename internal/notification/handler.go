package notification

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sandeepk26/orbis-backend/internal/apperror"
	"github.com/sandeepk26/orbis-backend/middleware"
)

type Handler struct{ service Service }

func NewHandler(s Service) *Handler { return &Handler{s} }

func (h *Handler) List(c *gin.Context) {
	ac, _ := middleware.GetAccessContext(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	unreadOnly := c.Query("unread") == "true"

	items, err := h.service.List(c.Request.Context(), ac.UserID, unreadOnly, limit)
	if err != nil {
		apperror.Fail(c, err)
		return
	}

	count, err := h.service.UnreadCount(c.Request.Context(), ac.UserID)
	if err != nil {
		apperror.Fail(c, err)
		return
	}
	apperror.OK(c, "Notifications fetched", gin.H{
		"notifications": items,
		"unread_count":  count,
	})
}

func (h *Handler) MarkAsRead(c *gin.Context) {
	ac, _ := middleware.GetAccessContext(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		apperror.Fail(c, apperror.Validation("id must be a positive integer"))
		return
	}
	if err := h.service.MarkAsRead(c.Request.Context(), uint(id), ac.UserID); err != nil {
		apperror.Fail(c, err)
		return
	}
	apperror.OK(c, "Notification marked as read", nil)
}

type deviceTokenRequest struct {
	DeviceToken string `json:"device_token"`
	DeviceType  string `json:"device_type"`
}

func (h *Handler) RegisterDeviceToken(c *gin.Context) {
	ac, _ := middleware.GetAccessContext(c)
	var req deviceTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperror.Fail(c, apperror.Validation("request body is not valid JSON"))
		return
	}
	if err := h.service.RegisterDeviceToken(c.Request.Context(), ac.UserID, req.DeviceToken, req.DeviceType); err != nil {
		apperror.Fail(c, err)
		return
	}
	apperror.OK(c, "Device token registered", nil)
}

func (h *Handler) RemoveDeviceToken(c *gin.Context) {
	ac, _ := middleware.GetAccessContext(c)
	var req deviceTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperror.Fail(c, apperror.Validation("request body is not valid JSON"))
		return
	}
	if err := h.service.RemoveDeviceToken(c.Request.Context(), ac.UserID, req.DeviceToken); err != nil {
		apperror.Fail(c, err)
		return
	}
	apperror.OK(c, "Device token removed", nil)
}
