package auditlog

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sandeepk26/orbis-backend/internal/apperror"
)

type Handler struct{ service Service }

func NewHandler(s Service) *Handler { return &Handler{s} }

// List returns paginated audit logs. Superadmin only.
func (h *Handler) List(c *gin.Context) {
	filter := Filter{
		Action: c.Query("action"),
		Status: c.Query("status"),
	}
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))

	if raw := c.Query("user_id"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 64); err == nil {
			uid := uint(id)
			filter.UserID = &uid
		}
	}
	if raw := c.Query("organization_id"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 64); err == nil {
			oid := uint(id)
			filter.OrganizationID = &oid
		}
	}
	if raw := c.Query("from"); raw != "" {
		if ts, err := time.Parse("2006-01-02", raw); err == nil {
			filter.FromDate = &ts
		}
	}
	if raw := c.Query("to"); raw != "" {
		if ts, err := time.Parse("2006-01-02", raw); err == nil {
			end := ts.Add(24*time.Hour - time.Second)
			filter.ToDate = &end
		}
	}

	page, err := h.service.GetAuditLogs(c.Request.Context(), filter)
	if err != nil {
		apperror.Fail(c, err)
		return
	}
	apperror.OK(c, "Audit logs fetched", page)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		apperror.Fail(c, apperror.Validation("id must be a positive integer"))
		return
	}
	entry, err := h.service.GetAuditLogByID(c.Request.Context(), uint(id))
	if err != nil {
		apperror.Fail(c, err)
		return
	}
	apperror.OK(c, "Audit log fetched", entry)
}
