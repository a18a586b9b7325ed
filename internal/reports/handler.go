package reports

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sandeepk26/orbis-backend/internal/apperror"
)

type Handler struct{ service Service }

func NewHandler(s Service) *Handler { return &Handler{s} }

// Export streams a report file. GET /reports/:type/export?format=csv|excel|pdf
func (h *Handler) Export(c *gin.Context) {
	reportType := c.Param("type")
	format := c.DefaultQuery("format", FormatCSV)

	f := Filter{Status: c.Query("status")}
	if raw := c.Query("org_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			apperror.Fail(c, apperror.Validation("org_id must be a positive integer"))
			return
		}
		orgID := uint(id)
		f.OrgID = &orgID
	}
	if raw := c.Query("from"); raw != "" {
		ts, err := time.Parse("2006-01-02", raw)
		if err != nil {
			apperror.Fail(c, apperror.Validation("from must be YYYY-MM-DD"))
			return
		}
		f.FromDate = &ts
	}
	if raw := c.Query("to"); raw != "" {
		ts, err := time.Parse("2006-01-02", raw)
		if err != nil {
			apperror.Fail(c, apperror.Validation("to must be YYYY-MM-DD"))
			return
		}
		end := ts.Add(24*time.Hour - time.Second)
		f.ToDate = &end
	}

	data, filename, contentType, err := h.service.Export(c.Request.Context(), reportType, format, f)
	if err != nil {
		apperror.Fail(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, contentType, data)
}
