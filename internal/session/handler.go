package session

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"github.com/sandeepk26/orbis-backend/internal/apperror"
	"github.com/sandeepk26/orbis-backend/middleware"
)

type Handler struct{ service Service }

func NewHandler(s Service) *Handler { return &Handler{s} }

type Request struct {
	Name          string         `json:"name"`
	StartDate     string         `json:"start_date"` // YYYY-MM-DD
	EndDate       string         `json:"end_date"`
	TermStructure datatypes.JSON `json:"term_structure"`
	Status        string         `json:"status"`
}

func (r Request) toInput() (Input, error) {
	in := Input{
		Name:          r.Name,
		TermStructure: r.TermStructure,
		Status:        r.Status,
	}
	var errs []string
	if r.StartDate != "" {
		ts, err := time.Parse("2006-01-02", r.StartDate)
		if err != nil {
			errs = append(errs, "start_date must be YYYY-MM-DD")
		}
		in.StartDate = ts
	}
	if r.EndDate != "" {
		ts, err := time.Parse("2006-01-02", r.EndDate)
		if err != nil {
			errs = append(errs, "end_date must be YYYY-MM-DD")
		}
		in.EndDate = ts
	}
	if len(errs) > 0 {
		return in, apperror.Validation(errs...)
	}
	return in, nil
}

func (h *Handler) List(c *gin.Context) {
	sessions, err := h.service.List(middleware.GetOrgID(c))
	if err != nil {
		apperror.Fail(c, err)
		return
	}
	apperror.OK(c, "Sessions fetched", sessions)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		apperror.Fail(c, err)
		return
	}
	sess, err := h.service.Get(middleware.GetOrgID(c), id)
	if err != nil {
		apperror.Fail(c, err)
		return
	}
	apperror.OK(c, "Session fetched", sess)
}

func (h *Handler) Create(c *gin.Context) {
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		apperror.Fail(c, apperror.Validation("request body is not valid JSON"))
		return
	}
	in, err := req.toInput()
	if err != nil {
		apperror.Fail(c, err)
		return
	}
	sess, err := h.service.Create(middleware.GetOrgID(c), in)
	if err != nil {
		apperror.Fail(c, err)
		return
	}
	apperror.Created(c, "Session created", sess)
}

func (h *Handler) Update(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		apperror.Fail(c, err)
		return
	}
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		apperror.Fail(c, apperror.Validation("request body is not valid JSON"))
		return
	}
	in, err := req.toInput()
	if err != nil {
		apperror.Fail(c, err)
		return
	}
	sess, err := h.service.Update(middleware.GetOrgID(c), id, in)
	if err != nil {
		apperror.Fail(c, err)
		return
	}
	apperror.OK(c, "Session updated", sess)
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		apperror.Fail(c, err)
		return
	}
	if err := h.service.Delete(middleware.GetOrgID(c), id); err != nil {
		apperror.Fail(c, err)
		return
	}
	apperror.OK(c, "Session deleted", nil)
}

func idParam(c *gin.Context) (uint, error) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, apperror.Validation("id must be a positive integer")
	}
	return uint(id), nil
}
