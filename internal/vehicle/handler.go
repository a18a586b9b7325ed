package vehicle

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

	var customerID uint
	if raw := c.Query("customer_id"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 64); err == nil {
			customerID = uint(id)
		}
	}

	vehicles, err := h.service.List(ac, customerID)
	if err != nil {
		apperror.Fail(c, err)
		return
	}
	apperror.OK(c, "Vehicles fetched", vehicles)
}

func (h *Handler) Get(c *gin.Context) {
	ac, _ := middleware.GetAccessContext(c)
	id, err := idParam(c)
	if err != nil {
		apperror.Fail(c, err)
		return
	}
	v, err := h.service.Get(ac, id)
	if err != nil {
		apperror.Fail(c, err)
		return
	}
	apperror.OK(c, "Vehicle fetched", v)
}

type Request struct {
	VehicleType string `json:"vehicle_type"`
	Maker       string `json:"maker"`
	Model       string `json:"model"`
	PlateNumber string `json:"plate_number"`
	Color       string `json:"color"`
}

func (h *Handler) Create(c *gin.Context) {
	ac, _ := middleware.GetAccessContext(c)
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		apperror.Fail(c, apperror.Validation("request body is not valid JSON"))
		return
	}
	v, err := h.service.Create(ac, Input(req))
	if err != nil {
		apperror.Fail(c, err)
		return
	}
	apperror.Created(c, "Vehicle registered", v)
}

func (h *Handler) Update(c *gin.Context) {
	ac, _ := middleware.GetAccessContext(c)
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
	v, err := h.service.Update(ac, id, Input(req))
	if err != nil {
		apperror.Fail(c, err)
		return
	}
	apperror.OK(c, "Vehicle updated", v)
}

func (h *Handler) Delete(c *gin.Context) {
	ac, _ := middleware.GetAccessContext(c)
	id, err := idParam(c)
	if err != nil {
		apperror.Fail(c, err)
		return
	}
	if err := h.service.Delete(ac, id); err != nil {
		apperror.Fail(c, err)
		return
	}
	apperror.OK(c, "Vehicle deleted", nil)
}

func idParam(c *gin.Context) (uint, error) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, apperror.Validation("id must be a positive integer")
	}
	return uint(id), nil
}
