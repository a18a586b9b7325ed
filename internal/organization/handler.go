package organization

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sandeepk26/orbis-backend/internal/apperror"
	"github.com/sandeepk26/orbis-backend/internal/feature"
)

type Handler struct{ service Service }

func NewHandler(s Service) *Handler { return &Handler{s} }

type RegisterRequest struct {
	Name        string `json:"name"`
	OrgType     string `json:"org_type"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	Description string `json:"description"`

	AdminFullName string `json:"admin_full_name"`
	AdminEmail    string `json:"admin_email"`
	AdminPhone    string `json:"admin_phone"`
	AdminPassword string `json:"admin_password"`
}

// Register is public: a prospective tenant signs up and waits for approval.
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperror.Fail(c, apperror.Validation("request body is not valid JSON"))
		return
	}

	org, err := h.service.Register(RegisterInput(req))
	if err != nil {
		apperror.Fail(c, err)
		return
	}
	apperror.Created(c, "Organization registered. Awaiting approval.", org)
}

func (h *Handler) List(c *gin.Context) {
	orgs, err := h.service.List(c.Query("status"))
	if err != nil {
		apperror.Fail(c, err)
		return
	}
	apperror.OK(c, "Organizations fetched", orgs)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		apperror.Fail(c, err)
		return
	}
	org, err := h.service.Get(id)
	if err != nil {
		apperror.Fail(c, err)
		return
	}
	apperror.OK(c, "Organization fetched", org)
}

type UpdateRequest struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	Description string `json:"description"`
}

func (h *Handler) Update(c *gin.Context) {
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
	org, err := h.service.Update(id, UpdateInput(req))
	if err != nil {
		apperror.Fail(c, err)
		return
	}
	apperror.OK(c, "Organization updated", org)
}

type statusRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

// UpdateStatus approves, rejects or suspends a tenant. Superadmin only.
func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		apperror.Fail(c, err)
		return
	}
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperror.Fail(c, apperror.Validation("request body is not valid JSON"))
		return
	}
	switch req.Status {
	case "active", "rejected", "inactive":
	default:
		apperror.Fail(c, apperror.Validation("status must be one of active, rejected, inactive"))
		return
	}

	org, err := h.service.UpdateStatus(id, req.Status, req.Reason)
	if err != nil {
		apperror.Fail(c, err)
		return
	}
	apperror.OK(c, "Organization status updated", org)
}

type togglesRequest struct {
	LoginEnabled        *bool `json:"login_enabled"`
	RegistrationEnabled *bool `json:"registration_enabled"`
}

func (h *Handler) UpdateToggles(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		apperror.Fail(c, err)
		return
	}
	var req togglesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperror.Fail(c, apperror.Validation("request body is not valid JSON"))
		return
	}
	if req.LoginEnabled == nil || req.RegistrationEnabled == nil {
		apperror.Fail(c, apperror.Validation("login_enabled and registration_enabled are required"))
		return
	}

	org, err := h.service.UpdateToggles(id, *req.LoginEnabled, *req.RegistrationEnabled)
	if err != nil {
		apperror.Fail(c, err)
		return
	}
	apperror.OK(c, "Organization settings updated", org)
}

func (h *Handler) UpdateSelectedFeatures(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		apperror.Fail(c, err)
		return
	}
	var tree feature.Tree
	if err := c.ShouldBindJSON(&tree); err != nil {
		apperror.Fail(c, apperror.Validation("request body must be a feature tree object"))
		return
	}

	org, err := h.service.UpdateSelectedFeatures(id, tree)
	if err != nil {
		apperror.Fail(c, err)
		return
	}
	apperror.OK(c, "Organization features updated", org)
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		apperror.Fail(c, err)
		return
	}
	if err := h.service.Delete(id); err != nil {
		apperror.Fail(c, err)
		return
	}
	apperror.OK(c, "Organization deleted", nil)
}

func idParam(c *gin.Context) (uint, error) {
	raw := c.Param("orgId")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, apperror.Validation("organization id must be a positive integer")
	}
	return uint(id), nil
}
