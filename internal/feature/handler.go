package feature

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sandeepk26/orbis-backend/internal/apperror"
	"github.com/sandeepk26/orbis-backend/middleware"
)

type Handler struct{ service Service }

func NewHandler(s Service) *Handler { return &Handler{s} }

// ==============================
// Catalog (superadmin)
// ==============================

func (h *Handler) ListCatalog(c *gin.Context) {
	features, err := h.service.ListCatalog()
	if err != nil {
		apperror.Fail(c, err)
		return
	}
	apperror.OK(c, "Feature catalog fetched", features)
}

func (h *Handler) CreateCatalogFeature(c *gin.Context) {
	var in SystemFeatureInput
	if err := c.ShouldBindJSON(&in); err != nil {
		apperror.Fail(c, apperror.Validation("system_key, system_name and modules are required"))
		return
	}
	sf, err := h.service.CreateCatalogFeature(in)
	if err != nil {
		apperror.Fail(c, err)
		return
	}
	apperror.Created(c, "Feature created", sf)
}

func (h *Handler) UpdateCatalogFeature(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		apperror.Fail(c, err)
		return
	}
	var in SystemFeatureInput
	if err := c.ShouldBindJSON(&in); err != nil {
		apperror.Fail(c, apperror.Validation("system_key, system_name and modules are required"))
		return
	}
	sf, err := h.service.UpdateCatalogFeature(id, in)
	if err != nil {
		apperror.Fail(c, err)
		return
	}
	apperror.OK(c, "Feature updated", sf)
}

func (h *Handler) DeleteCatalogFeature(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		apperror.Fail(c, err)
		return
	}
	if err := h.service.DeleteCatalogFeature(id); err != nil {
		apperror.Fail(c, err)
		return
	}
	apperror.OK(c, "Feature deleted", nil)
}

// ==============================
// User feature assignment
// ==============================

// target builds the mutation target from the route. Routes mounted under
// /org/:orgId operate on organization users; the rest on global users.
func target(c *gin.Context) (Target, error) {
	userID, err := uintParam(c, "id")
	if err != nil {
		return Target{}, err
	}
	if orgID := middleware.GetOrgID(c); orgID != 0 {
		return Target{OrganizationID: &orgID, UserID: userID}, nil
	}
	return Target{UserID: userID}, nil
}

func (h *Handler) GetUserFeatures(c *gin.Context) {
	t, err := target(c)
	if err != nil {
		apperror.Fail(c, err)
		return
	}
	tree, err := h.service.EffectiveFeatures(t)
	if err != nil {
		apperror.Fail(c, err)
		return
	}
	apperror.OK(c, "Features fetched", tree)
}

type addFeatureRequest struct {
	SystemKey string   `json:"system_key"`
	Modules   []Module `json:"modules"`
}

func (h *Handler) AddUserFeature(c *gin.Context) {
	t, err := target(c)
	if err != nil {
		apperror.Fail(c, err)
		return
	}
	var req addFeatureRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.SystemKey == "" {
		apperror.Fail(c, apperror.Validation("system_key is required"))
		return
	}
	tree, err := h.service.AddFeature(t, req.SystemKey, req.Modules)
	if err != nil {
		apperror.Fail(c, err)
		return
	}
	apperror.OK(c, "Feature assigned", tree)
}

func (h *Handler) RemoveUserFeature(c *gin.Context) {
	t, err := target(c)
	if err != nil {
		apperror.Fail(c, err)
		return
	}
	tree, err := h.service.RemoveFeature(t, c.Param("systemKey"))
	if err != nil {
		apperror.Fail(c, err)
		return
	}
	apperror.OK(c, "Feature removed", tree)
}

func (h *Handler) ToggleUserFeature(c *gin.Context) {
	t, err := target(c)
	if err != nil {
		apperror.Fail(c, err)
		return
	}
	tree, err := h.service.ToggleFeature(t, c.Param("systemKey"))
	if err != nil {
		apperror.Fail(c, err)
		return
	}
	apperror.OK(c, "Feature toggled", tree)
}

// MyFeatures returns the caller's effective tree, whichever scope the token
// belongs to.
func (h *Handler) MyFeatures(c *gin.Context) {
	ac, ok := middleware.GetAccessContext(c)
	if !ok {
		apperror.Fail(c, apperror.Unauthenticated("authentication required"))
		return
	}

	t := Target{UserID: ac.UserID}
	if ac.AuthType == middleware.AuthTypeOrganization {
		t.OrganizationID = ac.OrganizationID
	}
	tree, err := h.service.EffectiveFeatures(t)
	if err != nil {
		apperror.Fail(c, err)
		return
	}
	apperror.OK(c, "Features fetched", tree)
}

type bulkAssignRequest struct {
	UserType string `json:"user_type"`
	Features Tree   `json:"features"`
}

// BulkAssign overwrites assigned_features for every org user of a user type.
func (h *Handler) BulkAssign(c *gin.Context) {
	orgID := middleware.GetOrgID(c)
	if orgID == 0 {
		apperror.Fail(c, apperror.Validation("organization id is required"))
		return
	}
	var req bulkAssignRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UserType == "" {
		apperror.Fail(c, apperror.Validation("user_type and features are required"))
		return
	}

	affected, err := h.service.BulkAssignByUserType(orgID, req.UserType, req.Features)
	if err != nil {
		apperror.Fail(c, err)
		return
	}
	apperror.OK(c, "Features assigned", gin.H{"updated_users": affected})
}

func uintParam(c *gin.Context, name string) (uint, error) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, apperror.Validation(name + " must be a positive integer")
	}
	return uint(id), nil
}
