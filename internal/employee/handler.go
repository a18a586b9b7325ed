package employee

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sandeepk26/orbis-backend/internal/apperror"
	"github.com/sandeepk26/orbis-backend/middleware"
)

type Handler struct{ service Service }

func NewHandler(s Service) *Handler { return &Handler{s} }

func (h *Handler) List(c *gin.Context) {
	orgID := middleware.GetOrgID(c)
	users, err := h.service.List(orgID, c.Query("user_type"), c.Query("status"))
	if err != nil {
		apperror.Fail(c, err)
		return
	}
	apperror.OK(c, "Users fetched", users)
}

func (h *Handler) Get(c *gin.Context) {
	orgID := middleware.GetOrgID(c)
	id, err := idParam(c)
	if err != nil {
		apperror.Fail(c, err)
		return
	}
	u, err := h.service.Get(orgID, id)
	if err != nil {
		apperror.Fail(c, err)
		return
	}
	apperror.OK(c, "User fetched", u)
}

type CreateRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	UserType string `json:"user_type"`
}

func (h *Handler) Create(c *gin.Context) {
	orgID := middleware.GetOrgID(c)
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperror.Fail(c, apperror.Validation("request body is not valid JSON"))
		return
	}
	u, err := h.service.Create(orgID, CreateInput(req))
	if err != nil {
		apperror.Fail(c, err)
		return
	}
	apperror.Created(c, "User created", u)
}

type UpdateRequest struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	UserType string `json:"user_type"`
}

func (h *Handler) Update(c *gin.Context) {
	orgID := middleware.GetOrgID(c)
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
	u, err := h.service.Update(orgID, id, UpdateInput(req))
	if err != nil {
		apperror.Fail(c, err)
		return
	}
	apperror.OK(c, "User updated", u)
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	orgID := middleware.GetOrgID(c)
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
	u, err := h.service.UpdateStatus(orgID, id, req.Status)
	if err != nil {
		apperror.Fail(c, err)
		return
	}
	apperror.OK(c, "User status updated", u)
}

type resetPasswordRequest struct {
	NewPassword string `json:"new_password"`
}

func (h *Handler) ResetPassword(c *gin.Context) {
	orgID := middleware.GetOrgID(c)
	id, err := idParam(c)
	if err != nil {
		apperror.Fail(c, err)
		return
	}
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperror.Fail(c, apperror.Validation("request body is not valid JSON"))
		return
	}

	adminName := ""
	if ac, ok := middleware.GetAccessContext(c); ok {
		adminName = ac.Email
	}
	if err := h.service.ResetPassword(orgID, id, req.NewPassword, adminName); err != nil {
		apperror.Fail(c, err)
		return
	}
	apperror.OK(c, "Password reset", nil)
}

func (h *Handler) Delete(c *gin.Context) {
	orgID := middleware.GetOrgID(c)
	id, err := idParam(c)
	if err != nil {
		apperror.Fail(c, err)
		return
	}
	if err := h.service.Delete(orgID, id); err != nil {
		apperror.Fail(c, err)
		return
	}
	apperror.OK(c, "User deleted", nil)
}

func idParam(c *gin.Context) (uint, error) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, apperror.Validation("id must be a positive integer")
	}
	return uint(id), nil
}
