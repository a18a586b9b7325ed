package auth

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sandeepk26/orbis-backend/internal/apperror"
)

type Handler struct{ service Service }

func NewHandler(s Service) *Handler { return &Handler{s} }

// ===============================
// Registration
// ===============================

type RegisterRequest struct {
	FullName string `json:"full_name" example:"Sharath Kumar"`
	Email    string `json:"email" example:"example@gmail.com"`
	Password string `json:"password" example:"secret123"`
	Phone    string `json:"phone" example:"+919876543210"`
	UserType string `json:"user_type" example:"customer"`
}

func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperror.Fail(c, apperror.Validation("request body is not valid JSON"))
		return
	}

	if strings.ToLower(req.UserType) == "superadmin" {
		apperror.Fail(c, apperror.AccessDenied("superadmin registration is not allowed"))
		return
	}

	user, err := h.service.Register(RegisterInput{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		UserType: strings.ToLower(req.UserType),
	})
	if err != nil {
		apperror.Fail(c, err)
		return
	}

	apperror.Created(c, "Registration successful. Awaiting approval.", gin.H{
		"id":        user.ID,
		"full_name": user.FullName,
		"email":     user.Email,
		"user_type": user.UserType,
		"status":    user.Status,
	})
}

func (h *Handler) RegisterOrgUser(c *gin.Context) {
	orgID, err := orgIDParam(c)
	if err != nil {
		apperror.Fail(c, err)
		return
	}

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperror.Fail(c, apperror.Validation("request body is not valid JSON"))
		return
	}

	if strings.ToLower(req.UserType) == "superadmin" {
		apperror.Fail(c, apperror.AccessDenied("superadmin registration is not allowed"))
		return
	}

	user, err := h.service.RegisterOrgUser(orgID, RegisterInput{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		UserType: strings.ToLower(req.UserType),
	})
	if err != nil {
		apperror.Fail(c, err)
		return
	}

	apperror.Created(c, "Registration successful. Awaiting approval.", gin.H{
		"id":              user.ID,
		"organization_id": user.OrganizationID,
		"full_name":       user.FullName,
		"email":           user.Email,
		"user_type":       user.UserType,
		"status":          user.Status,
	})
}

// ===============================
// Login
// ===============================

type LoginRequest struct {
	Email    string `json:"email" example:"sharath@example.com"`
	Password string `json:"password" example:"secret123"`
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperror.Fail(c, apperror.Validation("request body is not valid JSON"))
		return
	}

	token, user, err := h.service.Login(LoginInput(req))
	if err != nil {
		apperror.Fail(c, err)
		return
	}

	payload := gin.H{
		"token": token,
		"user": gin.H{
			"id":        user.ID,
			"full_name": user.FullName,
			"email":     user.Email,
			"user_type": user.UserType,
		},
	}
	if user.InstitutionID != nil {
		payload["user"].(gin.H)["institution_id"] = *user.InstitutionID
	}
	apperror.OK(c, "Login successful", payload)
}

func (h *Handler) LoginOrg(c *gin.Context) {
	orgID, err := orgIDParam(c)
	if err != nil {
		apperror.Fail(c, err)
		return
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperror.Fail(c, apperror.Validation("request body is not valid JSON"))
		return
	}

	token, user, err := h.service.LoginOrg(orgID, LoginInput(req))
	if err != nil {
		apperror.Fail(c, err)
		return
	}

	apperror.OK(c, "Login successful", gin.H{
		"token": token,
		"user": gin.H{
			"id":              user.ID,
			"organization_id": user.OrganizationID,
			"full_name":       user.FullName,
			"email":           user.Email,
			"user_type":       user.UserType,
		},
	})
}

// ===============================
// Password reset
// ===============================

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

func (h *Handler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" {
		apperror.Fail(c, apperror.Validation("email is required"))
		return
	}

	if err := h.service.RequestPasswordReset(req.Email); err != nil {
		apperror.Fail(c, err)
		return
	}
	apperror.OK(c, "If the email is registered, a reset link has been sent", nil)
}

type resetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

func (h *Handler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Token == "" {
		apperror.Fail(c, apperror.Validation("token and new_password are required"))
		return
	}

	if err := h.service.ResetPassword(req.Token, req.NewPassword); err != nil {
		apperror.Fail(c, err)
		return
	}
	apperror.OK(c, "Password has been reset", nil)
}

func orgIDParam(c *gin.Context) (uint, error) {
	raw := c.Param("orgId")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, apperror.Validation("orgId must be a positive integer")
	}
	return uint(id), nil
}
