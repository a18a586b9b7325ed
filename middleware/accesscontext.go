package middleware

import (
	"github.com/gin-gonic/gin"
)

// Auth scopes carried in the JWT auth_type claim.
const (
	AuthTypeGlobal       = "global"
	AuthTypeOrganization = "organization"
)

// User type constants to avoid string typos
const (
	RoleSuperAdmin = "superadmin"
	RoleAdmin      = "admin"
	RoleStaff      = "staff"
	RoleTeacher    = "teacher"
	RoleStudent    = "student"
	RoleCustomer   = "customer"
	RoleWasher     = "washer"
)

// AccessContext is the resolved identity for the current request, set by
// AuthMiddleware and read by handlers and services.
type AccessContext struct {
	UserID         uint
	Email          string
	UserType       string
	AuthType       string
	OrganizationID *uint // token org for organization users, institution for global users
}

// IsSuperAdmin reports whether the caller is a global superadmin.
func (ac *AccessContext) IsSuperAdmin() bool {
	return ac.AuthType == AuthTypeGlobal && ac.UserType == RoleSuperAdmin
}

// CanAccessOrg reports whether the caller may touch resources of orgID.
// Organization tokens are hard-scoped to their own org; global tokens need
// superadmin or a matching institution.
func (ac *AccessContext) CanAccessOrg(orgID uint) bool {
	if ac.AuthType == AuthTypeOrganization {
		return ac.OrganizationID != nil && *ac.OrganizationID == orgID
	}
	if ac.IsSuperAdmin() {
		return true
	}
	return ac.OrganizationID != nil && *ac.OrganizationID == orgID
}

// GetAccessContext pulls the access context out of gin. The second return is
// false on unauthenticated routes.
func GetAccessContext(c *gin.Context) (AccessContext, bool) {
	v, ok := c.Get("access_context")
	if !ok {
		return AccessContext{}, false
	}
	ac, ok := v.(AccessContext)
	return ac, ok
}

// GetOrgID returns the organization id resolved by RequireOrgAccess.
func GetOrgID(c *gin.Context) uint {
	if v, ok := c.Get("org_id"); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}
