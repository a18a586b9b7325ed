package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sandeepk26/orbis-backend/internal/apperror"
)

// RequireUserTypes allows the request through only when the caller's
// user_type is in the allow-list.
func RequireUserTypes(allowed ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ac, ok := GetAccessContext(c)
		if !ok {
			apperror.AbortFail(c, apperror.Unauthenticated("unauthenticated"))
			return
		}
		for _, t := range allowed {
			if ac.UserType == t {
				c.Next()
				return
			}
		}
		apperror.AbortFail(c, apperror.AccessDenied("insufficient role"))
	}
}

// RequireOrgAccess enforces tenant isolation on routes carrying an :orgId
// path segment. A token scoped to organization A is rejected for any
// organization-B resource; requests are never silently rescoped.
func RequireOrgAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		ac, ok := GetAccessContext(c)
		if !ok {
			apperror.AbortFail(c, apperror.Unauthenticated("unauthenticated"))
			return
		}

		raw := c.Param("orgId")
		orgID64, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || orgID64 == 0 {
			apperror.AbortFail(c, apperror.Validation("organization id must be numeric"))
			return
		}
		orgID := uint(orgID64)

		if !ac.CanAccessOrg(orgID) {
			apperror.AbortFail(c, apperror.AccessDenied("access denied for this organization"))
			return
		}

		c.Set("org_id", orgID)
		c.Next()
	}
}
