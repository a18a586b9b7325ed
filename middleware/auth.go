package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/sandeepk26/orbis-backend/config"
	"github.com/sandeepk26/orbis-backend/internal/apperror"
	"github.com/sandeepk26/orbis-backend/internal/auth"
)

// AuthMiddleware validates the bearer token, resolves the acting user from
// the scope named by the auth_type claim and publishes the access context.
// Handlers never branch on auth_type themselves.
func AuthMiddleware(cfg *config.Config, authSvc auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			apperror.AbortFail(c, apperror.Unauthenticated("missing Authorization header"))
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			apperror.AbortFail(c, apperror.Unauthenticated("invalid Authorization header"))
			return
		}

		token, err := jwt.Parse(parts[1], func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, apperror.Unauthenticated("unexpected signing method")
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			apperror.AbortFail(c, apperror.Unauthenticated("invalid or expired token"))
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			apperror.AbortFail(c, apperror.Unauthenticated("invalid claims"))
			return
		}

		userIDFloat, ok := claims["user_id"].(float64)
		if !ok {
			apperror.AbortFail(c, apperror.Unauthenticated("user_id missing in token"))
			return
		}
		userID := uint(userIDFloat)

		authType, _ := claims["auth_type"].(string)
		if authType != AuthTypeGlobal && authType != AuthTypeOrganization {
			apperror.AbortFail(c, apperror.Unauthenticated("auth_type missing in token"))
			return
		}

		var orgID *uint
		if orgFloat, ok := claims["organization_id"].(float64); ok && orgFloat > 0 {
			id := uint(orgFloat)
			orgID = &id
		}
		if authType == AuthTypeOrganization && orgID == nil {
			apperror.AbortFail(c, apperror.Unauthenticated("organization_id missing in token"))
			return
		}

		principal, err := authSvc.ResolvePrincipal(authType, orgID, userID)
		if err != nil {
			apperror.AbortFail(c, err)
			return
		}

		ac := AccessContext{
			UserID:         principal.ID,
			Email:          principal.Email,
			UserType:       principal.UserType,
			AuthType:       authType,
			OrganizationID: principal.OrganizationID,
		}

		c.Set("access_context", ac)
		c.Set("user_id", principal.ID)
		c.Set("claims", claims)
		c.Next()
	}
}
