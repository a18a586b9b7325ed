package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandeepk26/orbis-backend/config"
	"github.com/sandeepk26/orbis-backend/internal/apperror"
	"github.com/sandeepk26/orbis-backend/internal/auth"
	"github.com/sandeepk26/orbis-backend/middleware"
)

const testSecret = "middleware-test-secret"

type fakeAuthService struct {
	auth.Service
	principals map[uint]*auth.Principal
}

func (f *fakeAuthService) ResolvePrincipal(authType string, organizationID *uint, userID uint) (*auth.Principal, error) {
	p, ok := f.principals[userID]
	if !ok {
		return nil, apperror.Unauthenticated("user not found")
	}
	if authType == middleware.AuthTypeOrganization {
		if p.OrganizationID == nil || organizationID == nil || *p.OrganizationID != *organizationID {
			return nil, apperror.Unauthenticated("user not found")
		}
	}
	return p, nil
}

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	if _, ok := claims["exp"]; !ok {
		claims["exp"] = time.Now().Add(time.Hour).Unix()
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func newRouter() (*gin.Engine, *fakeAuthService) {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{JWTSecret: testSecret}

	orgA, orgB := uint(1), uint(2)
	svc := &fakeAuthService{principals: map[uint]*auth.Principal{
		1:  {ID: 1, Email: "root@orbis.dev", UserType: middleware.RoleSuperAdmin},
		10: {ID: 10, Email: "admin@org-a.dev", UserType: middleware.RoleAdmin, OrganizationID: &orgA},
		20: {ID: 20, Email: "student@org-b.dev", UserType: middleware.RoleStudent, OrganizationID: &orgB},
	}}

	r := gin.New()
	authMW := middleware.AuthMiddleware(cfg, svc)

	r.GET("/whoami", authMW, func(c *gin.Context) {
		ac, _ := middleware.GetAccessContext(c)
		apperror.OK(c, "ok", gin.H{"email": ac.Email, "user_type": ac.UserType})
	})
	r.GET("/org/:orgId/resource", authMW, middleware.RequireOrgAccess(), func(c *gin.Context) {
		apperror.OK(c, "ok", gin.H{"org_id": middleware.GetOrgID(c)})
	})
	r.GET("/admin-only", authMW, middleware.RequireUserTypes(middleware.RoleSuperAdmin, middleware.RoleAdmin), func(c *gin.Context) {
		apperror.OK(c, "ok", nil)
	})
	return r, svc
}

func request(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddlewareRejectsBadTokens(t *testing.T) {
	r, _ := newRouter()

	w := request(r, "/whoami", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Token abc")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = request(r, "/whoami", "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	expired := signToken(t, jwt.MapClaims{
		"user_id":   float64(1),
		"auth_type": middleware.AuthTypeGlobal,
		"exp":       time.Now().Add(-time.Hour).Unix(),
	})
	w = request(r, "/whoami", expired)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	wrongKey := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":   float64(1),
		"auth_type": middleware.AuthTypeGlobal,
		"exp":       time.Now().Add(time.Hour).Unix(),
	})
	signed, err := wrongKey.SignedString([]byte("some-other-secret"))
	require.NoError(t, err)
	w = request(r, "/whoami", signed)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareRequiresScopeClaims(t *testing.T) {
	r, _ := newRouter()

	// No auth_type at all.
	w := request(r, "/whoami", signToken(t, jwt.MapClaims{"user_id": float64(1)}))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Organization scope without an organization_id.
	w = request(r, "/whoami", signToken(t, jwt.MapClaims{
		"user_id":   float64(10),
		"auth_type": middleware.AuthTypeOrganization,
	}))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareResolvesPrincipal(t *testing.T) {
	r, _ := newRouter()

	token := signToken(t, jwt.MapClaims{
		"user_id":   float64(1),
		"auth_type": middleware.AuthTypeGlobal,
	})
	w := request(r, "/whoami", token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "root@orbis.dev")
	assert.Contains(t, w.Body.String(), middleware.RoleSuperAdmin)

	// Token for a user the store no longer knows.
	w = request(r, "/whoami", signToken(t, jwt.MapClaims{
		"user_id":   float64(999),
		"auth_type": middleware.AuthTypeGlobal,
	}))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestTenantIsolation(t *testing.T) {
	r, _ := newRouter()

	orgAToken := signToken(t, jwt.MapClaims{
		"user_id":         float64(10),
		"auth_type":       middleware.AuthTypeOrganization,
		"organization_id": float64(1),
	})

	// Own organization is allowed.
	w := request(r, "/org/1/resource", orgAToken)
	assert.Equal(t, http.StatusOK, w.Code)

	// Any other organization is a hard 403, never a rescope.
	w = request(r, "/org/2/resource", orgAToken)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "access denied for this organization")

	// Superadmin crosses tenant boundaries.
	rootToken := signToken(t, jwt.MapClaims{
		"user_id":   float64(1),
		"auth_type": middleware.AuthTypeGlobal,
	})
	w = request(r, "/org/2/resource", rootToken)
	assert.Equal(t, http.StatusOK, w.Code)

	// Malformed org id.
	w = request(r, "/org/banana/resource", rootToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRequireUserTypes(t *testing.T) {
	r, _ := newRouter()

	adminToken := signToken(t, jwt.MapClaims{
		"user_id":         float64(10),
		"auth_type":       middleware.AuthTypeOrganization,
		"organization_id": float64(1),
	})
	w := request(r, "/admin-only", adminToken)
	assert.Equal(t, http.StatusOK, w.Code)

	studentToken := signToken(t, jwt.MapClaims{
		"user_id":         float64(20),
		"auth_type":       middleware.AuthTypeOrganization,
		"organization_id": float64(2),
	})
	w = request(r, "/admin-only", studentToken)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "insufficient role")
}

func TestErrorEnvelopeShape(t *testing.T) {
	r, _ := newRouter()

	w := request(r, "/whoami", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"success": false, "message": "missing Authorization header"}`, w.Body.String())
}
