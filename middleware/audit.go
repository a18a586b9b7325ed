package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// ClientIP extracts the caller's IP for audit logging, preferring forwarding
// headers set by the reverse proxy.
func ClientIP(c *gin.Context) string {
	if fwd := c.GetHeader("X-Forwarded-For"); fwd != "" {
		parts := strings.Split(fwd, ",")
		return strings.TrimSpace(parts[0])
	}
	if real := c.GetHeader("X-Real-IP"); real != "" {
		return real
	}
	host, _, err := net.SplitHostPort(c.Request.RemoteAddr)
	if err != nil {
		return c.Request.RemoteAddr
	}
	return host
}

// AuditContext stores the client IP on the request context so services do
// not need the gin context to log actions.
func AuditContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("client_ip", ClientIP(c))
		c.Next()
	}
}
