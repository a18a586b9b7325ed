package apperror

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the envelope every endpoint returns.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Errors  []string    `json:"errors,omitempty"`
}

func OK(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{Success: true, Message: message, Data: data})
}

func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, Response{Success: true, Message: message, Data: data})
}

// Fail converts err into the envelope. Unexpected errors are logged with
// their cause and returned as a generic 500 so internals never leak.
func Fail(c *gin.Context, err error) {
	ae := From(err)
	if ae.Status == http.StatusInternalServerError {
		log.Printf("ERROR %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(ae.Status, Response{Success: false, Message: ae.Message})
		return
	}

	resp := Response{Success: false, Message: ae.Message}
	if ae.Code == CodeValidationFailed {
		resp.Errors = ae.Errs
	}
	c.JSON(ae.Status, resp)
}

// AbortFail is Fail for middleware.
func AbortFail(c *gin.Context, err error) {
	Fail(c, err)
	c.Abort()
}
