package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RespondJSON wraps a successful result as {"data": ...}.
func RespondJSON(c *gin.Context, code int, data interface{}) {
	c.JSON(code, gin.H{"data": data})
}

// RespondError maps an *APIError to its status code and {"error": message}.
// Anything else is logged and reported as a plain 500.
func RespondError(c *gin.Context, err error) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		c.JSON(apiErr.Status, gin.H{"error": apiErr.Message})
		return
	}

	if ErrorLogger != nil {
		ErrorLogger.Printf("unexpected error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
