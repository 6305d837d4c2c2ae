package ginserver

import (
	"errors"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"courtside/internal/domain/shared/fault"
)

// writeError maps the core's failure codes onto HTTP statuses. Unclassified
// errors become 500 without leaking their message.
func writeError(c *gin.Context, err error) {
	var f *fault.Fault
	if !errors.As(err, &f) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{
			"code":    string(fault.CodeInternal),
			"message": "internal error",
		}})
		return
	}
	c.JSON(statusFor(f.Code), gin.H{"error": gin.H{
		"code":      string(f.Code),
		"message":   f.Message,
		"retryable": f.Retryable(),
	}})
}

func statusFor(code fault.Code) int {
	switch code {
	case fault.CodeValidation:
		return http.StatusBadRequest
	case fault.CodeNotFound:
		return http.StatusNotFound
	case fault.CodeForbidden:
		return http.StatusForbidden
	case fault.CodeConflict, fault.CodeInvalidTransition, fault.CodeStaleState:
		return http.StatusConflict
	case fault.CodeBusy:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
