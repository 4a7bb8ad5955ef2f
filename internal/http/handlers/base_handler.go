// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"medmatch/internal/types"
)

const retryAfterSeconds = "5"

type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Success: false, Message: msg})
}

// writeDomainError maps the error taxonomy onto HTTP. Store failures never
// leak their cause; it is attached to the context for the logging middleware.
func writeDomainError(c *gin.Context, err error) {
	_ = c.Error(err)
	switch types.Kind(err) {
	case types.ErrStoreUnavailable:
		c.Header("Retry-After", retryAfterSeconds)
		writeError(c, http.StatusServiceUnavailable, "service temporarily unavailable")
	case types.ErrBadRequest, types.ErrPreconditionFailed:
		writeError(c, http.StatusBadRequest, messageOf(err))
	case types.ErrNotFound:
		writeError(c, http.StatusNotFound, messageOf(err))
	case types.ErrForbidden:
		writeError(c, http.StatusForbidden, messageOf(err))
	case types.ErrConflict:
		writeError(c, http.StatusConflict, messageOf(err))
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

func messageOf(err error) string {
	var de *types.Error
	if errors.As(err, &de) {
		return de.Message
	}
	return types.Kind(err).Error()
}
