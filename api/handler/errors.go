package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/geolens/models"
)

// respondError maps err to an HTTP status and writes the JSON error body.
// Internal errors are reported with a generic message.
func respondError(c *gin.Context, err error) {
	ae := models.AsAuditError(err)
	c.JSON(mapErrorToStatus(ae), ae.ToResponse())
}

// mapErrorToStatus translates error codes to HTTP status codes.
func mapErrorToStatus(e *models.AuditError) int {
	switch e.Code {
	case models.ErrCodeInvalidInput, models.ErrCodeFetchFailed, models.ErrCodeTimeout:
		return http.StatusBadRequest // 400
	case models.ErrCodeRateLimited:
		return http.StatusTooManyRequests // 429
	case models.ErrCodeUnauthorized:
		return http.StatusUnauthorized // 401
	default:
		return http.StatusInternalServerError // 500
	}
}
