package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/geolens/models"
)

// Auditor runs a GEO audit for a URL.
type Auditor interface {
	Audit(ctx context.Context, rawURL string) (*models.AuditReport, error)
}

// Audit returns a handler for POST /api/audit.
func Audit(a Auditor) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.AuditRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error: "URL required",
				Code:  models.ErrCodeInvalidInput,
			})
			return
		}

		report, err := a.Audit(c.Request.Context(), req.URL)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, report)
	}
}
