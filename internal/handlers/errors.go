package handlers

import (
	"github.com/ai-lead/ai-lead-api/internal/models"
	"github.com/gin-gonic/gin"
)

// attachError attaches err to the gin context so the observability middleware
// can include the reason in the request log. c.Error() returns *gin.Error (not
// the error interface), so we suppress errcheck here intentionally.
func attachError(c *gin.Context, err error) {
	if err != nil {
		_ = c.Error(err) //nolint:errcheck
	}
}

// respondError sends {"detail": message} and attaches err to the gin context
func respondError(c *gin.Context, status int, detail string, err error) {
	attachError(c, err)
	c.JSON(status, models.ErrorResponse{Detail: detail})
}

// respondErrorWithDetails also lists per-field problems under "errors"
func respondErrorWithDetails(c *gin.Context, status int, detail string, details any, err error) {
	attachError(c, err)
	c.JSON(status, models.ErrorResponse{Detail: detail, Errors: details})
}
