package handlers

import (
	"net/http"

	"github.com/ai-lead/ai-lead-api/internal/models"
	"github.com/gin-gonic/gin"
)

type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// Status answers GET /. It does not depend on the webhook configuration.
func (h *HealthHandler) Status(c *gin.Context) {
	c.Header("Cache-Control", "no-cache, no-store, max-age=0, must-revalidate")

	c.JSON(http.StatusOK, models.StatusResponse{
		Status:  "ok",
		Message: "AI Lead API is running",
	})
}
