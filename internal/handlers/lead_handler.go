package handlers

import (
	"errors"
	"net/http"

	"github.com/ai-lead/ai-lead-api/internal/models"
	"github.com/ai-lead/ai-lead-api/internal/services"
	apperrors "github.com/ai-lead/ai-lead-api/pkg/errors"
	"github.com/ai-lead/ai-lead-api/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const (
	detailNotConfigured = services.WebhookSettingName + " not configured"
	detailUpstream      = "n8n webhook call failed"
)

type LeadHandler struct {
	service services.LeadServiceInterface
}

func NewLeadHandler(service services.LeadServiceInterface) *LeadHandler {
	return &LeadHandler{service: service}
}

// HandleLead answers POST /lead
func (h *LeadHandler) HandleLead(c *gin.Context) {
	var req models.LeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBindError(c, err)
		return
	}

	resp, err := h.service.ProcessLead(c.Request.Context(), &req)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *LeadHandler) respondBindError(c *gin.Context, err error) {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		respondError(c, http.StatusRequestEntityTooLarge, "Request body too large", err)
		return
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		respondErrorWithDetails(c, http.StatusBadRequest, "Validation failed", ParseValidationErrors(err), err)
		return
	}

	respondError(c, http.StatusBadRequest, "Invalid request body", err)
}

func (h *LeadHandler) respondServiceError(c *gin.Context, err error) {
	switch {
	case apperrors.Is(err, apperrors.ErrInvalidInput):
		respondError(c, http.StatusBadRequest, "Validation failed", err)
	case apperrors.Is(err, apperrors.ErrConfiguration):
		respondError(c, http.StatusInternalServerError, detailNotConfigured, err)
	case apperrors.Is(err, apperrors.ErrUpstream):
		respondError(c, http.StatusInternalServerError, detailUpstream, err)
	default:
		logger.LogError(err, "Failed to process lead", logger.TraceFields(c.Request.Context())...)
		respondError(c, http.StatusInternalServerError, err.Error(), err)
	}
}
