package services

import (
	"context"

	"github.com/ai-lead/ai-lead-api/internal/models"
	"github.com/ai-lead/ai-lead-api/pkg/n8n"
)

// LeadServiceInterface defines the interface for lead relay operations
type LeadServiceInterface interface {
	ProcessLead(ctx context.Context, req *models.LeadRequest) (*models.LeadResponse, error)
}

// Ensure services implement their interfaces
var _ LeadServiceInterface = (*LeadService)(nil)
var _ WebhookClient = (*n8n.Client)(nil)
