package services

import (
	"context"
	"fmt"

	"github.com/ai-lead/ai-lead-api/internal/models"
	apperrors "github.com/ai-lead/ai-lead-api/pkg/errors"
	"github.com/ai-lead/ai-lead-api/pkg/logger"
	"github.com/ai-lead/ai-lead-api/pkg/metrics"
	"github.com/ai-lead/ai-lead-api/pkg/n8n"
	"go.uber.org/zap"
)

// WebhookSettingName is the setting reported when no webhook is configured
const WebhookSettingName = "N8N_WEBHOOK_URL"

// WebhookClient sends a lead message to the automation webhook
type WebhookClient interface {
	Configured() bool
	SendMessage(ctx context.Context, message string) (*n8n.Response, error)
}

// LeadService relays leads to the automation webhook and normalizes replies.
// It holds no per-request state and is safe for concurrent use.
type LeadService struct {
	webhook WebhookClient
}

// NewLeadService creates a new lead service instance
func NewLeadService(webhook WebhookClient) *LeadService {
	return &LeadService{webhook: webhook}
}

// ProcessLead makes exactly one webhook call per lead. Failures wrap
// ErrInvalidInput, ErrConfiguration or ErrUpstream; anything else is unexpected.
func (s *LeadService) ProcessLead(ctx context.Context, req *models.LeadRequest) (*models.LeadResponse, error) {
	if req == nil || req.Message == "" {
		return nil, apperrors.InvalidInputError("message", "is required")
	}

	logger.Info("Received lead message", append(logger.TraceFields(ctx), zap.String("message", req.Message))...)

	if !s.webhook.Configured() {
		metrics.LeadsProcessed.WithLabelValues("config_error").Inc()
		logger.Error("N8N_WEBHOOK_URL is not configured")
		return nil, apperrors.ConfigurationError(WebhookSettingName)
	}

	resp, err := s.webhook.SendMessage(ctx, req.Message)
	if err != nil {
		metrics.LeadsProcessed.WithLabelValues("error").Inc()
		return nil, err
	}

	if resp.StatusCode != 200 {
		metrics.LeadsProcessed.WithLabelValues("upstream_error").Inc()
		logger.Error("n8n webhook failed",
			zap.Int("status_code", resp.StatusCode),
			zap.ByteString("body", resp.Body))
		return nil, apperrors.NewUpstreamError(resp.StatusCode, string(resp.Body))
	}

	result, err := models.NormalizeWebhookReply(resp.Body)
	if err != nil {
		metrics.LeadsProcessed.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("invalid n8n webhook reply: %w", err)
	}

	logger.Info("Classification", zap.Any("classification", result.Classification))
	logger.Info("Reply", zap.Any("reply", result.Reply))

	metrics.LeadsProcessed.WithLabelValues("success").Inc()
	return result, nil
}
