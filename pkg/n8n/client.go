package n8n

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/ai-lead/ai-lead-api/pkg/httpclient"
	"github.com/ai-lead/ai-lead-api/pkg/logger"
	"github.com/ai-lead/ai-lead-api/pkg/metrics"
	"github.com/ai-lead/ai-lead-api/pkg/tracing"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// Response is the raw webhook answer. The body is returned unparsed so the
// caller decides how to interpret it.
type Response struct {
	StatusCode int
	Body       []byte
}

// Client posts lead messages to an n8n webhook trigger
type Client struct {
	webhookURL string
	httpClient httpclient.Client
}

// NewClient creates a webhook client. An empty URL yields an unconfigured
// client whose SendMessage always fails.
func NewClient(webhookURL string, httpClient httpclient.Client) *Client {
	return &Client{
		webhookURL: webhookURL,
		httpClient: httpClient,
	}
}

// Configured reports whether a webhook URL is set
func (c *Client) Configured() bool {
	return c.webhookURL != ""
}

// SendMessage posts {"message": message} to the webhook. Exactly one request
// is made; non-200 statuses are not errors at this level.
func (c *Client) SendMessage(ctx context.Context, message string) (*Response, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("n8n webhook url is empty")
	}

	ctx, span := tracing.StartSpan(ctx, "n8n.SendMessage")
	defer span.End()

	payload, err := json.Marshal(struct {
		Message string `json:"message"`
	}{Message: message})
	if err != nil {
		return nil, fmt.Errorf("failed to encode webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.record(ctx, "error", start, zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "webhook request failed")
		return nil, fmt.Errorf("failed to call n8n webhook: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.record(ctx, "error", start, zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "webhook body read failed")
		return nil, fmt.Errorf("failed to read n8n webhook response: %w", err)
	}

	span.SetAttributes(
		attribute.Int("http.response.status_code", resp.StatusCode),
		attribute.Int("http.response.body.size", len(body)),
	)

	status := "success"
	if resp.StatusCode != http.StatusOK {
		status = "http_" + strconv.Itoa(resp.StatusCode)
		span.SetStatus(codes.Error, "webhook returned "+strconv.Itoa(resp.StatusCode))
	}
	c.record(ctx, status, start, zap.Int("status_code", resp.StatusCode))

	return &Response{StatusCode: resp.StatusCode, Body: body}, nil
}

func (c *Client) record(ctx context.Context, status string, start time.Time, fields ...zap.Field) {
	duration := metrics.MeasureDuration(start)
	metrics.WebhookRequestDuration.WithLabelValues(status).Observe(duration)
	metrics.WebhookRequestTotal.WithLabelValues(status).Inc()

	logStatus := "success"
	if status != "success" {
		logStatus = "error"
	}
	logger.LogAPICall(ctx, "n8n", "send_message", logStatus, duration, fields...)
}
