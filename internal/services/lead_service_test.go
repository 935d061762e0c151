package services_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/ai-lead/ai-lead-api/internal/models"
	"github.com/ai-lead/ai-lead-api/internal/services"
	apperrors "github.com/ai-lead/ai-lead-api/pkg/errors"
	"github.com/ai-lead/ai-lead-api/pkg/httpclient"
	"github.com/ai-lead/ai-lead-api/pkg/n8n"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// newWebhookServer starts a fake n8n webhook answering with status and body
func newWebhookServer(t *testing.T, status int, body string) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server, &calls
}

func newService(url string) *services.LeadService {
	return services.NewLeadService(n8n.NewClient(url, httpclient.NewStandardClient(0)))
}

func TestLeadService_ProcessLead_FullReplyPassesThrough(t *testing.T) {
	server, calls := newWebhookServer(t, http.StatusOK,
		`{"intent":"demo","name":"Ada","company":"Acme","requirement":"CRM","created_at":"2024-05-01","reply":"Booked!"}`)
	service := newService(server.URL)

	resp, err := service.ProcessLead(context.Background(), &models.LeadRequest{Message: "I want a demo"})

	require.NoError(t, err)
	assert.Equal(t, models.Classification{
		Intent:      "demo",
		Name:        "Ada",
		Company:     "Acme",
		Requirement: "CRM",
		CreatedAt:   "2024-05-01",
	}, resp.Classification)
	assert.Equal(t, "Booked!", resp.Reply)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

func TestLeadService_ProcessLead_ArrayReply(t *testing.T) {
	server, _ := newWebhookServer(t, http.StatusOK,
		`[{"intent":"pricing","reply":"Sure, here's our pricing."}]`)
	service := newService(server.URL)

	resp, err := service.ProcessLead(context.Background(), &models.LeadRequest{Message: "Hi, I need pricing"})

	require.NoError(t, err)
	encoded, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"classification":{"intent":"pricing","name":"","company":"","requirement":"","created_at":""},"reply":"Sure, here's our pricing."}`,
		string(encoded))
}

func TestLeadService_ProcessLead_EmptyArrayUsesDefaults(t *testing.T) {
	server, _ := newWebhookServer(t, http.StatusOK, `[]`)
	service := newService(server.URL)

	resp, err := service.ProcessLead(context.Background(), &models.LeadRequest{Message: "hello"})

	require.NoError(t, err)
	assert.Equal(t, models.DefaultIntent, resp.Classification.Intent)
	assert.Equal(t, "", resp.Classification.Name)
	assert.Equal(t, models.DefaultReply, resp.Reply)
}

func TestLeadService_ProcessLead_NotConfigured(t *testing.T) {
	webhook := new(MockWebhookClient)
	webhook.On("Configured").Return(false)
	service := services.NewLeadService(webhook)

	resp, err := service.ProcessLead(context.Background(), &models.LeadRequest{Message: "hello"})

	assert.Nil(t, resp)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrConfiguration))
	assert.Contains(t, err.Error(), "N8N_WEBHOOK_URL not configured")
	webhook.AssertNotCalled(t, "SendMessage", mock.Anything, mock.Anything)
}

func TestLeadService_ProcessLead_UpstreamStatus(t *testing.T) {
	for _, status := range []int{http.StatusServiceUnavailable, http.StatusNotFound, http.StatusCreated} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			server, _ := newWebhookServer(t, status, `{"intent":"should not be parsed"`)
			service := newService(server.URL)

			resp, err := service.ProcessLead(context.Background(), &models.LeadRequest{Message: "hello"})

			assert.Nil(t, resp)
			require.Error(t, err)
			assert.True(t, apperrors.Is(err, apperrors.ErrUpstream))

			var upstream *apperrors.UpstreamError
			require.True(t, apperrors.As(err, &upstream))
			assert.Equal(t, status, upstream.StatusCode)
			assert.Equal(t, `{"intent":"should not be parsed"`, upstream.Body)
		})
	}
}

func TestLeadService_ProcessLead_UnexpectedReplies(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `not json`},
		{name: "bare string", body: `"ok"`},
		{name: "null", body: `null`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, _ := newWebhookServer(t, http.StatusOK, tt.body)
			service := newService(server.URL)

			resp, err := service.ProcessLead(context.Background(), &models.LeadRequest{Message: "hello"})

			assert.Nil(t, resp)
			require.Error(t, err)
			assert.False(t, apperrors.Is(err, apperrors.ErrUpstream))
			assert.False(t, apperrors.Is(err, apperrors.ErrConfiguration))
			assert.Contains(t, err.Error(), "invalid n8n webhook reply")
		})
	}
}

func TestLeadService_ProcessLead_TransportError(t *testing.T) {
	webhook := new(MockWebhookClient)
	webhook.On("Configured").Return(true)
	webhook.On("SendMessage", mock.Anything, "hello").Return(nil, assert.AnError).Once()
	service := services.NewLeadService(webhook)

	resp, err := service.ProcessLead(context.Background(), &models.LeadRequest{Message: "hello"})

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, assert.AnError)
	webhook.AssertExpectations(t)
}

func TestLeadService_ProcessLead_EmptyMessage(t *testing.T) {
	webhook := new(MockWebhookClient)
	service := services.NewLeadService(webhook)

	_, err := service.ProcessLead(context.Background(), &models.LeadRequest{})

	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
	webhook.AssertNotCalled(t, "Configured")
}

func TestLeadService_ProcessLead_Concurrent(t *testing.T) {
	server, calls := newWebhookServer(t, http.StatusOK, `{"intent":"pricing"}`)
	service := newService(server.URL)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := service.ProcessLead(context.Background(), &models.LeadRequest{Message: "hello"})
			if assert.NoError(t, err) {
				assert.Equal(t, "pricing", resp.Classification.Intent)
			}
		}()
	}
	wg.Wait()

	// One outbound call per inbound call
	assert.Equal(t, int32(20), atomic.LoadInt32(calls))
}
