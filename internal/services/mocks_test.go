package services_test

import (
	"context"

	"github.com/ai-lead/ai-lead-api/pkg/n8n"
	"github.com/stretchr/testify/mock"
)

// MockWebhookClient is a mock implementation of WebhookClient
type MockWebhookClient struct {
	mock.Mock
}

func (m *MockWebhookClient) Configured() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockWebhookClient) SendMessage(ctx context.Context, message string) (*n8n.Response, error) {
	args := m.Called(ctx, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*n8n.Response), args.Error(1)
}
