package client

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/jillesblokker/level-up-dashboard-sub000/pkg/domain"
)

// MockNotifier is a mock implementation of Notifier for testing.
// It uses testify/mock to allow test assertions on method calls.
type MockNotifier struct {
	mock.Mock
}

// NewMockNotifier creates a new mock notifier.
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

// Notify mocks notification delivery.
func (m *MockNotifier) Notify(ctx context.Context, toUserID string, n domain.Notification) error {
	args := m.Called(ctx, toUserID, n)
	return args.Error(0)
}
