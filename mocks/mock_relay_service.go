package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"rhai/internal/domain"
)

// MockRelayService is a mock implementation of service.RelayService.
type MockRelayService struct {
	mock.Mock
}

func (m *MockRelayService) Generate(ctx context.Context, req domain.DocumentRequest) domain.DocumentResult {
	args := m.Called(ctx, req)
	return args.Get(0).(domain.DocumentResult)
}
