package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"rhai/internal/port"
)

// MockGenerationProvider is a mock implementation of port.GenerationProvider.
type MockGenerationProvider struct {
	mock.Mock
}

func (m *MockGenerationProvider) Name() string {
	return "mock"
}

func (m *MockGenerationProvider) Complete(ctx context.Context, input port.CompletionInput) (*port.CompletionOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.CompletionOutput), args.Error(1)
}
