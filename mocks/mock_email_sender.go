package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"holdops/internal/domain"
)

// MockEmailSender is a mock implementation of port.EmailSender.
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) Send(ctx context.Context, email domain.Email) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}
