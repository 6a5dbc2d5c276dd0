package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"holdops/internal/domain"
)

// MockDigestService is a mock implementation of service.DigestService.
type MockDigestService struct {
	mock.Mock
}

func (m *MockDigestService) Generate(ctx context.Context, slugs []string, year, month int) (*domain.Digest, error) {
	args := m.Called(ctx, slugs, year, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Digest), args.Error(1)
}

func (m *MockDigestService) Send(ctx context.Context, digest *domain.Digest, recipients []string) (*domain.Digest, error) {
	args := m.Called(ctx, digest, recipients)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Digest), args.Error(1)
}
