package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"holdops/internal/domain"
)

// MockExportService is a mock implementation of service.ExportService.
type MockExportService struct {
	mock.Mock
}

func (m *MockExportService) Export(ctx context.Context, slug string, req domain.ReportRequest, format domain.ExportFormat) (*domain.ExportResult, error) {
	args := m.Called(ctx, slug, req, format)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExportResult), args.Error(1)
}

func (m *MockExportService) ToSheet(ctx context.Context, slug string, req domain.ReportRequest, tab string) (*domain.SheetWriteResult, error) {
	args := m.Called(ctx, slug, req, tab)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SheetWriteResult), args.Error(1)
}

func (m *MockExportService) ReadValues(ctx context.Context, rng string) ([][]string, error) {
	args := m.Called(ctx, rng)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([][]string), args.Error(1)
}
