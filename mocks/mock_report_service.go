package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"holdops/internal/domain"
)

// MockReportService is a mock implementation of service.ReportService.
type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) Companies() []domain.Company {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]domain.Company)
}

func (m *MockReportService) Company(slug string) (domain.Company, error) {
	args := m.Called(slug)
	return args.Get(0).(domain.Company), args.Error(1)
}

func (m *MockReportService) Flat(ctx context.Context, slug string, req domain.ReportRequest) (*domain.FlatReport, error) {
	args := m.Called(ctx, slug, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FlatReport), args.Error(1)
}

func (m *MockReportService) Aging(ctx context.Context, slug string, side domain.AgingSide, asOf string) (*domain.AgingReport, error) {
	args := m.Called(ctx, slug, side, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AgingReport), args.Error(1)
}

func (m *MockReportService) Monthly(ctx context.Context, slug string, year int, compact bool) (*domain.MonthlyReport, error) {
	args := m.Called(ctx, slug, year, compact)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MonthlyReport), args.Error(1)
}

func (m *MockReportService) Consolidated(ctx context.Context, slugs []string, year int, compact bool) (*domain.ConsolidatedMonthly, error) {
	args := m.Called(ctx, slugs, year, compact)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ConsolidatedMonthly), args.Error(1)
}

func (m *MockReportService) ExpenseTrend(ctx context.Context, slug string, year, topN int) (*domain.ExpenseTrend, error) {
	args := m.Called(ctx, slug, year, topN)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExpenseTrend), args.Error(1)
}
