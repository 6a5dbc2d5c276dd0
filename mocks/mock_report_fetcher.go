package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"holdops/internal/domain"
	"holdops/internal/report"
)

// MockReportFetcher is a mock implementation of port.ReportFetcher.
type MockReportFetcher struct {
	mock.Mock
}

func (m *MockReportFetcher) FetchReport(ctx context.Context, company domain.Company, req domain.ReportRequest) (*report.Document, error) {
	args := m.Called(ctx, company, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.Document), args.Error(1)
}
