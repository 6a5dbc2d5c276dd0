package port

import (
	"context"

	"holdops/internal/domain"
	"holdops/internal/report"
)

// ReportFetcher retrieves raw report trees from the accounting system.
type ReportFetcher interface {
	FetchReport(ctx context.Context, company domain.Company, req domain.ReportRequest) (*report.Document, error)
}
