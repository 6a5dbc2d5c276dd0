package domain_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"holdops/internal/domain"
)

func TestParseReportKind(t *testing.T) {
	k, err := domain.ParseReportKind("Profit-And-Loss")
	require.NoError(t, err)
	assert.Equal(t, domain.ReportProfitAndLoss, k)
	assert.Equal(t, "ProfitAndLoss", k.VendorName())
	assert.False(t, k.IsAgingSummary())

	k, err = domain.ParseReportKind("aged-payables-detail")
	require.NoError(t, err)
	assert.Equal(t, "AgedPayableDetail", k.VendorName())

	_, err = domain.ParseReportKind("general-ledger")
	assert.True(t, errors.Is(err, domain.ErrInvalidReportKind))
}

func TestParseAgingSide(t *testing.T) {
	side, err := domain.ParseAgingSide("payables")
	require.NoError(t, err)
	assert.Equal(t, domain.ReportAgedPayables, side.ReportKind())
	assert.True(t, side.ReportKind().IsAgingSummary())

	side, err = domain.ParseAgingSide("Receivables")
	require.NoError(t, err)
	assert.Equal(t, domain.ReportAgedReceivables, side.ReportKind())

	_, err = domain.ParseAgingSide("owed")
	assert.True(t, errors.Is(err, domain.ErrInvalidAgingSide))
}

func TestParseExportFormat(t *testing.T) {
	f, err := domain.ParseExportFormat("")
	require.NoError(t, err)
	assert.Equal(t, domain.ExportXLSX, f)

	f, err = domain.ParseExportFormat("CSV")
	require.NoError(t, err)
	assert.Equal(t, domain.ExportCSV, f)
	assert.Contains(t, f.ContentType(), "text/csv")

	_, err = domain.ParseExportFormat("pdf")
	assert.True(t, errors.Is(err, domain.ErrExportFormat))
}

func TestReportRequest_Variant(t *testing.T) {
	req := domain.ReportRequest{Kind: domain.ReportProfitAndLoss, Start: "2024-01-01", End: "2024-12-31", AccountingMethod: "Cash"}
	assert.Equal(t, "profit-and-loss:2024-01-01:2024-12-31:cash", req.Variant())
	assert.Equal(t, "balance-sheet", domain.ReportRequest{Kind: domain.ReportBalanceSheet}.Variant())
}

func TestReportRequest_ValidateDates(t *testing.T) {
	assert.NoError(t, domain.ReportRequest{Start: "2024-01-01", End: "2024-01-31"}.ValidateDates())
	assert.NoError(t, domain.ReportRequest{}.ValidateDates())

	err := domain.ReportRequest{Start: "01/01/2024"}.ValidateDates()
	assert.True(t, errors.Is(err, domain.ErrInvalidDate))

	err = domain.ReportRequest{Start: "2024-02-01", End: "2024-01-01"}.ValidateDates()
	assert.True(t, errors.Is(err, domain.ErrInvalidDate))

	err = domain.ReportRequest{AsOf: "yesterday"}.ValidateDates()
	assert.True(t, errors.Is(err, domain.ErrInvalidDate))
}

func TestNewUpstreamError(t *testing.T) {
	limited := domain.NewUpstreamError("quickbooks", http.StatusTooManyRequests, "slow down", "")
	assert.True(t, errors.Is(limited, domain.ErrUpstreamRateLimited))
	assert.Equal(t, 60*time.Second, limited.RetryAfter)
	assert.True(t, limited.Retryable())

	limited = domain.NewUpstreamError("claude", http.StatusTooManyRequests, "", "7")
	assert.Equal(t, 7*time.Second, limited.RetryAfter)

	down := domain.NewUpstreamError("quickbooks", http.StatusBadGateway, "bad gateway", "")
	assert.True(t, errors.Is(down, domain.ErrUpstreamUnavailable))
	assert.True(t, down.Retryable())
	assert.Contains(t, down.Error(), "status 502")

	bad := domain.NewUpstreamError("quickbooks", http.StatusBadRequest, "bad request", "")
	assert.False(t, bad.Retryable())
}
