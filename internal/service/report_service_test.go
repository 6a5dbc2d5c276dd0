package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"holdops/internal/domain"
	"holdops/internal/report"
	"holdops/internal/service"
	"holdops/mocks"
)

func newReportService(fetcher *mocks.MockReportFetcher, kv *mocks.MockKVStore) service.ReportService {
	return service.NewReportService(testCompanies(), fetcher, kv, service.ReportServiceConfig{
		SnapshotTTL: time.Hour,
		Concurrency: 2,
	}, zap.NewNop())
}

func TestReportService_Companies(t *testing.T) {
	svc := newReportService(new(mocks.MockReportFetcher), new(mocks.MockKVStore))

	assert.Equal(t, testCompanies(), svc.Companies())

	c, err := svc.Company("ACME")
	require.NoError(t, err)
	assert.Equal(t, acme, c)

	_, err = svc.Company("initech")
	assert.ErrorIs(t, err, domain.ErrUnknownCompany)
}

func TestReportService_Flat_Success(t *testing.T) {
	fetcher := new(mocks.MockReportFetcher)
	kv := new(mocks.MockKVStore)
	svc := newReportService(fetcher, kv)

	req := domain.ReportRequest{Kind: domain.ReportProfitAndLoss, Start: "2024-01-01", End: "2024-01-31"}
	doc := monthlyDoc([]string{"2024-01-01"}, []string{"100"}, []string{"40"}, []string{"60"})
	fetcher.On("FetchReport", mock.Anything, acme, req).Return(doc, nil)
	kv.On("Set", mock.Anything, "report:acme:profit-and-loss:flat", mock.Anything, time.Hour).Return(nil)

	out, err := svc.Flat(context.Background(), "acme", req)

	require.NoError(t, err)
	assert.Equal(t, "acme", out.Company)
	assert.Equal(t, "ProfitAndLoss", out.ReportName)
	assert.Equal(t, "USD", out.Currency)
	labels := make([]string, len(out.Rows))
	for i, r := range out.Rows {
		labels[i] = r.Label
	}
	// PolicyReport keeps zero leaves.
	assert.Equal(t, []string{"Income", "Sales", "Total Income", "Expenses", "Rent", "Unused", "Total Expenses", "Net Income"}, labels)

	fetcher.AssertExpectations(t)
	kv.AssertExpectations(t)
}

func TestReportService_Flat_KeepZeroOverride(t *testing.T) {
	fetcher := new(mocks.MockReportFetcher)
	kv := new(mocks.MockKVStore)
	svc := newReportService(fetcher, kv)

	keep := false
	req := domain.ReportRequest{Kind: domain.ReportProfitAndLoss, KeepZero: &keep}
	doc := monthlyDoc([]string{"2024-01-01"}, []string{"100"}, []string{"40"}, []string{"60"})
	fetcher.On("FetchReport", mock.Anything, acme, req).Return(doc, nil)
	kv.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	out, err := svc.Flat(context.Background(), "acme", req)

	require.NoError(t, err)
	for _, r := range out.Rows {
		assert.NotEqual(t, "Unused", r.Label)
	}
}

func TestReportService_Flat_AgingSummaryKind(t *testing.T) {
	fetcher := new(mocks.MockReportFetcher)
	kv := new(mocks.MockKVStore)
	svc := newReportService(fetcher, kv)

	req := domain.ReportRequest{Kind: domain.ReportAgedReceivables}
	doc := &report.Document{Rows: []report.Node{
		report.NewData("Customer A", "10", "0", "0", "0", "5", "15"),
	}}
	fetcher.On("FetchReport", mock.Anything, acme, req).Return(doc, nil)
	kv.On("Set", mock.Anything, "report:acme:aged-receivables:flat", mock.Anything, time.Hour).Return(nil)

	out, err := svc.Flat(context.Background(), "acme", req)

	require.NoError(t, err)
	require.Len(t, out.Rows, 3)
	assert.Equal(t, "Name", out.Rows[0].Label)
	assert.Equal(t, "Customer A", out.Rows[1].Label)
	assert.True(t, out.Rows[2].IsTotal)
}

func TestReportService_Flat_SnapshotFailureIgnored(t *testing.T) {
	fetcher := new(mocks.MockReportFetcher)
	kv := new(mocks.MockKVStore)
	svc := newReportService(fetcher, kv)

	req := domain.ReportRequest{Kind: domain.ReportBalanceSheet}
	fetcher.On("FetchReport", mock.Anything, acme, req).Return(&report.Document{}, nil)
	kv.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("db down"))

	out, err := svc.Flat(context.Background(), "acme", req)

	require.NoError(t, err)
	assert.Empty(t, out.Rows)
}

func TestReportService_Flat_Errors(t *testing.T) {
	fetcher := new(mocks.MockReportFetcher)
	kv := new(mocks.MockKVStore)
	svc := newReportService(fetcher, kv)

	_, err := svc.Flat(context.Background(), "initech", domain.ReportRequest{Kind: domain.ReportProfitAndLoss})
	assert.ErrorIs(t, err, domain.ErrUnknownCompany)

	_, err = svc.Flat(context.Background(), "acme", domain.ReportRequest{Kind: domain.ReportProfitAndLoss, Start: "2024-02-01", End: "2024-01-01"})
	assert.ErrorIs(t, err, domain.ErrInvalidDate)

	req := domain.ReportRequest{Kind: domain.ReportCashFlow}
	fetcher.On("FetchReport", mock.Anything, acme, req).Return(nil, domain.ErrMissingCredentials)
	_, err = svc.Flat(context.Background(), "acme", req)
	assert.ErrorIs(t, err, domain.ErrMissingCredentials)

	kv.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReportService_Aging(t *testing.T) {
	fetcher := new(mocks.MockReportFetcher)
	kv := new(mocks.MockKVStore)
	svc := newReportService(fetcher, kv)

	req := domain.ReportRequest{Kind: domain.ReportAgedPayables, AsOf: "2024-06-30"}
	doc := &report.Document{
		Header: report.ReportHeader{Currency: "EUR"},
		Rows:   []report.Node{report.NewData("Vendor X", "1", "2", "3", "4", "5", "15")},
	}
	fetcher.On("FetchReport", mock.Anything, acme, req).Return(doc, nil)
	kv.On("Set", mock.Anything, "report:acme:aged-payables:aging", mock.Anything, time.Hour).Return(nil)

	out, err := svc.Aging(context.Background(), "acme", domain.AgingPayables, "2024-06-30")

	require.NoError(t, err)
	assert.Equal(t, domain.AgingPayables, out.Side)
	assert.Equal(t, "EUR", out.Currency)
	require.Len(t, out.Rows, 3)
	assert.Equal(t, "Vendor X", out.Rows[1].Label)
	fetcher.AssertExpectations(t)
}

func TestReportService_Aging_InvalidAsOf(t *testing.T) {
	svc := newReportService(new(mocks.MockReportFetcher), new(mocks.MockKVStore))

	_, err := svc.Aging(context.Background(), "acme", domain.AgingReceivables, "30/06/2024")

	assert.ErrorIs(t, err, domain.ErrInvalidDate)
}

func TestReportService_Monthly(t *testing.T) {
	fetcher := new(mocks.MockReportFetcher)
	kv := new(mocks.MockKVStore)
	svc := newReportService(fetcher, kv)

	req := domain.ReportRequest{Kind: domain.ReportProfitAndLoss, Start: "2024-01-01", End: "2024-12-31", SummarizeBy: "Month"}
	doc := monthlyDoc([]string{"2024-01-01", "2024-02-01"}, []string{"100", "200"}, []string{"40", "50"}, []string{"60", "150"})
	fetcher.On("FetchReport", mock.Anything, acme, req).Return(doc, nil)

	var stored []byte
	kv.On("Set", mock.Anything, "report:acme:monthly:2024", mock.Anything, time.Hour).
		Run(func(args mock.Arguments) { stored = args.Get(2).([]byte) }).
		Return(nil)

	out, err := svc.Monthly(context.Background(), "acme", 2024, true)

	require.NoError(t, err)
	assert.Equal(t, []report.MonthlyBucket{
		{Month: "Jan 24", Income: 100, Expenses: 40, Net: 60},
		{Month: "Feb 24", Income: 200, Expenses: 50, Net: 150},
	}, out.Buckets)

	// The snapshot keeps all twelve months.
	var snap domain.MonthlyReport
	require.NoError(t, json.Unmarshal(stored, &snap))
	assert.Len(t, snap.Buckets, 12)
}

func TestReportService_Monthly_InvalidYear(t *testing.T) {
	svc := newReportService(new(mocks.MockReportFetcher), new(mocks.MockKVStore))

	_, err := svc.Monthly(context.Background(), "acme", 1999, false)
	assert.ErrorIs(t, err, domain.ErrInvalidYear)

	_, err = svc.Monthly(context.Background(), "acme", time.Now().Year()+2, false)
	assert.ErrorIs(t, err, domain.ErrInvalidYear)
}

func TestReportService_Consolidated(t *testing.T) {
	fetcher := new(mocks.MockReportFetcher)
	svc := newReportService(fetcher, new(mocks.MockKVStore))

	fetcher.On("FetchReport", mock.Anything, acme, mock.Anything).
		Return(monthlyDoc([]string{"2024-01-01"}, []string{"100"}, []string{"40"}, []string{"60"}), nil)
	fetcher.On("FetchReport", mock.Anything, globex, mock.Anything).
		Return(monthlyDoc([]string{"2024-03-01"}, []string{"10"}, []string{"5"}, []string{"5"}), nil)

	out, err := svc.Consolidated(context.Background(), []string{"globex", "acme", "globex"}, 2024, true)

	require.NoError(t, err)
	require.Len(t, out.Companies, 2)
	assert.Equal(t, "globex", out.Companies[0].Company)
	assert.Equal(t, "acme", out.Companies[1].Company)
	assert.Equal(t, []report.MonthlyBucket{{Month: "Mar 24", Income: 10, Expenses: 5, Net: 5}}, out.Companies[0].Buckets)
	assert.Equal(t, []report.MonthlyBucket{
		{Month: "Jan 24", Income: 100, Expenses: 40, Net: 60},
		{Month: "Mar 24", Income: 10, Expenses: 5, Net: 5},
	}, out.All)
	fetcher.AssertNumberOfCalls(t, "FetchReport", 2)
}

func TestReportService_Consolidated_AllCompaniesByDefault(t *testing.T) {
	fetcher := new(mocks.MockReportFetcher)
	svc := newReportService(fetcher, new(mocks.MockKVStore))

	fetcher.On("FetchReport", mock.Anything, mock.Anything, mock.Anything).Return(&report.Document{}, nil)

	out, err := svc.Consolidated(context.Background(), nil, 2024, false)

	require.NoError(t, err)
	assert.Len(t, out.Companies, 2)
	assert.Len(t, out.All, 12)
}

func TestReportService_Consolidated_FailureAborts(t *testing.T) {
	fetcher := new(mocks.MockReportFetcher)
	svc := newReportService(fetcher, new(mocks.MockKVStore))

	fetcher.On("FetchReport", mock.Anything, acme, mock.Anything).Return(&report.Document{}, nil)
	fetcher.On("FetchReport", mock.Anything, globex, mock.Anything).Return(nil, domain.ErrUpstreamUnavailable)

	_, err := svc.Consolidated(context.Background(), nil, 2024, false)

	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
	assert.Contains(t, err.Error(), "globex")
}

func TestReportService_Consolidated_UnknownCompany(t *testing.T) {
	svc := newReportService(new(mocks.MockReportFetcher), new(mocks.MockKVStore))

	_, err := svc.Consolidated(context.Background(), []string{"acme", "initech"}, 2024, false)

	assert.ErrorIs(t, err, domain.ErrUnknownCompany)
}

func TestReportService_ExpenseTrend(t *testing.T) {
	fetcher := new(mocks.MockReportFetcher)
	svc := newReportService(fetcher, new(mocks.MockKVStore))

	doc := monthlyDoc([]string{"2024-01-01", "2024-02-01"}, []string{"100", "200"}, []string{"40", "50"}, []string{"60", "150"})
	fetcher.On("FetchReport", mock.Anything, acme, mock.Anything).Return(doc, nil)

	out, err := svc.ExpenseTrend(context.Background(), "acme", 2024, 5)

	require.NoError(t, err)
	assert.Equal(t, "acme", out.Company)
	assert.Contains(t, out.Categories, "Rent")
}
