package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"holdops/internal/domain"
	"holdops/internal/port"
	"holdops/internal/report"
)

// SnapshotPrefix prefixes every report snapshot key in the KV store.
const SnapshotPrefix = "report:"

// SnapshotKey returns report:<slug>:<parts...>.
func SnapshotKey(slug string, parts ...string) string {
	return SnapshotPrefix + slug + ":" + strings.Join(parts, ":")
}

// ReportService fetches accounting reports and normalizes them for the dashboard.
type ReportService interface {
	Companies() []domain.Company
	Company(slug string) (domain.Company, error)
	Flat(ctx context.Context, slug string, req domain.ReportRequest) (*domain.FlatReport, error)
	Aging(ctx context.Context, slug string, side domain.AgingSide, asOf string) (*domain.AgingReport, error)
	Monthly(ctx context.Context, slug string, year int, compact bool) (*domain.MonthlyReport, error)
	Consolidated(ctx context.Context, slugs []string, year int, compact bool) (*domain.ConsolidatedMonthly, error)
	ExpenseTrend(ctx context.Context, slug string, year, topN int) (*domain.ExpenseTrend, error)
}

// ReportServiceConfig holds report service settings.
type ReportServiceConfig struct {
	SnapshotTTL time.Duration
	Concurrency int
}

type reportService struct {
	companies *companyDirectory
	fetcher   port.ReportFetcher
	kv        port.KVStore
	cfg       ReportServiceConfig
	log       *zap.Logger
	now       func() time.Time
}

// NewReportService creates a new ReportService implementation.
func NewReportService(companies []domain.Company, fetcher port.ReportFetcher, kv port.KVStore, cfg ReportServiceConfig, log *zap.Logger) ReportService {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	return &reportService{
		companies: newCompanyDirectory(companies),
		fetcher:   fetcher,
		kv:        kv,
		cfg:       cfg,
		log:       log,
		now:       time.Now,
	}
}

func (s *reportService) Companies() []domain.Company {
	return s.companies.all()
}

func (s *reportService) Company(slug string) (domain.Company, error) {
	return s.companies.get(slug)
}

func (s *reportService) Flat(ctx context.Context, slug string, req domain.ReportRequest) (*domain.FlatReport, error) {
	company, err := s.companies.get(slug)
	if err != nil {
		return nil, err
	}
	if err := req.ValidateDates(); err != nil {
		return nil, err
	}

	doc, err := s.fetcher.FetchReport(ctx, company, req)
	if err != nil {
		return nil, err
	}

	var rows []report.FlatRow
	if req.Kind.IsAgingSummary() {
		aging := report.FlattenAgingRows(doc.Rows)
		rows = make([]report.FlatRow, len(aging))
		for i := range aging {
			rows[i] = aging[i].FlatRow
		}
	} else {
		opts := report.PolicyFor(req.Kind.VendorName())
		if req.KeepZero != nil {
			opts.DropZero = !*req.KeepZero
		}
		rows = report.FlattenRows(doc.Rows, opts)
	}

	out := &domain.FlatReport{
		Company:     company.Slug,
		Kind:        req.Kind,
		ReportName:  doc.Header.ReportName,
		StartPeriod: doc.Header.StartPeriod,
		EndPeriod:   doc.Header.EndPeriod,
		Currency:    doc.Header.Currency,
		Rows:        rows,
		GeneratedAt: s.now().UTC(),
	}
	s.snapshot(ctx, SnapshotKey(company.Slug, string(req.Kind), "flat"), out)
	return out, nil
}

func (s *reportService) Aging(ctx context.Context, slug string, side domain.AgingSide, asOf string) (*domain.AgingReport, error) {
	company, err := s.companies.get(slug)
	if err != nil {
		return nil, err
	}
	req := domain.ReportRequest{Kind: side.ReportKind(), AsOf: asOf}
	if err := req.ValidateDates(); err != nil {
		return nil, err
	}

	doc, err := s.fetcher.FetchReport(ctx, company, req)
	if err != nil {
		return nil, err
	}

	out := &domain.AgingReport{
		Company:     company.Slug,
		Side:        side,
		AsOf:        asOf,
		Currency:    doc.Header.Currency,
		Rows:        report.FlattenAgingRows(doc.Rows),
		GeneratedAt: s.now().UTC(),
	}
	s.snapshot(ctx, SnapshotKey(company.Slug, string(req.Kind), "aging"), out)
	return out, nil
}

func (s *reportService) Monthly(ctx context.Context, slug string, year int, compact bool) (*domain.MonthlyReport, error) {
	company, err := s.companies.get(slug)
	if err != nil {
		return nil, err
	}
	if err := s.validateYear(year); err != nil {
		return nil, err
	}
	out, err := s.monthly(ctx, company, year)
	if err != nil {
		return nil, err
	}
	s.snapshot(ctx, SnapshotKey(company.Slug, "monthly", strconv.Itoa(year)), out)
	if compact {
		out.Buckets = report.CompactBuckets(out.Buckets)
	}
	return out, nil
}

// monthly returns all twelve buckets of a company's year.
func (s *reportService) monthly(ctx context.Context, company domain.Company, year int) (*domain.MonthlyReport, error) {
	doc, err := s.fetcher.FetchReport(ctx, company, monthlyRequest(year))
	if err != nil {
		return nil, err
	}
	return &domain.MonthlyReport{
		Company: company.Slug,
		Year:    year,
		Buckets: report.PivotMonthly(doc.Rows, doc.Columns, year, report.PivotOptions{}),
	}, nil
}

func (s *reportService) Consolidated(ctx context.Context, slugs []string, year int, compact bool) (*domain.ConsolidatedMonthly, error) {
	companies, err := s.companies.resolve(slugs)
	if err != nil {
		return nil, err
	}
	if err := s.validateYear(year); err != nil {
		return nil, err
	}

	results := make([]domain.MonthlyReport, len(companies))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Concurrency)
	for i, c := range companies {
		g.Go(func() error {
			m, err := s.monthly(gctx, c, year)
			if err != nil {
				return fmt.Errorf("%s: %w", c.Slug, err)
			}
			results[i] = *m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	series := make([][]report.MonthlyBucket, len(results))
	for i := range results {
		series[i] = results[i].Buckets
	}
	all := report.SumBuckets(series...)
	if len(results) == 0 {
		all = report.PivotMonthly(nil, nil, year, report.PivotOptions{})
	}

	if compact {
		for i := range results {
			results[i].Buckets = report.CompactBuckets(results[i].Buckets)
		}
		all = report.CompactBuckets(all)
	}
	return &domain.ConsolidatedMonthly{Year: year, Companies: results, All: all}, nil
}

func (s *reportService) ExpenseTrend(ctx context.Context, slug string, year, topN int) (*domain.ExpenseTrend, error) {
	company, err := s.companies.get(slug)
	if err != nil {
		return nil, err
	}
	if err := s.validateYear(year); err != nil {
		return nil, err
	}
	doc, err := s.fetcher.FetchReport(ctx, company, monthlyRequest(year))
	if err != nil {
		return nil, err
	}
	b := report.ExpenseBreakdown(doc.Rows, doc.Columns, year, topN)
	return &domain.ExpenseTrend{
		Company:    company.Slug,
		Year:       year,
		Categories: b.Categories,
		Months:     b.Months,
	}, nil
}

func (s *reportService) validateYear(year int) error {
	if year < 2000 || year > s.now().Year()+1 {
		return fmt.Errorf("%w: %d", domain.ErrInvalidYear, year)
	}
	return nil
}

// snapshot writes v to the KV store. Failures are logged, never returned.
func (s *reportService) snapshot(ctx context.Context, key string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		s.log.Warn("report snapshot: marshal failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := s.kv.Set(ctx, key, data, s.cfg.SnapshotTTL); err != nil {
		s.log.Warn("report snapshot: write failed", zap.String("key", key), zap.Error(err))
	}
}

func monthlyRequest(year int) domain.ReportRequest {
	return domain.ReportRequest{
		Kind:        domain.ReportProfitAndLoss,
		Start:       fmt.Sprintf("%04d-01-01", year),
		End:         fmt.Sprintf("%04d-12-31", year),
		SummarizeBy: "Month",
	}
}
