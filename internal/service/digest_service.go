package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"holdops/internal/domain"
	"holdops/internal/port"
	"holdops/internal/report"
)

// DigestKey returns the KV key holding a company's last sent digest section.
func DigestKey(slug string) string {
	return "digest:last:" + slug
}

const narrativeSystemPrompt = "You are the finance assistant of a holding company. " +
	"Write a short plain-text paragraph (at most five sentences) summarizing the month for the owners. " +
	"Mention notable movements in income, expenses and net income. Do not invent numbers."

// DigestService builds and delivers the monthly operations digest.
type DigestService interface {
	Generate(ctx context.Context, slugs []string, year, month int) (*domain.Digest, error)
	Send(ctx context.Context, digest *domain.Digest, recipients []string) (*domain.Digest, error)
}

// DigestServiceConfig holds digest settings.
type DigestServiceConfig struct {
	Recipients  []string
	Narrative   bool
	Concurrency int
}

type digestService struct {
	companies *companyDirectory
	fetcher   port.ReportFetcher
	kv        port.KVStore
	sender    port.EmailSender
	chat      port.ChatCompleter
	cfg       DigestServiceConfig
	log       *zap.Logger
	now       func() time.Time
}

// NewDigestService creates a new DigestService implementation. chat may be
// nil, in which case digests carry no narrative.
func NewDigestService(
	companies []domain.Company,
	fetcher port.ReportFetcher,
	kv port.KVStore,
	sender port.EmailSender,
	chat port.ChatCompleter,
	cfg DigestServiceConfig,
	log *zap.Logger,
) DigestService {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	return &digestService{
		companies: newCompanyDirectory(companies),
		fetcher:   fetcher,
		kv:        kv,
		sender:    sender,
		chat:      chat,
		cfg:       cfg,
		log:       log,
		now:       time.Now,
	}
}

func (s *digestService) Generate(ctx context.Context, slugs []string, year, month int) (*domain.Digest, error) {
	companies, err := s.companies.resolve(slugs)
	if err != nil {
		return nil, err
	}
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidMonth, month)
	}
	if year < 2000 || year > s.now().Year()+1 {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidYear, year)
	}

	sections := make([]domain.DigestSection, len(companies))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Concurrency)
	for i, c := range companies {
		g.Go(func() error {
			sections[i] = s.section(gctx, c, year, month)
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d := &domain.Digest{
		Year:        year,
		Month:       month,
		Period:      time.Month(month).String() + fmt.Sprintf(" %d", year),
		Sections:    sections,
		GeneratedAt: s.now().UTC(),
	}
	if s.cfg.Narrative && s.chat != nil {
		d.Narrative = s.narrative(ctx, d)
	}
	if err := renderDigest(d); err != nil {
		return nil, err
	}
	return d, nil
}

// section builds one company's digest part. A failed fetch is recorded on the
// section so the rest of the digest still goes out.
func (s *digestService) section(ctx context.Context, c domain.Company, year, month int) domain.DigestSection {
	sec := domain.DigestSection{Company: c}
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	req := domain.ReportRequest{
		Kind:        domain.ReportProfitAndLoss,
		Start:       start.Format(time.DateOnly),
		End:         start.AddDate(0, 1, -1).Format(time.DateOnly),
		SummarizeBy: "Month",
	}

	doc, err := s.fetcher.FetchReport(ctx, c, req)
	if err != nil {
		s.log.Warn("digest: report fetch failed",
			zap.String("company", c.Slug),
			zap.Int("year", year),
			zap.Int("month", month),
			zap.Error(err),
		)
		sec.Error = err.Error()
		sec.Bucket = report.MonthlyBucket{Month: report.MonthLabel(year, time.Month(month))}
		return sec
	}

	buckets := report.PivotMonthly(doc.Rows, doc.Columns, year, report.PivotOptions{})
	sec.Bucket = buckets[month-1]
	sec.Lines = []report.FlatRow{}
	for _, r := range report.FlattenRows(doc.Rows, report.PolicyDigest) {
		if r.IsTotal {
			sec.Lines = append(sec.Lines, r)
		}
	}
	return sec
}

func (s *digestService) narrative(ctx context.Context, d *domain.Digest) string {
	reply, err := s.chat.Complete(ctx, domain.ChatRequest{
		System:    narrativeSystemPrompt,
		Messages:  []domain.ChatMessage{{Role: "user", Content: digestFacts(d)}},
		MaxTokens: 400,
	})
	if err != nil {
		s.log.Warn("digest: narrative failed", zap.String("period", d.Period), zap.Error(err))
		return ""
	}
	return reply.Text
}

type lastDigest struct {
	Period  string               `json:"period"`
	SentTo  []string             `json:"sent_to"`
	SentAt  time.Time            `json:"sent_at"`
	Section domain.DigestSection `json:"section"`
}

func (s *digestService) Send(ctx context.Context, d *domain.Digest, recipients []string) (*domain.Digest, error) {
	if len(recipients) == 0 {
		recipients = s.cfg.Recipients
	}
	if len(recipients) == 0 {
		return nil, domain.ErrNoRecipients
	}

	err := s.sender.Send(ctx, domain.Email{
		To:      recipients,
		Subject: "Holdops digest: " + d.Period,
		HTML:    d.HTML,
		Text:    d.Text,
		Tags:    map[string]string{"type": "digest", "period": fmt.Sprintf("%04d-%02d", d.Year, d.Month)},
	})
	if err != nil {
		return nil, fmt.Errorf("sending digest: %w", err)
	}
	d.SentTo = append([]string(nil), recipients...)

	sentAt := s.now().UTC()
	for _, sec := range d.Sections {
		data, err := json.Marshal(lastDigest{Period: d.Period, SentTo: d.SentTo, SentAt: sentAt, Section: sec})
		if err != nil {
			continue
		}
		if err := s.kv.Set(ctx, DigestKey(sec.Company.Slug), data, 0); err != nil {
			s.log.Warn("digest: record failed", zap.String("company", sec.Company.Slug), zap.Error(err))
		}
	}
	s.log.Info("digest sent",
		zap.String("period", d.Period),
		zap.Int("recipients", len(recipients)),
		zap.Int("companies", len(d.Sections)),
	)
	return d, nil
}
