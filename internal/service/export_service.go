package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"holdops/internal/domain"
	"holdops/internal/export"
	"holdops/internal/port"
)

// ExportService turns reports into downloadable files and spreadsheet tabs.
type ExportService interface {
	Export(ctx context.Context, slug string, req domain.ReportRequest, format domain.ExportFormat) (*domain.ExportResult, error)
	ToSheet(ctx context.Context, slug string, req domain.ReportRequest, tab string) (*domain.SheetWriteResult, error)
	ReadValues(ctx context.Context, rng string) ([][]string, error)
}

// ExportServiceConfig holds export destinations.
type ExportServiceConfig struct {
	Bucket        string
	PresignExpiry int64
	SpreadsheetID string
}

type exportService struct {
	reports ReportService
	storage port.ObjectStorage
	sheets  port.SpreadsheetClient
	cfg     ExportServiceConfig
	log     *zap.Logger
	now     func() time.Time
}

// NewExportService creates a new ExportService implementation. storage and
// sheets may be nil when the destination is not configured.
func NewExportService(reports ReportService, storage port.ObjectStorage, sheets port.SpreadsheetClient, cfg ExportServiceConfig, log *zap.Logger) ExportService {
	if cfg.PresignExpiry <= 0 {
		cfg.PresignExpiry = 900
	}
	return &exportService{
		reports: reports,
		storage: storage,
		sheets:  sheets,
		cfg:     cfg,
		log:     log,
		now:     time.Now,
	}
}

// ExportKey returns exports/<slug>/<kind>/<timestamp>.<ext>.
func ExportKey(slug string, kind domain.ReportKind, format domain.ExportFormat, at time.Time) string {
	return fmt.Sprintf("exports/%s/%s/%s.%s", slug, kind, at.UTC().Format("20060102T150405Z"), format)
}

func (s *exportService) Export(ctx context.Context, slug string, req domain.ReportRequest, format domain.ExportFormat) (*domain.ExportResult, error) {
	if s.storage == nil || s.cfg.Bucket == "" {
		return nil, domain.ErrStorageDisabled
	}
	flat, err := s.reports.Flat(ctx, slug, req)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	switch format {
	case domain.ExportCSV:
		err = export.WriteCSV(&buf, flat.Rows)
	case domain.ExportXLSX:
		err = export.WriteXLSX(&buf, reportTitle(flat), flat.Rows)
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrExportFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("encoding %s export: %w", format, err)
	}

	now := s.now()
	key := ExportKey(flat.Company, req.Kind, format, now)
	size := int64(buf.Len())
	if _, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.cfg.Bucket,
		Key:         key,
		Body:        &buf,
		ContentType: format.ContentType(),
		Size:        size,
		Filename:    export.BuildFilename(flat.Company, string(req.Kind), string(format), now),
	}); err != nil {
		return nil, fmt.Errorf("uploading export: %w", err)
	}

	url, err := s.storage.GetPresignedURL(ctx, s.cfg.Bucket, key, s.cfg.PresignExpiry)
	if err != nil {
		if delErr := s.storage.Delete(ctx, s.cfg.Bucket, key); delErr != nil {
			s.log.Warn("export: cleanup failed", zap.String("key", key), zap.Error(delErr))
		}
		return nil, fmt.Errorf("presigning export: %w", err)
	}

	s.log.Info("report exported",
		zap.String("company", flat.Company),
		zap.String("kind", string(req.Kind)),
		zap.String("format", string(format)),
		zap.Int64("bytes", size),
	)
	return &domain.ExportResult{
		Key:       key,
		URL:       url,
		Format:    format,
		Rows:      len(flat.Rows),
		ExpiresIn: s.cfg.PresignExpiry,
	}, nil
}

func (s *exportService) ToSheet(ctx context.Context, slug string, req domain.ReportRequest, tab string) (*domain.SheetWriteResult, error) {
	if s.sheets == nil || s.cfg.SpreadsheetID == "" {
		return nil, domain.ErrSheetsDisabled
	}
	flat, err := s.reports.Flat(ctx, slug, req)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(tab) == "" {
		tab = flat.Company + " " + string(req.Kind)
	}
	tab = export.SheetName(tab)

	values := export.SheetValues(flat.Rows)
	rng, err := s.sheets.WriteRows(ctx, s.cfg.SpreadsheetID, tab, values)
	if err != nil {
		return nil, err
	}
	return &domain.SheetWriteResult{
		SpreadsheetID: s.cfg.SpreadsheetID,
		Range:         rng,
		Rows:          len(values),
	}, nil
}

func (s *exportService) ReadValues(ctx context.Context, rng string) ([][]string, error) {
	if s.sheets == nil || s.cfg.SpreadsheetID == "" {
		return nil, domain.ErrSheetsDisabled
	}
	if strings.TrimSpace(rng) == "" {
		return nil, fmt.Errorf("%w: range is required", domain.ErrInvalidRange)
	}
	return s.sheets.ReadRange(ctx, s.cfg.SpreadsheetID, rng)
}

func reportTitle(r *domain.FlatReport) string {
	if r.ReportName != "" {
		return r.ReportName
	}
	return string(r.Kind)
}
