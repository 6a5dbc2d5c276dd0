package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"holdops/internal/domain"
	"holdops/internal/port"
)

// SnapshotRefresherConfig holds settings for the snapshot refresher.
type SnapshotRefresherConfig struct {
	Interval    time.Duration
	Concurrency int
	// Timeout bounds one company's refresh.
	Timeout time.Duration
}

// SnapshotRefresher periodically re-fetches each company's headline reports
// so their KV snapshots stay warm, and purges expired KV entries.
type SnapshotRefresher struct {
	reports ReportService
	kv      port.KVStore
	cfg     SnapshotRefresherConfig
	log     *zap.Logger
	now     func() time.Time
	wg      sync.WaitGroup
}

// NewSnapshotRefresher creates a new SnapshotRefresher.
func NewSnapshotRefresher(reports ReportService, kv port.KVStore, cfg SnapshotRefresherConfig, log *zap.Logger) *SnapshotRefresher {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 2
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Minute
	}
	return &SnapshotRefresher{
		reports: reports,
		kv:      kv,
		cfg:     cfg,
		log:     log,
		now:     time.Now,
	}
}

// Start runs the refresh loop until ctx is canceled. It blocks until all
// in-flight refreshes have finished.
func (r *SnapshotRefresher) Start(ctx context.Context) {
	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	r.log.Info("snapshot refresher started",
		zap.Duration("interval", r.cfg.Interval),
		zap.Int("concurrency", r.cfg.Concurrency),
	)

	for {
		select {
		case <-ctx.Done():
			r.log.Info("snapshot refresher shutting down, waiting for in-flight refreshes")
			r.wg.Wait()
			r.log.Info("snapshot refresher shutdown complete")
			return
		case <-ticker.C:
			r.RefreshOnce(ctx)
		}
	}
}

// RefreshOnce refreshes every company and purges expired entries. Per-company
// failures are logged and do not stop the others.
func (r *SnapshotRefresher) RefreshOnce(ctx context.Context) {
	sem := make(chan struct{}, r.cfg.Concurrency)
	for _, c := range r.reports.Companies() {
		if ctx.Err() != nil {
			break
		}
		sem <- struct{}{}
		r.wg.Add(1)
		go func() {
			defer r.wg.Done()
			defer func() { <-sem }()

			// A fresh context lets in-flight refreshes finish during shutdown.
			refreshCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.cfg.Timeout)
			defer cancel()
			if err := r.refresh(refreshCtx, c); err != nil {
				r.log.Warn("snapshot refresh failed", zap.String("company", c.Slug), zap.Error(err))
			}
		}()
	}
	r.wg.Wait()

	n, err := r.kv.PurgeExpired(context.WithoutCancel(ctx))
	if err != nil {
		r.log.Warn("kv purge failed", zap.Error(err))
		return
	}
	if n > 0 {
		r.log.Info("kv purge", zap.Int64("removed", n))
	}
}

func (r *SnapshotRefresher) refresh(ctx context.Context, c domain.Company) error {
	now := r.now()
	if _, err := r.reports.Monthly(ctx, c.Slug, now.Year(), false); err != nil {
		return fmt.Errorf("monthly: %w", err)
	}
	req := domain.ReportRequest{
		Kind:  domain.ReportProfitAndLoss,
		Start: fmt.Sprintf("%04d-01-01", now.Year()),
		End:   now.Format(time.DateOnly),
	}
	if _, err := r.reports.Flat(ctx, c.Slug, req); err != nil {
		return fmt.Errorf("profit and loss: %w", err)
	}
	return nil
}
