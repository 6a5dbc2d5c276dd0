package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"holdops/internal/domain"
	"holdops/internal/service"
	"holdops/mocks"
)

func TestSnapshotRefresher_RefreshOnce(t *testing.T) {
	reports := new(mocks.MockReportService)
	kv := new(mocks.MockKVStore)
	r := service.NewSnapshotRefresher(reports, kv, service.SnapshotRefresherConfig{Interval: time.Hour}, zap.NewNop())

	year := time.Now().Year()
	reports.On("Companies").Return(testCompanies())
	reports.On("Monthly", mock.Anything, "acme", year, false).Return(&domain.MonthlyReport{}, nil)
	reports.On("Flat", mock.Anything, "acme", mock.MatchedBy(func(req domain.ReportRequest) bool {
		return req.Kind == domain.ReportProfitAndLoss && req.Start != "" && req.End != ""
	})).Return(&domain.FlatReport{}, nil)
	// A failing company does not stop the purge.
	reports.On("Monthly", mock.Anything, "globex", year, false).Return(nil, domain.ErrMissingCredentials)
	kv.On("PurgeExpired", mock.Anything).Return(int64(3), nil)

	r.RefreshOnce(context.Background())

	reports.AssertExpectations(t)
	kv.AssertExpectations(t)
	reports.AssertNotCalled(t, "Flat", mock.Anything, "globex", mock.Anything)
}

func TestSnapshotRefresher_PurgeError(t *testing.T) {
	reports := new(mocks.MockReportService)
	kv := new(mocks.MockKVStore)
	r := service.NewSnapshotRefresher(reports, kv, service.SnapshotRefresherConfig{Interval: time.Hour}, zap.NewNop())

	reports.On("Companies").Return([]domain.Company{})
	kv.On("PurgeExpired", mock.Anything).Return(int64(0), errors.New("db down"))

	r.RefreshOnce(context.Background())

	kv.AssertExpectations(t)
}

func TestSnapshotRefresher_StartStopsOnCancel(t *testing.T) {
	reports := new(mocks.MockReportService)
	kv := new(mocks.MockKVStore)
	r := service.NewSnapshotRefresher(reports, kv, service.SnapshotRefresherConfig{Interval: 10 * time.Millisecond}, zap.NewNop())

	reports.On("Companies").Return([]domain.Company{}).Maybe()
	kv.On("PurgeExpired", mock.Anything).Return(int64(0), nil).Maybe()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Start(ctx)
		close(done)
	}()

	time.Sleep(35 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("refresher did not stop")
	}
}
