package usecase

import (
	"context"
	"time"

	"StockSleuth/internal/domain/models"
	drepo "StockSleuth/internal/domain/repository"
	xlogger "StockSleuth/pkg/logger"
)

// ReportSink routes completed reports to the configured audit store and
// broker. Sink failures are logged and counted but never surfaced to the
// caller; the report has already been delivered.
type ReportSink struct {
	store   drepo.ReportStore     // nil when persistence is disabled
	pub     drepo.ReportPublisher // nil when publishing is disabled
	metrics drepo.Metrics
	logger  *xlogger.Logger
}

func NewReportSink(store drepo.ReportStore, pub drepo.ReportPublisher, metrics drepo.Metrics, logger *xlogger.Logger) *ReportSink {
	return &ReportSink{store: store, pub: pub, metrics: metrics, logger: logger}
}

// Handle persists and publishes the report to whichever backends are
// configured.
func (s *ReportSink) Handle(ctx context.Context, r *models.ResearchReport) {
	if r == nil {
		return
	}
	if s.store != nil {
		start := time.Now()
		if err := s.store.Store(ctx, r); err != nil {
			s.logger.Error("report store failed", xlogger.String("symbol", r.Symbol), xlogger.Error(err))
			if s.metrics != nil {
				s.metrics.RecordError("report_store")
			}
		} else if s.metrics != nil {
			s.metrics.RecordLatency("report_store", time.Since(start).Seconds())
		}
	}
	if s.pub != nil {
		start := time.Now()
		if err := s.pub.Publish(ctx, r); err != nil {
			s.logger.Error("report publish failed", xlogger.String("symbol", r.Symbol), xlogger.Error(err))
			if s.metrics != nil {
				s.metrics.RecordError("report_publish")
			}
		} else if s.metrics != nil {
			s.metrics.RecordLatency("report_publish", time.Since(start).Seconds())
		}
	}
}

// Close releases sink resources.
func (s *ReportSink) Close() {
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Error("report store close failed", xlogger.Error(err))
		}
	}
	if s.pub != nil {
		if err := s.pub.Close(); err != nil {
			s.logger.Error("report publisher close failed", xlogger.Error(err))
		}
	}
}
