package repository

import (
	"context"

	"StockSleuth/internal/domain/models"
)

// ReportPublisher publishes completed research reports to a message broker.
type ReportPublisher interface {
	Publish(ctx context.Context, r *models.ResearchReport) error
	Close() error
}

// ReportStore persists completed research reports for audit.
type ReportStore interface {
	Init(ctx context.Context) error // ensure tables, health checks
	Store(ctx context.Context, r *models.ResearchReport) error
	Health(ctx context.Context) error // ping
	Close() error
}

// Metrics records pipeline observability signals.
type Metrics interface {
	RecordRun(status string)
	RecordStageFallback(stage string)
	RecordArticlesFound(symbol string, n int)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}
