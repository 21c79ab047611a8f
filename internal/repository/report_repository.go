package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"StockSleuth/internal/domain/models"
	"StockSleuth/internal/domain/repository"
	pkgkafka "StockSleuth/pkg/kafka"
)

// ClickHouseReportStore implements ReportStore for ClickHouse.
type ClickHouseReportStore struct {
	db    *sql.DB
	table string
}

// NewClickHouseReportStore creates ClickHouse report storage.
func NewClickHouseReportStore(db *sql.DB, table string) repository.ReportStore {
	return &ClickHouseReportStore{db: db, table: table}
}

func (s *ClickHouseReportStore) Init(ctx context.Context) error {
	return nil // Schema init in pkg
}

// Store inserts one completed run: key columns for querying plus the full
// report document for audit.
func (s *ClickHouseReportStore) Store(ctx context.Context, r *models.ResearchReport) error {
	body, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	q := fmt.Sprintf(
		"INSERT INTO %s (generated_at, symbol, trade_date, change_percent, significance, confidence, status, articles_found, report) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		s.table,
	)
	_, err = s.db.ExecContext(ctx, q,
		r.Metadata.GeneratedAt,
		r.Symbol,
		r.Date,
		r.Movement.ChangePercent,
		r.Movement.Significance,
		r.Metadata.ConfidenceScore,
		r.Metadata.Status,
		uint32(r.ArticlesFound),
		string(body),
	)
	return err
}

func (s *ClickHouseReportStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *ClickHouseReportStore) Close() error {
	return nil // Managed by pkg
}

// KafkaReportPublisher implements ReportPublisher for Kafka.
type KafkaReportPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaReportPublisher creates Kafka report publisher.
func NewKafkaReportPublisher(producer *pkgkafka.Producer, topic string) repository.ReportPublisher {
	return &KafkaReportPublisher{producer: producer, topic: topic}
}

func (p *KafkaReportPublisher) Publish(ctx context.Context, r *models.ResearchReport) error {
	return p.producer.Publish(ctx, p.topic, []byte(r.Symbol), r)
}

func (p *KafkaReportPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
