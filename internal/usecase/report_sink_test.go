package usecase

import (
	"context"
	"errors"
	"testing"

	"StockSleuth/internal/domain/models"
	xlogger "StockSleuth/pkg/logger"
)

type stubStore struct {
	stored []*models.ResearchReport
	err    error
	closed bool
}

func (s *stubStore) Init(context.Context) error   { return nil }
func (s *stubStore) Health(context.Context) error { return nil }
func (s *stubStore) Close() error                 { s.closed = true; return nil }
func (s *stubStore) Store(_ context.Context, r *models.ResearchReport) error {
	s.stored = append(s.stored, r)
	return s.err
}

type stubPublisher struct {
	published []*models.ResearchReport
	err       error
	closed    bool
}

func (p *stubPublisher) Close() error { p.closed = true; return nil }
func (p *stubPublisher) Publish(_ context.Context, r *models.ResearchReport) error {
	p.published = append(p.published, r)
	return p.err
}

func TestReportSinkHandle(t *testing.T) {
	store := &stubStore{}
	pub := &stubPublisher{}
	sink := NewReportSink(store, pub, nil, xlogger.Nop())

	report := &models.ResearchReport{Symbol: "AAPL"}
	sink.Handle(context.Background(), report)

	if len(store.stored) != 1 || len(pub.published) != 1 {
		t.Fatalf("expected report in both backends, got %d/%d", len(store.stored), len(pub.published))
	}
}

func TestReportSinkSwallowsBackendErrors(t *testing.T) {
	store := &stubStore{err: errors.New("connection refused")}
	pub := &stubPublisher{err: errors.New("broker down")}
	sink := NewReportSink(store, pub, nil, xlogger.Nop())

	// Must not panic or propagate; the report was already served.
	sink.Handle(context.Background(), &models.ResearchReport{Symbol: "AAPL"})

	// A store failure does not skip publishing.
	if len(pub.published) != 1 {
		t.Fatalf("expected publish attempt after store failure")
	}
}

func TestReportSinkNilBackends(t *testing.T) {
	sink := NewReportSink(nil, nil, nil, xlogger.Nop())
	sink.Handle(context.Background(), &models.ResearchReport{Symbol: "AAPL"})
	sink.Handle(context.Background(), nil)
	sink.Close()
}

func TestReportSinkClose(t *testing.T) {
	store := &stubStore{}
	pub := &stubPublisher{}
	sink := NewReportSink(store, pub, nil, xlogger.Nop())
	sink.Close()
	if !store.closed || !pub.closed {
		t.Fatalf("expected both backends closed")
	}
}
