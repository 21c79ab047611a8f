package research

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"StockSleuth/internal/domain/models"
	xlogger "StockSleuth/pkg/logger"
)

type stubReasoner struct {
	text    string
	err     error
	prompts []string
}

func (s *stubReasoner) GenerateText(_ context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	return s.text, s.err
}

type stubMetrics struct {
	runs      []string
	fallbacks []string
	errors    []string
	articles  map[string]int
}

func (m *stubMetrics) RecordRun(status string) { m.runs = append(m.runs, status) }

func (m *stubMetrics) RecordStageFallback(stage string) { m.fallbacks = append(m.fallbacks, stage) }

func (m *stubMetrics) RecordError(kind string) { m.errors = append(m.errors, kind) }

func (m *stubMetrics) RecordLatency(string, float64) {}
func (m *stubMetrics) RecordArticlesFound(symbol string, n int) {
	if m.articles == nil {
		m.articles = map[string]int{}
	}
	m.articles[symbol] = n
}

var testOHLC = models.OHLCData{Open: 150.25, High: 158.75, Low: 149.5, Close: 157.06, Volume: 85_000_000}

func testMovement() models.PriceMovement {
	return ComputeMovement(testOHLC, NewDefaults().ReferenceVolume)
}

func TestStrategyAgentPlan(t *testing.T) {
	reasoner := &stubReasoner{text: "```json\n" + `{
  "researchHypotheses": ["Earnings beat"],
  "searchKeywords": ["AAPL earnings"],
  "timeframeDays": 2,
  "confidenceLevel": "high",
  "reasoning": "large move on heavy volume"
}` + "\n```"}
	agent := NewStrategyAgent(reasoner, nil, xlogger.Nop(), NewDefaults())

	got := agent.Plan(context.Background(), "AAPL", "2025-01-15", testOHLC, testMovement())
	if got.Confidence != "high" || got.LookbackDays != 2 {
		t.Fatalf("unexpected strategy %+v", got)
	}
	if len(got.Hypotheses) != 1 || got.Hypotheses[0] != "Earnings beat" {
		t.Fatalf("unexpected hypotheses %v", got.Hypotheses)
	}
	if len(reasoner.prompts) != 1 {
		t.Fatalf("expected one reasoner call, got %d", len(reasoner.prompts))
	}
	if !strings.Contains(reasoner.prompts[0], "AAPL moved up 4.53%") {
		t.Fatalf("prompt missing movement summary: %q", reasoner.prompts[0])
	}
}

func TestStrategyAgentFallbackOnProse(t *testing.T) {
	m := &stubMetrics{}
	agent := NewStrategyAgent(&stubReasoner{text: "I cannot help with that."}, m, xlogger.Nop(), NewDefaults())
	got := agent.Plan(context.Background(), "AAPL", "2025-01-15", testOHLC, testMovement())
	if !reflect.DeepEqual(got, NewDefaults().Strategy) {
		t.Fatalf("expected default strategy, got %+v", got)
	}
	if len(m.fallbacks) != 1 || m.fallbacks[0] != "strategy" {
		t.Fatalf("expected one strategy fallback, got %v", m.fallbacks)
	}
}

func TestStrategyAgentFallbackOnReasonerError(t *testing.T) {
	agent := NewStrategyAgent(&stubReasoner{err: errors.New("quota exceeded")}, nil, xlogger.Nop(), NewDefaults())
	got := agent.Plan(context.Background(), "AAPL", "2025-01-15", testOHLC, testMovement())
	if got.Reasoning != NewDefaults().Strategy.Reasoning {
		t.Fatalf("expected default strategy, got %+v", got)
	}
}

func TestStrategyAgentRejectsInvalidFields(t *testing.T) {
	cases := []string{
		`{"researchHypotheses": [], "searchKeywords": ["x"], "timeframeDays": 3, "confidenceLevel": "medium"}`,
		`{"researchHypotheses": ["x"], "searchKeywords": ["x"], "timeframeDays": 0, "confidenceLevel": "medium"}`,
		`{"researchHypotheses": ["x"], "searchKeywords": ["x"], "timeframeDays": 3, "confidenceLevel": "certain"}`,
	}
	for _, text := range cases {
		agent := NewStrategyAgent(&stubReasoner{text: text}, nil, xlogger.Nop(), NewDefaults())
		got := agent.Plan(context.Background(), "AAPL", "2025-01-15", testOHLC, testMovement())
		if !reflect.DeepEqual(got, NewDefaults().Strategy) {
			t.Fatalf("response %q: expected default strategy, got %+v", text, got)
		}
	}
}
