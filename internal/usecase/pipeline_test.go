package usecase

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"testing"
	"time"

	"StockSleuth/internal/domain/models"
	"StockSleuth/internal/services/research"
	xlogger "StockSleuth/pkg/logger"
)

// scriptedReasoner replays canned responses in call order: strategy,
// causality, then follow-up when the pipeline asks for one.
type scriptedReasoner struct {
	responses []string
	calls     int
}

func (s *scriptedReasoner) GenerateText(_ context.Context, _ string) (string, error) {
	if s.calls >= len(s.responses) {
		return "", nil
	}
	resp := s.responses[s.calls]
	s.calls++
	return resp, nil
}

const strategyResponse = `{
  "researchHypotheses": ["Earnings beat"],
  "searchKeywords": ["AAPL earnings Q4"],
  "timeframeDays": 3,
  "confidenceLevel": "high",
  "reasoning": "volume points at news"
}`

const followUpResponse = `{
  "needsMoreData": true,
  "specificQueries": ["AAPL guidance revision"],
  "reasoning": "No credible catalyst found",
  "searchSources": ["analyst-reports"]
}`

func causalityResponse(confidence int) string {
	return `{"causalAnalysis": [], "overallConfidence": ` + strconv.Itoa(confidence) + `, "alternativeTheories": ["Sector rotation"]}`
}

func testRequest() *models.ResearchRequest {
	return &models.ResearchRequest{
		Symbol: "AAPL",
		Date:   "2025-01-15",
		OHLC:   models.OHLCData{Open: 150.25, High: 158.75, Low: 149.5, Close: 157.06, Volume: 85_000_000},
	}
}

func newTestPipeline(reasoner *scriptedReasoner) *ResearchPipeline {
	logger := xlogger.Nop()
	defaults := research.NewDefaults()
	p := NewResearchPipeline(
		research.NewStrategyAgent(reasoner, nil, logger, defaults),
		research.NewEvidenceRetriever(nil, nil, logger, defaults),
		research.NewCausalityAnalyzer(reasoner, nil, logger, defaults),
		research.NewFollowUpAdvisor(reasoner, nil, logger, defaults),
		nil,
		logger,
		defaults,
	)
	p.now = func() time.Time { return time.Date(2025, 1, 15, 21, 0, 0, 0, time.UTC) }
	return p
}

func TestPipelineHighConfidence(t *testing.T) {
	reasoner := &scriptedReasoner{responses: []string{strategyResponse, causalityResponse(85)}}
	p := newTestPipeline(reasoner)

	report := p.Run(context.Background(), testRequest())

	if report.Agent != AgentName || report.Symbol != "AAPL" {
		t.Fatalf("unexpected report identity %+v", report)
	}
	if report.Movement.Significance != models.SignificanceMajor {
		t.Fatalf("unexpected significance %q", report.Movement.Significance)
	}
	if report.ArticlesFound != 1 || len(report.RawNews) != 1 {
		t.Fatalf("expected the synthetic article, got %d/%d", report.ArticlesFound, len(report.RawNews))
	}
	if report.FollowUp != nil {
		t.Fatalf("follow-up should be absent at confidence 85")
	}
	if report.Metadata.Status != models.StatusHighConfidence {
		t.Fatalf("unexpected status %q", report.Metadata.Status)
	}
	if len(report.Metadata.DecisionsMade) != 2 {
		t.Fatalf("unexpected decisions %v", report.Metadata.DecisionsMade)
	}
	if reasoner.calls != 2 {
		t.Fatalf("expected 2 reasoner calls, got %d", reasoner.calls)
	}
}

func TestPipelineLowConfidenceTriggersFollowUp(t *testing.T) {
	reasoner := &scriptedReasoner{responses: []string{strategyResponse, causalityResponse(69), followUpResponse}}
	p := newTestPipeline(reasoner)

	report := p.Run(context.Background(), testRequest())

	if report.FollowUp == nil {
		t.Fatalf("expected a follow-up request at confidence 69")
	}
	if !report.FollowUp.NeedsMoreData || report.FollowUp.Reasoning != "No credible catalyst found" {
		t.Fatalf("unexpected follow-up %+v", report.FollowUp)
	}
	if report.Metadata.Status != models.StatusNeedsMoreResearch {
		t.Fatalf("unexpected status %q", report.Metadata.Status)
	}
	want := []string{"Research strategy determination", "Causality analysis", "Additional research request"}
	if len(report.Metadata.DecisionsMade) != len(want) || report.Metadata.DecisionsMade[2] != want[2] {
		t.Fatalf("unexpected decisions %v", report.Metadata.DecisionsMade)
	}
	if reasoner.calls != 3 {
		t.Fatalf("expected 3 reasoner calls, got %d", reasoner.calls)
	}
}

func TestPipelineThresholdBoundary(t *testing.T) {
	// Exactly at the threshold: no follow-up, but not high-confidence
	// either.
	reasoner := &scriptedReasoner{responses: []string{strategyResponse, causalityResponse(70)}}
	p := newTestPipeline(reasoner)

	report := p.Run(context.Background(), testRequest())

	if report.FollowUp != nil {
		t.Fatalf("follow-up should not trigger at exactly 70")
	}
	if report.Metadata.Status != models.StatusNeedsMoreResearch {
		t.Fatalf("unexpected status %q at exactly 70", report.Metadata.Status)
	}
	if reasoner.calls != 2 {
		t.Fatalf("expected 2 reasoner calls, got %d", reasoner.calls)
	}
}

type recordingMetrics struct {
	runs    []string
	latency []string
}

func (m *recordingMetrics) RecordRun(status string) { m.runs = append(m.runs, status) }

func (m *recordingMetrics) RecordStageFallback(string) {}

func (m *recordingMetrics) RecordArticlesFound(string, int) {}

func (m *recordingMetrics) RecordError(string) {}

func (m *recordingMetrics) RecordLatency(op string, _ float64) {
	m.latency = append(m.latency, op)
}

func TestPipelineRecordsRun(t *testing.T) {
	reasoner := &scriptedReasoner{responses: []string{strategyResponse, causalityResponse(85)}}
	p := newTestPipeline(reasoner)
	m := &recordingMetrics{}
	p.metrics = m

	p.Run(context.Background(), testRequest())

	if len(m.runs) != 1 || m.runs[0] != models.StatusHighConfidence {
		t.Fatalf("unexpected run records %v", m.runs)
	}
	if len(m.latency) != 1 || m.latency[0] != "pipeline_run" {
		t.Fatalf("unexpected latency records %v", m.latency)
	}
}

func TestPipelineDeterministic(t *testing.T) {
	run := func() *models.ResearchReport {
		reasoner := &scriptedReasoner{responses: []string{strategyResponse, causalityResponse(85)}}
		return newTestPipeline(reasoner).Run(context.Background(), testRequest())
	}
	a, _ := json.Marshal(run())
	b, _ := json.Marshal(run())
	if string(a) != string(b) {
		t.Fatalf("identical inputs produced different reports:\n%s\n%s", a, b)
	}
}

func TestPipelineReportJSONShape(t *testing.T) {
	reasoner := &scriptedReasoner{responses: []string{strategyResponse, causalityResponse(85)}}
	report := newTestPipeline(reasoner).Run(context.Background(), testRequest())

	raw, err := json.Marshal(report)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	body := string(raw)
	for _, key := range []string{
		`"agent":"agentic-news-research"`,
		`"priceMovement"`,
		`"aiResearchStrategy"`,
		`"newsArticlesFound":1`,
		`"aiCausalityAnalysis"`,
		`"rawNewsData"`,
		`"aiDecisionsMade"`,
		`"status":"high-confidence"`,
	} {
		if !strings.Contains(body, key) {
			t.Fatalf("report json missing %s: %s", key, body)
		}
	}
	if strings.Contains(body, "aiAdditionalResearchRequest") {
		t.Fatalf("follow-up key should be omitted when absent: %s", body)
	}
	// The synthetic article has no per-ticker sentiment; the key still
	// appears with an explicit null.
	if !strings.Contains(body, `"tickerSentiment":null`) {
		t.Fatalf("expected explicit null tickerSentiment: %s", body)
	}
}
