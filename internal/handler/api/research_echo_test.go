package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"StockSleuth/internal/domain/models"
	"StockSleuth/internal/services/research"
	"StockSleuth/internal/usecase"
	xlogger "StockSleuth/pkg/logger"
)

type scriptedReasoner struct {
	responses []string
	calls     int
}

func (s *scriptedReasoner) GenerateText(context.Context, string) (string, error) {
	if s.calls >= len(s.responses) {
		return "", nil
	}
	resp := s.responses[s.calls]
	s.calls++
	return resp, nil
}

func newTestHandler() *ResearchEchoHandler {
	logger := xlogger.Nop()
	defaults := research.NewDefaults()
	reasoner := &scriptedReasoner{responses: []string{
		`{"researchHypotheses": ["Earnings beat"], "searchKeywords": ["AAPL earnings"], "timeframeDays": 3, "confidenceLevel": "high", "reasoning": "volume"}`,
		`{"causalAnalysis": [], "overallConfidence": 85, "alternativeTheories": []}`,
	}}
	pipeline := usecase.NewResearchPipeline(
		research.NewStrategyAgent(reasoner, nil, logger, defaults),
		research.NewEvidenceRetriever(nil, nil, logger, defaults),
		research.NewCausalityAnalyzer(reasoner, nil, logger, defaults),
		research.NewFollowUpAdvisor(reasoner, nil, logger, defaults),
		nil,
		logger,
		defaults,
	)
	return NewResearchEchoHandler(logger, pipeline, nil)
}

func doRequest(t *testing.T, h *ResearchEchoHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	h.RegisterRoutes(e)
	req := httptest.NewRequest(http.MethodPost, "/api/agents/agentic-news-research", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestResearchEndpoint(t *testing.T) {
	body := `{"symbol": "AAPL", "date": "2025-01-15", "ohlc": {"open": 150.25, "high": 158.75, "low": 149.5, "close": 157.06, "volume": 85000000}}`
	rec := doRequest(t, newTestHandler(), body)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}
	var report models.ResearchReport
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if report.Agent != usecase.AgentName || report.Symbol != "AAPL" {
		t.Fatalf("unexpected report %+v", report)
	}
	if report.Movement.Significance != models.SignificanceMajor {
		t.Fatalf("unexpected significance %q", report.Movement.Significance)
	}
	if report.Metadata.Status != models.StatusHighConfidence {
		t.Fatalf("unexpected status %q", report.Metadata.Status)
	}
}

func TestResearchEndpointRejectsBadRequest(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"missing symbol", `{"date": "2025-01-15", "ohlc": {"open": 1, "high": 1, "low": 1, "close": 1, "volume": 0}}`},
		{"bad date format", `{"symbol": "AAPL", "date": "01/15/2025", "ohlc": {"open": 1, "high": 1, "low": 1, "close": 1, "volume": 0}}`},
		{"zero open", `{"symbol": "AAPL", "date": "2025-01-15", "ohlc": {"open": 0, "high": 1, "low": 1, "close": 1, "volume": 0}}`},
		{"symbol too long", `{"symbol": "ABCDEFGHIJK", "date": "2025-01-15", "ohlc": {"open": 1, "high": 1, "low": 1, "close": 1, "volume": 0}}`},
	}
	h := newTestHandler()
	for _, tc := range cases {
		rec := doRequest(t, h, tc.body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d: %s", tc.name, rec.Code, rec.Body.String())
		}
	}
}

func TestHealthEndpoint(t *testing.T) {
	e := echo.New()
	newTestHandler().RegisterRoutes(e)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}
