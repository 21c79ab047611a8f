package research

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"StockSleuth/internal/domain/models"
	xlogger "StockSleuth/pkg/logger"
)

func TestCausalityAnalyze(t *testing.T) {
	reasoner := &stubReasoner{text: `{
  "causalAnalysis": [
    {
      "articleTitle": "Apple Beats Q4 Expectations",
      "causalityScore": 85,
      "reasoning": "earnings beat matches the move",
      "timelineMatch": "perfect",
      "marketImpactPotential": "market-moving"
    }
  ],
  "overallConfidence": 78,
  "alternativeTheories": ["Sector rotation"]
}`}
	a := NewCausalityAnalyzer(reasoner, nil, xlogger.Nop(), NewDefaults())
	articles := []models.Article{{Title: "Apple Beats Q4 Expectations", Summary: "strong quarter", Sentiment: "Bullish"}}

	report := a.Analyze(context.Background(), "AAPL", testMovement(), NewDefaults().Strategy, articles)
	if report.OverallConfidence != 78 {
		t.Fatalf("unexpected confidence %d", report.OverallConfidence)
	}
	if len(report.Findings) != 1 || report.Findings[0].CausalityScore != 85 {
		t.Fatalf("unexpected findings %+v", report.Findings)
	}
	if len(report.AlternativeTheories) != 1 {
		t.Fatalf("unexpected theories %v", report.AlternativeTheories)
	}
}

func TestCausalityAnalyzeFallback(t *testing.T) {
	a := NewCausalityAnalyzer(&stubReasoner{text: "no structured answer"}, nil, xlogger.Nop(), NewDefaults())
	report := a.Analyze(context.Background(), "AAPL", testMovement(), NewDefaults().Strategy, nil)

	if !reflect.DeepEqual(report, NewDefaults().Causality) {
		t.Fatalf("expected neutral fallback, got %+v", report)
	}
	if report.OverallConfidence != 50 {
		t.Fatalf("expected neutral confidence, got %d", report.OverallConfidence)
	}
}

func TestCausalityAnalyzeOutOfRangeConfidence(t *testing.T) {
	a := NewCausalityAnalyzer(&stubReasoner{text: `{"causalAnalysis": [], "overallConfidence": 140, "alternativeTheories": []}`}, nil, xlogger.Nop(), NewDefaults())
	report := a.Analyze(context.Background(), "AAPL", testMovement(), NewDefaults().Strategy, nil)
	if report.OverallConfidence != 50 {
		t.Fatalf("expected neutral fallback, got %+v", report)
	}
}

func TestCausalityAnalyzeNormalizesNilSlices(t *testing.T) {
	a := NewCausalityAnalyzer(&stubReasoner{text: `{"overallConfidence": 72}`}, nil, xlogger.Nop(), NewDefaults())
	report := a.Analyze(context.Background(), "AAPL", testMovement(), NewDefaults().Strategy, nil)
	if report.Findings == nil || report.AlternativeTheories == nil {
		t.Fatalf("expected empty slices, got %+v", report)
	}
}

func TestCausalityPromptCapsArticles(t *testing.T) {
	reasoner := &stubReasoner{text: `{"causalAnalysis": [], "overallConfidence": 60, "alternativeTheories": []}`}
	a := NewCausalityAnalyzer(reasoner, nil, xlogger.Nop(), NewDefaults())

	articles := make([]models.Article, 12)
	for i := range articles {
		articles[i] = models.Article{Title: fmt.Sprintf("Article %d", i+1), Summary: "s"}
	}
	a.Analyze(context.Background(), "AAPL", testMovement(), NewDefaults().Strategy, articles)

	prompt := reasoner.prompts[0]
	if !strings.Contains(prompt, "You found 12 news articles") {
		t.Fatalf("prompt missing total count: %q", prompt)
	}
	if !strings.Contains(prompt, `"Article 8"`) {
		t.Fatalf("prompt should include the eighth article")
	}
	if strings.Contains(prompt, `"Article 9"`) {
		t.Fatalf("prompt should cap at eight articles")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 250); got != "short" {
		t.Fatalf("unexpected %q", got)
	}
	long := strings.Repeat("a", 300)
	got := truncate(long, 250)
	if len([]rune(got)) != 253 || !strings.HasSuffix(got, "...") {
		t.Fatalf("unexpected truncation %q", got)
	}
}
