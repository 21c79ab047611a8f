package research

import (
	"context"
	"fmt"
	"math"
	"strings"

	"StockSleuth/internal/domain/models"
	drepo "StockSleuth/internal/domain/repository"
	domsvc "StockSleuth/internal/domain/service"
	xlogger "StockSleuth/pkg/logger"
)

// CausalityAnalyzer scores each retrieved article's plausibility as the
// cause of the observed move. On decode failure it substitutes a neutral
// report (confidence 50) so transport noise alone does not over-trigger
// the follow-up stage.
type CausalityAnalyzer struct {
	reasoner domsvc.Reasoner
	metrics  drepo.Metrics
	logger   *xlogger.Logger
	defaults Defaults
}

func NewCausalityAnalyzer(reasoner domsvc.Reasoner, metrics drepo.Metrics, logger *xlogger.Logger, defaults Defaults) *CausalityAnalyzer {
	return &CausalityAnalyzer{reasoner: reasoner, metrics: metrics, logger: logger, defaults: defaults}
}

// Analyze scores up to the top TopArticles articles against the
// strategy's hypotheses. Output is always present.
func (a *CausalityAnalyzer) Analyze(ctx context.Context, symbol string, move models.PriceMovement, strategy models.ResearchStrategy, articles []models.Article) models.CausalityReport {
	top := articles
	if len(top) > a.defaults.TopArticles {
		top = top[:a.defaults.TopArticles]
	}
	prompt := a.buildPrompt(symbol, move, strategy, top, len(articles))

	text, err := a.reasoner.GenerateText(ctx, prompt)
	if err != nil {
		return a.fallback("reasoner call failed", err)
	}

	var report models.CausalityReport
	if err := DecodeInto(text, &report); err != nil {
		return a.fallback("undecodable response", err)
	}
	if report.OverallConfidence < 0 || report.OverallConfidence > 100 {
		return a.fallback("confidence out of range", nil)
	}
	if report.Findings == nil {
		report.Findings = []models.CausalFinding{}
	}
	if report.AlternativeTheories == nil {
		report.AlternativeTheories = []string{}
	}
	return report
}

func (a *CausalityAnalyzer) fallback(reason string, err error) models.CausalityReport {
	fields := []xlogger.Field{xlogger.String("stage", "causality"), xlogger.String("reason", reason)}
	if err != nil {
		fields = append(fields, xlogger.Error(err))
	}
	a.logger.Warn("substituting neutral causality report", fields...)
	if a.metrics != nil {
		a.metrics.RecordStageFallback("causality")
	}
	return a.defaults.Causality
}

func (a *CausalityAnalyzer) buildPrompt(symbol string, move models.PriceMovement, strategy models.ResearchStrategy, top []models.Article, total int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You found %d news articles. Now analyze if any could realistically explain the %.2f%% movement in %s.\n\n",
		total, move.ChangePercent, symbol)
	fmt.Fprintf(&b, "Your Research Hypotheses: %s\n\n", strings.Join(strategy.Hypotheses, ", "))
	b.WriteString("News Articles (sorted by relevance):\n")
	for i, art := range top {
		fmt.Fprintf(&b, "\n%d. %q\n", i+1, art.Title)
		fmt.Fprintf(&b, "   Source: %s | Published: %s\n", art.Source, art.PublishedAt)
		fmt.Fprintf(&b, "   Overall Sentiment: %s (Score: %g)\n", art.Sentiment, art.SentimentScore)
		fmt.Fprintf(&b, "   Relevance Score: %g\n", art.Relevance)
		if art.SymbolSentiment != nil {
			fmt.Fprintf(&b, "   %s Specific Sentiment: %s (%s)\n", symbol, art.SymbolSentiment.Label, art.SymbolSentiment.Score)
		}
		fmt.Fprintf(&b, "   Summary: %s\n", truncate(art.Summary, a.defaults.SummaryLimit))
	}
	fmt.Fprintf(&b, "\nThink critically and analyze each article:\n")
	fmt.Fprintf(&b, "- Could this news realistically move the stock %.2f%%?\n", math.Abs(move.ChangePercent))
	b.WriteString("- Does the timing make sense?\n")
	b.WriteString("- Is the news source credible and market-moving?\n")
	b.WriteString("- Are there gaps in the explanation?\n\n")
	b.WriteString(`RESPOND ONLY with a valid JSON object in this format:
{
  "causalAnalysis": [
    {
      "articleTitle": "Article Title",
      "causalityScore": 85,
      "reasoning": "Detailed explanation of why this could cause the movement",
      "timelineMatch": "perfect",
      "marketImpactPotential": "market-moving"
    }
  ],
  "overallConfidence": 78,
  "alternativeTheories": ["Theory 1", "Theory 2"]
}`)
	return b.String()
}

func truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
