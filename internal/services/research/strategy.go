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

// StrategyAgent turns raw price/volume movement into a search plan by
// asking the reasoning service for hypotheses, keywords, a lookback
// window and a confidence label. It never raises to its caller.
type StrategyAgent struct {
	reasoner domsvc.Reasoner
	metrics  drepo.Metrics
	logger   *xlogger.Logger
	defaults Defaults
}

func NewStrategyAgent(reasoner domsvc.Reasoner, metrics drepo.Metrics, logger *xlogger.Logger, defaults Defaults) *StrategyAgent {
	return &StrategyAgent{reasoner: reasoner, metrics: metrics, logger: logger, defaults: defaults}
}

// Plan asks for a research strategy and decodes the first balanced object
// from the response. Any transport or decode failure substitutes the
// default strategy.
func (a *StrategyAgent) Plan(ctx context.Context, symbol, date string, ohlc models.OHLCData, move models.PriceMovement) models.ResearchStrategy {
	prompt := a.buildPrompt(symbol, date, ohlc, move)

	text, err := a.reasoner.GenerateText(ctx, prompt)
	if err != nil {
		return a.fallback("reasoner call failed", err)
	}

	var strategy models.ResearchStrategy
	if err := DecodeInto(text, &strategy); err != nil {
		return a.fallback("undecodable response", err)
	}
	if !validStrategy(strategy) {
		return a.fallback("required fields missing", nil)
	}
	return strategy
}

func validStrategy(s models.ResearchStrategy) bool {
	if len(s.Hypotheses) == 0 || len(s.Keywords) == 0 || s.LookbackDays < 1 {
		return false
	}
	switch s.Confidence {
	case "high", "medium", "low":
		return true
	}
	return false
}

func (a *StrategyAgent) fallback(reason string, err error) models.ResearchStrategy {
	fields := []xlogger.Field{xlogger.String("stage", "strategy"), xlogger.String("reason", reason)}
	if err != nil {
		fields = append(fields, xlogger.Error(err))
	}
	a.logger.Warn("substituting default strategy", fields...)
	if a.metrics != nil {
		a.metrics.RecordStageFallback("strategy")
	}
	return a.defaults.Strategy
}

func (a *StrategyAgent) buildPrompt(symbol, date string, ohlc models.OHLCData, move models.PriceMovement) string {
	direction := "down"
	if move.ChangePercent > 0 {
		direction = "up"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are an AI Research Agent investigating why %s moved %s %.2f%% on %s.\n\n",
		symbol, direction, math.Abs(move.ChangePercent), date)
	fmt.Fprintf(&b, "Stock Data:\n")
	fmt.Fprintf(&b, "- Symbol: %s\n", symbol)
	fmt.Fprintf(&b, "- Price: %s -> %s (%.2f%%)\n", trimFloat(ohlc.Open), trimFloat(ohlc.Close), move.ChangePercent)
	fmt.Fprintf(&b, "- Volume: %.0f shares (%.2fx normal)\n", ohlc.Volume, move.VolumeRatio)
	fmt.Fprintf(&b, "- High/Low: %s/%s\n\n", trimFloat(ohlc.High), trimFloat(ohlc.Low))
	b.WriteString("Your task: Think like a financial detective. What could cause this specific movement?\n\n")
	b.WriteString("1. Hypothesize what might have caused this movement\n")
	b.WriteString("2. Decide what keywords to search for\n")
	b.WriteString("3. Choose how far back to look\n")
	b.WriteString("4. Assess your confidence in finding the cause\n\n")
	b.WriteString("Consider:\n")
	b.WriteString("- Is this a normal daily fluctuation or significant move?\n")
	b.WriteString("- Does the volume suggest news-driven activity?\n")
	b.WriteString("- What types of events typically cause this magnitude of movement?\n")
	b.WriteString("- Are there typical catalysts for this stock/sector?\n\n")
	b.WriteString(`IMPORTANT: Respond ONLY with a valid JSON object in this exact format:
{
  "researchHypotheses": ["hypothesis1", "hypothesis2", "hypothesis3"],
  "searchKeywords": ["keyword1", "keyword2", "keyword3"],
  "timeframeDays": 3,
  "confidenceLevel": "medium",
  "reasoning": "explanation of strategy"
}`)
	return b.String()
}
