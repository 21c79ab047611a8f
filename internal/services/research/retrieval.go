package research

import (
	"context"
	"math"
	"strings"

	"StockSleuth/internal/domain/models"
	drepo "StockSleuth/internal/domain/repository"
	domsvc "StockSleuth/internal/domain/service"
	xlogger "StockSleuth/pkg/logger"
	"StockSleuth/pkg/util"
)

// EvidenceRetriever parameterizes the evidence-source call from the
// strategy and guarantees a non-empty article set: when the source is
// unconfigured, unreachable, or returns nothing usable, a single
// synthetic technical-observation article is substituted.
type EvidenceRetriever struct {
	source   domsvc.NewsSource // nil when no credentials are configured
	metrics  drepo.Metrics
	logger   *xlogger.Logger
	defaults Defaults
}

func NewEvidenceRetriever(source domsvc.NewsSource, metrics drepo.Metrics, logger *xlogger.Logger, defaults Defaults) *EvidenceRetriever {
	return &EvidenceRetriever{source: source, metrics: metrics, logger: logger, defaults: defaults}
}

// Retrieve searches [date - lookbackDays, date] with a topic filter
// derived from the hypotheses and move magnitude. Always returns >= 1
// article.
func (r *EvidenceRetriever) Retrieve(ctx context.Context, symbol, date string, strategy models.ResearchStrategy, ohlc models.OHLCData, move models.PriceMovement) []models.Article {
	articles := r.search(ctx, symbol, date, strategy, move)
	if len(articles) == 0 {
		r.logger.Info("no usable evidence, substituting technical observation",
			xlogger.String("symbol", symbol), xlogger.String("date", date))
		if r.metrics != nil {
			r.metrics.RecordStageFallback("retrieval")
		}
		articles = []models.Article{SyntheticArticle(symbol, date, ohlc, move, r.defaults.SyntheticSentiment)}
	}
	if r.metrics != nil {
		r.metrics.RecordArticlesFound(symbol, len(articles))
	}
	return articles
}

func (r *EvidenceRetriever) search(ctx context.Context, symbol, date string, strategy models.ResearchStrategy, move models.PriceMovement) []models.Article {
	if r.source == nil {
		return nil
	}
	day, err := util.ParseDay(date)
	if err != nil {
		r.logger.Warn("unparseable research date", xlogger.String("date", date), xlogger.Error(err))
		return nil
	}

	from, to := util.LookbackWindow(day, strategy.LookbackDays)
	q := domsvc.NewsQuery{
		Symbol: symbol,
		From:   from,
		To:     to,
		Topics: TopicsFor(strategy, move.ChangePercent),
		Limit:  r.defaults.SearchLimit,
	}
	r.logger.Debug("evidence search",
		xlogger.String("symbol", symbol),
		xlogger.Strings("topics", q.Topics),
		xlogger.Int("lookback_days", strategy.LookbackDays))

	articles, err := r.source.Search(ctx, q)
	if err != nil {
		// Transport errors fold into the evidence-empty path.
		r.logger.Error("evidence search failed", xlogger.String("symbol", symbol), xlogger.Error(err))
		if r.metrics != nil {
			r.metrics.RecordError("evidence_search")
		}
		return nil
	}
	return articles
}

// TopicsFor selects the evidence-source topic filter. An earnings or
// financial hypothesis takes precedence over the magnitude rules; small
// moves get the broadest search (no filter).
func TopicsFor(strategy models.ResearchStrategy, changePercent float64) []string {
	hypotheses := strings.ToLower(strings.Join(strategy.Hypotheses, " "))
	switch {
	case strings.Contains(hypotheses, "earnings") || strings.Contains(hypotheses, "financial"):
		return []string{"earnings", "financial_markets"}
	case math.Abs(changePercent) > 5:
		return []string{"earnings", "financial_markets", "economy_macro"}
	case math.Abs(changePercent) > 2:
		return []string{"financial_markets", "technology"}
	default:
		return nil
	}
}
