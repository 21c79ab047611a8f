package research

import (
	"fmt"
	"math"
	"strconv"

	"StockSleuth/internal/domain/models"
)

// SyntheticArticle narrates the technical move itself so the causality
// stage always receives at least one article. Relevance is pinned to 1.0
// and sentiment follows the sign of the change.
func SyntheticArticle(symbol, date string, ohlc models.OHLCData, move models.PriceMovement, sentimentMagnitude float64) models.Article {
	up := move.ChangePercent > 0
	direction := "Decline"
	adjective := "downward"
	sentiment := "Bearish"
	score := -sentimentMagnitude
	if up {
		direction = "Rally"
		adjective = "upward"
		sentiment = "Bullish"
		score = sentimentMagnitude
	}

	title := fmt.Sprintf("Technical Analysis: %s %s of %.2f%%", symbol, direction, math.Abs(move.ChangePercent))
	summary := fmt.Sprintf(
		"Strong %s movement with %.2fx normal trading volume suggests %s sentiment and potential news catalyst. Price moved from %s to %s with range %s-%s.",
		adjective, move.VolumeRatio, lower(sentiment),
		trimFloat(ohlc.Open), trimFloat(ohlc.Close), trimFloat(ohlc.Low), trimFloat(ohlc.High),
	)

	return models.Article{
		Title:          title,
		Summary:        summary,
		Source:         "Technical Analysis",
		PublishedAt:    date,
		Sentiment:      sentiment,
		SentimentScore: score,
		Relevance:      1.0,
	}
}

func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func lower(sentiment string) string {
	if sentiment == "Bullish" {
		return "bullish"
	}
	return "bearish"
}
