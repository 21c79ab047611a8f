package alphavantage

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"StockSleuth/internal/domain/models"
	domsvc "StockSleuth/internal/domain/service"
	xhttp "StockSleuth/pkg/http"
	xlogger "StockSleuth/pkg/logger"
)

const defaultBaseURL = "https://www.alphavantage.co/query"

// Client implements a NewsSource backed by the Alpha Vantage
// NEWS_SENTIMENT endpoint. The upstream is treated as unreliable: tier
// limits and empty feeds are expected conditions, reported as an empty
// result rather than an error.
type Client struct {
	apiKey  string
	baseURL string
	http    *xhttp.Client
	logger  *xlogger.Logger
}

// New creates an Alpha Vantage news client.
func New(apiKey, baseURL string, timeout time.Duration, logger *xlogger.Logger) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		http:    xhttp.NewClient(xhttp.WithTimeout(timeout)),
		logger:  logger,
	}
}

type avTickerSentiment struct {
	Ticker         string `json:"ticker"`
	RelevanceScore string `json:"relevance_score"`
	SentimentScore string `json:"ticker_sentiment_score"`
	SentimentLabel string `json:"ticker_sentiment_label"`
}

type avArticle struct {
	Title                 string              `json:"title"`
	URL                   string              `json:"url"`
	TimePublished         string              `json:"time_published"`
	Summary               string              `json:"summary"`
	Source                string              `json:"source"`
	OverallSentimentScore json.Number         `json:"overall_sentiment_score"`
	OverallSentimentLabel string              `json:"overall_sentiment_label"`
	RelevanceScore        string              `json:"relevance_score"` // the feed sends this as a string
	TickerSentiment       []avTickerSentiment `json:"ticker_sentiment"`
}

type avResponse struct {
	Feed        []avArticle `json:"feed"`
	Information string      `json:"Information"`
	Note        string      `json:"Note"`
}

// Search queries NEWS_SENTIMENT for the symbol over the given window,
// sorted by relevance and capped at q.Limit. Records lacking a title or
// summary are discarded; the remainder are normalized and ordered
// descending by relevance.
func (c *Client) Search(ctx context.Context, q domsvc.NewsQuery) ([]models.Article, error) {
	params := map[string][]string{
		"function":  {"NEWS_SENTIMENT"},
		"tickers":   {q.Symbol},
		"time_from": {q.From.Format("20060102") + "T0000"},
		"time_to":   {q.To.Format("20060102") + "T2359"},
		"sort":      {"RELEVANCE"},
		"limit":     {fmt.Sprintf("%d", q.Limit)},
		"apikey":    {c.apiKey},
	}
	if len(q.Topics) > 0 {
		params["topics"] = []string{strings.Join(q.Topics, ",")}
	}

	var resp avResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         c.baseURL,
		QueryParams: params,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("news sentiment query: %w", err)
	}

	if len(resp.Feed) == 0 {
		// Entitlement/tier notices arrive in-band with status 200.
		if resp.Information != "" || resp.Note != "" {
			c.logger.Warn("news search tier limited",
				xlogger.String("symbol", q.Symbol),
				xlogger.String("info", resp.Information+resp.Note))
		}
		return nil, nil
	}

	articles := make([]models.Article, 0, len(resp.Feed))
	for _, raw := range resp.Feed {
		if raw.Title == "" || raw.Summary == "" {
			continue
		}
		articles = append(articles, models.Article{
			Title:           raw.Title,
			Summary:         raw.Summary,
			Source:          raw.Source,
			PublishedAt:     raw.TimePublished,
			Sentiment:       raw.OverallSentimentLabel,
			SentimentScore:  parseScore(raw.OverallSentimentScore.String()),
			URL:             raw.URL,
			Relevance:       parseScore(raw.RelevanceScore),
			SymbolSentiment: matchTicker(raw.TickerSentiment, q.Symbol),
		})
	}
	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].Relevance > articles[j].Relevance
	})
	return articles, nil
}

func parseScore(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func matchTicker(entries []avTickerSentiment, symbol string) *models.SymbolSentiment {
	for _, ts := range entries {
		if ts.Ticker == symbol {
			return &models.SymbolSentiment{
				Ticker: ts.Ticker,
				Label:  ts.SentimentLabel,
				Score:  ts.SentimentScore,
			}
		}
	}
	return nil
}

var _ domsvc.NewsSource = (*Client)(nil)
