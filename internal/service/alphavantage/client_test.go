package alphavantage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	domsvc "StockSleuth/internal/domain/service"
	xlogger "StockSleuth/pkg/logger"
)

const feedResponse = `{
  "feed": [
    {
      "title": "Apple Beats Q4 Expectations",
      "url": "https://example.com/a",
      "time_published": "20250114T213000",
      "summary": "Strong quarter on services growth.",
      "source": "Newswire",
      "overall_sentiment_score": 0.42,
      "overall_sentiment_label": "Bullish",
      "relevance_score": "0.61",
      "ticker_sentiment": [
        {"ticker": "MSFT", "relevance_score": "0.1", "ticker_sentiment_score": "0.05", "ticker_sentiment_label": "Neutral"},
        {"ticker": "AAPL", "relevance_score": "0.9", "ticker_sentiment_score": "0.51", "ticker_sentiment_label": "Bullish"}
      ]
    },
    {
      "title": "",
      "summary": "headline missing, should be dropped",
      "source": "Newswire",
      "overall_sentiment_score": 0,
      "relevance_score": "0.99"
    },
    {
      "title": "Broad Market Wrap",
      "url": "https://example.com/b",
      "time_published": "20250114T220000",
      "summary": "Indexes closed mixed.",
      "source": "Wire",
      "overall_sentiment_score": -0.05,
      "overall_sentiment_label": "Neutral",
      "relevance_score": "0.88",
      "ticker_sentiment": []
    }
  ]
}`

func testQuery() domsvc.NewsQuery {
	return domsvc.NewsQuery{
		Symbol: "AAPL",
		From:   time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC),
		To:     time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		Topics: []string{"earnings", "financial_markets"},
		Limit:  50,
	}
}

func TestSearchNormalizesFeed(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{}
		for key := range r.URL.Query() {
			gotQuery[key] = r.URL.Query().Get(key)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(feedResponse))
	}))
	defer srv.Close()

	c := New("test-key", srv.URL, 5*time.Second, xlogger.Nop())
	articles, err := c.Search(context.Background(), testQuery())
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}

	if gotQuery["function"] != "NEWS_SENTIMENT" || gotQuery["tickers"] != "AAPL" {
		t.Fatalf("unexpected query params %v", gotQuery)
	}
	if gotQuery["time_from"] != "20250112T0000" || gotQuery["time_to"] != "20250115T2359" {
		t.Fatalf("unexpected window params %v", gotQuery)
	}
	if gotQuery["topics"] != "earnings,financial_markets" {
		t.Fatalf("unexpected topics %q", gotQuery["topics"])
	}
	if gotQuery["sort"] != "RELEVANCE" || gotQuery["limit"] != "50" || gotQuery["apikey"] != "test-key" {
		t.Fatalf("unexpected query params %v", gotQuery)
	}

	if len(articles) != 2 {
		t.Fatalf("expected 2 usable articles, got %d", len(articles))
	}
	// Higher relevance sorts first.
	if articles[0].Title != "Broad Market Wrap" || articles[0].Relevance != 0.88 {
		t.Fatalf("unexpected first article %+v", articles[0])
	}
	a := articles[1]
	if a.Title != "Apple Beats Q4 Expectations" || a.SentimentScore != 0.42 {
		t.Fatalf("unexpected article %+v", a)
	}
	if a.SymbolSentiment == nil || a.SymbolSentiment.Ticker != "AAPL" || a.SymbolSentiment.Label != "Bullish" {
		t.Fatalf("unexpected ticker sentiment %+v", a.SymbolSentiment)
	}
	if articles[0].SymbolSentiment != nil {
		t.Fatalf("expected no ticker match for %q", articles[0].Title)
	}
}

func TestSearchTierNotice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"Information": "Thank you for using Alpha Vantage! This endpoint requires a premium plan."}`))
	}))
	defer srv.Close()

	c := New("test-key", srv.URL, 5*time.Second, xlogger.Nop())
	articles, err := c.Search(context.Background(), testQuery())
	if err != nil {
		t.Fatalf("tier notice should not be an error, got %v", err)
	}
	if articles != nil {
		t.Fatalf("expected empty result, got %+v", articles)
	}
}

func TestSearchTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New("test-key", srv.URL, 5*time.Second, xlogger.Nop())
	if _, err := c.Search(context.Background(), testQuery()); err == nil {
		t.Fatalf("expected error on 500")
	}
}
