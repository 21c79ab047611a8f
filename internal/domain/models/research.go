package models

import "time"

// PriceMovement describes a single day's move, computed once at pipeline entry.
type PriceMovement struct {
	ChangePercent float64 `json:"changePercent"`
	VolumeRatio   float64 `json:"volumeRatio"`
	Significance  string  `json:"significance"` // "minor" | "moderate" | "major"
}

const (
	SignificanceMinor    = "minor"
	SignificanceModerate = "moderate"
	SignificanceMajor    = "major"
)

// ResearchStrategy is the search plan produced by the strategy stage.
// JSON keys match the reasoning-service contract so one shape serves
// both decoding and the outbound report.
type ResearchStrategy struct {
	Hypotheses   []string `json:"researchHypotheses"`
	Keywords     []string `json:"searchKeywords"`
	LookbackDays int      `json:"timeframeDays"`
	Confidence   string   `json:"confidenceLevel"` // "high" | "medium" | "low"
	Reasoning    string   `json:"reasoning"`
}

// SymbolSentiment is the evidence source's per-ticker sentiment for one article.
type SymbolSentiment struct {
	Ticker string `json:"ticker"`
	Label  string `json:"ticker_sentiment_label"`
	Score  string `json:"ticker_sentiment_score"`
}

// Article is the canonical evidence unit, ordered descending by Relevance.
type Article struct {
	Title           string           `json:"title"`
	Summary         string           `json:"summary"`
	Source          string           `json:"source"`
	PublishedAt     string           `json:"publishedAt"`
	Sentiment       string           `json:"sentiment"`
	SentimentScore  float64          `json:"sentimentScore"`
	URL             string           `json:"url,omitempty"`
	Relevance       float64          `json:"relevanceScore"`
	SymbolSentiment *SymbolSentiment `json:"tickerSentiment"`
}

// CausalFinding scores one article's plausibility as the cause of the move.
type CausalFinding struct {
	ArticleTitle    string `json:"articleTitle"`
	CausalityScore  int    `json:"causalityScore"` // 0..100
	Reasoning       string `json:"reasoning"`
	TimelineMatch   string `json:"timelineMatch"`         // "perfect" | "good" | "poor"
	ImpactPotential string `json:"marketImpactPotential"` // "market-moving" | "moderate" | "minimal"
}

// CausalityReport aggregates findings over the top-ranked articles.
type CausalityReport struct {
	Findings            []CausalFinding `json:"causalAnalysis"`
	OverallConfidence   int             `json:"overallConfidence"` // 0..100
	AlternativeTheories []string        `json:"alternativeTheories"`
}

// FollowUpRequest asks for additional evidence; emitted only when
// overall confidence falls below the configured threshold.
type FollowUpRequest struct {
	NeedsMoreData bool     `json:"needsMoreData"`
	Queries       []string `json:"specificQueries"`
	Reasoning     string   `json:"reasoning"`
	Sources       []string `json:"searchSources"` // "earnings" | "sec-filings" | "analyst-reports" | "social-sentiment" | "economic-data"
}

const (
	StatusHighConfidence    = "high-confidence"
	StatusNeedsMoreResearch = "needs-more-research"
)

// ReportMetadata records which stages ran and the final status label.
type ReportMetadata struct {
	GeneratedAt     time.Time `json:"timestamp"`
	DecisionsMade   []string  `json:"aiDecisionsMade"`
	ConfidenceScore int       `json:"confidenceScore"`
	Status          string    `json:"status"` // "high-confidence" | "needs-more-research"
}

// ResearchReport is the final output of one pipeline run. Constructed
// once, never mutated; FollowUp is genuinely absent above the threshold.
type ResearchReport struct {
	Agent         string           `json:"agent"`
	Symbol        string           `json:"symbol"`
	Date          string           `json:"date"`
	Movement      PriceMovement    `json:"priceMovement"`
	Strategy      ResearchStrategy `json:"aiResearchStrategy"`
	ArticlesFound int              `json:"newsArticlesFound"`
	Causality     CausalityReport  `json:"aiCausalityAnalysis"`
	FollowUp      *FollowUpRequest `json:"aiAdditionalResearchRequest,omitempty"`
	RawNews       []Article        `json:"rawNewsData"`
	Metadata      ReportMetadata   `json:"metadata"`
}
