package research

import "StockSleuth/internal/domain/models"

// Defaults carries the pipeline's fallback values and tuning constants.
// Every stage substitutes its entry here instead of failing; tests swap
// the whole set.
type Defaults struct {
	Strategy  models.ResearchStrategy
	Causality models.CausalityReport
	FollowUp  models.FollowUpRequest

	// ReferenceVolume is the baseline share volume a day's volume is
	// compared against to produce VolumeRatio.
	ReferenceVolume float64
	// ConfidenceThreshold gates the follow-up stage; strictly below
	// triggers, exactly at does not.
	ConfidenceThreshold int
	// SyntheticSentiment is the magnitude of the synthetic article's
	// sentiment score, signed to match the move direction.
	SyntheticSentiment float64

	TopArticles  int // articles scored by the causality stage
	SearchLimit  int // result cap passed to the evidence source
	SummaryLimit int // max summary characters rendered into prompts
	RawNewsLimit int // articles echoed back on the report
}

// NewDefaults returns the standard fallback set.
func NewDefaults() Defaults {
	return Defaults{
		Strategy: models.ResearchStrategy{
			Hypotheses:   []string{"Earnings news", "Product announcement", "Market sentiment shift"},
			Keywords:     []string{"earnings", "revenue", "announcement", "upgrade"},
			LookbackDays: 3,
			Confidence:   "medium",
			Reasoning:    "Using fallback strategy due to parsing error",
		},
		Causality: models.CausalityReport{
			Findings:            []models.CausalFinding{},
			OverallConfidence:   50,
			AlternativeTheories: []string{"Technical trading patterns", "General market movement"},
		},
		FollowUp: models.FollowUpRequest{
			NeedsMoreData: true,
			Queries:       []string{"SEC filings", "Analyst reports"},
			Reasoning:     "Low confidence requires additional data sources",
			Sources:       []string{"sec-filings", "analyst-reports"},
		},
		ReferenceVolume:     50_000_000,
		ConfidenceThreshold: 70,
		SyntheticSentiment:  0.6,
		TopArticles:         8,
		SearchLimit:         50,
		SummaryLimit:        250,
		RawNewsLimit:        5,
	}
}
