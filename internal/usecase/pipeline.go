package usecase

import (
	"context"
	"time"

	"StockSleuth/internal/domain/models"
	drepo "StockSleuth/internal/domain/repository"
	"StockSleuth/internal/services/research"
	xlogger "StockSleuth/pkg/logger"
)

// AgentName identifies the pipeline on outbound reports.
const AgentName = "agentic-news-research"

// ResearchPipeline runs the stages strictly in order: strategy,
// retrieval, causality, then follow-up when confidence is below the
// threshold. Each stage is individually fault-tolerant, so the pipeline
// only ever assembles completed, well-typed results; it performs no
// retries of its own.
type ResearchPipeline struct {
	strategy  *research.StrategyAgent
	retriever *research.EvidenceRetriever
	causality *research.CausalityAnalyzer
	followUp  *research.FollowUpAdvisor
	metrics   drepo.Metrics
	logger    *xlogger.Logger
	defaults  research.Defaults
	now       func() time.Time
}

func NewResearchPipeline(
	strategy *research.StrategyAgent,
	retriever *research.EvidenceRetriever,
	causality *research.CausalityAnalyzer,
	followUp *research.FollowUpAdvisor,
	metrics drepo.Metrics,
	logger *xlogger.Logger,
	defaults research.Defaults,
) *ResearchPipeline {
	return &ResearchPipeline{
		strategy:  strategy,
		retriever: retriever,
		causality: causality,
		followUp:  followUp,
		metrics:   metrics,
		logger:    logger,
		defaults:  defaults,
		now:       time.Now,
	}
}

// Run executes one research pass and assembles the final report. Runs
// are fully independent; nothing is shared across them.
func (p *ResearchPipeline) Run(ctx context.Context, req *models.ResearchRequest) *models.ResearchReport {
	start := p.now()
	movement := research.ComputeMovement(req.OHLC, p.defaults.ReferenceVolume)

	p.logger.Info("research run started",
		xlogger.String("symbol", req.Symbol),
		xlogger.String("date", req.Date),
		xlogger.String("significance", movement.Significance))

	strategy := p.strategy.Plan(ctx, req.Symbol, req.Date, req.OHLC, movement)
	articles := p.retriever.Retrieve(ctx, req.Symbol, req.Date, strategy, req.OHLC, movement)
	causality := p.causality.Analyze(ctx, req.Symbol, movement, strategy, articles)

	decisions := []string{"Research strategy determination", "Causality analysis"}

	// Follow-up triggers strictly below the threshold; exactly at it
	// does not.
	var followUp *models.FollowUpRequest
	if causality.OverallConfidence < p.defaults.ConfidenceThreshold {
		fu := p.followUp.Advise(ctx, movement, causality)
		followUp = &fu
		decisions = append(decisions, "Additional research request")
	}

	status := models.StatusNeedsMoreResearch
	if causality.OverallConfidence > p.defaults.ConfidenceThreshold {
		status = models.StatusHighConfidence
	}

	rawNews := articles
	if len(rawNews) > p.defaults.RawNewsLimit {
		rawNews = rawNews[:p.defaults.RawNewsLimit]
	}

	report := &models.ResearchReport{
		Agent:         AgentName,
		Symbol:        req.Symbol,
		Date:          req.Date,
		Movement:      movement,
		Strategy:      strategy,
		ArticlesFound: len(articles),
		Causality:     causality,
		FollowUp:      followUp,
		RawNews:       rawNews,
		Metadata: models.ReportMetadata{
			GeneratedAt:     p.now(),
			DecisionsMade:   decisions,
			ConfidenceScore: causality.OverallConfidence,
			Status:          status,
		},
	}

	if p.metrics != nil {
		p.metrics.RecordRun(status)
		p.metrics.RecordLatency("pipeline_run", p.now().Sub(start).Seconds())
	}
	p.logger.Info("research run completed",
		xlogger.String("symbol", req.Symbol),
		xlogger.Int("articles", len(articles)),
		xlogger.Int("confidence", causality.OverallConfidence),
		xlogger.String("status", status))

	return report
}
