package research

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"StockSleuth/internal/domain/models"
	drepo "StockSleuth/internal/domain/repository"
	domsvc "StockSleuth/internal/domain/service"
	xlogger "StockSleuth/pkg/logger"
)

// FollowUpAdvisor asks what additional evidence would help when causal
// confidence is low. The coordinator decides whether to invoke it; the
// advisor itself always returns a well-formed request.
type FollowUpAdvisor struct {
	reasoner domsvc.Reasoner
	metrics  drepo.Metrics
	logger   *xlogger.Logger
	defaults Defaults
}

func NewFollowUpAdvisor(reasoner domsvc.Reasoner, metrics drepo.Metrics, logger *xlogger.Logger, defaults Defaults) *FollowUpAdvisor {
	return &FollowUpAdvisor{reasoner: reasoner, metrics: metrics, logger: logger, defaults: defaults}
}

// Advise requests targeted queries and source categories for a second
// research round. Additional research is surfaced as a request only,
// never executed here.
func (a *FollowUpAdvisor) Advise(ctx context.Context, move models.PriceMovement, causality models.CausalityReport) models.FollowUpRequest {
	prompt := a.buildPrompt(move, causality)

	text, err := a.reasoner.GenerateText(ctx, prompt)
	if err != nil {
		return a.fallback("reasoner call failed", err)
	}

	var req models.FollowUpRequest
	if err := DecodeInto(text, &req); err != nil {
		return a.fallback("undecodable response", err)
	}
	if req.Reasoning == "" {
		return a.fallback("required fields missing", nil)
	}
	if req.Queries == nil {
		req.Queries = []string{}
	}
	if req.Sources == nil {
		req.Sources = []string{}
	}
	return req
}

func (a *FollowUpAdvisor) fallback(reason string, err error) models.FollowUpRequest {
	fields := []xlogger.Field{xlogger.String("stage", "followup"), xlogger.String("reason", reason)}
	if err != nil {
		fields = append(fields, xlogger.Error(err))
	}
	a.logger.Warn("substituting default follow-up request", fields...)
	if a.metrics != nil {
		a.metrics.RecordStageFallback("followup")
	}
	return a.defaults.FollowUp
}

func (a *FollowUpAdvisor) buildPrompt(move models.PriceMovement, causality models.CausalityReport) string {
	findings, err := json.MarshalIndent(causality, "", "  ")
	if err != nil {
		findings = []byte("{}")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Your confidence is only %d%% in explaining this %.2f%% movement.\n\n",
		causality.OverallConfidence, move.ChangePercent)
	fmt.Fprintf(&b, "Current findings: %s\n\n", findings)
	b.WriteString("You need to decide:\n")
	b.WriteString("1. Do you need more specific data sources?\n")
	b.WriteString("2. What exactly should we search for?\n")
	b.WriteString("3. Why do you think the current data is insufficient?\n\n")
	b.WriteString("Be specific about what additional information would help solve this mystery.\n\n")
	b.WriteString(`RESPOND ONLY with a valid JSON object in this format:
{
  "needsMoreData": true,
  "specificQueries": ["specific search query 1", "query 2"],
  "reasoning": "Explanation of why more data is needed",
  "searchSources": ["earnings", "analyst-reports"]
}`)
	return b.String()
}
