package api

import (
	"net/http"
	"time"

	"StockSleuth/internal/domain/models"
	"StockSleuth/internal/usecase"
	xhttp "StockSleuth/pkg/http"
	xlogger "StockSleuth/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ResearchEchoHandler exposes the research pipeline over HTTP.
type ResearchEchoHandler struct {
	logger   *xlogger.Logger
	pipeline *usecase.ResearchPipeline
	sink     *usecase.ReportSink
}

func NewResearchEchoHandler(logger *xlogger.Logger, pipeline *usecase.ResearchPipeline, sink *usecase.ReportSink) *ResearchEchoHandler {
	return &ResearchEchoHandler{logger: logger, pipeline: pipeline, sink: sink}
}

func (h *ResearchEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.POST("/agents/agentic-news-research", h.Research)
	e.GET("/health", h.Health)
}

// Research runs one pipeline pass and returns the assembled report. The
// pipeline is fault-tolerant throughout, so after request validation the
// only outcome is a complete report.
func (h *ResearchEchoHandler) Research(c echo.Context) error {
	start := time.Now()
	req := &models.ResearchRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	report := h.pipeline.Run(c.Request().Context(), req)

	if h.sink != nil {
		h.sink.Handle(c.Request().Context(), report)
	}

	h.logger.Info("research request served",
		xlogger.String("symbol", req.Symbol),
		xlogger.String("status", report.Metadata.Status),
		xlogger.Duration("duration", time.Since(start)))

	// The report is the response document itself, not wrapped in the
	// API envelope.
	return c.JSON(http.StatusOK, report)
}

func (h *ResearchEchoHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
