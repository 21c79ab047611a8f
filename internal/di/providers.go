package di

import (
	"context"
	"fmt"
	"time"

	"StockSleuth/internal/domain/repository"
	domsvc "StockSleuth/internal/domain/service"
	"StockSleuth/internal/handler/api"
	internalrepo "StockSleuth/internal/repository"
	"StockSleuth/internal/service/alphavantage"
	"StockSleuth/internal/service/gemini"
	"StockSleuth/internal/services/research"
	"StockSleuth/internal/usecase"
	pkgch "StockSleuth/pkg/clickhouse"
	"StockSleuth/pkg/config"
	xhttp "StockSleuth/pkg/http"
	pkgkafka "StockSleuth/pkg/kafka"
	applogger "StockSleuth/pkg/logger"
	"StockSleuth/pkg/metrics"
	"StockSleuth/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	level := cfg.Logging.Level
	if level == "" {
		level = "info"
	}
	format := cfg.Logging.Format
	if format == "" {
		format = "console"
	}
	output := cfg.Logging.Output
	if output == "" {
		output = "stdout"
	}
	return applogger.New(&applogger.Config{Level: level, Format: format, Output: output})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideDefaults overlays configured research constants onto the
// standard fallback set.
func ProvideDefaults(cfg *config.Config) research.Defaults {
	d := research.NewDefaults()
	if cfg.Research.ReferenceVolume > 0 {
		d.ReferenceVolume = cfg.Research.ReferenceVolume
	}
	if cfg.Research.ConfidenceThreshold > 0 {
		d.ConfidenceThreshold = cfg.Research.ConfidenceThreshold
	}
	if cfg.Research.SyntheticSentiment > 0 {
		d.SyntheticSentiment = cfg.Research.SyntheticSentiment
	}
	if cfg.Research.TopArticles > 0 {
		d.TopArticles = cfg.Research.TopArticles
	}
	if cfg.Research.SearchLimit > 0 {
		d.SearchLimit = cfg.Research.SearchLimit
	}
	if cfg.Research.SummaryLimit > 0 {
		d.SummaryLimit = cfg.Research.SummaryLimit
	}
	if cfg.Research.RawNewsLimit > 0 {
		d.RawNewsLimit = cfg.Research.RawNewsLimit
	}
	return d
}

// ProvideReasoner creates the Gemini reasoning client.
func ProvideReasoner(cfg *config.Config, logger *applogger.Logger) (domsvc.Reasoner, error) {
	client, err := gemini.New(context.Background(), cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.Timeout, logger)
	if err != nil {
		return nil, fmt.Errorf("reasoner: %w", err)
	}
	return client, nil
}

// ProvideNewsSource creates the Alpha Vantage news client, or nil when no
// credentials are configured; retrieval then falls back to synthetic
// evidence.
func ProvideNewsSource(cfg *config.Config, logger *applogger.Logger) domsvc.NewsSource {
	if cfg.AlphaVantage.APIKey == "" {
		logger.Warn("no news credentials configured, evidence retrieval will use technical observations only")
		return nil
	}
	return alphavantage.New(cfg.AlphaVantage.APIKey, cfg.AlphaVantage.BaseURL, cfg.AlphaVantage.Timeout, logger)
}

// ProvideClickHouseClient creates a ClickHouse client when the report
// audit store is enabled.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if !cfg.ClickHouse.Enabled {
		return nil, nil
	}
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	// Initialize schema
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	table := reportTable(cfg)
	if err := client.InitSchema(ctx, []string{
		fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", cfg.ClickHouse.Database),
		fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (generated_at DateTime, symbol String, trade_date String, change_percent Float64, significance String, confidence Int32, status String, articles_found UInt32, report String) ENGINE=MergeTree ORDER BY (symbol, generated_at)", table),
	}); err != nil {
		_ = client.Close() // cannot log here (DI layer no logger); propagate error
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

func reportTable(cfg *config.Config) string {
	table := cfg.ClickHouse.Table
	if table == "" {
		table = "research_reports"
	}
	return cfg.ClickHouse.Database + "." + table
}

// ProvideReportStore creates the ClickHouse report store, or nil when
// disabled.
func ProvideReportStore(chClient *pkgch.Client, cfg *config.Config) repository.ReportStore {
	if chClient == nil {
		return nil
	}
	return internalrepo.NewClickHouseReportStore(chClient.DB(), reportTable(cfg))
}

// ProvideKafkaProducer creates a Kafka producer when report publishing is
// enabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideReportPublisher creates the Kafka report publisher, or nil when
// disabled.
func ProvideReportPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.ReportPublisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaReportPublisher(producer, cfg.Kafka.Topic)
}

// ProvideReportSink creates the report sink.
func ProvideReportSink(store repository.ReportStore, pub repository.ReportPublisher, m repository.Metrics, logger *applogger.Logger) *usecase.ReportSink {
	return usecase.NewReportSink(store, pub, m, logger)
}

// ProvidePipeline wires the four research stages into the coordinator.
func ProvidePipeline(
	reasoner domsvc.Reasoner,
	source domsvc.NewsSource,
	m repository.Metrics,
	logger *applogger.Logger,
	defaults research.Defaults,
) *usecase.ResearchPipeline {
	strategy := research.NewStrategyAgent(reasoner, m, logger, defaults)
	retriever := research.NewEvidenceRetriever(source, m, logger, defaults)
	causality := research.NewCausalityAnalyzer(reasoner, m, logger, defaults)
	followUp := research.NewFollowUpAdvisor(reasoner, m, logger, defaults)
	return usecase.NewResearchPipeline(strategy, retriever, causality, followUp, m, logger, defaults)
}

// ProvideHandler creates the HTTP handler.
func ProvideHandler(logger *applogger.Logger, pipeline *usecase.ResearchPipeline, sink *usecase.ReportSink) xhttp.Handler {
	return api.NewResearchEchoHandler(logger, pipeline, sink)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	logger *applogger.Logger,
	handler xhttp.Handler,
	sink *usecase.ReportSink,
	chClient *pkgch.Client,
) *server.App {
	return server.New(cfg, logger, handler, sink, chClient)
}
