package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	fileadapter "github.com/couchcryptid/heat-stress-etl/internal/adapter/file"
	httpadapter "github.com/couchcryptid/heat-stress-etl/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/heat-stress-etl/internal/adapter/kafka"
	"github.com/couchcryptid/heat-stress-etl/internal/config"
	"github.com/couchcryptid/heat-stress-etl/internal/domain"
	"github.com/couchcryptid/heat-stress-etl/internal/observability"
	"github.com/couchcryptid/heat-stress-etl/internal/pipeline"
	"github.com/couchcryptid/heat-stress-etl/internal/source"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute one full ingest-compute-aggregate run",
	Long:  "Resolves the first working source from the configured candidate chain (remote URL, local file, synthetic fallback), computes the indices for every valid observation, aggregates them at the configured granularity, and writes CSV/JSON output. When HTTP_ADDR is set, health and metrics endpoints stay up until the process is signalled.",
	Args:  cobra.NoArgs,
	RunE:  func(_ *cobra.Command, _ []string) error { return runPipeline() },
}

func runPipeline() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	var candidates []source.Source
	if cfg.SourceURL != "" {
		candidates = append(candidates, source.NewRemote(cfg.SourceURL, cfg.FetchTimeout))
	}
	if cfg.InputFile != "" {
		candidates = append(candidates, source.NewFile(cfg.InputFile))
	}
	candidates = append(candidates, source.NewSynthetic(cfg.SyntheticSeed))

	resolver := source.NewResolver(logger, candidates...)
	resolver.SetFailureHook(func(name string) {
		metrics.SourceFailures.WithLabelValues(name).Inc()
	})

	writer := fileadapter.NewWriter(cfg.OutputDir, cfg.Granularity, logger)

	// Kafka publishing is feature-flagged via KAFKA_BROKERS.
	var publisher pipeline.ResultPublisher
	var kafkaWriter *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		kafkaWriter = kafkaadapter.NewWriter(cfg, logger)
		publisher = kafkaWriter
		logger.Info("kafka result publishing enabled", "topic", cfg.KafkaSinkTopic)
	}

	normalize := domain.NormalizeOptions{DecimalCommaColumns: cfg.DecimalCommaColumns}
	p := pipeline.New(resolver, pipeline.NewTransformer(), writer, publisher,
		logger, metrics, cfg.Granularity, normalize)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var srv *httpadapter.Server
	if cfg.HTTPAddr != "" {
		srv = httpadapter.NewServer(cfg.HTTPAddr, p, logger)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("http server error", "error", err)
			}
		}()
	}

	summary, runErr := p.Run(ctx)
	if runErr == nil && srv != nil {
		srv.RecordRun(summary)
		// Keep the endpoints up until signalled so the run can be scraped.
		logger.Info("run finished, serving endpoints until signalled", "addr", cfg.HTTPAddr)
		<-ctx.Done()
	}

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http server shutdown error", "error", err)
		}
	}
	if kafkaWriter != nil {
		if err := kafkaWriter.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	if runErr != nil {
		logger.Error("run failed", "error", runErr)
		return runErr
	}
	return nil
}
