// Package pipeline orchestrates a single resolve-normalize-compute-aggregate
// run over one observation dataset.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/heat-stress-etl/internal/domain"
	"github.com/couchcryptid/heat-stress-etl/internal/observability"
)

// TableResolver produces the raw observation table from the first working
// source candidate.
type TableResolver interface {
	Resolve(ctx context.Context) (domain.RawTable, error)
}

// Transformer computes the heat-stress indices for one observation.
type Transformer interface {
	Transform(ctx context.Context, obs domain.Observation) (domain.IndexResult, error)
}

// Loader persists per-observation results and aggregate buckets.
type Loader interface {
	LoadResults(ctx context.Context, table domain.RawTable, results []domain.IndexResult) error
	LoadBuckets(ctx context.Context, table domain.RawTable, buckets []domain.AggregateBucket) error
}

// ResultPublisher pushes computed results to a downstream broker. A nil
// publisher disables publishing.
type ResultPublisher interface {
	PublishResults(ctx context.Context, results []domain.IndexResult) error
}

// RunSummary reports what one pipeline run did.
type RunSummary struct {
	Source   string
	RowsRead int
	Results  int
	Skipped  int
	Errors   map[string]int // record error kind -> count
	Buckets  int
	Duration time.Duration
}

// Pipeline wires the stages of one batch run together.
type Pipeline struct {
	resolver    TableResolver
	transformer Transformer
	loader      Loader
	publisher   ResultPublisher
	logger      *slog.Logger
	metrics     *observability.Metrics
	granularity domain.Granularity
	normalize   domain.NormalizeOptions
	ready       atomic.Bool
}

// New creates a Pipeline. publisher may be nil to disable result publishing.
func New(r TableResolver, t Transformer, l Loader, publisher ResultPublisher, logger *slog.Logger, metrics *observability.Metrics, granularity domain.Granularity, normalize domain.NormalizeOptions) *Pipeline {
	return &Pipeline{
		resolver:    r,
		transformer: t,
		loader:      l,
		publisher:   publisher,
		logger:      logger,
		metrics:     metrics,
		granularity: granularity,
		normalize:   normalize,
	}
}

// CheckReadiness returns nil once a run has produced at least one result,
// or an error describing why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("no completed run has produced results yet")
	}
	return nil
}

// Run executes one complete batch run. Only source resolution failures are
// fatal; malformed records are skipped and counted in the summary.
func (p *Pipeline) Run(ctx context.Context) (RunSummary, error) {
	start := time.Now()
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)
	defer func() {
		p.metrics.RunDuration.Observe(time.Since(start).Seconds())
	}()

	table, err := p.resolver.Resolve(ctx)
	if err != nil {
		return RunSummary{}, fmt.Errorf("resolve source: %w", err)
	}

	summary := RunSummary{
		Source: table.Source,
		Errors: make(map[string]int),
	}

	results, err := p.transformRecords(ctx, table, &summary)
	if err != nil {
		return summary, err
	}

	if err := p.loader.LoadResults(ctx, table, results); err != nil {
		return summary, fmt.Errorf("load results: %w", err)
	}

	buckets := domain.Aggregate(domain.SamplesFromResults(results), p.granularity)
	summary.Buckets = len(buckets)
	p.metrics.BucketsProduced.Add(float64(len(buckets)))

	if err := p.loader.LoadBuckets(ctx, table, buckets); err != nil {
		return summary, fmt.Errorf("load buckets: %w", err)
	}

	p.publish(ctx, results)

	if summary.Results > 0 {
		p.ready.Store(true)
	}

	summary.Duration = time.Since(start)
	p.logger.Info("run complete",
		"source", summary.Source,
		"rows_read", summary.RowsRead,
		"results", summary.Results,
		"skipped", summary.Skipped,
		"buckets", summary.Buckets,
		"duration", summary.Duration,
	)
	return summary, nil
}

func (p *Pipeline) transformRecords(ctx context.Context, table domain.RawTable, summary *RunSummary) ([]domain.IndexResult, error) {
	records := table.Records()
	summary.RowsRead = len(records)
	p.metrics.RecordsRead.Add(float64(len(records)))

	results := make([]domain.IndexResult, 0, len(records))
	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		obs, err := domain.ParseObservation(rec, p.normalize)
		if err != nil {
			p.skip(i, err, summary)
			continue
		}

		result, err := p.transformer.Transform(ctx, obs)
		if err != nil {
			p.skip(i, err, summary)
			continue
		}
		results = append(results, result)
	}

	summary.Results = len(results)
	p.metrics.ResultsProduced.Add(float64(len(results)))
	return results, nil
}

// skip records one rejected row, keyed by the record error kind when the
// failure carries one.
func (p *Pipeline) skip(row int, err error, summary *RunSummary) {
	kind := "other"
	var recErr *domain.RecordError
	if errors.As(err, &recErr) {
		kind = recErr.Kind
	}

	summary.Skipped++
	summary.Errors[kind]++
	p.metrics.RecordsSkipped.WithLabelValues(kind).Inc()
	p.logger.Warn("record skipped", "row", row, "reason", kind, "error", err)
}

// publish pushes results downstream. Publish failures are logged, never
// fatal: the files on disk remain the source of truth for a run.
func (p *Pipeline) publish(ctx context.Context, results []domain.IndexResult) {
	if p.publisher == nil || len(results) == 0 {
		return
	}
	if err := p.publisher.PublishResults(ctx, results); err != nil {
		p.logger.Warn("publish results failed", "error", err, "results", len(results))
	}
}
