package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	fileadapter "github.com/couchcryptid/heat-stress-etl/internal/adapter/file"
	"github.com/couchcryptid/heat-stress-etl/internal/config"
	"github.com/couchcryptid/heat-stress-etl/internal/domain"
	"github.com/couchcryptid/heat-stress-etl/internal/observability"
	"github.com/couchcryptid/heat-stress-etl/internal/source"
)

// indexColumns maps the index CSV columns back to sample labels.
var indexColumns = []string{
	domain.IndexApparentTemperature,
	domain.IndexHeatIndex,
	domain.IndexWetBulbTemperature,
	domain.IndexUTCIApprox,
}

var aggregateCmd = &cobra.Command{
	Use:   "aggregate <input> <output> [granularity]",
	Short: "Re-aggregate an existing index file at a different granularity",
	Long:  "Reads a previously written per-observation index file (CSV or XLSX, with encoding fallback), groups the index values into hourly, daily, monthly, or yearly buckets, and writes the bucket means to the output path. A \".json\" output extension selects the JSON document shape; anything else gets CSV. An unrecognized granularity falls back to daily.",
	Args:  cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		granularity := "daily"
		if len(args) == 3 {
			granularity = args[2]
		}
		return runAggregate(cmd.Context(), args[0], args[1], granularity)
	},
}

func runAggregate(ctx context.Context, input, output, granularityArg string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)

	granularity, ok := domain.ParseGranularity(granularityArg)
	if !ok {
		logger.Warn("unknown granularity, falling back to daily", "granularity", granularityArg)
	}

	table, err := source.NewFile(input).Fetch(ctx)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	samples, skipped := samplesFromTable(table)
	if skipped > 0 {
		logger.Warn("rows without a parsable timestamp skipped", "skipped", skipped)
	}

	buckets := domain.Aggregate(samples, granularity)
	if err := fileadapter.WriteBuckets(output, table, granularity, buckets); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	logger.Info("aggregation written",
		"input", input,
		"output", output,
		"granularity", granularity,
		"samples", len(samples),
		"buckets", len(buckets),
	)
	return nil
}

// samplesFromTable extracts one sample per present index column per row.
// Unparsable cells are skipped silently; rows without a timestamp are
// counted.
func samplesFromTable(table domain.RawTable) ([]domain.Sample, int) {
	var samples []domain.Sample
	skipped := 0

	for _, rec := range table.Records() {
		raw, ok := timestampCell(rec)
		if !ok {
			skipped++
			continue
		}
		ts, err := domain.ParseTimestamp(strings.TrimSpace(raw))
		if err != nil {
			skipped++
			continue
		}

		for _, col := range indexColumns {
			if v, ok := domain.CoerceNumeric(rec[col], false); ok {
				samples = append(samples, domain.Sample{Timestamp: ts, Index: col, Value: v})
			}
		}
	}
	return samples, skipped
}

func timestampCell(rec domain.Record) (string, bool) {
	for _, col := range []string{"date", "timestamp", "datetime"} {
		if raw, ok := rec[col]; ok && strings.TrimSpace(raw) != "" {
			return raw, true
		}
	}
	return "", false
}
