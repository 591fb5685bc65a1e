// Package file writes pipeline output to local CSV and JSON files.
package file

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/couchcryptid/heat-stress-etl/internal/domain"
)

// resultColumns is the column order of the per-observation index CSV.
var resultColumns = []string{
	"date",
	"temperature_c",
	"humidity_percent",
	domain.IndexApparentTemperature,
	domain.IndexHeatIndex,
	domain.IndexWetBulbTemperature,
	domain.IndexUTCIApprox,
}

var bucketColumns = []string{"bucket", "granularity", "index", "mean", "sample_count"}

// Writer persists IndexResults and AggregateBuckets under a single output
// directory.
type Writer struct {
	dir         string
	granularity domain.Granularity
	logger      *slog.Logger
}

// NewWriter creates a Writer rooted at dir. The directory is created on
// first write.
func NewWriter(dir string, granularity domain.Granularity, logger *slog.Logger) *Writer {
	return &Writer{dir: dir, granularity: granularity, logger: logger}
}

// LoadResults writes the per-observation index CSV (heat_indices.csv).
func (w *Writer) LoadResults(_ context.Context, _ domain.RawTable, results []domain.IndexResult) error {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{
			r.Timestamp.Format(time.RFC3339),
			formatValue(r.TemperatureC),
			formatValue(r.HumidityPercent),
			formatValue(r.ApparentTemperatureC),
			formatValue(r.HeatIndexC),
			formatValue(r.WetBulbTemperatureC),
			formatValue(r.UTCIApproxC),
		})
	}

	path := filepath.Join(w.dir, "heat_indices.csv")
	if err := writeCSV(path, resultColumns, rows); err != nil {
		return fmt.Errorf("write index csv: %w", err)
	}
	w.logger.Info("results written", "path", path, "rows", len(rows))
	return nil
}

// LoadBuckets writes the aggregate buckets both as CSV and as a JSON
// document with a metadata header.
func (w *Writer) LoadBuckets(_ context.Context, table domain.RawTable, buckets []domain.AggregateBucket) error {
	base := "aggregates_" + string(w.granularity)

	csvPath := filepath.Join(w.dir, base+".csv")
	if err := WriteBuckets(csvPath, table, w.granularity, buckets); err != nil {
		return fmt.Errorf("write bucket csv: %w", err)
	}

	jsonPath := filepath.Join(w.dir, base+".json")
	if err := WriteBuckets(jsonPath, table, w.granularity, buckets); err != nil {
		return fmt.Errorf("write bucket json: %w", err)
	}

	w.logger.Info("buckets written", "csv", csvPath, "json", jsonPath, "buckets", len(buckets))
	return nil
}

// WriteBuckets writes buckets to path. A ".json" extension selects the JSON
// document shape; anything else gets the CSV shape.
func WriteBuckets(path string, table domain.RawTable, granularity domain.Granularity, buckets []domain.AggregateBucket) error {
	if filepath.Ext(path) == ".json" {
		return writeJSON(path, newBucketDocument(table, granularity, buckets))
	}

	rows := make([][]string, 0, len(buckets))
	for _, b := range buckets {
		rows = append(rows, []string{
			b.BucketKey,
			string(b.Granularity),
			b.Index,
			strconv.FormatFloat(b.Mean, 'g', -1, 64),
			strconv.Itoa(b.SampleCount),
		})
	}
	return writeCSV(path, bucketColumns, rows)
}

// WriteTableCSV writes a raw table verbatim as CSV, used for exporting the
// synthetic dataset.
func WriteTableCSV(path string, table domain.RawTable) error {
	return writeCSV(path, table.Columns, table.Rows)
}

// BucketDocument is the JSON export shape: a metadata header plus the
// bucket list.
type BucketDocument struct {
	Metadata BucketMetadata           `json:"metadata"`
	Buckets  []domain.AggregateBucket `json:"buckets"`
}

// BucketMetadata describes where the aggregates came from.
type BucketMetadata struct {
	Source      string             `json:"source"`
	Encoding    string             `json:"encoding,omitempty"`
	Granularity domain.Granularity `json:"granularity"`
	PeriodStart string             `json:"period_start,omitempty"`
	PeriodEnd   string             `json:"period_end,omitempty"`
	Units       map[string]string  `json:"units"`
	BucketCount int                `json:"bucket_count"`
}

func newBucketDocument(table domain.RawTable, granularity domain.Granularity, buckets []domain.AggregateBucket) BucketDocument {
	meta := BucketMetadata{
		Source:      table.Source,
		Encoding:    table.Encoding,
		Granularity: granularity,
		Units: map[string]string{
			domain.IndexApparentTemperature: "celsius",
			domain.IndexHeatIndex:           "celsius",
			domain.IndexWetBulbTemperature:  "celsius",
			domain.IndexUTCIApprox:          "celsius",
		},
		BucketCount: len(buckets),
	}
	if len(buckets) > 0 {
		// Buckets arrive sorted ascending by key.
		meta.PeriodStart = buckets[0].BucketKey
		meta.PeriodEnd = buckets[len(buckets)-1].BucketKey
	}
	if buckets == nil {
		buckets = []domain.AggregateBucket{}
	}
	return BucketDocument{Metadata: meta, Buckets: buckets}
}

func writeCSV(path string, header []string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(header); err != nil {
		return err
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

// formatValue renders index values without trailing zeros, matching the
// two-decimal rounding done upstream.
func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
