package file

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/couchcryptid/heat-stress-etl/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestLoadResults(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, domain.GranularityDaily, discardLogger())

	results := []domain.IndexResult{
		{
			Timestamp:            time.Date(2023, 7, 1, 12, 0, 0, 0, time.UTC),
			TemperatureC:         30,
			HumidityPercent:      60,
			ApparentTemperatureC: 31.25,
			HeatIndexC:           30,
			WetBulbTemperatureC:  23.5,
			UTCIApproxC:          29.5,
		},
	}

	require.NoError(t, w.LoadResults(context.Background(), domain.RawTable{}, results))

	rows := readCSV(t, filepath.Join(dir, "heat_indices.csv"))
	require.Len(t, rows, 2)
	assert.Equal(t, []string{
		"date", "temperature_c", "humidity_percent",
		"apparent_temperature", "heat_index",
		"wet_bulb_temperature", "utci_approximation",
	}, rows[0])
	assert.Equal(t, []string{
		"2023-07-01T12:00:00Z", "30", "60", "31.25", "30", "23.5", "29.5",
	}, rows[1])
}

func TestLoadResults_Empty(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, domain.GranularityDaily, discardLogger())

	require.NoError(t, w.LoadResults(context.Background(), domain.RawTable{}, nil))

	rows := readCSV(t, filepath.Join(dir, "heat_indices.csv"))
	require.Len(t, rows, 1, "header only")
}

func TestLoadBuckets(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, domain.GranularityMonthly, discardLogger())

	table := domain.RawTable{Source: "remote", Encoding: "latin-1"}
	buckets := []domain.AggregateBucket{
		{BucketKey: "2023-06", Granularity: domain.GranularityMonthly, Index: domain.IndexHeatIndex, Mean: 28.333333333333332, SampleCount: 30},
		{BucketKey: "2023-07", Granularity: domain.GranularityMonthly, Index: domain.IndexHeatIndex, Mean: 31.5, SampleCount: 31},
	}

	require.NoError(t, w.LoadBuckets(context.Background(), table, buckets))

	rows := readCSV(t, filepath.Join(dir, "aggregates_monthly.csv"))
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"bucket", "granularity", "index", "mean", "sample_count"}, rows[0])
	assert.Equal(t, []string{"2023-06", "monthly", "heat_index", "28.333333333333332", "30"}, rows[1])

	data, err := os.ReadFile(filepath.Join(dir, "aggregates_monthly.json"))
	require.NoError(t, err)

	var doc BucketDocument
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "remote", doc.Metadata.Source)
	assert.Equal(t, "latin-1", doc.Metadata.Encoding)
	assert.Equal(t, domain.GranularityMonthly, doc.Metadata.Granularity)
	assert.Equal(t, "2023-06", doc.Metadata.PeriodStart)
	assert.Equal(t, "2023-07", doc.Metadata.PeriodEnd)
	assert.Equal(t, 2, doc.Metadata.BucketCount)
	assert.Equal(t, "celsius", doc.Metadata.Units[domain.IndexUTCIApprox])
	require.Len(t, doc.Buckets, 2)
	assert.Equal(t, buckets, doc.Buckets)
}

func TestLoadBuckets_EmptyWritesEmptyDocument(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, domain.GranularityDaily, discardLogger())

	require.NoError(t, w.LoadBuckets(context.Background(), domain.RawTable{Source: "synthetic"}, nil))

	data, err := os.ReadFile(filepath.Join(dir, "aggregates_daily.json"))
	require.NoError(t, err)

	var doc BucketDocument
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Empty(t, doc.Buckets)
	assert.Empty(t, doc.Metadata.PeriodStart)
	assert.Equal(t, 0, doc.Metadata.BucketCount)
}

func TestWriterCreatesOutputDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	w := NewWriter(dir, domain.GranularityDaily, discardLogger())

	require.NoError(t, w.LoadResults(context.Background(), domain.RawTable{}, nil))

	_, err := os.Stat(filepath.Join(dir, "heat_indices.csv"))
	require.NoError(t, err)
}
