package domain

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGranularity(t *testing.T) {
	tests := []struct {
		input    string
		expected Granularity
		ok       bool
	}{
		{"hourly", GranularityHourly, true},
		{"daily", GranularityDaily, true},
		{"monthly", GranularityMonthly, true},
		{"yearly", GranularityYearly, true},
		{"weekly", GranularityDaily, false},
		{"", GranularityDaily, false},
		{"DAILY", GranularityDaily, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			g, ok := ParseGranularity(tt.input)
			assert.Equal(t, tt.expected, g)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestBucketKey(t *testing.T) {
	ts := time.Date(2023, 7, 14, 16, 42, 31, 0, time.UTC)

	tests := []struct {
		granularity Granularity
		expected    string
	}{
		{GranularityHourly, "2023-07-14T16:00"},
		{GranularityDaily, "2023-07-14"},
		{GranularityMonthly, "2023-07"},
		{GranularityYearly, "2023"},
	}

	for _, tt := range tests {
		t.Run(string(tt.granularity), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.granularity.BucketKey(ts))
		})
	}
}

func TestBucketTime_KeepsLocation(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*3600)
	ts := time.Date(2023, 7, 14, 0, 30, 0, 0, loc)

	// 00:30 local stays on the 14th; converting to UTC would move it to the 13th.
	bt := GranularityDaily.BucketTime(ts)
	assert.Equal(t, 14, bt.Day())
	assert.Equal(t, loc, bt.Location())
}

func TestAggregate_DailyExample(t *testing.T) {
	samples := []Sample{
		{Timestamp: time.Date(2023, 7, 1, 5, 0, 0, 0, time.UTC), Value: 30, Index: "utci"},
		{Timestamp: time.Date(2023, 7, 1, 15, 0, 0, 0, time.UTC), Value: 34, Index: "utci"},
	}

	buckets := Aggregate(samples, GranularityDaily)

	require.Len(t, buckets, 1)
	assert.Equal(t, "2023-07-01", buckets[0].BucketKey)
	assert.Equal(t, GranularityDaily, buckets[0].Granularity)
	assert.Equal(t, "utci", buckets[0].Index)
	assert.Equal(t, 32.0, buckets[0].Mean)
	assert.Equal(t, 2, buckets[0].SampleCount)
}

func TestAggregate_EmptyInput(t *testing.T) {
	buckets := Aggregate(nil, GranularityDaily)
	assert.Empty(t, buckets)
}

func TestAggregate_MonthlyAscending(t *testing.T) {
	var samples []Sample
	for m := time.January; m <= time.December; m++ {
		samples = append(samples, Sample{
			Timestamp: time.Date(2023, m, 15, 12, 0, 0, 0, time.UTC),
			Value:     float64(m),
			Index:     "heat_index",
		})
	}

	buckets := Aggregate(samples, GranularityMonthly)

	require.Len(t, buckets, 12)
	for i, b := range buckets {
		assert.Equal(t, time.Date(2023, time.Month(i+1), 1, 0, 0, 0, 0, time.UTC).Format("2006-01"), b.BucketKey)
		assert.Equal(t, 1, b.SampleCount)
		if i > 0 {
			assert.Greater(t, b.BucketKey, buckets[i-1].BucketKey)
		}
	}
}

func TestAggregate_SeparatesIndexNames(t *testing.T) {
	ts := time.Date(2023, 7, 1, 12, 0, 0, 0, time.UTC)
	samples := []Sample{
		{Timestamp: ts, Value: 30, Index: "heat_index"},
		{Timestamp: ts, Value: 20, Index: "wet_bulb_temperature"},
	}

	buckets := Aggregate(samples, GranularityDaily)

	require.Len(t, buckets, 2)
	assert.Equal(t, "heat_index", buckets[0].Index)
	assert.Equal(t, "wet_bulb_temperature", buckets[1].Index)
}

func TestAggregate_DailyIdempotent(t *testing.T) {
	samples := []Sample{
		{Timestamp: time.Date(2023, 7, 1, 5, 0, 0, 0, time.UTC), Value: 30, Index: "utci"},
		{Timestamp: time.Date(2023, 7, 1, 15, 0, 0, 0, time.UTC), Value: 34, Index: "utci"},
		{Timestamp: time.Date(2023, 7, 2, 9, 0, 0, 0, time.UTC), Value: 28, Index: "utci"},
	}

	first := Aggregate(samples, GranularityDaily)

	// Feed the daily buckets back in as day-stamped samples.
	resampled := make([]Sample, 0, len(first))
	for _, b := range first {
		ts, err := time.Parse("2006-01-02", b.BucketKey)
		require.NoError(t, err)
		resampled = append(resampled, Sample{Timestamp: ts, Value: b.Mean, Index: b.Index})
	}

	second := Aggregate(resampled, GranularityDaily)

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].BucketKey, second[i].BucketKey)
		assert.Equal(t, first[i].Mean, second[i].Mean)
	}
}

func TestSamplesFromResults(t *testing.T) {
	ts := time.Date(2023, 7, 1, 12, 0, 0, 0, time.UTC)
	results := []IndexResult{{
		Timestamp:            ts,
		ApparentTemperatureC: 31.5,
		HeatIndexC:           33.1,
		WetBulbTemperatureC:  22.3,
		UTCIApproxC:          30.5,
	}}

	samples := SamplesFromResults(results)

	expected := []Sample{
		{Timestamp: ts, Value: 31.5, Index: IndexApparentTemperature},
		{Timestamp: ts, Value: 33.1, Index: IndexHeatIndex},
		{Timestamp: ts, Value: 22.3, Index: IndexWetBulbTemperature},
		{Timestamp: ts, Value: 30.5, Index: IndexUTCIApprox},
	}
	assert.Empty(t, cmp.Diff(expected, samples))
}
