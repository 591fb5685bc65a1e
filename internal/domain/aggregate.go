package domain

import (
	"sort"
	"time"
)

// Granularity selects the calendar window used to bucket a time series.
type Granularity string

const (
	GranularityHourly  Granularity = "hourly"
	GranularityDaily   Granularity = "daily"
	GranularityMonthly Granularity = "monthly"
	GranularityYearly  Granularity = "yearly"
)

// ParseGranularity maps a user-supplied string onto a Granularity. An
// unrecognized value falls back to daily with ok=false; callers keep the
// fallback (preserved compatibility quirk of the original command surface)
// and may warn.
func ParseGranularity(s string) (Granularity, bool) {
	switch Granularity(s) {
	case GranularityHourly, GranularityDaily, GranularityMonthly, GranularityYearly:
		return Granularity(s), true
	default:
		return GranularityDaily, false
	}
}

// BucketTime truncates a timestamp to the start of its calendar window in
// the timestamp's own location. No timezone conversion is performed.
func (g Granularity) BucketTime(t time.Time) time.Time {
	loc := t.Location()
	switch g {
	case GranularityHourly:
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, loc)
	case GranularityMonthly:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, loc)
	case GranularityYearly:
		return time.Date(t.Year(), 1, 1, 0, 0, 0, 0, loc)
	default: // daily, also the fallback for anything unrecognized
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	}
}

// BucketKey derives the canonical string identifier of a timestamp's bucket.
// Keys sort lexically in chronological order within one granularity.
func (g Granularity) BucketKey(t time.Time) string {
	bt := g.BucketTime(t)
	switch g {
	case GranularityHourly:
		return bt.Format("2006-01-02T15:00")
	case GranularityMonthly:
		return bt.Format("2006-01")
	case GranularityYearly:
		return bt.Format("2006")
	default:
		return bt.Format("2006-01-02")
	}
}

// Sample is one (timestamp, value, index name) triple fed to the aggregator.
type Sample struct {
	Timestamp time.Time
	Value     float64
	Index     string
}

// AggregateBucket is the mean of all samples sharing one bucket key and one
// index name. Buckets are discarded after the run; nothing is persisted.
type AggregateBucket struct {
	BucketKey   string      `json:"bucket_key"`
	Granularity Granularity `json:"granularity"`
	Index       string      `json:"index_name"`
	Mean        float64     `json:"mean_value"`
	SampleCount int         `json:"sample_count"`
}

// Aggregate groups samples by (bucket key, index name) at the given
// granularity and reduces each group to its arithmetic mean. Output is
// ordered ascending by bucket key, then index name. Empty input yields
// empty output.
func Aggregate(samples []Sample, g Granularity) []AggregateBucket {
	type group struct {
		sum   float64
		count int
	}
	type key struct {
		bucket string
		index  string
	}

	groups := make(map[key]*group)
	for _, s := range samples {
		k := key{bucket: g.BucketKey(s.Timestamp), index: s.Index}
		grp, ok := groups[k]
		if !ok {
			grp = &group{}
			groups[k] = grp
		}
		grp.sum += s.Value
		grp.count++
	}

	buckets := make([]AggregateBucket, 0, len(groups))
	for k, grp := range groups {
		buckets = append(buckets, AggregateBucket{
			BucketKey:   k.bucket,
			Granularity: g,
			Index:       k.index,
			Mean:        grp.sum / float64(grp.count),
			SampleCount: grp.count,
		})
	}

	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].BucketKey != buckets[j].BucketKey {
			return buckets[i].BucketKey < buckets[j].BucketKey
		}
		return buckets[i].Index < buckets[j].Index
	})
	return buckets
}

// SamplesFromResults expands index results into one sample per index value,
// ready for aggregation.
func SamplesFromResults(results []IndexResult) []Sample {
	samples := make([]Sample, 0, len(results)*4)
	for _, r := range results {
		samples = append(samples,
			Sample{Timestamp: r.Timestamp, Value: r.ApparentTemperatureC, Index: IndexApparentTemperature},
			Sample{Timestamp: r.Timestamp, Value: r.HeatIndexC, Index: IndexHeatIndex},
			Sample{Timestamp: r.Timestamp, Value: r.WetBulbTemperatureC, Index: IndexWetBulbTemperature},
			Sample{Timestamp: r.Timestamp, Value: r.UTCIApproxC, Index: IndexUTCIApprox},
		)
	}
	return samples
}
