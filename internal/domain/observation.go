package domain

import "time"

// Default values substituted for missing optional observation fields.
const (
	DefaultHumidityPercent   = 65.0
	DefaultWindSpeedMS       = 2.0
	DefaultSolarRadiationWM2 = 0.0
)

// DefaultedFields records which optional fields were filled with defaults
// during normalization, so consumers can distinguish observed values from
// substituted ones.
type DefaultedFields struct {
	Humidity bool `json:"humidity,omitempty"`
	Wind     bool `json:"wind,omitempty"`
	Solar    bool `json:"solar,omitempty"`
}

// Observation is one normalized meteorological record. It is immutable once
// handed to the index calculator.
type Observation struct {
	Timestamp         time.Time       `json:"timestamp"`
	TemperatureC      float64         `json:"temperature_c"`
	HumidityPercent   float64         `json:"humidity_percent"`
	WindSpeedMS       float64         `json:"wind_speed_ms"`
	SolarRadiationWM2 float64         `json:"solar_radiation_wm2"`
	Defaulted         DefaultedFields `json:"defaulted,omitzero"`
}

// IndexResult holds the four heat-stress index values computed for one
// observation. All index fields are in Celsius, rounded to 2 decimals.
// Append-only: never mutated after creation.
type IndexResult struct {
	Timestamp            time.Time `json:"timestamp"`
	TemperatureC         float64   `json:"temperature_c"`
	HumidityPercent      float64   `json:"humidity_percent"`
	ApparentTemperatureC float64   `json:"apparent_temperature_c"`
	HeatIndexC           float64   `json:"heat_index_c"`
	WetBulbTemperatureC  float64   `json:"wet_bulb_temperature_c"`
	UTCIApproxC          float64   `json:"utci_approx_c"`
	ProcessedAt          time.Time `json:"processed_at"`
}

// RawTable is an undecoded-but-textual tabular dataset as produced by a
// source: a header row plus string cells. The normalizer turns its rows into
// Observations.
type RawTable struct {
	// Source names the candidate that produced the table, e.g. "remote",
	// "file:data/obs.csv", "synthetic".
	Source string

	// Encoding is the text encoding that decoded the input, when one was
	// involved ("utf-8", "latin-1", "cp1252"); empty for generated tables.
	Encoding string

	Columns []string
	Rows    [][]string
}

// Record is one table row keyed by column name.
type Record map[string]string

// Records zips the header with each row. Short rows leave trailing columns
// absent; extra cells beyond the header are dropped.
func (t RawTable) Records() []Record {
	recs := make([]Record, 0, len(t.Rows))
	for _, row := range t.Rows {
		rec := make(Record, len(t.Columns))
		for i, col := range t.Columns {
			if i < len(row) {
				rec[col] = row[i]
			}
		}
		recs = append(recs, rec)
	}
	return recs
}
