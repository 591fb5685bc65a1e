package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Column aliases accepted when mapping a table record onto an Observation.
// Matching is case-insensitive; the first alias present wins.
var (
	timestampColumns    = []string{"timestamp", "date", "datetime"}
	temperatureColumns  = []string{"temperature_c", "temperature", "avg_temperature", "temp"}
	temperatureFColumns = []string{"temperature_f", "temp_f"}
	humidityColumns     = []string{"humidity_percent", "humidity", "rh"}
	windColumns         = []string{"wind_speed_ms", "wind_speed", "wind"}
	solarColumns        = []string{"solar_radiation_wm2", "solar_radiation", "solar"}
)

// timestampLayouts are tried in order. Parsed times keep whatever offset the
// input carries; no timezone conversion is performed.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Record error kinds, used as summary-count keys for skipped records.
const (
	RecordErrBadTimestamp   = "bad_timestamp"
	RecordErrBadTemperature = "bad_temperature"
	RecordErrBadHumidity    = "bad_humidity"
	RecordErrHumidityRange  = "humidity_out_of_range"
)

// RecordError reports why a single record failed validation. Records failing
// validation are skipped and counted, never fatal for the batch.
type RecordError struct {
	Kind   string
	Detail string
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("record validation (%s): %s", e.Kind, e.Detail)
}

// NormalizeOptions configures per-dataset normalization behavior.
type NormalizeOptions struct {
	// DecimalCommaColumns flags columns whose numbers use "," as the decimal
	// separator (e.g. "12,5"). Column names are matched case-insensitively.
	DecimalCommaColumns []string
}

func (o NormalizeOptions) isDecimalComma(col string) bool {
	for _, c := range o.DecimalCommaColumns {
		if strings.EqualFold(c, col) {
			return true
		}
	}
	return false
}

// NormalizeCell prepares a raw cell for numeric coercion: decimal commas
// become points when flagged, and the literal "nan" or an empty string maps
// to missing (ok=false). Returns the cleaned string otherwise.
func NormalizeCell(raw string, decimalComma bool) (string, bool) {
	s := strings.TrimSpace(raw)
	if decimalComma {
		s = strings.ReplaceAll(s, ",", ".")
	}
	if s == "" || strings.EqualFold(s, "nan") {
		return "", false
	}
	return s, true
}

// CoerceNumeric is the best-effort conversion applied to text columns: a
// convertible cell yields its value, anything else reports ok=false. It
// never fails hard.
func CoerceNumeric(raw string, decimalComma bool) (float64, bool) {
	s, ok := NormalizeCell(raw, decimalComma)
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseObservation maps one table record onto an Observation, applying the
// missing-field policy: humidity, wind, and solar default to 65 %, 2.0 m/s,
// and 0 W/m² with the substitution recorded on the Observation. A record
// whose timestamp, temperature, or humidity cannot be coerced yields a
// *RecordError.
func ParseObservation(rec Record, opts NormalizeOptions) (Observation, error) {
	var obs Observation

	tsRaw, ok := lookup(rec, timestampColumns)
	if !ok || strings.TrimSpace(tsRaw) == "" {
		return obs, &RecordError{Kind: RecordErrBadTimestamp, Detail: "missing timestamp"}
	}
	ts, err := ParseTimestamp(strings.TrimSpace(tsRaw))
	if err != nil {
		return obs, &RecordError{Kind: RecordErrBadTimestamp, Detail: tsRaw}
	}
	obs.Timestamp = ts

	temp, found, ok := coerceColumn(rec, temperatureColumns, opts)
	if !found {
		// Fahrenheit-labeled columns are accepted and converted exactly.
		if f, ffound, fok := coerceColumn(rec, temperatureFColumns, opts); ffound && fok {
			temp, found, ok = FahrenheitToCelsius(f), true, true
		}
	}
	if !found || !ok || math.IsNaN(temp) || math.IsInf(temp, 0) {
		return obs, &RecordError{Kind: RecordErrBadTemperature, Detail: "temperature missing or not numeric"}
	}
	obs.TemperatureC = temp

	switch hum, found, ok := coerceColumn(rec, humidityColumns, opts); {
	case !found:
		obs.HumidityPercent = DefaultHumidityPercent
		obs.Defaulted.Humidity = true
	case !ok:
		return obs, &RecordError{Kind: RecordErrBadHumidity, Detail: "humidity not numeric"}
	case hum < 0 || hum > 100:
		return obs, &RecordError{Kind: RecordErrHumidityRange, Detail: strconv.FormatFloat(hum, 'g', -1, 64)}
	default:
		obs.HumidityPercent = hum
	}

	// Wind and solar are best-effort: an unusable cell falls back to the
	// default, recorded the same as an absent column.
	if wind, found, ok := coerceColumn(rec, windColumns, opts); found && ok {
		obs.WindSpeedMS = wind
	} else {
		obs.WindSpeedMS = DefaultWindSpeedMS
		obs.Defaulted.Wind = true
	}
	if solar, found, ok := coerceColumn(rec, solarColumns, opts); found && ok {
		obs.SolarRadiationWM2 = solar
	} else {
		obs.SolarRadiationWM2 = DefaultSolarRadiationWM2
		obs.Defaulted.Solar = true
	}

	return obs, nil
}

// coerceColumn resolves the first present alias and coerces its cell.
// found reports whether any alias held a usable (non-missing) cell; ok
// reports whether that cell was numeric.
func coerceColumn(rec Record, aliases []string, opts NormalizeOptions) (v float64, found, ok bool) {
	for _, alias := range aliases {
		for col, raw := range rec {
			if !strings.EqualFold(col, alias) {
				continue
			}
			s, present := NormalizeCell(raw, opts.isDecimalComma(col))
			if !present {
				continue
			}
			f, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return 0, true, false
			}
			return f, true, true
		}
	}
	return 0, false, false
}

func lookup(rec Record, aliases []string) (string, bool) {
	for _, alias := range aliases {
		for col, raw := range rec {
			if strings.EqualFold(col, alias) {
				return raw, true
			}
		}
	}
	return "", false
}

// ParseTimestamp tries the accepted layouts in order. The parsed time keeps
// whatever offset the input carries.
func ParseTimestamp(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
