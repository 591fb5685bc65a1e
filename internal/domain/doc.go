// Package domain models meteorological observations and the heat-stress
// indices derived from them.
//
// # Data Source
//
// Observations arrive as tabular records (CSV or spreadsheet exports) with a
// timestamp, a temperature, and optionally humidity, wind speed, and solar
// radiation. Upstream files come from a mix of public climate datasets, so
// the normalizer tolerates locale quirks (decimal commas, non-UTF-8 text
// encodings) and fills missing optional fields with documented defaults:
//
//	humidity_percent    65      (%)
//	wind_speed_ms       2.0     (m/s, light breeze)
//	solar_radiation_wm2 0       (W/m², no direct sun)
//
// A substitution is recorded on the Observation so downstream consumers can
// tell observed values from defaulted ones.
//
// # Index Formulas
//
// Four independent, stateless functions are computed per observation. Each
// comes from a different published approximation with its own unit system
// and validity domain; none is interchangeable with the canonical index of
// the same name.
//
// Apparent Temperature (Steadman-derived, Celsius):
//
//	e  = (RH/100) * 6.105 * exp(17.27*T / (237.7+T))
//	AT = T + 0.33*e - 0.70*(T*0.1) - 4.0
//
// Heat Index (Rothfusz regression, Fahrenheit-internal):
//
//	Evaluated only when T_F >= 80 and RH >= 40. Outside that domain the input
//	temperature is returned unchanged, a defined pass-through rather than an
//	error. Output is converted back to Celsius for IndexResult.
//
// Wet-Bulb Temperature (Stull 2011 closed form, Celsius):
//
//	Accurate to roughly 1 C for RH in [5,99] % and T in [-20,50] C. The
//	pressure parameter feeds only the auxiliary vapor-pressure estimate; the
//	Stull expression itself is pressure-free.
//
// UTCI approximation (NOT the physiological UTCI):
//
//	Starts from T, then adds (RH-50)*0.1 only if T > 20 C, -wind*0.5 only
//	if T > 25 C, and solar*0.01 unconditionally. Corrections are purely
//	additive and order-independent. The full UTCI needs mean radiant
//	temperature and a metabolic model; this is a labeled proxy.
//
// All per-observation index values are rounded to 2 decimals.
//
// # Aggregation
//
// Index values are grouped into calendar-aligned buckets (hourly, daily,
// monthly, yearly) keyed deterministically from the timestamp in its own
// time reference; no timezone conversion is performed. Each bucket reduces
// to an arithmetic mean plus a sample count, and output is ordered ascending
// by bucket key. An unrecognized granularity string falls back to daily, a
// compatibility quirk preserved from the original command surface.
package domain
