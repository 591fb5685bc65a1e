package domain

import "math"

// StandardPressureHPA is mean sea-level atmospheric pressure.
const StandardPressureHPA = 1013.25

// Index names used to tag aggregation samples and output columns.
const (
	IndexApparentTemperature = "apparent_temperature"
	IndexHeatIndex           = "heat_index"
	IndexWetBulbTemperature  = "wet_bulb_temperature"
	IndexUTCIApprox          = "utci_approximation"
)

// CelsiusToFahrenheit converts exactly: F = C*9/5 + 32.
func CelsiusToFahrenheit(c float64) float64 {
	return c*9/5 + 32
}

// FahrenheitToCelsius converts exactly: C = (F-32)*5/9.
func FahrenheitToCelsius(f float64) float64 {
	return (f - 32) * 5 / 9
}

// VaporPressure estimates water vapor pressure in hPa from temperature (C)
// and relative humidity (0-100) using the Magnus-style form the apparent
// temperature formula is built on.
func VaporPressure(tempC, humidityPercent float64) float64 {
	return (humidityPercent / 100.0) * 6.105 * math.Exp((17.27*tempC)/(237.7+tempC))
}

// ApparentTemperature computes the Steadman-derived "feels like" temperature
// in Celsius. Valid for any temperature with RH in [0,100].
func ApparentTemperature(tempC, humidityPercent float64) float64 {
	e := VaporPressure(tempC, humidityPercent)
	at := tempC + 0.33*e - 0.70*(tempC*0.1) - 4.0
	return round2(at)
}

// HeatIndexF computes the NWS heat index via the Rothfusz regression,
// operating entirely in Fahrenheit. Below 80 F or 40 % RH the regression is
// out of domain and the input temperature is returned unchanged; callers
// must not treat that pass-through as an error.
func HeatIndexF(tempF, humidityPercent float64) float64 {
	if tempF < 80 || humidityPercent < 40 {
		return tempF
	}

	t, rh := tempF, humidityPercent
	hi := -42.379 +
		2.04901523*t +
		10.14333127*rh -
		0.22475541*t*rh -
		6.83783e-3*t*t -
		5.481717e-2*rh*rh +
		1.22874e-3*t*t*rh +
		8.5282e-4*t*rh*rh -
		1.99e-6*t*t*rh*rh

	return round2(hi)
}

// HeatIndexC wraps HeatIndexF for Celsius inputs and outputs. The regression
// still runs in Fahrenheit internally; the pass-through below threshold
// therefore returns the input temperature (round-tripped through F).
func HeatIndexC(tempC, humidityPercent float64) float64 {
	hiF := HeatIndexF(CelsiusToFahrenheit(tempC), humidityPercent)
	return round2(FahrenheitToCelsius(hiF))
}

// WetBulbTemperature approximates the wet-bulb temperature in Celsius using
// Stull's 2011 closed form, accurate to about 1 C for RH in [5,99] % and
// temperature in [-20,50] C. pressureHPA feeds only the auxiliary
// vapor-pressure bookkeeping; the Stull expression itself does not use it.
func WetBulbTemperature(tempC, humidityPercent, pressureHPA float64) float64 {
	_ = pressureHPA

	rh := humidityPercent
	twb := tempC*math.Atan(0.151977*math.Sqrt(rh+8.313659)) +
		math.Atan(tempC+rh) -
		math.Atan(rh-1.676331) +
		0.00391838*math.Pow(rh, 1.5)*math.Atan(0.023101*rh) -
		4.686035

	return round2(twb)
}

// UTCIApprox computes a simplified proxy for the Universal Thermal Climate
// Index. It is not the Fiala-model UTCI: corrections are purely additive and
// order-independent. Humidity contributes only above 20 C, wind only above
// 25 C, solar radiation always.
func UTCIApprox(tempC, humidityPercent, windSpeedMS, solarRadiationWM2 float64) float64 {
	utci := tempC

	if tempC > 20 {
		utci += (humidityPercent - 50) * 0.1
	}
	if tempC > 25 {
		utci += -windSpeedMS * 0.5
	}
	utci += solarRadiationWM2 * 0.01

	return round2(utci)
}

// ComputeIndices evaluates all four indices for one observation.
func ComputeIndices(obs Observation) IndexResult {
	return IndexResult{
		Timestamp:            obs.Timestamp,
		TemperatureC:         round2(obs.TemperatureC),
		HumidityPercent:      obs.HumidityPercent,
		ApparentTemperatureC: ApparentTemperature(obs.TemperatureC, obs.HumidityPercent),
		HeatIndexC:           HeatIndexC(obs.TemperatureC, obs.HumidityPercent),
		WetBulbTemperatureC:  WetBulbTemperature(obs.TemperatureC, obs.HumidityPercent, StandardPressureHPA),
		UTCIApproxC:          UTCIApprox(obs.TemperatureC, obs.HumidityPercent, obs.WindSpeedMS, obs.SolarRadiationWM2),
		ProcessedAt:          clock.Now(),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
