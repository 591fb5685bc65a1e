package domain

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApparentTemperature(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		first := ApparentTemperature(30, 50)
		second := ApparentTemperature(30, 50)
		assert.Equal(t, first, second)
	})

	t.Run("zero humidity collapses to dry formula", func(t *testing.T) {
		// With e=0: AT = T - 0.07*T - 4.
		assert.Equal(t, 14.6, ApparentTemperature(20, 0))
	})

	t.Run("freezing point", func(t *testing.T) {
		// e = 0.5 * 6.105 at T=0, so AT = 0.33*3.0525 - 4 = -2.99.
		assert.Equal(t, -2.99, ApparentTemperature(0, 50))
	})

	t.Run("humidity raises apparent temperature", func(t *testing.T) {
		dry := ApparentTemperature(30, 20)
		humid := ApparentTemperature(30, 90)
		assert.Greater(t, humid, dry)
	})
}

func TestHeatIndexF_PassThrough(t *testing.T) {
	// Below 80 F or below 40 % RH the regression is out of domain and the
	// input temperature comes back unchanged.
	temps := []float64{-10, 79, 80, 100}
	humidities := []float64{0, 39, 40, 90}

	for _, tf := range temps {
		for _, rh := range humidities {
			got := HeatIndexF(tf, rh)
			if tf < 80 || rh < 40 {
				assert.Equal(t, tf, got, "T_F=%g RH=%g must pass through", tf, rh)
			} else {
				assert.NotEqual(t, tf, got, "T_F=%g RH=%g must be adjusted", tf, rh)
			}
		}
	}
}

func TestHeatIndexF_InDomain(t *testing.T) {
	// NWS chart: 90 F at 70 % RH is about 105 F.
	hi := HeatIndexF(90, 70)
	assert.InDelta(t, 105, hi, 2)
	assert.Greater(t, hi, 90.0)
}

func TestHeatIndexC(t *testing.T) {
	t.Run("pass-through round-trips through fahrenheit", func(t *testing.T) {
		// 25 C = 77 F, below threshold.
		assert.Equal(t, 25.0, HeatIndexC(25, 90))
	})

	t.Run("in-domain exceeds air temperature", func(t *testing.T) {
		// 32.22 C ~ 90 F.
		assert.Greater(t, HeatIndexC(32.5, 70), 32.5)
	})
}

func TestWetBulbTemperature(t *testing.T) {
	t.Run("below dry-bulb", func(t *testing.T) {
		assert.Less(t, WetBulbTemperature(30, 50, StandardPressureHPA), 30.0)
	})

	t.Run("never above dry-bulb in validity range", func(t *testing.T) {
		for _, tc := range []float64{0, 10, 25, 40, 50} {
			for _, rh := range []float64{5, 30, 60, 99} {
				twb := WetBulbTemperature(tc, rh, StandardPressureHPA)
				assert.LessOrEqual(t, twb, tc, "T=%g RH=%g", tc, rh)
			}
		}
	})

	t.Run("stull reference point", func(t *testing.T) {
		assert.InDelta(t, 22.3, WetBulbTemperature(30, 50, StandardPressureHPA), 0.1)
	})

	t.Run("pressure does not affect the result", func(t *testing.T) {
		assert.Equal(t,
			WetBulbTemperature(30, 50, StandardPressureHPA),
			WetBulbTemperature(30, 50, 950),
		)
	})
}

func TestUTCIApprox(t *testing.T) {
	tests := []struct {
		name     string
		temp     float64
		humidity float64
		wind     float64
		solar    float64
		expected float64
	}{
		{"all corrections active", 30, 60, 3, 100, 30.5},
		{"cool air ignores humidity and wind", 15, 80, 5, 0, 15},
		{"humidity only between 20 and 25", 22, 30, 5, 0, 20},
		{"solar applies unconditionally", 10, 50, 0, 200, 12},
		{"dry air subtracts below-50 humidity", 28, 30, 0, 0, 26},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := UTCIApprox(tt.temp, tt.humidity, tt.wind, tt.solar)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestUTCIApprox_OrderIndependent(t *testing.T) {
	// The corrections are additive; summing them manually must match.
	temp, rh, wind, solar := 30.0, 70.0, 4.0, 150.0
	want := temp + (rh-50)*0.1 - wind*0.5 + solar*0.01
	assert.Equal(t, round2(want), UTCIApprox(temp, rh, wind, solar))
}

func TestCelsiusFahrenheitConversion(t *testing.T) {
	assert.Equal(t, 32.0, CelsiusToFahrenheit(0))
	assert.Equal(t, 212.0, CelsiusToFahrenheit(100))
	assert.Equal(t, 0.0, FahrenheitToCelsius(32))
	assert.Equal(t, 100.0, FahrenheitToCelsius(212))
}

func TestComputeIndices(t *testing.T) {
	frozen := time.Date(2023, 7, 15, 12, 0, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(frozen))
	defer SetClock(nil)

	obs := Observation{
		Timestamp:         time.Date(2023, 7, 1, 14, 0, 0, 0, time.UTC),
		TemperatureC:      30,
		HumidityPercent:   50,
		WindSpeedMS:       2,
		SolarRadiationWM2: 0,
	}

	result := ComputeIndices(obs)

	require.Equal(t, obs.Timestamp, result.Timestamp)
	assert.Equal(t, 30.0, result.TemperatureC)
	assert.Equal(t, 50.0, result.HumidityPercent)
	assert.Equal(t, ApparentTemperature(30, 50), result.ApparentTemperatureC)
	assert.Equal(t, HeatIndexC(30, 50), result.HeatIndexC)
	assert.Equal(t, WetBulbTemperature(30, 50, StandardPressureHPA), result.WetBulbTemperatureC)
	assert.Equal(t, UTCIApprox(30, 50, 2, 0), result.UTCIApproxC)
	assert.Equal(t, frozen, result.ProcessedAt)
}
