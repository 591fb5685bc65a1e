package kafka

import (
	"testing"
	"time"

	"github.com/couchcryptid/heat-stress-etl/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeToMessage(t *testing.T) {
	observed := time.Date(2023, 7, 1, 15, 0, 0, 0, time.UTC)
	processed := time.Date(2024, 4, 26, 15, 10, 0, 0, time.UTC)
	result := domain.IndexResult{
		Timestamp:            observed,
		TemperatureC:         34,
		HumidityPercent:      55,
		ApparentTemperatureC: 35.91,
		HeatIndexC:           36.72,
		WetBulbTemperatureC:  26.23,
		UTCIApproxC:          32,
		ProcessedAt:          processed,
	}

	msg, err := serializeToMessage(result)
	require.NoError(t, err)

	assert.Equal(t, []byte("2023-07-01T15:00:00Z"), msg.Key)
	assert.Contains(t, string(msg.Value), `"temperature_c":34`)
	assert.Contains(t, string(msg.Value), `"apparent_temperature_c":35.91`)
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "processed_at", msg.Headers[0].Key)
	assert.Equal(t, []byte(processed.Format(time.RFC3339)), msg.Headers[0].Value)
}
