package pipeline

import (
	"context"

	"github.com/couchcryptid/heat-stress-etl/internal/domain"
)

// HeatTransformer implements Transformer using the domain index formulas.
type HeatTransformer struct{}

// NewTransformer creates a HeatTransformer.
func NewTransformer() *HeatTransformer {
	return &HeatTransformer{}
}

func (t *HeatTransformer) Transform(_ context.Context, obs domain.Observation) (domain.IndexResult, error) {
	return domain.ComputeIndices(obs), nil
}
