// Package source obtains raw observation tables from a prioritized list of
// candidates: a remote HTTP endpoint, a local CSV or XLSX file, and a
// deterministic synthetic generator. Each candidate is attempted at most
// once; resilience is expressed as additional candidates, not retries.
package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/heat-stress-etl/internal/domain"
)

// ErrSourceUnavailable signals that every candidate source failed. It is the
// only fatal error the resolver produces and is distinct from a successfully
// fetched dataset that happens to be empty.
var ErrSourceUnavailable = errors.New("all candidate sources failed")

// Source is one candidate dataset provider.
type Source interface {
	// Name identifies the candidate in logs and run summaries.
	Name() string

	// Fetch obtains the raw table. A failure (network error, missing file,
	// parse failure) makes the resolver move on to the next candidate.
	Fetch(ctx context.Context) (domain.RawTable, error)
}

// Resolver tries candidates in priority order and returns the first table
// fetched successfully.
type Resolver struct {
	candidates []Source
	logger     *slog.Logger
	onFailure  func(source string)
}

// NewResolver creates a Resolver over an ordered candidate list.
func NewResolver(logger *slog.Logger, candidates ...Source) *Resolver {
	return &Resolver{candidates: candidates, logger: logger}
}

// SetFailureHook registers a callback invoked once per failed candidate,
// used to feed the source failure counter.
func (r *Resolver) SetFailureHook(fn func(source string)) {
	r.onFailure = fn
}

// Resolve attempts each candidate once. A failing candidate is logged and
// skipped; when all fail, the combined failure is wrapped in
// ErrSourceUnavailable.
func (r *Resolver) Resolve(ctx context.Context) (domain.RawTable, error) {
	if len(r.candidates) == 0 {
		return domain.RawTable{}, fmt.Errorf("%w: no candidates configured", ErrSourceUnavailable)
	}

	var failures []error
	for _, candidate := range r.candidates {
		table, err := candidate.Fetch(ctx)
		if err != nil {
			r.logger.Warn("source candidate failed, trying next",
				"source", candidate.Name(),
				"error", err,
			)
			failures = append(failures, fmt.Errorf("%s: %w", candidate.Name(), err))
			if r.onFailure != nil {
				r.onFailure(candidate.Name())
			}
			continue
		}
		r.logger.Info("source resolved",
			"source", candidate.Name(),
			"rows", len(table.Rows),
		)
		return table, nil
	}

	return domain.RawTable{}, fmt.Errorf("%w: %w", ErrSourceUnavailable, errors.Join(failures...))
}
