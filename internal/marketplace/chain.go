package marketplace

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/TeaDudePro/AOSNFTTMAtest/internal/metrics"
	"github.com/TeaDudePro/AOSNFTTMAtest/internal/models"
)

var errNoUsableData = errors.New("no usable data")

// tier is one data source of a fallback chain.
type tier[T any] struct {
	source models.Source
	fetch  func(ctx context.Context) (T, error)
}

// runChain tries tiers in order and returns the first result accepted by usable.
// A failed tier is tried exactly once. When every tier fails the returned error
// wraps ErrAllProvidersFailed together with each tier's error.
func runChain[T any](ctx context.Context, m *Marketplace, operation string, tiers []tier[T], usable func(T) bool) (T, models.Source, error) {
	var zero T
	errs := make([]error, 0, len(tiers))

	for _, t := range tiers {
		start := time.Now()
		v, err := t.fetch(ctx)
		elapsed := time.Since(start)

		switch {
		case err != nil:
			m.metrics.RecordProvider(string(t.source), metrics.OutcomeError, elapsed)
			m.logger.Warn("Provider failed", "operation", operation, "provider", t.source, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", t.source, err))
		case usable != nil && !usable(v):
			m.metrics.RecordProvider(string(t.source), metrics.OutcomeEmpty, elapsed)
			m.logger.Debug("Provider returned no usable data", "operation", operation, "provider", t.source)
			errs = append(errs, fmt.Errorf("%s: %w", t.source, errNoUsableData))
		default:
			m.metrics.RecordProvider(string(t.source), metrics.OutcomeSuccess, elapsed)
			m.metrics.RecordServed(operation, string(t.source))
			return v, t.source, nil
		}
	}

	return zero, models.SourceNone, fmt.Errorf("%w: %w", models.ErrAllProvidersFailed, errors.Join(errs...))
}
