package store

import (
	"context"
	"errors"
	"log"

	"github.com/salescope/salescope/pkg/metrics"
	"github.com/salescope/salescope/pkg/sale"
)

// Multi fans reads in across several stores. An unreachable store is logged
// and skipped, never fatal: clustering over the reachable tenants beats no
// answer at all. Writes go to the first store, the primary.
type Multi struct {
	stores []SaleStore
}

// NewMulti combines the given stores. At least one is required.
func NewMulti(stores ...SaleStore) *Multi {
	return &Multi{stores: stores}
}

// FetchAll concatenates every reachable store's sales.
func (m *Multi) FetchAll(ctx context.Context) ([]sale.Record, error) {
	var all []sale.Record
	for _, s := range m.stores {
		records, err := s.FetchAll(ctx)
		if err != nil {
			metrics.StoreFetchErrorsTotal.Inc()
			log.Printf("store fetch failed, skipping: %v", err)
			continue
		}
		all = append(all, records...)
	}
	return all, nil
}

// FetchTenant returns the first store's non-empty answer for the tenant.
func (m *Multi) FetchTenant(ctx context.Context, tenant string) ([]sale.Record, error) {
	var lastErr error
	for _, s := range m.stores {
		records, err := s.FetchTenant(ctx, tenant)
		if err != nil {
			metrics.StoreFetchErrorsTotal.Inc()
			lastErr = err
			continue
		}
		if len(records) > 0 {
			return records, nil
		}
	}
	return nil, lastErr
}

// Tenants returns the union of every reachable store's tenants.
func (m *Multi) Tenants(ctx context.Context) ([]string, error) {
	seen := make(map[string]struct{})
	var tenants []string
	for _, s := range m.stores {
		ids, err := s.Tenants(ctx)
		if err != nil {
			metrics.StoreFetchErrorsTotal.Inc()
			log.Printf("store tenant listing failed, skipping: %v", err)
			continue
		}
		for _, id := range ids {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				tenants = append(tenants, id)
			}
		}
	}
	return tenants, nil
}

// Append writes to the primary store.
func (m *Multi) Append(ctx context.Context, tenant string, records []sale.Record) error {
	if len(m.stores) == 0 {
		return errors.New("no stores configured")
	}
	return m.stores[0].Append(ctx, tenant, records)
}

// Ping succeeds when any store is reachable.
func (m *Multi) Ping(ctx context.Context) error {
	var lastErr error
	for _, s := range m.stores {
		if err := s.Ping(ctx); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	if lastErr == nil {
		lastErr = errors.New("no stores configured")
	}
	return lastErr
}

// Close closes every store, returning the first error.
func (m *Multi) Close() error {
	var firstErr error
	for _, s := range m.stores {
		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
