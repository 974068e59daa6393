// Package store provides the multi-tenant sale store abstraction.
//
// Implementations: memory (testing/development), badger (embedded
// persistent), postgres (shared SQL). The fetch layer tags every record with
// its originating tenant before it reaches the analytics core; the core
// never re-queries a store mid-computation.
package store

import (
	"context"

	"github.com/salescope/salescope/pkg/sale"
)

// SaleStore is the per-deployment sale record backend.
type SaleStore interface {
	// FetchAll returns every sale across every tenant, each tagged with its
	// tenant_id.
	FetchAll(ctx context.Context) ([]sale.Record, error)

	// FetchTenant returns one tenant's sales, tagged.
	FetchTenant(ctx context.Context, tenant string) ([]sale.Record, error)

	// Tenants lists the known tenant identifiers.
	Tenants(ctx context.Context) ([]string, error)

	// Append stores records under the given tenant.
	Append(ctx context.Context, tenant string, records []sale.Record) error

	// Ping verifies backend connectivity.
	Ping(ctx context.Context) error

	// Close cleanly shuts down the backend.
	Close() error
}

// Catalog is the global product lookup: id -> display name. An empty map is
// the legal "no catalog available" state, not an error.
type Catalog interface {
	Products(ctx context.Context) (map[string]string, error)
}
