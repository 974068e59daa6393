// Package memory provides an in-memory sale store and catalog. Data is lost
// on restart; useful for testing and development.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/salescope/salescope/pkg/sale"
)

// Store keeps sales per tenant in memory.
type Store struct {
	mu    sync.RWMutex
	sales map[string][]sale.Record
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{sales: make(map[string][]sale.Record)}
}

// FetchAll returns every tenant's sales, tagged, in sorted tenant order so
// results are stable across calls.
func (s *Store) FetchAll(ctx context.Context) ([]sale.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tenants := make([]string, 0, len(s.sales))
	for tenant := range s.sales {
		tenants = append(tenants, tenant)
	}
	sort.Strings(tenants)

	var all []sale.Record
	for _, tenant := range tenants {
		for _, rec := range s.sales[tenant] {
			all = append(all, tag(rec, tenant))
		}
	}
	return all, nil
}

// FetchTenant returns one tenant's sales, tagged.
func (s *Store) FetchTenant(ctx context.Context, tenant string) ([]sale.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]sale.Record, 0, len(s.sales[tenant]))
	for _, rec := range s.sales[tenant] {
		records = append(records, tag(rec, tenant))
	}
	return records, nil
}

// Tenants lists known tenants in sorted order.
func (s *Store) Tenants(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tenants := make([]string, 0, len(s.sales))
	for tenant := range s.sales {
		tenants = append(tenants, tenant)
	}
	sort.Strings(tenants)
	return tenants, nil
}

// Append stores records under the tenant.
func (s *Store) Append(ctx context.Context, tenant string, records []sale.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sales[tenant] = append(s.sales[tenant], records...)
	return nil
}

// Ping is a no-op for memory storage.
func (s *Store) Ping(ctx context.Context) error { return nil }

// Close is a no-op for memory storage.
func (s *Store) Close() error { return nil }

// tag returns a shallow copy of rec carrying the tenant id, so callers can
// annotate results without mutating stored records.
func tag(rec sale.Record, tenant string) sale.Record {
	tagged := make(sale.Record, len(rec)+1)
	for k, v := range rec {
		tagged[k] = v
	}
	tagged[sale.TenantKey] = tenant
	return tagged
}

// Catalog is a fixed in-memory product catalog.
type Catalog struct {
	mu       sync.RWMutex
	products map[string]string
}

// NewCatalog creates a catalog over the given id -> name mapping.
func NewCatalog(products map[string]string) *Catalog {
	if products == nil {
		products = make(map[string]string)
	}
	return &Catalog{products: products}
}

// Products returns a copy of the mapping.
func (c *Catalog) Products(ctx context.Context) (map[string]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]string, len(c.products))
	for id, name := range c.products {
		out[id] = name
	}
	return out, nil
}

// SetProduct adds or updates one catalog entry.
func (c *Catalog) SetProduct(id, name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.products[id] = name
}
