// Package analytics orchestrates the sales analytics pipeline: fetch,
// per-sale preprocessing, proximity clustering, enrichment, and the
// aggregate KPI views.
package analytics

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/salescope/salescope/pkg/cluster"
	"github.com/salescope/salescope/pkg/config"
	"github.com/salescope/salescope/pkg/enrich"
	"github.com/salescope/salescope/pkg/metrics"
	"github.com/salescope/salescope/pkg/sale"
	"github.com/salescope/salescope/pkg/store"
	"github.com/salescope/salescope/pkg/tenant"
)

// Service wires the sale store, the global product catalog and the group
// enricher together. Safe for concurrent use.
type Service struct {
	store           store.SaleStore
	catalog         store.Catalog
	enricher        *enrich.Enricher
	maxClusterSales int

	mu            sync.Mutex
	productsCache map[string]string
}

// New creates the service. catalog and geocoder may be nil; the respective
// enrichment then degrades (nil product names, nil country/city).
// maxClusterSales bounds the O(n²) clustering input; 0 applies the default.
func New(st store.SaleStore, catalog store.Catalog, geocoder enrich.Geocoder, maxClusterSales int) *Service {
	if maxClusterSales <= 0 {
		maxClusterSales = config.DefaultMaxClusterSales
	}
	return &Service{
		store:           st,
		catalog:         catalog,
		enricher:        enrich.New(geocoder),
		maxClusterSales: maxClusterSales,
	}
}

// LocationGroups runs the full pipeline and returns enriched, ranked
// proximity groups. Empty input, or no coordinate-valid sales, yields an
// empty slice, not an error; only the upstream fetch can fail.
func (s *Service) LocationGroups(ctx context.Context, radiusKm float64, filter sale.Filter) ([]*cluster.Group, error) {
	records, err := s.store.FetchAll(ctx)
	if err != nil {
		return nil, err
	}

	prepared := sale.Prepare(records, s.globalProducts(ctx), filter)
	if len(prepared) > s.maxClusterSales {
		log.Printf("Clustering input truncated: %d coordinate-valid sales, ceiling %d", len(prepared), s.maxClusterSales)
		metrics.ClusterTruncatedTotal.Inc()
		prepared = prepared[:s.maxClusterSales]
	}
	metrics.ClusterInputSales.Observe(float64(len(prepared)))

	start := time.Now()
	groups := cluster.Cluster(prepared, radiusKm)
	metrics.ClusterDurationMs.Observe(float64(time.Since(start).Milliseconds()))

	s.enricher.Enrich(ctx, groups)
	return groups, nil
}

// TenantColors returns the deterministic legend mapping for every tenant
// with at least one coordinate-valid sale, plus the tenant count.
func (s *Service) TenantColors(ctx context.Context) (map[string]string, int, error) {
	records, err := s.store.FetchAll(ctx)
	if err != nil {
		return nil, 0, err
	}

	seen := make(map[string]struct{})
	var ids []string
	for _, rec := range records {
		if _, _, ok := rec.Coordinates(); !ok {
			continue
		}
		id := rec.TenantID()
		if _, dup := seen[id]; !dup {
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	return tenant.Colors(ids), len(ids), nil
}

// AllSales returns every sale across every tenant store.
func (s *Service) AllSales(ctx context.Context) ([]sale.Record, error) {
	return s.store.FetchAll(ctx)
}

// TenantSales returns one tenant's sales.
func (s *Service) TenantSales(ctx context.Context, tenantID string) ([]sale.Record, error) {
	return s.store.FetchTenant(ctx, tenantID)
}

// Ingest appends tenant-tagged records to the store.
func (s *Service) Ingest(ctx context.Context, tenantID string, records []sale.Record) error {
	return s.store.Append(ctx, tenantID, records)
}

// Ping verifies store connectivity.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// ProductInfo is one catalog entry of the /products/globals listing.
type ProductInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// GlobalProducts lists the catalog sorted by name, for frontend filters.
func (s *Service) GlobalProducts(ctx context.Context) []ProductInfo {
	products := s.globalProducts(ctx)
	list := make([]ProductInfo, 0, len(products))
	for id, name := range products {
		list = append(list, ProductInfo{ID: id, Name: name})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Name != list[j].Name {
			return list[i].Name < list[j].Name
		}
		return list[i].ID < list[j].ID
	})
	return list
}

// globalProducts returns the id -> name catalog, cached for the process
// lifetime after the first successful load. A catalog failure degrades to an
// empty map for this call and is retried on the next; product names then
// resolve to nil rather than failing the request.
func (s *Service) globalProducts(ctx context.Context) map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.productsCache != nil {
		return s.productsCache
	}
	if s.catalog == nil {
		return map[string]string{}
	}
	products, err := s.catalog.Products(ctx)
	if err != nil {
		log.Printf("Global product catalog unavailable: %v", err)
		return map[string]string{}
	}
	s.productsCache = products
	return products
}

// InvalidateProductCache drops the cached catalog so the next call reloads
// it. Called after catalog writes.
func (s *Service) InvalidateProductCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.productsCache = nil
}
