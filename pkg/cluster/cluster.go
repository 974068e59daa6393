// Package cluster implements the geo-proximity grouping of sales.
//
// The pass is greedy and seed-based: sales are visited in input order, each
// unprocessed sale opens a group anchored at its own coordinates, and every
// later unprocessed sale within the radius of that anchor joins the group.
// Membership is decided against the seed point only, never re-tested against
// the evolving group, so two members may be farther apart than the radius.
// Consumers depend on that grouping granularity; do not tighten it into
// transitive single-link clustering.
package cluster

import (
	"github.com/salescope/salescope/pkg/sale"
)

// DefaultRadiusKm is the grouping radius applied when a caller supplies
// none.
const DefaultRadiusKm = 1.0

// Group is one proximity group of sales. Latitude/Longitude start at the
// seed point and are recomputed to the member mean for multi-sale groups.
// Country, City, ProductsAll and TopProducts are filled by enrichment.
type Group struct {
	Latitude        float64          `json:"latitude"`
	Longitude       float64          `json:"longitude"`
	Country         *string          `json:"country"`
	City            *string          `json:"city"`
	Sales           []*sale.Enriched `json:"sales"`
	TotalSales      int              `json:"total_sales"`
	TotalAmount     float64          `json:"total_amount"`
	Tenants         map[string]int   `json:"tenants"`
	TenantCount     int              `json:"tenant_count"`
	ProductsSummary map[string]int   `json:"products_summary"`
	ProductsAll     []ProductCount   `json:"products_all"`
	TopProducts     []ProductCount   `json:"top_products"`
}

// ProductCount is one entry of a group's product ranking.
type ProductCount struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// Cluster partitions coordinate-valid sales into proximity groups under the
// given radius in kilometers. Sales are consumed in input order; groups are
// returned in seed order, statistics accumulated, centroids recomputed, but
// not yet geocoded, ranked or sorted (see pkg/enrich).
//
// The pass is O(n²) worst case: every pair is compared at most once, and
// processed sales are never re-scanned.
//
// A non-positive radius is accepted; only coincident points co-cluster then.
func Cluster(sales []*sale.Enriched, radiusKm float64) []*Group {
	if len(sales) == 0 {
		return []*Group{}
	}

	groups := make([]*Group, 0)
	processed := make([]bool, len(sales))

	for i, seed := range sales {
		if processed[i] {
			continue
		}
		g := newGroup(seed)
		processed[i] = true

		for j := i + 1; j < len(sales); j++ {
			if processed[j] {
				continue
			}
			other := sales[j]
			// Distance to the seed's original point, not the running mean.
			if DistanceKm(seed.Latitude, seed.Longitude, other.Latitude, other.Longitude) <= radiusKm {
				g.add(other)
				processed[j] = true
			}
		}

		if len(g.Sales) > 1 {
			g.recomputeCentroid()
		}
		g.TenantCount = len(g.Tenants)
		groups = append(groups, g)
	}

	return groups
}

func newGroup(seed *sale.Enriched) *Group {
	g := &Group{
		Latitude:        seed.Latitude,
		Longitude:       seed.Longitude,
		Sales:           []*sale.Enriched{seed},
		TotalSales:      1,
		Tenants:         map[string]int{seed.TenantID(): 1},
		ProductsSummary: make(map[string]int),
	}
	g.TotalAmount = seed.Amount()
	g.accumulateProducts(seed)
	return g
}

func (g *Group) add(s *sale.Enriched) {
	g.Sales = append(g.Sales, s)
	g.TotalSales++
	g.TotalAmount += s.Amount()
	g.Tenants[s.TenantID()]++
	g.accumulateProducts(s)
}

func (g *Group) accumulateProducts(s *sale.Enriched) {
	for _, p := range s.Products {
		g.ProductsSummary[p.SummaryName()] += p.Quantity
	}
}

// recomputeCentroid replaces the seed anchor with the arithmetic mean of all
// member coordinates.
func (g *Group) recomputeCentroid() {
	var sumLat, sumLon float64
	for _, s := range g.Sales {
		sumLat += s.Latitude
		sumLon += s.Longitude
	}
	n := float64(len(g.Sales))
	g.Latitude = sumLat / n
	g.Longitude = sumLon / n
}
