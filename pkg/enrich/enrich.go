package enrich

import (
	"context"
	"sort"

	"github.com/salescope/salescope/pkg/cluster"
)

// topProductsLimit bounds the top_products prefix of a group's ranking.
const topProductsLimit = 5

// Enricher finishes clustered groups for presentation.
type Enricher struct {
	geocoder Geocoder
}

// New creates an Enricher. geocoder may be nil, in which case country/city
// stay unresolved.
func New(geocoder Geocoder) *Enricher {
	return &Enricher{geocoder: geocoder}
}

// Enrich resolves country/city for each group's representative point, ranks
// each group's products, and sorts the group list by total sales descending
// (stable, so equal-sized groups keep seed order). Geocoding failures leave
// the group's country/city nil and never abort the pass.
func (e *Enricher) Enrich(ctx context.Context, groups []*cluster.Group) {
	for _, g := range groups {
		if e.geocoder != nil {
			if place, err := e.geocoder.ReverseGeocode(ctx, g.Latitude, g.Longitude); err == nil {
				g.Country = place.Country
				g.City = place.City
			}
		}
		rankProducts(g)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].TotalSales > groups[j].TotalSales
	})
}

// rankProducts builds products_all (net quantity descending, name ascending
// on ties to keep output deterministic) and its top_products prefix.
func rankProducts(g *cluster.Group) {
	g.ProductsAll = make([]cluster.ProductCount, 0, len(g.ProductsSummary))
	for name, qty := range g.ProductsSummary {
		g.ProductsAll = append(g.ProductsAll, cluster.ProductCount{Name: name, Quantity: qty})
	}
	sort.Slice(g.ProductsAll, func(i, j int) bool {
		if g.ProductsAll[i].Quantity != g.ProductsAll[j].Quantity {
			return g.ProductsAll[i].Quantity > g.ProductsAll[j].Quantity
		}
		return g.ProductsAll[i].Name < g.ProductsAll[j].Name
	})

	g.TopProducts = g.ProductsAll
	if len(g.TopProducts) > topProductsLimit {
		g.TopProducts = g.TopProducts[:topProductsLimit]
	}
}
