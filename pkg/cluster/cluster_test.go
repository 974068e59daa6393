package cluster

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/salescope/salescope/pkg/sale"
)

func saleAt(tenant string, lat, lon float64, fields sale.Record) *sale.Enriched {
	rec := sale.Record{sale.TenantKey: tenant, "latitude": lat, "longitude": lon}
	for k, v := range fields {
		rec[k] = v
	}
	return &sale.Enriched{Record: rec, Latitude: lat, Longitude: lon}
}

func TestDistanceKm(t *testing.T) {
	// One degree of longitude along the equator is ~111.32 km on WGS-84.
	d := DistanceKm(0, 0, 0, 1)
	require.InDelta(t, 111.319, d, 0.01)

	require.Equal(t, 0.0, DistanceKm(5.35, -4.02, 5.35, -4.02))
}

func TestSeedRelativeMembership(t *testing.T) {
	// A=(0,0), B ~0.56 km east, C ~1.22 km east. C is within 1 km of B but
	// not of A; membership is decided against the seed only, so C opens its
	// own group.
	a := saleAt("t1", 0, 0, nil)
	b := saleAt("t1", 0, 0.005, nil)
	c := saleAt("t1", 0, 0.011, nil)

	groups := Cluster([]*sale.Enriched{a, b, c}, 1.0)
	require.Len(t, groups, 2)
	require.Equal(t, 2, groups[0].TotalSales)
	require.Equal(t, 1, groups[1].TotalSales)
	require.Same(t, c, groups[1].Sales[0])
}

func TestCentroidRecomputed(t *testing.T) {
	a := saleAt("t1", 10.0, 20.0, nil)
	b := saleAt("t2", 10.002, 20.004, nil)

	groups := Cluster([]*sale.Enriched{a, b}, 1.0)
	require.Len(t, groups, 1)
	require.InDelta(t, 10.001, groups[0].Latitude, 1e-9)
	require.InDelta(t, 20.002, groups[0].Longitude, 1e-9)
}

func TestSingleMemberKeepsSeedPoint(t *testing.T) {
	a := saleAt("t1", 10.0, 20.0, nil)
	groups := Cluster([]*sale.Enriched{a}, 1.0)
	require.Len(t, groups, 1)
	require.Equal(t, 10.0, groups[0].Latitude)
	require.Equal(t, 20.0, groups[0].Longitude)
}

func TestAmountAndTenantAggregation(t *testing.T) {
	a := saleAt("maquis-a", 0, 0, sale.Record{"salesPrice": 1000.0})
	b := saleAt("maquis-b", 0, 0.001, sale.Record{"amount": 500.0})
	c := saleAt("maquis-a", 0, 0.002, sale.Record{"total": "250"})

	groups := Cluster([]*sale.Enriched{a, b, c}, 1.0)
	require.Len(t, groups, 1)
	g := groups[0]
	require.Equal(t, 3, g.TotalSales)
	require.Equal(t, 1750.0, g.TotalAmount)
	require.Equal(t, map[string]int{"maquis-a": 2, "maquis-b": 1}, g.Tenants)
	require.Equal(t, 2, g.TenantCount)
	require.Equal(t, g.TotalSales, len(g.Sales))
}

func TestProductSummaryAggregation(t *testing.T) {
	name := "Flag 65cl"
	id := "p9"
	a := saleAt("t1", 0, 0, nil)
	a.Products = []sale.ProductEntry{
		{GlobalProductName: &name, Quantity: 3},
		{GlobalProductID: &id, Quantity: 2},
	}
	b := saleAt("t1", 0, 0.001, nil)
	b.Products = []sale.ProductEntry{
		{GlobalProductName: &name, Quantity: 4},
		{Quantity: 1}, // neither id nor name
	}

	groups := Cluster([]*sale.Enriched{a, b}, 1.0)
	require.Len(t, groups, 1)
	require.Equal(t, map[string]int{
		"Flag 65cl":         7,
		"p9":                2,
		sale.UnknownProduct: 1,
	}, groups[0].ProductsSummary)
}

func TestGroupsEmittedInSeedOrder(t *testing.T) {
	a := saleAt("t1", 0, 0, nil)
	b := saleAt("t2", 40, 40, nil)
	c := saleAt("t3", -30, 10, nil)

	groups := Cluster([]*sale.Enriched{a, b, c}, 1.0)
	require.Len(t, groups, 3)
	require.Same(t, a, groups[0].Sales[0])
	require.Same(t, b, groups[1].Sales[0])
	require.Same(t, c, groups[2].Sales[0])
}

func TestZeroRadius(t *testing.T) {
	a := saleAt("t1", 5.0, 5.0, nil)
	b := saleAt("t2", 5.0, 5.0, nil) // coincident
	c := saleAt("t3", 5.0, 5.0001, nil)

	groups := Cluster([]*sale.Enriched{a, b, c}, 0)
	require.Len(t, groups, 2)
	require.Equal(t, 2, groups[0].TotalSales, "coincident points still co-cluster at radius 0")
}

func TestEmptyInput(t *testing.T) {
	groups := Cluster(nil, 1.0)
	require.NotNil(t, groups)
	require.Empty(t, groups)
}
