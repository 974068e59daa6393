package enrich

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/salescope/salescope/pkg/cluster"
)

// stubGeocoder counts calls and returns a fixed place or error.
type stubGeocoder struct {
	calls   int
	country string
	city    string
	err     error
}

func (s *stubGeocoder) ReverseGeocode(ctx context.Context, lat, lon float64) (Place, error) {
	s.calls++
	if s.err != nil {
		return Place{}, s.err
	}
	country, city := s.country, s.city
	return Place{Country: &country, City: &city}, nil
}

func TestEnrichResolvesPlace(t *testing.T) {
	geo := &stubGeocoder{country: "Ivory Coast", city: "Abidjan"}
	groups := []*cluster.Group{
		{Latitude: 5.35, Longitude: -4.02, TotalSales: 1, ProductsSummary: map[string]int{}},
	}

	New(geo).Enrich(context.Background(), groups)

	require.NotNil(t, groups[0].Country)
	require.Equal(t, "Ivory Coast", *groups[0].Country)
	require.NotNil(t, groups[0].City)
	require.Equal(t, "Abidjan", *groups[0].City)
}

func TestEnrichGeocodeFailureDegrades(t *testing.T) {
	geo := &stubGeocoder{err: errors.New("upstream down")}
	groups := []*cluster.Group{
		{TotalSales: 2, ProductsSummary: map[string]int{"Flag 65cl": 3}},
		{TotalSales: 1, ProductsSummary: map[string]int{}},
	}

	New(geo).Enrich(context.Background(), groups)

	// Both groups still enriched, country/city just nil.
	require.Nil(t, groups[0].Country)
	require.Nil(t, groups[0].City)
	require.Equal(t, 2, geo.calls, "failure on one group must not skip the rest")
	require.Len(t, groups[0].ProductsAll, 1)
}

func TestEnrichNilGeocoder(t *testing.T) {
	groups := []*cluster.Group{{TotalSales: 1, ProductsSummary: map[string]int{}}}
	New(nil).Enrich(context.Background(), groups)
	require.Nil(t, groups[0].Country)
	require.NotNil(t, groups[0].ProductsAll)
}

func TestRankProducts(t *testing.T) {
	g := &cluster.Group{ProductsSummary: map[string]int{
		"a": 1, "b": 7, "c": 3, "d": 7, "e": 2, "f": 5, "g": 4,
	}}
	rankProducts(g)

	require.Len(t, g.ProductsAll, 7)
	for i := 1; i < len(g.ProductsAll); i++ {
		require.GreaterOrEqual(t, g.ProductsAll[i-1].Quantity, g.ProductsAll[i].Quantity)
	}
	require.Len(t, g.TopProducts, 5)
	require.Equal(t, g.ProductsAll[:5], g.TopProducts)
}

func TestRankProductsEmpty(t *testing.T) {
	g := &cluster.Group{ProductsSummary: map[string]int{}}
	rankProducts(g)
	require.NotNil(t, g.ProductsAll)
	require.Empty(t, g.ProductsAll)
	require.Empty(t, g.TopProducts)
}

func TestEnrichSortsByTotalSales(t *testing.T) {
	groups := []*cluster.Group{
		{TotalSales: 1, ProductsSummary: map[string]int{}},
		{TotalSales: 5, ProductsSummary: map[string]int{}},
		{TotalSales: 3, ProductsSummary: map[string]int{}},
	}
	New(nil).Enrich(context.Background(), groups)
	require.Equal(t, []int{5, 3, 1}, []int{groups[0].TotalSales, groups[1].TotalSales, groups[2].TotalSales})
}

func TestCachedGeocoderDeduplicates(t *testing.T) {
	geo := &stubGeocoder{country: "France", city: "Paris"}
	cached := NewCachedGeocoder(geo)

	// Two coordinates quantizing to the same 3-decimal key.
	_, err := cached.ReverseGeocode(context.Background(), 48.85661, 2.35221)
	require.NoError(t, err)
	place, err := cached.ReverseGeocode(context.Background(), 48.85664, 2.35218)
	require.NoError(t, err)

	require.Equal(t, 1, geo.calls)
	require.Equal(t, 1, cached.Len())
	require.Equal(t, "Paris", *place.City)

	// A distinct key triggers a new upstream call.
	_, err = cached.ReverseGeocode(context.Background(), 5.35, -4.02)
	require.NoError(t, err)
	require.Equal(t, 2, geo.calls)
}

func TestCachedGeocoderDoesNotCacheFailures(t *testing.T) {
	geo := &stubGeocoder{err: errors.New("timeout")}
	cached := NewCachedGeocoder(geo)

	_, err := cached.ReverseGeocode(context.Background(), 1, 1)
	require.Error(t, err)
	require.Equal(t, 0, cached.Len())

	geo.err = nil
	geo.country = "Ghana"
	_, err = cached.ReverseGeocode(context.Background(), 1, 1)
	require.NoError(t, err)
	require.Equal(t, 2, geo.calls, "failed lookup retried on next pass")
}
