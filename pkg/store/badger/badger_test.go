package badger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/salescope/salescope/pkg/sale"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(Config{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAppendAndFetch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, "bar-cocody", []sale.Record{
		{"salesPrice": 100.0, "latitude": 5.35, "longitude": -4.02},
		{"salesPrice": 200.0},
	}))
	require.NoError(t, s.Append(ctx, "bar-plateau", []sale.Record{
		{"salesPrice": 300.0},
	}))

	all, err := s.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	for _, rec := range all {
		require.NotEmpty(t, rec.TenantID())
	}

	one, err := s.FetchTenant(ctx, "bar-plateau")
	require.NoError(t, err)
	require.Len(t, one, 1)
	require.Equal(t, 300.0, one[0]["salesPrice"])

	tenants, err := s.Tenants(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"bar-cocody", "bar-plateau"}, tenants)
}

func TestAppendDeduplicatesByContent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rec := sale.Record{"salesPrice": 100.0, "ref": "INV-001"}
	require.NoError(t, s.Append(ctx, "t1", []sale.Record{rec}))
	require.NoError(t, s.Append(ctx, "t1", []sale.Record{rec}))

	all, err := s.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1, "re-ingesting the same record is idempotent")
}

func TestProductsCatalog(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	products, err := s.Products(ctx)
	require.NoError(t, err)
	require.Empty(t, products)

	require.NoError(t, s.SetProducts(ctx, map[string]string{
		"p1": "Flag 65cl",
		"p2": "Guinness 33cl",
	}))

	products, err = s.Products(ctx)
	require.NoError(t, err)
	require.Equal(t, map[string]string{"p1": "Flag 65cl", "p2": "Guinness 33cl"}, products)
}

func TestPing(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Ping(context.Background()))
	require.NoError(t, s.Close())
	require.Error(t, s.Ping(context.Background()))
}
