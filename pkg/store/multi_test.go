package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/salescope/salescope/pkg/sale"
)

// failingStore simulates an unreachable backend.
type failingStore struct{}

var errUnreachable = errors.New("store unreachable")

func (f *failingStore) FetchAll(ctx context.Context) ([]sale.Record, error) {
	return nil, errUnreachable
}
func (f *failingStore) FetchTenant(ctx context.Context, tenant string) ([]sale.Record, error) {
	return nil, errUnreachable
}
func (f *failingStore) Tenants(ctx context.Context) ([]string, error) { return nil, errUnreachable }
func (f *failingStore) Append(ctx context.Context, tenant string, records []sale.Record) error {
	return errUnreachable
}
func (f *failingStore) Ping(ctx context.Context) error { return errUnreachable }
func (f *failingStore) Close() error                   { return nil }

// stubStore serves fixed records.
type stubStore struct {
	records []sale.Record
	tenants []string
}

func (s *stubStore) FetchAll(ctx context.Context) ([]sale.Record, error) { return s.records, nil }
func (s *stubStore) FetchTenant(ctx context.Context, tenant string) ([]sale.Record, error) {
	var out []sale.Record
	for _, r := range s.records {
		if r.TenantID() == tenant {
			out = append(out, r)
		}
	}
	return out, nil
}
func (s *stubStore) Tenants(ctx context.Context) ([]string, error) { return s.tenants, nil }
func (s *stubStore) Append(ctx context.Context, tenant string, records []sale.Record) error {
	s.records = append(s.records, records...)
	return nil
}
func (s *stubStore) Ping(ctx context.Context) error { return nil }
func (s *stubStore) Close() error                   { return nil }

func TestMultiSkipsUnreachableStores(t *testing.T) {
	healthy := &stubStore{
		records: []sale.Record{{sale.TenantKey: "t1", "salesPrice": 10.0}},
		tenants: []string{"t1"},
	}
	m := NewMulti(&failingStore{}, healthy)

	all, err := m.FetchAll(context.Background())
	require.NoError(t, err, "a dead store is skipped, not fatal")
	require.Len(t, all, 1)

	tenants, err := m.Tenants(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"t1"}, tenants)

	require.NoError(t, m.Ping(context.Background()))
}

func TestMultiTenantUnion(t *testing.T) {
	a := &stubStore{tenants: []string{"t1", "t2"}}
	b := &stubStore{tenants: []string{"t2", "t3"}}
	m := NewMulti(a, b)

	tenants, err := m.Tenants(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"t1", "t2", "t3"}, tenants)
}

func TestMultiAppendGoesToPrimary(t *testing.T) {
	primary := &stubStore{}
	secondary := &stubStore{}
	m := NewMulti(primary, secondary)

	err := m.Append(context.Background(), "t1", []sale.Record{{"salesPrice": 5.0}})
	require.NoError(t, err)
	require.Len(t, primary.records, 1)
	require.Empty(t, secondary.records)
}

func TestMultiAllDead(t *testing.T) {
	m := NewMulti(&failingStore{})

	all, err := m.FetchAll(context.Background())
	require.NoError(t, err)
	require.Empty(t, all)

	require.Error(t, m.Ping(context.Background()))
}
