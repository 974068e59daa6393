// Package badger provides a persistent sale store backed by BadgerDB.
package badger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"

	"github.com/salescope/salescope/pkg/sale"
)

// Key layout:
//
//	s/<tenant>/<hash>  JSON-encoded sale record
//	t/<tenant>         tenant marker, written on first append
//	p/<id>             global product display name
//
// <hash> is the xxhash of the record's JSON encoding, so re-ingesting the
// same export is idempotent. Tenant identifiers must not contain '/'.
const (
	salePrefix    = "s/"
	tenantPrefix  = "t/"
	productPrefix = "p/"
)

// Store implements store.SaleStore and store.Catalog on BadgerDB.
type Store struct {
	db *badger.DB
}

// Config holds BadgerDB configuration.
type Config struct {
	// Path to the database directory.
	Path string

	// InMemory mode, for testing.
	InMemory bool
}

// New opens (or creates) the store. Options are kept conservative: sale
// documents are small JSON values and the workload is read-mostly.
func New(cfg Config) (*Store, error) {
	opts := badger.DefaultOptions(cfg.Path)
	if cfg.InMemory {
		opts = opts.WithInMemory(true)
	}
	opts = opts.
		WithCompression(options.Snappy).
		WithNumVersionsToKeep(1).
		WithMemTableSize(16 << 20).
		WithNumMemtables(3).
		WithValueLogFileSize(64 << 20).
		WithNumCompactors(2).
		WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger: %w", err)
	}
	return &Store{db: db}, nil
}

// FetchAll returns every stored sale, tagged with its tenant.
func (s *Store) FetchAll(ctx context.Context) ([]sale.Record, error) {
	return s.scan(ctx, salePrefix)
}

// FetchTenant returns one tenant's sales, tagged.
func (s *Store) FetchTenant(ctx context.Context, tenant string) ([]sale.Record, error) {
	return s.scan(ctx, salePrefix+tenant+"/")
}

func (s *Store) scan(ctx context.Context, prefix string) ([]sale.Record, error) {
	var records []sale.Record
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		p := []byte(prefix)
		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			tenant, ok := tenantFromKey(it.Item().Key())
			if !ok {
				continue
			}
			err := it.Item().Value(func(val []byte) error {
				var rec sale.Record
				if err := json.Unmarshal(val, &rec); err != nil {
					return fmt.Errorf("corrupt sale record at %q: %w", it.Item().Key(), err)
				}
				rec[sale.TenantKey] = tenant
				records = append(records, rec)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Tenants lists tenants in key order.
func (s *Store) Tenants(ctx context.Context) ([]string, error) {
	var tenants []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		p := []byte(tenantPrefix)
		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			tenants = append(tenants, string(it.Item().Key()[len(tenantPrefix):]))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tenants, nil
}

// Append stores records under the tenant, deduplicated by content hash.
func (s *Store) Append(ctx context.Context, tenant string, records []sale.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(tenantPrefix+tenant), nil); err != nil {
			return err
		}
		for _, rec := range records {
			encoded, err := json.Marshal(rec)
			if err != nil {
				return fmt.Errorf("failed to encode sale record: %w", err)
			}
			key := fmt.Sprintf("%s%s/%016x", salePrefix, tenant, xxhash.Sum64(encoded))
			if err := txn.Set([]byte(key), encoded); err != nil {
				return fmt.Errorf("failed to write sale record: %w", err)
			}
		}
		return nil
	})
}

// Products returns the stored global product catalog.
func (s *Store) Products(ctx context.Context) (map[string]string, error) {
	products := make(map[string]string)
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		p := []byte(productPrefix)
		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			id := string(it.Item().Key()[len(productPrefix):])
			err := it.Item().Value(func(val []byte) error {
				products[id] = string(val)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return products, nil
}

// SetProducts upserts catalog entries.
func (s *Store) SetProducts(ctx context.Context, products map[string]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		for id, name := range products {
			if err := txn.Set([]byte(productPrefix+id), []byte(name)); err != nil {
				return err
			}
		}
		return nil
	})
}

// RunGC runs one value log GC pass with the given discard ratio. Badger
// returns ErrNoRewrite when nothing needed reclaiming; callers treat that
// as success.
func (s *Store) RunGC(discardRatio float64) error {
	return s.db.RunValueLogGC(discardRatio)
}

// Ping reports whether the database is open.
func (s *Store) Ping(ctx context.Context) error {
	if s.db.IsClosed() {
		return errors.New("badger store closed")
	}
	return nil
}

// Close flushes and closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// tenantFromKey extracts the tenant segment of a sale key.
func tenantFromKey(key []byte) (string, bool) {
	rest := key[len(salePrefix):]
	i := bytes.IndexByte(rest, '/')
	if i < 0 {
		return "", false
	}
	return string(rest[:i]), true
}
