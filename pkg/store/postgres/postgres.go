// Package postgres provides a sale store and product catalog on PostgreSQL.
//
// Schema:
//
//	CREATE TABLE sales (
//	    id        BIGSERIAL PRIMARY KEY,
//	    tenant_id TEXT  NOT NULL,
//	    doc       JSONB NOT NULL
//	);
//	CREATE INDEX sales_tenant_idx ON sales (tenant_id);
//
//	CREATE TABLE global_products (
//	    id   TEXT PRIMARY KEY,
//	    name TEXT NOT NULL
//	);
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/salescope/salescope/pkg/sale"
)

// Store implements store.SaleStore and store.Catalog on PostgreSQL.
type Store struct {
	db *sql.DB
}

// New opens a connection pool against the DSN
// ("host=... port=... user=... password=... dbname=... sslmode=...").
func New(dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &Store{db: db}, nil
}

// FetchAll returns every sale, tagged with its tenant.
func (s *Store) FetchAll(ctx context.Context) ([]sale.Record, error) {
	return s.query(ctx, `SELECT tenant_id, doc FROM sales ORDER BY id`)
}

// FetchTenant returns one tenant's sales, tagged.
func (s *Store) FetchTenant(ctx context.Context, tenant string) ([]sale.Record, error) {
	return s.query(ctx, `SELECT tenant_id, doc FROM sales WHERE tenant_id = $1 ORDER BY id`, tenant)
}

func (s *Store) query(ctx context.Context, q string, args ...interface{}) ([]sale.Record, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sales: %w", err)
	}
	defer rows.Close()

	var records []sale.Record
	for rows.Next() {
		var tenant string
		var doc []byte
		if err := rows.Scan(&tenant, &doc); err != nil {
			return nil, fmt.Errorf("failed to scan sale: %w", err)
		}
		var rec sale.Record
		if err := json.Unmarshal(doc, &rec); err != nil {
			return nil, fmt.Errorf("corrupt sale document for tenant %s: %w", tenant, err)
		}
		rec[sale.TenantKey] = tenant
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return records, nil
}

// Tenants lists distinct tenants in sorted order.
func (s *Store) Tenants(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT tenant_id FROM sales ORDER BY tenant_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query tenants: %w", err)
	}
	defer rows.Close()

	var tenants []string
	for rows.Next() {
		var tenant string
		if err := rows.Scan(&tenant); err != nil {
			return nil, fmt.Errorf("failed to scan tenant: %w", err)
		}
		tenants = append(tenants, tenant)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return tenants, nil
}

// Append inserts records under the tenant in one transaction.
func (s *Store) Append(ctx context.Context, tenant string, records []sale.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO sales (tenant_id, doc) VALUES ($1, $2)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		doc, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("failed to encode sale record: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, tenant, doc); err != nil {
			return fmt.Errorf("failed to insert sale: %w", err)
		}
	}
	return tx.Commit()
}

// Products returns the global product catalog.
func (s *Store) Products(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM global_products`)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := make(map[string]string)
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products[id] = name
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return products, nil
}

// Ping verifies database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}
