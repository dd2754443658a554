package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// uniqueViolation is the PostgreSQL error code for a unique constraint breach.
const uniqueViolation = "23505"

// tableNames maps each namespace to its cache table.
var tableNames = map[Namespace]string{
	NamespaceTierLookup: "tier_lookup_cache",
	NamespaceAllocation: "allocation_cache",
	NamespaceContent:    "content_cache",
}

// PGStore implements Store using PostgreSQL via pgx.
type PGStore struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool and verifies it.
func Connect(ctx context.Context, databaseURL string) (*PGStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PGStore{pool: pool}, nil
}

// NewPGStore wraps an existing pool.
func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

// Close closes the connection pool.
func (s *PGStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// CreateSchema creates the three cache tables if they do not exist.
func (s *PGStore) CreateSchema(ctx context.Context) error {
	for _, table := range tableNames {
		_, err := s.pool.Exec(ctx, fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id BIGSERIAL PRIMARY KEY,
				key TEXT NOT NULL UNIQUE,
				response TEXT NOT NULL,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`, table))
		if err != nil {
			return fmt.Errorf("failed to create table %s: %w", table, err)
		}
	}
	return nil
}

// Get returns the entry for key in ns, or nil if absent.
func (s *PGStore) Get(ctx context.Context, ns Namespace, key string) (*Entry, error) {
	table, err := tableName(ns)
	if err != nil {
		return nil, err
	}

	entry := Entry{Namespace: ns, Key: key}
	var response string
	err = s.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT response, created_at FROM %s WHERE key = $1`, table),
		key,
	).Scan(&response, &entry.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get %s entry: %w", ns, err)
	}

	entry.Payload = json.RawMessage(response)
	return &entry, nil
}

// Put stores an immutable payload. A unique-key violation maps to ErrKeyExists.
func (s *PGStore) Put(ctx context.Context, ns Namespace, key string, payload json.RawMessage) error {
	table, err := tableName(ns)
	if err != nil {
		return err
	}

	_, err = s.pool.Exec(ctx,
		fmt.Sprintf(`INSERT INTO %s (key, response) VALUES ($1, $2)`, table),
		key, string(payload),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrKeyExists
		}
		return fmt.Errorf("failed to put %s entry: %w", ns, err)
	}
	return nil
}

func tableName(ns Namespace) (string, error) {
	table, ok := tableNames[ns]
	if !ok {
		return "", fmt.Errorf("unknown cache namespace %q", ns)
	}
	return table, nil
}
