package storage

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// PostgresStore keeps blobs in a single key/value table.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore connects, pings and ensures the table exists.
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	ps := &PostgresStore{db: db}
	if err := ps.createTable(); err != nil {
		db.Close()
		return nil, err
	}
	return ps, nil
}

func (ps *PostgresStore) createTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS newsmobile_store (
		key TEXT PRIMARY KEY,
		value BYTEA NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`
	if _, err := ps.db.Exec(query); err != nil {
		return fmt.Errorf("failed to create store table: %w", err)
	}
	return nil
}

func (ps *PostgresStore) Load(key string) ([]byte, error) {
	var value []byte
	err := ps.db.QueryRow(
		`SELECT value FROM newsmobile_store WHERE key = $1`, key,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", key, err)
	}
	return value, nil
}

func (ps *PostgresStore) Save(key string, data []byte) error {
	_, err := ps.db.Exec(`
		INSERT INTO newsmobile_store (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = $2, updated_at = NOW()`,
		key, data,
	)
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

func (ps *PostgresStore) Delete(key string) error {
	if _, err := ps.db.Exec(`DELETE FROM newsmobile_store WHERE key = $1`, key); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (ps *PostgresStore) Close() error {
	return ps.db.Close()
}
