package implementation

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/lib/pq"
	interfaces "gitlab.com/wavesense1/wsn.presence_server/src/production/WSN.Repository/Interfaces"
)

// PostgresKVStore persists documents in a single key/value table.
type PostgresKVStore struct {
	db *sql.DB
}

func NewPostgresKVStore(db *sql.DB) *PostgresKVStore {
	return &PostgresKVStore{db: db}
}

// EnsureSchema creates the backing table if it does not exist yet.
func (s *PostgresKVStore) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS kv_store (
			key TEXT PRIMARY KEY,
			value JSONB NOT NULL
		)
	`
	_, err := s.db.ExecContext(ctx, query)
	return err
}

func (s *PostgresKVStore) Get(ctx context.Context, key string, out interface{}) error {
	query := `SELECT value FROM kv_store WHERE key = $1`

	var raw []byte
	err := s.db.QueryRowContext(ctx, query, key).Scan(&raw)
	if err != nil {
		if err == sql.ErrNoRows {
			return interfaces.ErrNotFound
		}
		return err
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to unmarshal value for key %s: %w", key, err)
	}
	return nil
}

func (s *PostgresKVStore) Set(ctx context.Context, key string, value interface{}) error {
	query := `
		INSERT INTO kv_store (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key)
		DO UPDATE SET value = EXCLUDED.value
	`

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value for key %s: %w", key, err)
	}

	_, err = s.db.ExecContext(ctx, query, key, raw)
	return err
}

func (s *PostgresKVStore) GetByPrefix(ctx context.Context, prefix string) ([]interfaces.KVEntry, error) {
	query := `SELECT key, value FROM kv_store WHERE key LIKE $1 ORDER BY key`

	rows, err := s.db.QueryContext(ctx, query, likeEscape(prefix)+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []interfaces.KVEntry
	for rows.Next() {
		var entry interfaces.KVEntry
		if err := rows.Scan(&entry.Key, &entry.Value); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

func (s *PostgresKVStore) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM kv_store WHERE key = $1`, key)
	return err
}

// likeEscape escapes LIKE metacharacters so a prefix is matched literally.
func likeEscape(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '%', '_', '\\':
			out = append(out, '\\')
		}
		out = append(out, s[i])
	}
	return string(out)
}
