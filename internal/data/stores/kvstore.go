package stores

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kdlbs/kandev/internal/core/kv"
	"github.com/kdlbs/kandev/internal/data/db"
)

// KVStore implements kv.KV on the kv_entries table. Values are stored as
// JSON text. Expired entries are treated as missing by all read paths.
type KVStore struct {
	db *db.DB
}

var _ kv.KV = (*KVStore)(nil)

// NewKVStore creates a new SQLite-backed key-value store.
func NewKVStore(db *db.DB) *KVStore {
	return &KVStore{db: db}
}

// Get retrieves a value by key and unmarshals it into dest.
func (s *KVStore) Get(ctx context.Context, key string, dest any) error {
	var value string
	var expiresAt sql.NullInt64

	row := s.db.Conn().QueryRowContext(ctx, `
		SELECT value, expires_at FROM kv_entries WHERE key = ?`, key)
	if err := row.Scan(&value, &expiresAt); err != nil {
		return fmt.Errorf("kv get %q: %w", key, err)
	}

	if expiresAt.Valid && time.Now().UnixNano() >= expiresAt.Int64 {
		return fmt.Errorf("kv get %q: expired: %w", key, sql.ErrNoRows)
	}

	if err := json.Unmarshal([]byte(value), dest); err != nil {
		return fmt.Errorf("kv unmarshal %q: %w", key, err)
	}
	return nil
}

// Set stores a value with no expiry.
func (s *KVStore) Set(ctx context.Context, key string, value any) error {
	return s.set(ctx, key, value, nil)
}

// SetTTL stores a value that expires after ttl.
func (s *KVStore) SetTTL(ctx context.Context, key string, value any, ttl time.Duration) error {
	expires := time.Now().Add(ttl).UnixNano()
	return s.set(ctx, key, value, &expires)
}

func (s *KVStore) set(ctx context.Context, key string, value any, expiresAt *int64) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("kv marshal %q: %w", key, err)
	}

	now := time.Now().UnixNano()
	var expires sql.NullInt64
	if expiresAt != nil {
		expires = sql.NullInt64{Int64: *expiresAt, Valid: true}
	}

	_, err = s.db.Conn().ExecContext(ctx, `
		INSERT INTO kv_entries (key, value, expires_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			expires_at = excluded.expires_at,
			updated_at = excluded.updated_at`,
		key, string(data), expires, now, now,
	)
	if err != nil {
		return fmt.Errorf("kv set %q: %w", key, err)
	}
	return nil
}

// Delete removes a key. Deleting a missing key is not an error.
func (s *KVStore) Delete(ctx context.Context, key string) error {
	_, err := s.db.Conn().ExecContext(ctx, `DELETE FROM kv_entries WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("kv delete %q: %w", key, err)
	}
	return nil
}

// Has reports whether a non-expired entry exists for key.
func (s *KVStore) Has(ctx context.Context, key string) (bool, error) {
	var count int
	row := s.db.Conn().QueryRowContext(ctx, `
		SELECT COUNT(*) FROM kv_entries
		WHERE key = ? AND (expires_at IS NULL OR expires_at > ?)`,
		key, time.Now().UnixNano(),
	)
	if err := row.Scan(&count); err != nil {
		return false, fmt.Errorf("kv has %q: %w", key, err)
	}
	return count > 0, nil
}

// DeleteExpired removes all entries past their TTL.
func (s *KVStore) DeleteExpired(ctx context.Context) (int, error) {
	res, err := s.db.Conn().ExecContext(ctx, `
		DELETE FROM kv_entries WHERE expires_at IS NOT NULL AND expires_at <= ?`,
		time.Now().UnixNano(),
	)
	if err != nil {
		return 0, fmt.Errorf("kv delete expired: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("kv delete expired: %w", err)
	}
	return int(n), nil
}
