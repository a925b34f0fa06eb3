package kv

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	genkv "github.com/kdlbs/kandev/pkg/kv"
)

type memoryEntry struct {
	value     json.RawMessage
	expiresAt *time.Time
}

// Memory is an in-process KV implementation backed by a generic map store.
// It mirrors the persistent store's semantics, including sql.ErrNoRows on
// missing or expired keys, so callers and tests can swap it in freely.
type Memory struct {
	store *genkv.Store[string, memoryEntry]
}

// NewMemory creates an empty in-memory KV store.
func NewMemory() *Memory {
	return &Memory{store: genkv.New[string, memoryEntry]()}
}

func (m *Memory) Get(ctx context.Context, key string, dest any) error {
	entry, ok := m.store.Get(key)
	if !ok {
		return fmt.Errorf("kv get %q: %w", key, sql.ErrNoRows)
	}
	if entry.expiresAt != nil && time.Now().After(*entry.expiresAt) {
		return fmt.Errorf("kv get %q: expired: %w", key, sql.ErrNoRows)
	}
	if err := json.Unmarshal(entry.value, dest); err != nil {
		return fmt.Errorf("kv get %q: decode: %w", key, err)
	}
	return nil
}

func (m *Memory) Set(ctx context.Context, key string, value any) error {
	return m.set(key, value, nil)
}

func (m *Memory) SetTTL(ctx context.Context, key string, value any, ttl time.Duration) error {
	expiresAt := time.Now().Add(ttl)
	return m.set(key, value, &expiresAt)
}

func (m *Memory) set(key string, value any, expiresAt *time.Time) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("kv set %q: encode: %w", key, err)
	}
	m.store.Set(key, memoryEntry{value: raw, expiresAt: expiresAt})
	return nil
}

func (m *Memory) Delete(ctx context.Context, key string) error {
	m.store.Delete(key)
	return nil
}

func (m *Memory) Has(ctx context.Context, key string) (bool, error) {
	entry, ok := m.store.Get(key)
	if !ok {
		return false, nil
	}
	if entry.expiresAt != nil && time.Now().After(*entry.expiresAt) {
		return false, nil
	}
	return true, nil
}

func (m *Memory) DeleteExpired(ctx context.Context) (int, error) {
	removed := 0
	now := time.Now()
	for _, key := range m.store.Keys() {
		entry, ok := m.store.Get(key)
		if ok && entry.expiresAt != nil && now.After(*entry.expiresAt) {
			m.store.Delete(key)
			removed++
		}
	}
	return removed, nil
}
