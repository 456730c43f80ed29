package repository

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
)

var (
	ErrKeyNotFound = errors.New("key not found")
)

// KV is the whole-document persistent store the ledger engine writes
// through. Values are replaced wholesale on every Set; the store never
// patches inside a document. This matches a single-writer client, where
// last-write-wins is safe.
type KV interface {
	Get(key string, out any) error
	Set(key string, value any) error
}

type sqlKV struct {
	db *sqlx.DB
}

func NewKV(db *sqlx.DB) KV {
	return &sqlKV{db: db}
}

func (s *sqlKV) Get(key string, out any) error {
	var raw []byte
	err := s.db.Get(&raw, `SELECT value FROM kv WHERE key = $1`, key)
	if err == sql.ErrNoRows {
		return ErrKeyNotFound
	}
	if err != nil {
		return fmt.Errorf("kv get %q: %w", key, err)
	}

	err = json.Unmarshal(raw, out)
	if err != nil {
		return fmt.Errorf("kv decode %q: %w", key, err)
	}

	return nil
}

func (s *sqlKV) Set(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("kv encode %q: %w", key, err)
	}

	query := `INSERT INTO kv (key, value, updated_at) VALUES ($1, $2, $3)
	          ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

	_, err = s.db.Exec(query, key, raw, time.Now())
	if err != nil {
		return fmt.Errorf("kv set %q: %w", key, err)
	}

	return nil
}

// MemoryKV is an in-memory KV used by tests in place of the SQL store. It
// round-trips values through JSON so tests exercise the same serialization
// the real store does.
type MemoryKV struct {
	mu   sync.RWMutex
	data map[string][]byte

	// FailWrites makes every Set return an error, for testing that failed
	// commits leave no partial state behind.
	FailWrites bool
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: map[string][]byte{}}
}

func (m *MemoryKV) Get(key string, out any) error {
	m.mu.RLock()
	raw, ok := m.data[key]
	m.mu.RUnlock()
	if !ok {
		return ErrKeyNotFound
	}
	return json.Unmarshal(raw, out)
}

func (m *MemoryKV) Set(key string, value any) error {
	if m.FailWrites {
		return errors.New("kv set: write failed")
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.data[key] = raw
	m.mu.Unlock()
	return nil
}
