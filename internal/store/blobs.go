package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/sadopc/focuslock/internal/kv"
)

var _ kv.Store = (*Store)(nil)

// Get implements kv.Store.
func (s *Store) Get(key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRow(`SELECT value FROM blobs WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, kv.NotFound(key)
	}
	if err != nil {
		return nil, kv.ReadError(key, err)
	}
	return value, nil
}

// Set implements kv.Store.
func (s *Store) Set(key string, value []byte) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`INSERT INTO blobs (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, now,
	)
	if err != nil {
		return kv.WriteError(key, err)
	}
	return nil
}

// Remove implements kv.Store.
func (s *Store) Remove(key string) error {
	if _, err := s.db.Exec(`DELETE FROM blobs WHERE key = ?`, key); err != nil {
		return kv.WriteError(key, err)
	}
	return nil
}
