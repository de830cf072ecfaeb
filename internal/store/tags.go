package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrEmptyTagID is returned when a tag id is blank after trimming.
var ErrEmptyTagID = errors.New("tag id is required")

// RegisterTag adds a tag, or renames it if the id is already registered.
func (s *Store) RegisterTag(id, name string) (*Tag, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrEmptyTagID
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = defaultTagName(id)
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`INSERT INTO nfc_tags (id, name, created_at) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET name = excluded.name`,
		id, name, now,
	)
	if err != nil {
		return nil, fmt.Errorf("register tag: %w", err)
	}
	return s.GetTag(id)
}

func (s *Store) GetTag(id string) (*Tag, error) {
	t := &Tag{}
	var createdAt string
	err := s.db.QueryRow(
		`SELECT id, name, created_at FROM nfc_tags WHERE id = ?`, strings.TrimSpace(id),
	).Scan(&t.ID, &t.Name, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("get tag %q: %w", id, err)
	}
	t.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return t, nil
}

// IsRegistered reports whether id belongs to a registered tag.
func (s *Store) IsRegistered(id string) (bool, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM nfc_tags WHERE id = ?`, strings.TrimSpace(id)).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("lookup tag: %w", err)
	}
	return n > 0, nil
}

func (s *Store) ListTags() ([]Tag, error) {
	rows, err := s.db.Query(`SELECT id, name, created_at FROM nfc_tags ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	var tags []Tag
	for rows.Next() {
		var t Tag
		var createdAt string
		if err := rows.Scan(&t.ID, &t.Name, &createdAt); err != nil {
			return nil, err
		}
		t.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// RemoveTag deletes a tag. Removing an unknown id returns sql.ErrNoRows.
func (s *Store) RemoveTag(id string) error {
	res, err := s.db.Exec(`DELETE FROM nfc_tags WHERE id = ?`, strings.TrimSpace(id))
	if err != nil {
		return fmt.Errorf("remove tag: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("remove tag %q: %w", id, sql.ErrNoRows)
	}
	return nil
}

func defaultTagName(id string) string {
	if len(id) > 3 {
		return "Tag " + id[len(id)-3:]
	}
	return "Tag " + id
}
