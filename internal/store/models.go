package store

import "time"

type Setting struct {
	Key   string
	Value string
}

// Tag is a registered NFC tag that toggles focus mode when scanned.
type Tag struct {
	ID        string
	Name      string
	CreatedAt time.Time
}
