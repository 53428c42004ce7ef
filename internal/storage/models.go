package storage

import (
	"time"
)

// HistoryEntry is the journal record of one completed fetch cycle. Only the
// outcome is kept, never the fetched records themselves.
type HistoryEntry struct {
	ID        string    `json:"id"`
	At        time.Time `json:"at"`
	Start     string    `json:"start"`
	End       string    `json:"end"`
	State     string    `json:"state"`
	Count     int       `json:"count"`
	Message   string    `json:"message,omitempty"`
	ErrorKind string    `json:"error_kind,omitempty"`
	SourceURL string    `json:"source_url,omitempty"`
	Duration  int64     `json:"duration_ms"`
}

// LastRange is the most recently fetched date range, restored on startup.
type LastRange struct {
	Start     string    `json:"start"`
	End       string    `json:"end"`
	UpdatedAt time.Time `json:"updated_at"`
}
