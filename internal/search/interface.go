package search

import "github.com/pders01/stargaze/internal/feed"

// Searcher defines the minimal search API used by the TUI.
type Searcher interface {
	Search(query string, limit int) ([]*Result, error)
}

// Indexer is notified with the items of every newly built gallery. The
// previous contents are discarded.
type Indexer interface {
	Reset(items []feed.DisplayItem) error
}

// Index is both searchable and resettable.
type Index interface {
	Searcher
	Indexer
}

// DebugStatser provides lightweight stats for visibility/debugging.
// Implemented by engines that can report index doc counts, etc.
type DebugStatser interface {
	DocCount() (int, error)
}

// Result is one gallery item matching a query.
type Result struct {
	Item    feed.DisplayItem
	Score   float64
	Snippet string
}
