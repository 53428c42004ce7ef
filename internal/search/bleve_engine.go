package search

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	bleveQuery "github.com/blevesearch/bleve/v2/search/query"

	"github.com/pders01/stargaze/internal/debuglog"
	"github.com/pders01/stargaze/internal/feed"
)

type bleveEngine struct {
	mu    sync.RWMutex
	idx   bleve.Index
	items []feed.DisplayItem
}

// NewBleveEngine creates an in-memory index. The gallery is small and
// rebuilt on every fetch, so nothing is written to disk.
func NewBleveEngine() (Index, error) {
	idx, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("creating search index: %w", err)
	}
	return &bleveEngine{idx: idx}, nil
}

// New returns the bleve engine, or the plain scorer if the index cannot be
// created.
func New() Index {
	idx, err := NewBleveEngine()
	if err != nil {
		debuglog.Warnf("search: falling back to simple engine: %v", err)
		return NewEngine()
	}
	return idx
}

func buildIndexMapping() mapping.IndexMapping {
	im := bleve.NewIndexMapping()
	im.DefaultAnalyzer = standard.Name

	dm := bleve.NewDocumentMapping()

	title := bleve.NewTextFieldMapping()
	title.Analyzer = standard.Name
	title.Store = true
	title.IncludeTermVectors = true

	desc := bleve.NewTextFieldMapping()
	desc.Analyzer = standard.Name
	desc.Store = true

	date := bleve.NewTextFieldMapping()
	date.Analyzer = keyword.Name
	date.Store = true

	kind := bleve.NewTextFieldMapping()
	kind.Analyzer = keyword.Name
	kind.Store = false

	dm.AddFieldMappingsAt("title", title)
	dm.AddFieldMappingsAt("description", desc)
	dm.AddFieldMappingsAt("date", date)
	dm.AddFieldMappingsAt("kind", kind)

	im.DefaultMapping = dm
	return im
}

// Reset replaces the indexed items with items.
func (b *bleveEngine) Reset(items []feed.DisplayItem) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	batch := b.idx.NewBatch()
	for i := range b.items {
		batch.Delete(docID(i))
	}
	for i, item := range items {
		if err := batch.Index(docID(i), map[string]any{
			"title":       item.Title,
			"description": item.Description,
			"date":        item.Date,
			"kind":        string(item.Kind),
		}); err != nil {
			return fmt.Errorf("indexing %s: %w", item.Date, err)
		}
	}
	if err := b.idx.Batch(batch); err != nil {
		return fmt.Errorf("updating search index: %w", err)
	}

	b.items = append([]feed.DisplayItem(nil), items...)
	return nil
}

func (b *bleveEngine) Search(query string, limit int) ([]*Result, error) {
	if len(strings.TrimSpace(query)) < 2 {
		return []*Result{}, nil
	}
	// Tokenize input and build an OR of per-term matches across key fields with boosts
	var qs []bleveQuery.Query
	for _, tok := range tokenize(query) {
		qs = append(qs,
			fieldQuery(bleve.NewMatchQuery(tok), "title", 4.0),
			fieldQuery(bleve.NewPrefixQuery(tok), "title", 3.5),
			fieldQuery(bleve.NewMatchQuery(tok), "description", 2.0),
			fieldQuery(bleve.NewPrefixQuery(tok), "description", 1.8),
		)
	}
	// Dates are matched whole or by prefix (2025-09 finds the month).
	if q := strings.TrimSpace(query); strings.ContainsRune(q, '-') {
		qs = append(qs, fieldQuery(bleve.NewPrefixQuery(q), "date", 5.0))
	}
	if len(qs) == 0 {
		return []*Result{}, nil
	}
	if limit <= 0 {
		limit = 10
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	srch := bleve.NewSearchRequestOptions(bleve.NewDisjunctionQuery(qs...), limit, 0, false)
	res, err := b.idx.Search(srch)
	if err != nil {
		return nil, err
	}

	terms := tokenize(query)
	out := make([]*Result, 0, len(res.Hits))
	for _, h := range res.Hits {
		i, err := strconv.Atoi(strings.TrimPrefix(h.ID, "item:"))
		if err != nil || i < 0 || i >= len(b.items) {
			continue
		}
		item := b.items[i]
		out = append(out, &Result{
			Item:    item,
			Score:   h.Score,
			Snippet: findBestSnippet(item.Description, terms, snippetLength),
		})
	}
	return out, nil
}

type fieldBoostQuery interface {
	bleveQuery.Query
	bleveQuery.FieldableQuery
	SetBoost(b float64)
}

func fieldQuery(q fieldBoostQuery, field string, boost float64) bleveQuery.Query {
	q.SetField(field)
	q.SetBoost(boost)
	return q
}

// DocCount reports total documents in the index.
func (b *bleveEngine) DocCount() (int, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	n, err := b.idx.DocCount()
	return int(n), err
}

func docID(i int) string { return "item:" + strconv.Itoa(i) }
