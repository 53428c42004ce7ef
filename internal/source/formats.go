package source

import (
	"strings"

	"github.com/pders01/stargaze/internal/feed"
)

// JSONFormat handles the canonical JSON archive: an array of records or a
// single record object.
type JSONFormat struct{}

func NewJSONFormat() *JSONFormat {
	return &JSONFormat{}
}

func (f *JSONFormat) Name() string {
	return "json"
}

func (f *JSONFormat) CanHandle(url, contentType string) bool {
	return strings.Contains(strings.ToLower(contentType), "json") ||
		strings.HasSuffix(strings.ToLower(pathOf(url)), ".json")
}

func (f *JSONFormat) Decoder() feed.Decoder {
	return feed.JSONDecoder{}
}

func (f *JSONFormat) Priority() int {
	return 10
}

// RSSFormat handles RSS and Atom picture feeds such as apod.rss.
type RSSFormat struct {
	decoder *feed.RSSDecoder
}

func NewRSSFormat() *RSSFormat {
	return &RSSFormat{decoder: feed.NewRSSDecoder()}
}

func (f *RSSFormat) Name() string {
	return "rss"
}

func (f *RSSFormat) CanHandle(url, contentType string) bool {
	ct := strings.ToLower(contentType)
	if strings.Contains(ct, "rss") || strings.Contains(ct, "atom") || strings.Contains(ct, "xml") {
		return true
	}
	p := strings.ToLower(pathOf(url))
	return strings.HasSuffix(p, ".rss") || strings.HasSuffix(p, ".xml") || strings.HasSuffix(p, ".atom")
}

func (f *RSSFormat) Decoder() feed.Decoder {
	return f.decoder
}

func (f *RSSFormat) Priority() int {
	return 50
}

// pathOf strips the query and fragment from url.
func pathOf(url string) string {
	if i := strings.IndexAny(url, "?#"); i >= 0 {
		return url[:i]
	}
	return url
}
