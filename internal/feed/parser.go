package feed

import (
	"bytes"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/mmcdole/gofeed"
)

// Decoder turns a response body into records.
type Decoder interface {
	Decode(body []byte) (Payload, error)
}

// JSONDecoder accepts a JSON array of records or a single record object.
type JSONDecoder struct{}

func (JSONDecoder) Decode(body []byte) (Payload, error) {
	return DecodePayload(body)
}

// RSSDecoder maps an RSS or Atom picture feed onto records. Items without a
// publish date are skipped since they cannot be placed in the window.
type RSSDecoder struct {
	parser *gofeed.Parser
}

func NewRSSDecoder() *RSSDecoder {
	return &RSSDecoder{parser: gofeed.NewParser()}
}

var (
	imgRegex   = regexp.MustCompile(`<img[^>]+src=["']([^"']+)["']`)
	videoRegex = regexp.MustCompile(`<(?:video|iframe)[^>]+src=["']([^"']+)["']`)
	tagRegex   = regexp.MustCompile(`<[^>]*>`)
)

func (d *RSSDecoder) Decode(body []byte) (Payload, error) {
	parsed, err := d.parser.Parse(bytes.NewReader(body))
	if err != nil {
		return Payload{}, &DecodeError{Err: fmt.Errorf("parsing feed: %w", err)}
	}

	records := make([]Record, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		r, ok := recordFromItem(item)
		if !ok {
			continue
		}
		records = append(records, r)
	}

	// Feeds list newest first; the pipeline expects source order ascending.
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date < records[j].Date
	})

	return ListPayload(records), nil
}

func recordFromItem(item *gofeed.Item) (Record, bool) {
	published := item.PublishedParsed
	if published == nil {
		published = item.UpdatedParsed
	}
	if published == nil {
		return Record{}, false
	}

	r := Record{
		Date:        published.Format("2006-01-02"),
		Title:       strings.TrimSpace(item.Title),
		MediaType:   MediaImage,
		Explanation: strings.TrimSpace(tagRegex.ReplaceAllString(item.Description, "")),
	}

	html := item.Content + " " + item.Description

	for _, enc := range item.Enclosures {
		if enc.URL == "" {
			continue
		}
		if strings.HasPrefix(enc.Type, "video/") {
			r.MediaType = MediaVideo
			r.URL = enc.URL
		} else if r.URL == "" {
			r.URL = enc.URL
		}
	}

	if r.URL == "" {
		if m := videoRegex.FindStringSubmatch(html); len(m) > 1 {
			r.MediaType = MediaVideo
			r.URL = m[1]
		}
	}

	if img := firstImage(item, html); img != "" {
		if r.MediaType == MediaVideo {
			r.ThumbnailURL = img
		} else if r.URL == "" {
			r.URL = img
		}
	}

	if r.URL == "" {
		r.URL = item.Link
	}

	return r, true
}

func firstImage(item *gofeed.Item, html string) string {
	if item.Image != nil && item.Image.URL != "" {
		return item.Image.URL
	}
	if m := imgRegex.FindStringSubmatch(html); len(m) > 1 {
		return m[1]
	}
	return ""
}
