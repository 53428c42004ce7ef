package feed

import (
	"fmt"
	"time"
)

// DefaultDescription is shown when a record carries no explanation.
const DefaultDescription = "No explanation available"

// Normalize maps a record to a DisplayItem. Videos use their thumbnail as
// preview and have none when it is missing; images always use their URL.
func Normalize(r Record) DisplayItem {
	item := DisplayItem{
		Date:        r.Date,
		Title:       r.Title,
		Description: r.Explanation,
		Kind:        r.MediaType,
		PageURL:     r.URL,
	}

	if r.MediaType == MediaVideo {
		item.Preview = r.ThumbnailURL
	} else {
		item.Preview = r.URL
	}

	if item.Description == "" {
		item.Description = DefaultDescription
	}

	return item
}

// NormalizeAll maps every record in order.
func NormalizeAll(records []Record) []DisplayItem {
	items := make([]DisplayItem, 0, len(records))
	for _, r := range records {
		items = append(items, Normalize(r))
	}
	return items
}

// FormatDate renders a YYYY-MM-DD date as m/d/yyyy for display. Input that
// does not parse is returned unchanged.
func FormatDate(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return fmt.Sprintf("%d/%d/%d", int(t.Month()), t.Day(), t.Year())
}
