package feed

// FilterByRange returns the records whose date lies in [start, end], in
// source order. Dates are compared as YYYY-MM-DD strings. The input slice is
// not modified.
func FilterByRange(records []Record, start, end string) []Record {
	filtered := make([]Record, 0, len(records))
	for _, r := range records {
		if r.Date >= start && r.Date <= end {
			filtered = append(filtered, r)
		}
	}
	return filtered
}
