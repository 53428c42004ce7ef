package window

import (
	"fmt"
	"time"
)

const (
	// DateLayout is the fixed-width, zero-padded form used everywhere dates are
	// compared. Lexicographic order on this layout equals chronological order.
	DateLayout = "2006-01-02"

	// EarliestDate is the first day the picture feed has an entry for.
	EarliestDate = "1995-06-16"

	// DefaultSpan is the number of consecutive days selected after a start date.
	DefaultSpan = 9
)

// Bound is an inclusive [Min, Max] interval of selectable dates.
type Bound struct {
	Min string `json:"min" yaml:"min"`
	Max string `json:"max" yaml:"max"`
}

// Contains reports whether date lies within the bound.
func (b Bound) Contains(date string) bool {
	return date >= b.Min && date <= b.Max
}

// Clamp pulls date into the bound.
func (b Bound) Clamp(date string) string {
	if date < b.Min {
		return b.Min
	}
	if date > b.Max {
		return b.Max
	}
	return date
}

// Range is a user-selected {Start, End} pair.
type Range struct {
	Start string `json:"start" yaml:"start"`
	End   string `json:"end" yaml:"end"`
}

// IsComplete reports whether both ends of the range are set.
func (r Range) IsComplete() bool {
	return r.Start != "" && r.End != ""
}

func (r Range) String() string {
	return fmt.Sprintf("%s → %s", r.Start, r.End)
}

// ParseDate parses a YYYY-MM-DD string as a UTC calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// ComputeBound returns the selectable interval for the given moment. Max is
// the UTC calendar date of now, which is what the feed's dates are keyed by.
// An unparseable earliest falls back to EarliestDate.
func ComputeBound(now time.Time, earliest string) Bound {
	if _, err := ParseDate(earliest); err != nil {
		earliest = EarliestDate
	}
	today := now.UTC().Format(DateLayout)
	if today < earliest {
		today = earliest
	}
	return Bound{Min: earliest, Max: today}
}

// DeriveEnd returns start + (span-1) days, clamped to b.Max. A start outside
// the bound is clamped into it first.
func DeriveEnd(start string, b Bound, span int) (string, error) {
	if span < 1 {
		span = 1
	}
	t, err := ParseDate(start)
	if err != nil {
		return "", err
	}
	t, _ = ParseDate(b.Clamp(t.Format(DateLayout)))

	end := t.AddDate(0, 0, span-1).Format(DateLayout)
	if end > b.Max {
		end = b.Max
	}
	return end, nil
}
