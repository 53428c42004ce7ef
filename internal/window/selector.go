package window

import (
	"fmt"
	"slices"
	"sync"
)

// Selector owns the current Range and keeps it valid against a Bound.
// Changing the start recomputes the end and notifies subscribers.
type Selector struct {
	mu        sync.Mutex
	bound     Bound
	span      int
	current   Range
	listeners []func(Range)
}

// NewSelector creates a selector with an initial range. Both ends are clamped
// into the bound; an initial end before the start is raised to the start.
// A span below 1 is treated as 1, as in DeriveEnd.
func NewSelector(bound Bound, span int, initial Range) *Selector {
	if span < 1 {
		span = 1
	}
	s := &Selector{bound: bound, span: span}
	if initial.Start != "" {
		s.current.Start = bound.Clamp(initial.Start)
	}
	if initial.End != "" {
		s.current.End = bound.Clamp(initial.End)
		if s.current.Start != "" && s.current.End < s.current.Start {
			s.current.End = s.current.Start
		}
	}
	return s
}

// OnChange registers fn to be called synchronously after every change.
func (s *Selector) OnChange(fn func(Range)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Bound returns the bound the selector validates against.
func (s *Selector) Bound() Bound {
	return s.bound
}

// Span returns the configured window span in days.
func (s *Selector) Span() int {
	return s.span
}

// Range returns a copy of the current selection.
func (s *Selector) Range() Range {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// SetStart sets the start date and derives the end from it. An empty start
// clears the selection's start without touching the end.
func (s *Selector) SetStart(start string) error {
	s.mu.Lock()
	if start == "" {
		s.current.Start = ""
		r := s.current
		s.mu.Unlock()
		s.notify(r)
		return nil
	}

	if _, err := ParseDate(start); err != nil {
		s.mu.Unlock()
		return err
	}
	start = s.bound.Clamp(start)
	end, err := DeriveEnd(start, s.bound, s.span)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.current = Range{Start: start, End: end}
	r := s.current
	s.mu.Unlock()

	s.notify(r)
	return nil
}

// SetEnd sets the end date, clamped into [Start, Max].
func (s *Selector) SetEnd(end string) error {
	s.mu.Lock()
	if end == "" {
		s.current.End = ""
		r := s.current
		s.mu.Unlock()
		s.notify(r)
		return nil
	}

	if _, err := ParseDate(end); err != nil {
		s.mu.Unlock()
		return err
	}
	end = s.bound.Clamp(end)
	if s.current.Start != "" && end < s.current.Start {
		s.mu.Unlock()
		return fmt.Errorf("end %s is before start %s", end, s.current.Start)
	}
	s.current.End = end
	r := s.current
	s.mu.Unlock()

	s.notify(r)
	return nil
}

func (s *Selector) notify(r Range) {
	s.mu.Lock()
	listeners := slices.Clone(s.listeners)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(r)
	}
}
