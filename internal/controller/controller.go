package controller

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/pders01/stargaze/internal/debuglog"
	"github.com/pders01/stargaze/internal/feed"
	"github.com/pders01/stargaze/internal/gallery"
	"github.com/pders01/stargaze/internal/search"
	"github.com/pders01/stargaze/internal/storage"
	"github.com/pders01/stargaze/internal/window"
)

// State is the lifecycle state of the fetch cycle.
type State int

const (
	StateIdle State = iota
	StateLoading
	StatePopulated
	StateEmpty
	StateErrored
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StatePopulated:
		return "populated"
	case StateEmpty:
		return "empty"
	case StateErrored:
		return "errored"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

func stateOf(g gallery.Gallery) State {
	switch g.State {
	case gallery.StatePopulated:
		return StatePopulated
	case gallery.StateEmpty:
		return StateEmpty
	case gallery.StateErrored:
		return StateErrored
	default:
		return StateLoading
	}
}

// Recorder journals finished fetch cycles.
type Recorder interface {
	RecordCycle(entry *storage.HistoryEntry) error
}

// RangeSaver can be implemented by recorders that also remember the last
// fetched range.
type RangeSaver interface {
	SaveLastRange(start, end string) error
}

type Option func(*Controller)

// WithRecorder journals every finished cycle to r.
func WithRecorder(r Recorder) Option {
	return func(c *Controller) { c.recorder = r }
}

// WithIndexer hands the items of every finished gallery to idx.
func WithIndexer(idx search.Indexer) Option {
	return func(c *Controller) { c.indexer = idx }
}

// WithSourceURL labels journal entries with the source they were fetched from.
func WithSourceURL(url string) Option {
	return func(c *Controller) { c.sourceURL = url }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// Controller runs fetch cycles one at a time. While a cycle is in flight
// the trigger is disabled and further Begin calls are refused. Fetches are
// not cancelled by a new trigger.
type Controller struct {
	mu      sync.Mutex
	source  feed.Source
	state   State
	gallery gallery.Gallery
	rng     window.Range
	enabled bool
	started time.Time
	lastErr error

	recorder  Recorder
	indexer   search.Indexer
	sourceURL string
	now       func() time.Time
}

func New(source feed.Source, opts ...Option) *Controller {
	c := &Controller{
		source:  source,
		state:   StateIdle,
		enabled: true,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Begin starts a cycle for r. It returns false without changing anything
// when r is incomplete or a cycle is already running.
func (c *Controller) Begin(r window.Range) bool {
	if !r.IsComplete() {
		debuglog.Debugf("fetch skipped: %v (%s)", feed.ErrInputIncomplete, r)
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.enabled {
		debuglog.Debugf("fetch skipped: cycle already in flight")
		return false
	}

	c.enabled = false
	c.state = StateLoading
	c.gallery = gallery.Loading()
	c.rng = r
	c.started = c.now()
	c.lastErr = nil

	debuglog.WithFields(debuglog.Fields{"start": r.Start, "end": r.End}).Infof("fetch cycle started")
	return true
}

// Resolve fetches from the source and runs the filter, normalize and build
// pipeline for the range passed to Begin. Failures become an errored gallery.
func (c *Controller) Resolve(ctx context.Context) gallery.Gallery {
	c.mu.Lock()
	r := c.rng
	c.mu.Unlock()

	records, err := c.source.Fetch(ctx)
	if err != nil {
		debuglog.WithFields(debuglog.Fields{"range": r.String()}).
			With("kind", feed.Kind(err)).
			Warnf("fetch failed: %v", err)
		c.mu.Lock()
		c.lastErr = err
		c.mu.Unlock()
		return gallery.Errored(err)
	}

	filtered := feed.FilterByRange(records, r.Start, r.End)
	debuglog.Debugf("filtered %d of %d records to %s", len(filtered), len(records), r)

	return gallery.Build(feed.NormalizeAll(filtered))
}

// Finish installs g as the current gallery, sets the terminal state and
// re-enables the trigger.
func (c *Controller) Finish(g gallery.Gallery) {
	c.mu.Lock()
	c.gallery = g
	c.state = stateOf(g)
	c.enabled = true
	state := c.state
	r := c.rng
	started := c.started
	lastErr := c.lastErr
	c.mu.Unlock()

	elapsed := c.now().Sub(started)
	debuglog.WithFields(debuglog.Fields{
		"state":   state.String(),
		"items":   g.Len(),
		"elapsed": elapsed.Round(time.Millisecond),
	}).Infof("fetch cycle finished")

	if c.indexer != nil {
		if err := c.indexer.Reset(g.Items); err != nil {
			debuglog.Warnf("search index update failed: %v", err)
		}
	}

	if c.recorder != nil {
		c.record(r, g, lastErr, elapsed)
	}
}

func (c *Controller) record(r window.Range, g gallery.Gallery, cause error, elapsed time.Duration) {
	entry := &storage.HistoryEntry{
		At:        c.now(),
		Start:     r.Start,
		End:       r.End,
		State:     g.State.String(),
		Count:     g.Len(),
		Message:   g.Message,
		ErrorKind: feed.Kind(cause),
		SourceURL: c.sourceURL,
		Duration:  elapsed.Milliseconds(),
	}
	if err := c.recorder.RecordCycle(entry); err != nil {
		debuglog.Warnf("recording fetch cycle failed: %v", err)
	}

	if saver, ok := c.recorder.(RangeSaver); ok && g.State != gallery.StateErrored {
		if err := saver.SaveLastRange(r.Start, r.End); err != nil {
			debuglog.Warnf("saving last range failed: %v", err)
		}
	}
}

// ErrFetchAborted is reported when a cycle ends without the source
// returning, e.g. because it panicked.
var ErrFetchAborted = errors.New("fetch aborted")

// Trigger runs a whole cycle synchronously. It returns false if the cycle
// was not started. A panic during the cycle ends it as Errored.
func (c *Controller) Trigger(ctx context.Context, r window.Range) (g gallery.Gallery, started bool) {
	if !c.Begin(r) {
		return c.Gallery(), false
	}
	started = true

	defer func() {
		if p := recover(); p != nil {
			err := fmt.Errorf("%w: %v", ErrFetchAborted, p)
			debuglog.Errorf("fetch cycle panicked: %v", p)
			c.mu.Lock()
			c.lastErr = err
			c.mu.Unlock()
			g = gallery.Errored(err)
		}
		c.Finish(g)
	}()

	g = c.Resolve(ctx)
	return g, started
}

// Enabled reports whether a new cycle may be started.
func (c *Controller) Enabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enabled
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Gallery returns the current gallery.
func (c *Controller) Gallery() gallery.Gallery {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gallery
}

// Err returns the failure behind the last errored cycle, if any.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Range returns the range of the current or last cycle.
func (c *Controller) Range() window.Range {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rng
}
