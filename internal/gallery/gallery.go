package gallery

import (
	"fmt"

	"github.com/pders01/stargaze/internal/feed"
)

// State is the presentation state of a gallery.
type State int

const (
	StateLoading State = iota
	StateEmpty
	StatePopulated
	StateErrored
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateEmpty:
		return "empty"
	case StatePopulated:
		return "populated"
	case StateErrored:
		return "errored"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Presentation messages.
const (
	MsgLoading   = "Loading images..."
	MsgEmpty     = "No results for that range. Try different dates."
	MsgErrored   = "Could not load images."
	MsgNoPreview = "No preview available"
)

// Placeholder icons for the non-populated states.
const (
	IconLoading = "⏳"
	IconEmpty   = "ℹ️"
	IconErrored = "⚠️"
)

// Gallery is one complete render of a fetch cycle. A new value is built on
// every cycle; callers replace the previous one wholesale.
type Gallery struct {
	State   State
	Items   []feed.DisplayItem
	Message string
}

// Build orders items most recent first. The source delivers records in
// ascending date order, so ordering is a reversal of the input. An empty
// input yields the Empty state, never a Populated gallery with no items.
func Build(items []feed.DisplayItem) Gallery {
	if len(items) == 0 {
		return Gallery{State: StateEmpty, Items: []feed.DisplayItem{}, Message: MsgEmpty}
	}

	ordered := make([]feed.DisplayItem, len(items))
	for i, item := range items {
		ordered[len(items)-1-i] = item
	}

	return Gallery{State: StatePopulated, Items: ordered}
}

// Loading returns the sentinel shown while a fetch is in flight.
func Loading() Gallery {
	return Gallery{State: StateLoading, Message: MsgLoading}
}

// Errored returns the error presentation for a failed cycle. Nothing from a
// previous gallery is carried over.
func Errored(err error) Gallery {
	msg := MsgErrored
	if err != nil {
		msg = fmt.Sprintf("%s %s", MsgErrored, err.Error())
	}
	return Gallery{State: StateErrored, Message: msg}
}

// Placeholder returns the icon and text shown in place of cards. It returns
// empty strings for a populated gallery.
func Placeholder(g Gallery) (icon, text string) {
	switch g.State {
	case StateLoading:
		return IconLoading, g.Message
	case StateEmpty:
		return IconEmpty, g.Message
	case StateErrored:
		return IconErrored, g.Message
	default:
		return "", ""
	}
}

// Len returns the number of items in a populated gallery.
func (g Gallery) Len() int {
	return len(g.Items)
}
