package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/stargaze/internal/window"
)

// StatusKind is the severity of a status bar message.
type StatusKind int

const (
	StatusInfo StatusKind = iota
	StatusSuccess
	StatusWarn
	StatusError
)

func (k StatusKind) style() lipgloss.Style {
	switch k {
	case StatusSuccess:
		return StatusSuccessStyle
	case StatusWarn:
		return StatusWarnStyle
	case StatusError:
		return StatusErrorStyle
	default:
		return StatusInfoStyle
	}
}

// Canonical short status messages used across the app.
const (
	MsgFetching      = "Fetching…"
	MsgFetchBusy     = "A fetch is already running"
	MsgRangeMissing  = "Enter a start and end date"
	MsgRendering     = "Rendering…"
	MsgNoResults     = "No results"
	MsgNothingToOpen = "Nothing to open"
)

func MsgFetchingRange(r window.Range) string {
	return fmt.Sprintf("Fetching %s…", r)
}

func MsgGallerySummary(n int, r window.Range) string {
	if n == 1 {
		return fmt.Sprintf("1 picture • %s", r)
	}
	return fmt.Sprintf("%d pictures • %s", n, r)
}

func MsgResultsCount(n int) string {
	if n == 1 {
		return "1 result"
	}
	return fmt.Sprintf("%d results", n)
}

func MsgOpened(title string) string {
	return fmt.Sprintf("Opened '%s'", title)
}

const statusTTL = 3 * time.Second

type statusClearMsg struct {
	seq int
}

// setStatus shows text in the status bar. A positive ttl clears it again
// unless a newer status replaced it in the meantime.
func (a *App) setStatus(text string, kind StatusKind, ttl time.Duration) tea.Cmd {
	a.status = text
	a.statusKind = kind
	a.statusSeq++
	if ttl <= 0 {
		return nil
	}
	seq := a.statusSeq
	return tea.Tick(ttl, func(time.Time) tea.Msg { return statusClearMsg{seq: seq} })
}

func (a *App) clearStatus() {
	a.status = ""
	a.statusKind = StatusInfo
}
