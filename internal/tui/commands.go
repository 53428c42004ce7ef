package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/stargaze/internal/controller"
	"github.com/pders01/stargaze/internal/debuglog"
	"github.com/pders01/stargaze/internal/feed"
	"github.com/pders01/stargaze/internal/gallery"
	"github.com/pders01/stargaze/internal/search"
)

const searchLimit = 20


func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}

type galleryMsg struct {
	gallery gallery.Gallery
}

type detailRenderedMsg struct {
	content string
}

type searchResultsMsg struct {
	query   string
	results []searchResultItem
}

type mediaOpenedMsg struct {
	title string
	err   error
}

type errorMsg struct {
	err error
}

// triggerFetch starts a fetch cycle for the selected range. An incomplete
// range is ignored without any message.
func (a *App) triggerFetch() tea.Cmd {
	r := a.selector.Range()
	if !r.IsComplete() {
		return nil
	}
	if !a.ctrl.Begin(r) {
		return a.setStatus(MsgFetchBusy, StatusWarn, 2*time.Second)
	}

	a.err = nil
	a.gallery = a.ctrl.Gallery()
	a.galleryList.SetItems(nil)

	return tea.Batch(
		a.spinner.Tick,
		a.setStatus(MsgFetchingRange(r), StatusInfo, 0),
		resolveGallery(a.ctrl),
	)
}

// resolveGallery runs the pipeline off the update loop. The result always
// comes back as a galleryMsg so the trigger gets re-enabled.
func resolveGallery(ctrl *controller.Controller) tea.Cmd {
	return func() (msg tea.Msg) {
		g := gallery.Errored(controller.ErrFetchAborted)
		defer func() {
			if p := recover(); p != nil {
				debuglog.Errorf("fetch cycle panicked: %v", p)
			}
			msg = galleryMsg{gallery: g}
		}()

		g = ctrl.Resolve(context.Background())
		return galleryMsg{gallery: g}
	}
}

func (a *App) renderDetail(card gallery.Card) tea.Cmd {
	return func() tea.Msg {
		var content strings.Builder
		content.WriteString(fmt.Sprintf("# %s\n\n", card.Title))
		content.WriteString(fmt.Sprintf("*%s • %s*\n\n", card.Date, card.Kind))

		if card.HasPreview {
			content.WriteString(fmt.Sprintf("[Preview](%s)\n\n", card.Preview))
		} else {
			content.WriteString(fmt.Sprintf("_%s_\n\n", gallery.MsgNoPreview))
		}
		if card.OpenURL != "" && card.OpenURL != card.Preview {
			content.WriteString(fmt.Sprintf("[Open](%s)\n\n", card.OpenURL))
		}

		content.WriteString("---\n\n")
		content.WriteString(card.Description)

		r, err := a.getRenderer()
		if err != nil {
			return detailRenderedMsg{content: "Error initializing renderer: " + err.Error()}
		}

		rendered, err := r.Render(content.String())
		if err != nil {
			return detailRenderedMsg{content: fmt.Sprintf("# Error\n\nFailed to render entry: %s\n\nPress Escape to go back.", err.Error())}
		}

		return detailRenderedMsg{content: rendered}
	}
}

func (a *App) performSearch(query string) tea.Cmd {
	searcher := a.searcher
	return func() tea.Msg {
		if searcher == nil {
			return searchResultsMsg{query: query}
		}

		found, err := searcher.Search(query, searchLimit)
		if err != nil {
			return errorMsg{err: wrapErr("search", err)}
		}
		if ds, ok := searcher.(search.DebugStatser); ok {
			if n, err := ds.DocCount(); err == nil {
				debuglog.Debugf("search %q: %d of %d indexed", query, len(found), n)
			}
		}

		results := make([]searchResultItem, 0, len(found))
		for _, r := range found {
			results = append(results, searchResultItem{result: r})
		}
		return searchResultsMsg{query: query, results: results}
	}
}

func (a *App) openMedia(title, url string, kind feed.MediaKind) tea.Cmd {
	launcher := a.launcher
	return func() tea.Msg {
		if url == "" {
			return mediaOpenedMsg{title: title, err: errors.New(MsgNothingToOpen)}
		}
		if err := launcher.Open(url, kind); err != nil {
			return mediaOpenedMsg{title: title, err: wrapErr("open media", err)}
		}
		return mediaOpenedMsg{title: title}
	}
}
