package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/stargaze/internal/config"
	"github.com/pders01/stargaze/internal/gallery"
	"github.com/pders01/stargaze/internal/window"
)

type keyMap struct {
	Fetch  key.Binding
	Search key.Binding
	Open   key.Binding
	Focus  key.Binding
	Select key.Binding
	Back   key.Binding
	Quit   key.Binding
}

func newKeyMap(cfg *config.Config) keyMap {
	mod := cfg.Keys.Modifier + "+"
	b := cfg.Keys.Bindings
	return keyMap{
		Fetch:  key.NewBinding(key.WithKeys(mod+b.Fetch), key.WithHelp(mod+b.Fetch, "fetch")),
		Search: key.NewBinding(key.WithKeys(mod+b.Search), key.WithHelp(mod+b.Search, "search")),
		Open:   key.NewBinding(key.WithKeys(mod+b.OpenMedia), key.WithHelp(mod+b.OpenMedia, "open media")),
		Focus:  key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "dates/list")),
		Select: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		Back:   key.NewBinding(key.WithKeys(b.Back), key.WithHelp(b.Back, "back")),
		Quit:   key.NewBinding(key.WithKeys(b.Quit, "ctrl+c"), key.WithHelp(b.Quit, "quit")),
	}
}

type KeyHandler struct {
	app         *App
	keys        keyMap
	modifierKey string
}

func NewKeyHandler(app *App, cfg *config.Config) *KeyHandler {
	return &KeyHandler{
		app:         app,
		keys:        newKeyMap(cfg),
		modifierKey: cfg.Keys.Modifier + "+",
	}
}

func (kh *KeyHandler) HandleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return kh.app, tea.Quit
	}

	if model, cmd, handled := kh.handleCustomKeys(msg); handled {
		return model, cmd
	}

	if kh.isInTextInputMode() {
		return kh.delegateToTextInput(msg)
	}

	if key.Matches(msg, kh.keys.Quit) {
		return kh.app, tea.Quit
	}

	return kh.delegateToCharm(msg)
}

func (kh *KeyHandler) isInTextInputMode() bool {
	switch kh.app.view {
	case ViewGallery:
		return kh.app.focus != FocusList || kh.isFiltering()
	case ViewSearch:
		return kh.app.searchInput.Focused()
	default:
		return false
	}
}

// handleCustomKeys handles the modifier actions and navigation keys. They
// work the same whether or not a text input has focus.
func (kh *KeyHandler) handleCustomKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	if kh.isFiltering() {
		return kh.app, nil, false
	}

	switch {
	case key.Matches(msg, kh.keys.Back):
		model, cmd := kh.navigateBack()
		return model, cmd, true
	case key.Matches(msg, kh.keys.Search):
		model, cmd := kh.enterSearchMode()
		return model, cmd, true
	case key.Matches(msg, kh.keys.Fetch):
		if kh.app.view != ViewGallery {
			return kh.app, nil, true
		}
		return kh.app, kh.app.triggerFetch(), true
	case key.Matches(msg, kh.keys.Open):
		return kh.app, kh.openSelected(), true
	}

	switch kh.app.view {
	case ViewGallery:
		return kh.handleGalleryKeys(msg)
	case ViewSearch:
		return kh.handleSearchKeys(msg)
	default:
		return kh.app, nil, false
	}
}

func (kh *KeyHandler) handleGalleryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch msg.String() {
	case "tab":
		return kh.app, kh.app.setFocus((kh.app.focus + 1) % 3), true
	case "shift+tab":
		return kh.app, kh.app.setFocus((kh.app.focus + 2) % 3), true
	case "enter":
		switch kh.app.focus {
		case FocusStart:
			return kh.app, kh.applyStart(true), true
		case FocusEnd:
			return kh.app, kh.applyEnd(), true
		}
		if i, ok := kh.app.galleryList.SelectedItem().(cardItem); ok {
			return kh.showDetail(i)
		}
		return kh.app, nil, true
	}
	return kh.app, nil, false
}

func (kh *KeyHandler) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch msg.String() {
	case "tab", "down":
		if kh.app.searchInput.Focused() {
			if len(kh.app.searchList.Items()) > 0 {
				kh.app.searchInput.Blur()
				kh.app.searchList.Select(0)
			}
			return kh.app, nil, true
		}
	case "shift+tab":
		if !kh.app.searchInput.Focused() {
			return kh.app, kh.app.searchInput.Focus(), true
		}
	case "up":
		if !kh.app.searchInput.Focused() && kh.app.searchList.Index() == 0 {
			return kh.app, kh.app.searchInput.Focus(), true
		}
	case "enter":
		var item searchResultItem
		var ok bool
		if kh.app.searchInput.Focused() {
			if items := kh.app.searchList.Items(); len(items) > 0 {
				item, ok = items[0].(searchResultItem)
			}
		} else {
			item, ok = kh.app.searchList.SelectedItem().(searchResultItem)
		}
		if !ok {
			return kh.app, nil, true
		}
		return kh.selectSearchResult(item)
	}
	return kh.app, nil, false
}

func (kh *KeyHandler) delegateToTextInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch kh.app.view {
	case ViewGallery:
		switch kh.app.focus {
		case FocusStart:
			var cmd tea.Cmd
			kh.app.startInput, cmd = kh.app.startInput.Update(msg)
			return kh.app, tea.Batch(cmd, kh.applyStart(false))
		case FocusEnd:
			var cmd tea.Cmd
			kh.app.endInput, cmd = kh.app.endInput.Update(msg)
			return kh.app, cmd
		}
		return kh.delegateToCharm(msg)
	case ViewSearch:
		prev := kh.app.searchInput.Value()
		var cmd tea.Cmd
		kh.app.searchInput, cmd = kh.app.searchInput.Update(msg)

		query := sanitizeSearchInput(kh.app.searchInput.Value())
		if query == sanitizeSearchInput(prev) {
			return kh.app, cmd
		}
		if len(query) < 2 {
			kh.app.searchList.SetItems(nil)
			return kh.app, cmd
		}
		return kh.app, tea.Batch(cmd, kh.app.performSearch(query))
	}
	return kh.app, nil
}

// applyStart pushes the start input into the selector. While typing, only a
// fully entered date is applied; a cleared input clears the start. On submit
// an invalid date is reported and a valid one triggers a fetch.
func (kh *KeyHandler) applyStart(submit bool) tea.Cmd {
	value := strings.TrimSpace(kh.app.startInput.Value())

	if value == "" {
		_ = kh.app.selector.SetStart("")
		return nil
	}
	if len(value) < len(window.DateLayout) && !submit {
		return nil
	}

	if err := kh.app.selector.SetStart(value); err != nil {
		if submit {
			return kh.app.setStatus(err.Error(), StatusError, statusTTL)
		}
		return nil
	}

	if submit {
		kh.app.startInput.SetValue(kh.app.selector.Range().Start)
		return kh.app.triggerFetch()
	}
	return nil
}

func (kh *KeyHandler) applyEnd() tea.Cmd {
	value := strings.TrimSpace(kh.app.endInput.Value())
	if err := kh.app.selector.SetEnd(value); err != nil {
		kh.app.endInput.SetValue(kh.app.selector.Range().End)
		return kh.app.setStatus(err.Error(), StatusError, statusTTL)
	}
	return kh.app.triggerFetch()
}

func (kh *KeyHandler) isFiltering() bool {
	return kh.app.view == ViewGallery && kh.app.galleryList.FilterState() == list.Filtering
}

// delegateToCharm passes unhandled keys to the active bubbles component.
func (kh *KeyHandler) delegateToCharm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch kh.app.view {
	case ViewGallery:
		kh.app.galleryList, cmd = kh.app.galleryList.Update(msg)
	case ViewDetail:
		kh.app.viewport, cmd = kh.app.viewport.Update(msg)
	case ViewSearch:
		kh.app.searchList, cmd = kh.app.searchList.Update(msg)
	}
	return kh.app, cmd
}

func (kh *KeyHandler) showDetail(item cardItem) (tea.Model, tea.Cmd, bool) {
	kh.app.selected = &item.card
	kh.app.view = ViewDetail
	kh.app.renderingDetail = true
	kh.app.viewport.SetContent("")
	return kh.app, kh.app.renderDetail(item.card), true
}

func (kh *KeyHandler) selectSearchResult(item searchResultItem) (tea.Model, tea.Cmd, bool) {
	for idx, li := range kh.app.galleryList.Items() {
		ci, ok := li.(cardItem)
		if !ok || ci.card.SortDate != item.result.Item.Date || ci.card.Title != item.result.Item.Title {
			continue
		}
		kh.app.galleryList.Select(idx)
		kh.app.searchInput.Blur()
		kh.app.cameFromSearch = true
		return kh.showDetail(ci)
	}
	return kh.app, kh.app.setStatus(MsgNoResults, StatusWarn, 2*time.Second), true
}

func (kh *KeyHandler) navigateBack() (tea.Model, tea.Cmd) {
	switch kh.app.view {
	case ViewDetail:
		kh.app.selected = nil
		kh.app.renderingDetail = false
		if kh.app.cameFromSearch {
			kh.app.cameFromSearch = false
			kh.app.view = ViewSearch
			return kh.app, nil
		}
		kh.app.view = ViewGallery
	case ViewSearch:
		kh.app.view = ViewGallery
		kh.app.searchInput.Blur()
		kh.app.cameFromSearch = false
	case ViewGallery:
		if kh.app.focus != FocusList {
			return kh.app, kh.app.setFocus(FocusList)
		}
	}
	return kh.app, nil
}

func (kh *KeyHandler) enterSearchMode() (tea.Model, tea.Cmd) {
	if kh.app.view == ViewSearch {
		return kh.app, nil
	}
	kh.app.view = ViewSearch
	kh.app.cameFromSearch = false
	kh.app.searchInput.Reset()
	kh.app.searchList.SetItems(nil)
	return kh.app, kh.app.searchInput.Focus()
}

func (kh *KeyHandler) openSelected() tea.Cmd {
	var card *gallery.Card
	switch kh.app.view {
	case ViewDetail:
		card = kh.app.selected
	case ViewGallery:
		if i, ok := kh.app.galleryList.SelectedItem().(cardItem); ok {
			card = &i.card
		}
	}
	if card == nil {
		return kh.app.setStatus(MsgNothingToOpen, StatusWarn, 2*time.Second)
	}
	return kh.app.openMedia(card.Title, card.OpenURL, card.Kind)
}

// sanitizeSearchInput trims and collapses whitespace and drops control characters.
func sanitizeSearchInput(input string) string {
	var b strings.Builder
	for _, r := range input {
		if r < 0x20 || r == 0x7f {
			continue
		}
		b.WriteRune(r)
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// GetHelpForCurrentView returns the bindings shown in the status bar.
func (kh *KeyHandler) GetHelpForCurrentView() []key.Binding {
	k := kh.keys
	switch kh.app.view {
	case ViewGallery:
		if kh.app.focus != FocusList {
			return []key.Binding{k.Select, k.Focus, k.Fetch, k.Back}
		}
		return []key.Binding{k.Fetch, k.Focus, k.Select, k.Open, k.Search, k.Quit}
	case ViewDetail:
		return []key.Binding{k.Open, k.Search, k.Back}
	case ViewSearch:
		return []key.Binding{k.Select, k.Back}
	default:
		return nil
	}
}
