package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/stargaze/internal/config"
	"github.com/pders01/stargaze/internal/controller"
	"github.com/pders01/stargaze/internal/gallery"
	"github.com/pders01/stargaze/internal/media"
	"github.com/pders01/stargaze/internal/search"
	"github.com/pders01/stargaze/internal/window"
)

// Rows taken by the header, the date inputs and the status bar.
const chromeHeight = 8

type App struct {
	config          *config.Config
	ctrl            *controller.Controller
	selector        *window.Selector
	searcher        search.Searcher
	launcher        *media.Launcher
	keyHandler      *KeyHandler
	startInput      textinput.Model
	endInput        textinput.Model
	galleryList     list.Model
	searchInput     textinput.Model
	searchList      list.Model
	viewport        viewport.Model
	spinner         spinner.Model
	help            help.Model
	view            View
	focus           Focus
	gallery         gallery.Gallery
	selected        *gallery.Card
	cameFromSearch  bool
	renderingDetail bool
	status          string
	statusKind      StatusKind
	statusSeq       int
	width           int
	height          int
	err             error
	glamourRenderer *glamour.TermRenderer
	rendererWidth   int
}

func NewApp(cfg *config.Config, ctrl *controller.Controller, sel *window.Selector, searcher search.Searcher) *App {
	galleryList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	galleryList.Title = "› gallery"
	galleryList.SetShowStatusBar(false)
	galleryList.SetFilteringEnabled(true)
	galleryList.SetShowHelp(false)

	searchList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	searchList.Title = "› search results"
	searchList.SetShowStatusBar(false)
	searchList.SetShowHelp(false)
	searchList.SetFilteringEnabled(false)

	bound := sel.Bound()
	current := sel.Range()

	start := newDateInput("start " + bound.Min)
	start.SetValue(current.Start)
	end := newDateInput("end " + bound.Max)
	end.SetValue(current.End)

	si := textinput.New()
	si.Placeholder = "Search titles, dates and descriptions..."

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(AccentColor)

	app := &App{
		config:      cfg,
		ctrl:        ctrl,
		selector:    sel,
		searcher:    searcher,
		launcher:    media.NewLauncher(cfg),
		startInput:  start,
		endInput:    end,
		galleryList: galleryList,
		searchInput: si,
		searchList:  searchList,
		viewport:    viewport.New(0, 0),
		spinner:     sp,
		help:        help.New(),
		view:        ViewGallery,
		focus:       FocusList,
		gallery:     ctrl.Gallery(),
	}

	app.keyHandler = NewKeyHandler(app, cfg)

	// Keep both inputs in step with the selector; a new start moves the end.
	sel.OnChange(func(r window.Range) {
		if app.focus != FocusStart {
			app.startInput.SetValue(r.Start)
		}
		app.endInput.SetValue(r.End)
	})

	return app
}

func newDateInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = len(window.DateLayout)
	ti.Width = len(placeholder)
	ti.Prompt = ""
	return ti
}

func (a *App) getRenderer() (*glamour.TermRenderer, error) {
	wordWrapWidth := (a.width * 9) / 10
	if wordWrapWidth > 120 {
		wordWrapWidth = 120
	}
	if wordWrapWidth < 40 {
		wordWrapWidth = 40
	}
	if a.width < 50 {
		wordWrapWidth = max(a.width-4, 20)
	}

	if a.glamourRenderer == nil || abs(a.rendererWidth-wordWrapWidth) > 10 {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(wordWrapWidth),
		)
		if err != nil {
			return nil, err
		}
		a.glamourRenderer = r
		a.rendererWidth = wordWrapWidth
	}

	return a.glamourRenderer, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// Init runs the automatic first fetch with the initial range.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		a.triggerFetch(),
	)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		listHeight := max(msg.Height-chromeHeight, 3)
		a.galleryList.SetSize(msg.Width, listHeight)
		a.searchList.SetSize(msg.Width, max(msg.Height-10, 5))
		a.viewport.Width = msg.Width
		a.viewport.Height = msg.Height - 3
		a.searchInput.Width = max(msg.Width-8, 10)
		return a, nil

	case tea.KeyMsg:
		return a.keyHandler.HandleKey(msg)

	case spinner.TickMsg:
		if a.ctrl.State() != controller.StateLoading {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case galleryMsg:
		a.ctrl.Finish(msg.gallery)
		cmds = append(cmds, a.showGallery(msg.gallery))

	case detailRenderedMsg:
		if a.view == ViewDetail {
			a.viewport.SetContent(msg.content)
			a.viewport.GotoTop()
			a.renderingDetail = false
		}

	case searchResultsMsg:
		if a.view == ViewSearch && msg.query == sanitizeSearchInput(a.searchInput.Value()) {
			items := make([]list.Item, len(msg.results))
			for i, r := range msg.results {
				items[i] = r
			}
			a.searchList.SetItems(items)
			if len(items) == 0 {
				cmds = append(cmds, a.setStatus(MsgNoResults, StatusInfo, 0))
			} else {
				cmds = append(cmds, a.setStatus(MsgResultsCount(len(items)), StatusInfo, 0))
			}
		}

	case mediaOpenedMsg:
		if msg.err != nil {
			cmds = append(cmds, a.setStatus(msg.err.Error(), StatusError, statusTTL))
		} else {
			cmds = append(cmds, a.setStatus(MsgOpened(msg.title), StatusSuccess, statusTTL))
		}

	case statusClearMsg:
		if msg.seq == a.statusSeq {
			a.clearStatus()
		}

	case errorMsg:
		a.err = msg.err
	}

	if a.view == ViewDetail {
		switch msg.(type) {
		case tea.MouseMsg:
			var cmd tea.Cmd
			a.viewport, cmd = a.viewport.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	return a, tea.Batch(cmds...)
}

// showGallery replaces the displayed gallery wholesale.
func (a *App) showGallery(g gallery.Gallery) tea.Cmd {
	a.gallery = g

	cards := newCardItems(g, a.config.UI.MaxDescriptionLength)
	items := make([]list.Item, len(cards))
	for i, c := range cards {
		items[i] = c
	}
	a.galleryList.ResetFilter()
	a.galleryList.SetItems(items)
	a.galleryList.Select(0)

	r := a.ctrl.Range()
	switch g.State {
	case gallery.StatePopulated:
		return a.setStatus(MsgGallerySummary(g.Len(), r), StatusSuccess, 0)
	case gallery.StateEmpty:
		return a.setStatus(gallery.MsgEmpty, StatusWarn, 0)
	case gallery.StateErrored:
		return a.setStatus(g.Message, StatusError, 0)
	}
	return nil
}

// setFocus moves keyboard focus between the date inputs and the list. Inputs
// left without submitting snap back to the selector's range.
func (a *App) setFocus(f Focus) tea.Cmd {
	prev := a.focus
	a.focus = f

	r := a.selector.Range()
	if prev == FocusStart && f != FocusStart {
		a.startInput.SetValue(r.Start)
	}
	if prev == FocusEnd && f != FocusEnd {
		a.endInput.SetValue(r.End)
	}

	a.startInput.Blur()
	a.endInput.Blur()
	switch f {
	case FocusStart:
		return a.startInput.Focus()
	case FocusEnd:
		return a.endInput.Focus()
	}
	return nil
}

func (a *App) View() string {
	var content string
	bodyHeight := max(a.height-3, 1)

	switch a.view {
	case ViewGallery:
		content = a.galleryView()
	case ViewDetail:
		if a.renderingDetail {
			content = renderCentered(a.width, bodyHeight, renderMuted(MsgRendering))
		} else {
			content = a.viewport.View()
		}
	case ViewSearch:
		content = a.searchView(bodyHeight)
	}

	status := a.statusBar()
	separator := renderMuted(strings.Repeat("─", max(a.width-1, 0)))

	return lipgloss.JoinVertical(lipgloss.Top, content, separator, status)
}

func (a *App) galleryView() string {
	bound := a.selector.Bound()
	subtitle := fmt.Sprintf("dates %s … %s • %s", bound.Min, bound.Max, truncateMiddle(a.config.Source.URL, 48))
	header := renderHeader("› stargaze", subtitle, a.width)

	inputs := lipgloss.JoinHorizontal(
		lipgloss.Center,
		renderField(a.startInput.View(), a.focus == FocusStart, a.startInput.Width),
		renderMuted("  →  "),
		renderField(a.endInput.View(), a.focus == FocusEnd, a.endInput.Width),
		"  ",
		renderFetchLabel(a.ctrl.Enabled()),
	)

	bodyHeight := max(a.height-chromeHeight, 3)
	var body string

	switch {
	case a.ctrl.State() == controller.StateIdle:
		body = renderCentered(a.width, bodyHeight, GetWelcomeMessage(a.keyHandler.keys.Fetch.Help().Key))
	case a.gallery.State == gallery.StateLoading:
		body = renderCentered(a.width, bodyHeight, a.spinner.View()+" "+renderMuted(gallery.MsgLoading))
	case a.gallery.State == gallery.StatePopulated:
		body = a.galleryList.View()
	default:
		body = renderCentered(a.width, bodyHeight, renderPlaceholder(a.gallery))
	}

	return lipgloss.JoinVertical(lipgloss.Top, header, inputs, body)
}

func (a *App) searchView(height int) string {
	header := renderHeader("› search", "within the current gallery", a.width)

	var hint string
	switch {
	case a.searchInput.Focused():
		hint = "Type to search • Tab/↓: results • Esc: back"
	case len(a.searchList.Items()) > 0:
		hint = "↑↓: navigate • Enter: select • Shift+Tab: search box • Esc: back"
	default:
		hint = "No results found • Shift+Tab: search box • Esc: back"
	}

	searchContent := lipgloss.JoinVertical(
		lipgloss.Top,
		header,
		"",
		renderField(a.searchInput.View(), a.searchInput.Focused(), a.searchInput.Width),
		renderHelp(hint),
		"",
		a.searchList.View(),
	)

	return lipgloss.NewStyle().
		Width(a.width).
		Height(height).
		MaxHeight(height).
		Render(searchContent)
}

func (a *App) statusBar() string {
	bar := lipgloss.NewStyle().
		Width(a.width).
		Padding(0, 1).
		Foreground(MutedColor)

	if a.err != nil {
		return bar.Render(StatusErrorStyle.Render(fmt.Sprintf("✗ %v", a.err)))
	}

	helpText := a.help.ShortHelpView(a.keyHandler.GetHelpForCurrentView())
	if a.status == "" {
		return bar.Render(helpText)
	}
	return bar.Render(a.statusKind.style().Render(a.status) + renderMuted(" • ") + helpText)
}
