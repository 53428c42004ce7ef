package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/pders01/stargaze/internal/gallery"
)

// renderHeader draws a view title with an optional muted subtitle, both cut
// to the terminal width.
func renderHeader(title, subtitle string, width int) string {
	rows := []string{HeaderStyle.Render(truncateEnd(title, width-2))}
	if subtitle != "" {
		rows = append(rows, renderMuted(truncateEnd(subtitle, width-2)))
	}
	return lipgloss.JoinVertical(lipgloss.Top, rows...)
}

// renderField frames a text input; the border turns to the accent color
// while the field has focus.
func renderField(view string, focused bool, width int) string {
	border := MutedColor
	if focused {
		border = AccentColor
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Width(width + 4).
		Render(view)
}

func renderFetchLabel(enabled bool) string {
	if !enabled {
		return renderMuted("[ fetching… ]")
	}
	return HeaderStyle.Render("[ fetch ]")
}

// renderPlaceholder renders the gallery body for the empty and errored states.
func renderPlaceholder(g gallery.Gallery) string {
	icon, text := gallery.Placeholder(g)
	style := PlaceholderStyle
	if g.State == gallery.StateErrored {
		style = ErrorMessageStyle
	}
	return style.Render(icon + "  " + text)
}

func renderCentered(width, height int, content string) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

func renderMuted(text string) string {
	return lipgloss.NewStyle().Foreground(MutedColor).Render(text)
}

func renderHelp(text string) string {
	return HelpStyle.Render(text)
}

// truncateEnd cuts s to limit cells, ending in an ellipsis. Escape
// sequences are kept intact so styled text can be truncated too.
func truncateEnd(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	return ansi.Truncate(s, limit, "…")
}

// truncateMiddle keeps both ends of s around a single ellipsis. Used for
// URLs where host and file name matter most.
func truncateMiddle(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	n := ansi.StringWidth(s)
	if n <= limit {
		return s
	}
	if limit == 1 {
		return "…"
	}
	keep := limit - 1
	left := keep / 2
	right := keep - left
	return ansi.Cut(s, 0, left) + "…" + ansi.Cut(s, n-right, n)
}
