package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/stargaze/internal/feed"
	"github.com/pders01/stargaze/internal/gallery"
	"github.com/pders01/stargaze/internal/search"
)

const defaultDescriptionLength = 160

type cardItem struct {
	card    gallery.Card
	maxDesc int
}

func newCardItems(g gallery.Gallery, maxDesc int) []cardItem {
	cards := gallery.Cards(g)
	items := make([]cardItem, len(cards))
	for i, c := range cards {
		items[i] = cardItem{card: c, maxDesc: maxDesc}
	}
	return items
}

func (i cardItem) Title() string {
	icon := "🖼 "
	if i.card.Kind == feed.MediaVideo {
		icon = "🎬 "
	}
	return CardTitleStyle.Render(icon+i.card.Title) + DateStyle.Render("  "+i.card.Date)
}

func (i cardItem) Description() string {
	limit := i.maxDesc
	if limit <= 0 {
		limit = defaultDescriptionLength
	}
	desc := truncateEnd(i.card.Description, limit)
	if !i.card.HasPreview {
		return NoPreviewStyle.Render(i.card.Preview) + renderMuted(" • "+desc)
	}
	return renderMuted(desc)
}

func (i cardItem) FilterValue() string { return i.card.Title }

type searchResultItem struct {
	result *search.Result
}

func (i searchResultItem) Title() string {
	return lipgloss.NewStyle().
		Foreground(SecondaryColor).
		Bold(true).
		Render(i.result.Item.Title)
}

func (i searchResultItem) Description() string {
	snippet := i.result.Snippet
	if snippet == "" {
		snippet = truncateEnd(i.result.Item.Description, 60)
	}
	return renderMuted(fmt.Sprintf("%s • %s", feed.FormatDate(i.result.Item.Date), snippet))
}

func (i searchResultItem) FilterValue() string {
	return i.result.Item.Title + " " + i.result.Item.Description
}
