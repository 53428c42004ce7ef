package gallery

import "github.com/pders01/stargaze/internal/feed"

// Card is one rendered gallery entry.
type Card struct {
	Title       string
	Date        string // m/d/yyyy
	SortDate    string // YYYY-MM-DD
	Description string
	Preview     string // preview URL or MsgNoPreview
	HasPreview  bool
	Kind        feed.MediaKind
	OpenURL     string
}

// Cards returns one card per item in gallery order. Items without a preview
// are kept and carry the no-preview placeholder.
func Cards(g Gallery) []Card {
	if g.State != StatePopulated {
		return nil
	}

	cards := make([]Card, 0, len(g.Items))
	for _, item := range g.Items {
		c := Card{
			Title:       item.Title,
			Date:        feed.FormatDate(item.Date),
			SortDate:    item.Date,
			Description: item.Description,
			Preview:     item.Preview,
			HasPreview:  item.HasPreview(),
			Kind:        item.Kind,
			OpenURL:     item.OpenURL(),
		}
		if !c.HasPreview {
			c.Preview = MsgNoPreview
		}
		cards = append(cards, c)
	}
	return cards
}
