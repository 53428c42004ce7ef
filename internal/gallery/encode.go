package gallery

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pders01/stargaze/internal/feed"
)

// Output formats understood by Encode.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

type document struct {
	State   string             `json:"state" yaml:"state"`
	Message string             `json:"message,omitempty" yaml:"message,omitempty"`
	Items   []feed.DisplayItem `json:"items" yaml:"items"`
}

// Encode writes the whole gallery to w in the given format.
func Encode(w io.Writer, g Gallery, format string) error {
	switch strings.ToLower(format) {
	case "", FormatText:
		return encodeText(w, g)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(toDocument(g))
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(toDocument(g)); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q (want text, json or yaml)", format)
	}
}

func toDocument(g Gallery) document {
	items := g.Items
	if items == nil {
		items = []feed.DisplayItem{}
	}
	return document{State: g.State.String(), Message: g.Message, Items: items}
}

func encodeText(w io.Writer, g Gallery) error {
	if icon, text := Placeholder(g); text != "" {
		_, err := fmt.Fprintf(w, "%s  %s\n", icon, text)
		return err
	}

	for i, c := range Cards(g) {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "%s  %s\n  %s\n  %s\n", c.Date, c.Title, c.Preview, c.Description); err != nil {
			return err
		}
	}
	return nil
}
