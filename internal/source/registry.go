package source

import (
	"strings"

	"github.com/pders01/stargaze/internal/config"
	"github.com/pders01/stargaze/internal/feed"
)

// Format defines a body format the data source may be served in.
type Format interface {
	// Name returns the format name as used in the config file
	Name() string

	// CanHandle returns true if this format can decode a response from url
	// with the given content type
	CanHandle(url, contentType string) bool

	// Decoder returns the decoder for this format
	Decoder() feed.Decoder

	// Priority returns the priority of this format (higher = higher priority)
	// Useful when multiple formats match the same response
	Priority() int
}

// Registry manages all registered formats
type Registry struct {
	formats  []Format
	fallback Format
	forced   string
}

// NewRegistry creates a registry. A non-empty forced name pins every
// response to that format regardless of URL or content type.
func NewRegistry(forced string) *Registry {
	return &Registry{
		formats: make([]Format, 0),
		forced:  strings.ToLower(strings.TrimSpace(forced)),
	}
}

// DefaultRegistry returns a registry with the built-in JSON and RSS formats,
// falling back to JSON when nothing matches.
func DefaultRegistry(forced string) *Registry {
	r := NewRegistry(forced)
	json := NewJSONFormat()
	r.Register(json)
	r.Register(NewRSSFormat())
	r.SetFallback(json)
	return r
}

// Register adds a format to the registry
func (r *Registry) Register(format Format) {
	r.formats = append(r.formats, format)
}

// SetFallback sets the format used when no registered format matches.
func (r *Registry) SetFallback(format Format) {
	r.fallback = format
}

// FindFormat returns the best format for a response.
// Returns the format with highest priority that can handle it.
func (r *Registry) FindFormat(url, contentType string) Format {
	if r.forced != "" {
		for _, format := range r.formats {
			if format.Name() == r.forced {
				return format
			}
		}
	}

	var best Format
	highestPriority := -1

	for _, format := range r.formats {
		if format.CanHandle(url, contentType) && format.Priority() > highestPriority {
			best = format
			highestPriority = format.Priority()
		}
	}

	if best == nil {
		return r.fallback
	}
	return best
}

// DecoderFor implements feed.DecoderSelector.
func (r *Registry) DecoderFor(url, contentType string) feed.Decoder {
	format := r.FindFormat(url, contentType)
	if format == nil {
		return nil
	}
	return format.Decoder()
}

// ListFormats returns all registered formats
func (r *Registry) ListFormats() []Format {
	return append([]Format(nil), r.formats...)
}

// New builds the configured data source.
func New(cfg *config.Config) (*feed.Manager, error) {
	return feed.NewManager(cfg, DefaultRegistry(cfg.Source.Format))
}
