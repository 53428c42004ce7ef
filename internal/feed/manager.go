package feed

import (
	"context"
	"fmt"

	"github.com/pders01/stargaze/internal/config"
	"github.com/pders01/stargaze/internal/debuglog"
	"github.com/pders01/stargaze/internal/validation"
)

// Source produces the full record collection of the data source.
type Source interface {
	Fetch(ctx context.Context) ([]Record, error)
}

// DecoderSelector picks a decoder for a fetched response.
type DecoderSelector interface {
	DecoderFor(url, contentType string) Decoder
}

// Manager is the HTTP-backed Source: it fetches the configured URL and
// decodes the body into records.
type Manager struct {
	url      string
	fetcher  *Fetcher
	decoders DecoderSelector
}

func NewManager(cfg *config.Config, decoders DecoderSelector) (*Manager, error) {
	urlValidator := validation.NewSourceURLValidator()
	if cfg.Source.AllowLocal {
		urlValidator = validation.NewPermissiveSourceURLValidator()
	}

	normalizedURL, err := urlValidator.ValidateAndNormalize(cfg.Source.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid source URL: %w", err)
	}

	return &Manager{
		url:      normalizedURL,
		fetcher:  NewFetcher(cfg),
		decoders: decoders,
	}, nil
}

// URL returns the normalized source URL.
func (m *Manager) URL() string {
	return m.url
}

func (m *Manager) Fetch(ctx context.Context) ([]Record, error) {
	resp, err := m.fetcher.Fetch(ctx, m.url)
	if err != nil {
		return nil, err
	}

	var decoder Decoder = JSONDecoder{}
	if m.decoders != nil {
		if d := m.decoders.DecoderFor(resp.URL, resp.ContentType); d != nil {
			decoder = d
		}
	}

	payload, err := decoder.Decode(resp.Body)
	if err != nil {
		return nil, err
	}

	records := payload.Records()
	debuglog.WithFields(debuglog.Fields{
		"shape":   payload.Shape.String(),
		"records": len(records),
	}).Infof("decoded source payload")

	return records, nil
}
