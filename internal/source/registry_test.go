package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/stargaze/internal/config"
	"github.com/pders01/stargaze/internal/feed"
)

// mockFormat is a test format for testing the registry
type mockFormat struct {
	name      string
	priority  int
	canHandle func(string, string) bool
}

func (f *mockFormat) Name() string { return f.name }

func (f *mockFormat) CanHandle(url, contentType string) bool {
	if f.canHandle != nil {
		return f.canHandle(url, contentType)
	}
	return false
}

func (f *mockFormat) Decoder() feed.Decoder { return feed.JSONDecoder{} }

func (f *mockFormat) Priority() int { return f.priority }

func TestNewRegistry(t *testing.T) {
	registry := NewRegistry("")

	assert.NotNil(t, registry)
	assert.Equal(t, 0, len(registry.formats))
	assert.Nil(t, registry.FindFormat("https://x/data.json", ""))
	assert.Nil(t, registry.DecoderFor("https://x/data.json", ""))
}

func TestRegistry_FindFormat(t *testing.T) {
	registry := NewRegistry("")

	low := &mockFormat{name: "low", priority: 10, canHandle: func(string, string) bool { return true }}
	high := &mockFormat{name: "high", priority: 100, canHandle: func(u, _ string) bool { return u == "https://special" }}
	registry.Register(low)
	registry.Register(high)

	assert.Equal(t, high, registry.FindFormat("https://special", ""))
	assert.Equal(t, low, registry.FindFormat("https://other", ""))
	assert.Len(t, registry.ListFormats(), 2)
}

func TestDefaultRegistry(t *testing.T) {
	registry := DefaultRegistry("")

	tests := []struct {
		name        string
		url         string
		contentType string
		want        string
	}{
		{"json content type", "https://cdn/data", "application/json; charset=utf-8", "json"},
		{"json suffix", "https://cdn/data.json", "text/plain", "json"},
		{"rss content type", "https://apod/feed", "application/rss+xml", "rss"},
		{"atom content type", "https://apod/feed", "application/atom+xml", "rss"},
		{"rss suffix", "https://apod.nasa.gov/apod.rss", "", "rss"},
		{"xml suffix with query", "https://apod/feed.xml?x=1", "", "rss"},
		{"unknown falls back to json", "https://cdn/data", "text/plain", "json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			format := registry.FindFormat(tt.url, tt.contentType)
			require.NotNil(t, format)
			assert.Equal(t, tt.want, format.Name())
		})
	}
}

func TestDefaultRegistryForced(t *testing.T) {
	registry := DefaultRegistry(" RSS ")
	assert.Equal(t, "rss", registry.FindFormat("https://cdn/data.json", "application/json").Name())

	registry = DefaultRegistry("json")
	assert.Equal(t, "json", registry.FindFormat("https://apod/apod.rss", "application/rss+xml").Name())

	registry = DefaultRegistry("unknown")
	assert.Equal(t, "rss", registry.FindFormat("https://apod/apod.rss", "").Name())
}

func TestNewSourceFetchesRSS(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(`<?xml version="1.0"?>
<rss version="2.0"><channel><title>APOD</title>
<item><title>Galaxy</title><link>https://apod/ap250920.html</link>
<enclosure url="https://apod/galaxy.jpg" type="image/jpeg" length="1"/>
<pubDate>Sat, 20 Sep 2025 04:00:00 GMT</pubDate></item>
</channel></rss>`))
	}))
	defer server.Close()

	cfg := config.TestConfig()
	cfg.Source.URL = server.URL
	cfg.Source.Format = ""

	src, err := New(cfg)
	require.NoError(t, err)

	records, err := src.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "2025-09-20", records[0].Date)
	assert.Equal(t, "https://apod/galaxy.jpg", records[0].URL)
}
