package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/stargaze/internal/storage"
	"github.com/pders01/stargaze/internal/window"
)

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	outC := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		outC <- buf.String()
	}()

	fn()

	w.Close()
	os.Stdout = old
	return <-outC
}

// resetFlags restores the package-level flag values after a test.
func resetFlags(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		configPath, dbPath, logLevel = "", "", ""
		quiet, resume = false, false
		fetchStart, fetchEnd, fetchFormat, fetchNoHistory = "", "", "text", false
		historyLimit, historyJSON, historyClear = 20, false, false
	})
}

func TestVersionCommand(t *testing.T) {
	resetFlags(t)
	quiet = true

	out := captureStdout(t, func() { versionCmd.Run(versionCmd, nil) })

	assert.Contains(t, out, "stargaze dev")
	assert.Contains(t, out, "Astronomy picture gallery")
	assert.Contains(t, out, "github.com/pders01/stargaze")
	assert.Contains(t, out, "Source formats:")
	assert.Contains(t, out, "rss")
}

func TestGenerateConfigCommand(t *testing.T) {
	resetFlags(t)
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)
	configFile := filepath.Join(tmpDir, ".config", "stargaze", "config.toml")

	var runErr error
	out := captureStdout(t, func() { runErr = generateConfigCmd.RunE(generateConfigCmd, nil) })
	require.NoError(t, runErr)

	_, err := os.Stat(configFile)
	assert.NoError(t, err, "config file should exist at %s", configFile)
	assert.Contains(t, out, "Generated default configuration at:")
}

func TestResolveRange(t *testing.T) {
	bound := window.Bound{Min: window.EarliestDate, Max: "2025-10-01"}
	def := window.Range{Start: "2025-09-18", End: "2025-10-01"}

	tests := []struct {
		name        string
		start, end  string
		expected    window.Range
		shouldError bool
	}{
		{name: "defaults", expected: def},
		{name: "start derives end", start: "2025-09-01", expected: window.Range{Start: "2025-09-01", End: "2025-09-09"}},
		{name: "derived end clamps to today", start: "2025-09-28", expected: window.Range{Start: "2025-09-28", End: "2025-10-01"}},
		{name: "explicit end", start: "2025-09-01", end: "2025-09-03", expected: window.Range{Start: "2025-09-01", End: "2025-09-03"}},
		{name: "start before earliest is clamped", start: "1990-01-01", expected: window.Range{Start: "1995-06-16", End: "1995-06-24"}},
		{name: "end without start", end: "2025-09-03", shouldError: true},
		{name: "end before start", start: "2025-09-10", end: "2025-09-01", shouldError: true},
		{name: "malformed start", start: "09/18/2025", shouldError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveRange(bound, window.DefaultSpan, tt.start, tt.end, def)
			if tt.shouldError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func writeTestConfig(t *testing.T, sourceURL string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := fmt.Sprintf(`[source]
url = %q
format = "json"
allow_local = true
http_timeout = "5s"

[log]
level = "off"
`, sourceURL)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func apodServer(t *testing.T, status int) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		var records []map[string]string
		for d := 15; d <= 30; d++ {
			date := fmt.Sprintf("2025-09-%02d", d)
			records = append(records, map[string]string{
				"date":       date,
				"title":      "Picture " + date,
				"media_type": "image",
				"url":        "https://apod.test/" + date + ".jpg",
			})
		}
		assert.NoError(t, json.NewEncoder(w).Encode(records))
	}))
	t.Cleanup(server.Close)
	return server
}

func runFetchCommand(t *testing.T) (string, error) {
	t.Helper()
	var out bytes.Buffer
	fetchCmd.SetOut(&out)
	fetchCmd.SetContext(context.Background())
	t.Cleanup(func() { fetchCmd.SetOut(nil) })

	err := runFetch(fetchCmd, nil)
	return out.String(), err
}

func TestFetchCommand_JSON(t *testing.T) {
	resetFlags(t)
	server := apodServer(t, http.StatusOK)

	configPath = writeTestConfig(t, server.URL+"/data.json")
	dbPath = filepath.Join(t.TempDir(), "history.db")
	fetchStart = "2025-09-18"
	fetchFormat = "json"

	out, err := runFetchCommand(t)
	require.NoError(t, err)

	var doc struct {
		State string `json:"state"`
		Items []struct {
			Date string `json:"date"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "populated", doc.State)
	require.Len(t, doc.Items, 9)
	assert.Equal(t, "2025-09-26", doc.Items[0].Date)
	assert.Equal(t, "2025-09-18", doc.Items[8].Date)

	store, err := storage.NewStore(dbPath, time.Second)
	require.NoError(t, err)
	defer store.Close()

	entries, err := store.History(10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 9, entries[0].Count)
}

func TestFetchCommand_ServerError(t *testing.T) {
	resetFlags(t)
	server := apodServer(t, http.StatusServiceUnavailable)

	configPath = writeTestConfig(t, server.URL+"/data.json")
	fetchNoHistory = true

	out, err := runFetchCommand(t)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
	assert.Contains(t, out, "Could not load images.")
}

func TestFetchCommand_NoResults(t *testing.T) {
	resetFlags(t)
	server := apodServer(t, http.StatusOK)

	configPath = writeTestConfig(t, server.URL+"/data.json")
	fetchNoHistory = true
	fetchStart = "2024-01-01"
	fetchFormat = "yaml"

	out, err := runFetchCommand(t)
	require.NoError(t, err)
	assert.Contains(t, out, "state: empty")
}

func TestWriteHistory(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeHistory(&buf, nil))
	assert.Contains(t, buf.String(), "No fetches recorded yet")

	buf.Reset()
	entries := []*storage.HistoryEntry{
		{At: time.Now(), Start: "2025-09-18", End: "2025-09-26", State: "populated", Count: 9, Duration: 420},
		{At: time.Now(), Start: "2025-09-18", End: "2025-09-26", State: "errored", ErrorKind: "response", Message: "Could not load images. Request failed: 503 Service Unavailable"},
	}
	require.NoError(t, writeHistory(&buf, entries))

	out := buf.String()
	assert.Contains(t, out, "2025-09-18 → 2025-09-26")
	assert.Contains(t, out, "populated")
	assert.Contains(t, out, "420ms")
	assert.True(t, strings.Contains(out, "503"), "error detail should be listed")
}
