package feed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pders01/stargaze/internal/config"
)

func TestFetcher_Fetch(t *testing.T) {
	tests := []struct {
		name           string
		serverResponse func(w http.ResponseWriter, r *http.Request)
		expectBody     string
		expectStatus   int
	}{
		{
			name: "successful fetch",
			serverResponse: func(w http.ResponseWriter, r *http.Request) {
				if got := r.Header.Get("User-Agent"); got != "stargaze-test/1.0" {
					t.Errorf("expected User-Agent stargaze-test/1.0, got %s", got)
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusOK)
				w.Write([]byte(`[]`))
			},
			expectBody: "[]",
		},
		{
			name: "service unavailable",
			serverResponse: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
			},
			expectStatus: http.StatusServiceUnavailable,
		},
		{
			name: "not found",
			serverResponse: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			},
			expectStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(tt.serverResponse))
			defer server.Close()

			fetcher := NewFetcher(config.TestConfig())
			resp, err := fetcher.Fetch(context.Background(), server.URL)

			if tt.expectStatus != 0 {
				var re *ResponseError
				if !errors.As(err, &re) {
					t.Fatalf("expected ResponseError, got %v", err)
				}
				if re.StatusCode != tt.expectStatus {
					t.Errorf("expected status %d, got %d", tt.expectStatus, re.StatusCode)
				}
				if resp != nil {
					t.Error("expected nil response on error")
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(resp.Body) != tt.expectBody {
				t.Errorf("expected body %q, got %q", tt.expectBody, resp.Body)
			}
			if resp.ContentType != "application/json" {
				t.Errorf("expected content type application/json, got %q", resp.ContentType)
			}
		})
	}
}

func TestFetcher_ResponseErrorMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := NewFetcher(config.TestConfig()).Fetch(context.Background(), server.URL)
	if err == nil {
		t.Fatal("expected error")
	}
	if got, want := err.Error(), "Request failed: 503 Service Unavailable"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFetcher_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := NewFetcher(config.TestConfig()).Fetch(context.Background(), url)

	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if te.URL != url {
		t.Errorf("expected URL %s, got %s", url, te.URL)
	}
	if Kind(err) != "transport" {
		t.Errorf("expected kind transport, got %s", Kind(err))
	}
}

func TestFetcher_Defaults(t *testing.T) {
	f := NewFetcher(nil)
	if f.userAgent != defaultUserAgent {
		t.Errorf("expected default user agent, got %s", f.userAgent)
	}
	if f.client.Timeout != defaultTimeout {
		t.Errorf("expected default timeout, got %v", f.client.Timeout)
	}
}

func TestFetcher_GetRetryAfter(t *testing.T) {
	fetcher := NewFetcher(config.TestConfig())

	tests := []struct {
		name     string
		header   string
		expected time.Duration
	}{
		{"retry after seconds", "120", 120 * time.Second},
		{"no header", "", defaultRetryAfter},
		{"invalid header", "invalid", defaultRetryAfter},
		{"negative", "-5", defaultRetryAfter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := &http.Response{Header: http.Header{}}
			if tt.header != "" {
				resp.Header.Set("Retry-After", tt.header)
			}
			if got := fetcher.GetRetryAfter(resp); got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}
