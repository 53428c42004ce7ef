package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/pders01/stargaze/internal/config"
	"github.com/pders01/stargaze/internal/debuglog"
)

const (
	defaultUserAgent  = "stargaze/1.0 (https://github.com/pders01/stargaze)"
	defaultTimeout    = 30 * time.Second
	defaultRetryAfter = 15 * time.Minute
	maxBodyBytes      = 32 << 20
)

// Response is a successful fetch: the raw body plus its declared content type.
type Response struct {
	Body        []byte
	ContentType string
	URL         string
}

type Fetcher struct {
	client    *http.Client
	userAgent string
}

func NewFetcher(cfg *config.Config) *Fetcher {
	timeout := defaultTimeout
	ua := defaultUserAgent
	if cfg != nil {
		if cfg.Source.HTTPTimeout > 0 {
			timeout = cfg.Source.HTTPTimeout
		}
		if cfg.Source.UserAgent != "" {
			ua = cfg.Source.UserAgent
		}
	}
	return &Fetcher{
		client:    &http.Client{Timeout: timeout},
		userAgent: ua,
	}
}

// Fetch performs a GET against url. A transport failure yields a
// *TransportError, any non-2xx status a *ResponseError.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/json, application/rss+xml, application/atom+xml, application/xml;q=0.9, */*;q=0.8")

	debuglog.WithFields(debuglog.Fields{"url": url}).Debugf("fetching source")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &TransportError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		debuglog.Warnf("source returned %s", resp.Status)
		return nil, &ResponseError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			RetryAfter: f.GetRetryAfter(resp),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &TransportError{URL: url, Err: fmt.Errorf("reading response: %w", err)}
	}

	debuglog.Debugf("fetched %d bytes (%s)", len(body), resp.Header.Get("Content-Type"))

	return &Response{
		Body:        body,
		ContentType: resp.Header.Get("Content-Type"),
		URL:         url,
	}, nil
}

// GetRetryAfter reads a Retry-After header given in seconds.
func (f *Fetcher) GetRetryAfter(resp *http.Response) time.Duration {
	if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
		if seconds, err := strconv.Atoi(retryAfter); err == nil && seconds >= 0 {
			return time.Duration(seconds) * time.Second
		}
	}
	return defaultRetryAfter
}
