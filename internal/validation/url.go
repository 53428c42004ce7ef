package validation

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

// SourceURLValidator checks the data source URL before any request is made.
type SourceURLValidator struct {
	// AllowLocal permits localhost, loopback and private network hosts
	AllowLocal bool
	// MaxLength is the maximum allowed URL length
	MaxLength int
}

// NewSourceURLValidator creates a validator that rejects local hosts.
func NewSourceURLValidator() *SourceURLValidator {
	return &SourceURLValidator{AllowLocal: false, MaxLength: 2048}
}

// NewPermissiveSourceURLValidator allows local mirrors and test servers.
func NewPermissiveSourceURLValidator() *SourceURLValidator {
	return &SourceURLValidator{AllowLocal: true, MaxLength: 2048}
}

// ValidateAndNormalize validates a source URL and returns its normalized form.
// A missing scheme defaults to https.
func (v *SourceURLValidator) ValidateAndNormalize(input string) (string, error) {
	input = strings.TrimSpace(input)

	if input == "" {
		return "", fmt.Errorf("URL cannot be empty")
	}
	if len(input) > v.MaxLength {
		return "", fmt.Errorf("URL too long (max %d characters)", v.MaxLength)
	}
	if strings.ContainsAny(input, "<>\"'` ") {
		return "", fmt.Errorf("URL contains invalid characters")
	}

	if !strings.Contains(input, "://") {
		input = "https://" + input
	}

	parsed, err := url.Parse(input)
	if err != nil {
		return "", fmt.Errorf("invalid URL format: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("URL must use http or https protocol")
	}
	if parsed.Hostname() == "" {
		return "", fmt.Errorf("URL must have a valid hostname")
	}
	if strings.Contains(parsed.Path, "..") {
		return "", fmt.Errorf("directory traversal patterns not allowed in URL path")
	}

	if !v.AllowLocal && isLocalHost(parsed.Hostname()) {
		return "", fmt.Errorf("local and private hosts are not permitted: %s", parsed.Hostname())
	}

	return parsed.String(), nil
}

// isLocalHost reports whether host names this machine or a private network.
func isLocalHost(host string) bool {
	host = strings.ToLower(host)
	if host == "localhost" || strings.HasSuffix(host, ".localhost") {
		return true
	}
	ip := net.ParseIP(host)
	if ip == nil {
		return false
	}
	return ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() || ip.IsUnspecified()
}
