package checker

import (
	"net/url"
	"strings"
)

// TargetInfo contains parsed target information
type TargetInfo struct {
	Original string // Original target string
	Scheme   string // http or https
	Host     string // Hostname (without protocol, path, port)
	Port     string // Port if specified
	Path     string // Path if specified
	FullURL  string // Normalized URL handed to the prober, lookup and capturer
}

// NormalizeURL prefixes https:// when the input carries no http(s) scheme.
// The rest of the input is kept verbatim.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	lower := strings.ToLower(raw)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return raw
	}
	return "https://" + raw
}

// ParseTarget parses a target string into structured components.
// This handles various input formats:
//   - example.com
//   - http://example.com
//   - https://example.com:443/path
//   - example.com:8080
func ParseTarget(target string) *TargetInfo {
	info := &TargetInfo{
		Original: target,
		FullURL:  NormalizeURL(target),
	}

	parsed, err := url.Parse(info.FullURL)
	if err == nil && parsed != nil {
		info.Scheme = strings.ToLower(parsed.Scheme)
		info.Host = parsed.Hostname()
		info.Port = parsed.Port()
		info.Path = parsed.Path
	}

	// Fallback: if URL parsing failed, extract host manually
	if info.Host == "" {
		host := info.FullURL
		if i := strings.Index(host, "//"); i >= 0 {
			host = host[i+2:]
		}
		host = strings.Split(host, "/")[0]
		host = strings.Split(host, "?")[0]
		parts := strings.Split(host, ":")
		info.Host = parts[0]
		if len(parts) > 1 {
			info.Port = parts[1]
		}
		if info.Scheme == "" {
			info.Scheme = "https"
		}
	}

	return info
}

// ExtractHost extracts just the hostname from a target.
// This is useful for DNS and WHOIS lookups where we need the bare hostname.
func ExtractHost(target string) string {
	return ParseTarget(target).Host
}
