package site

import (
	"errors"
	"os"
	"time"
)

// ProbeResult is the outcome of a single timed GET against a site.
type ProbeResult struct {
	URL        string
	CheckedAt  time.Time
	StatusCode Optional[int]
	ElapsedMS  Optional[int64]
	Err        error
}

// Failed reports whether the probe produced no response.
func (p ProbeResult) Failed() bool {
	return p.Err != nil
}

// RegistrationInfo carries DNS and WHOIS metadata for a site's host.
type RegistrationInfo struct {
	URL       string
	Host      string
	IP        Optional[string]
	Registrar Optional[string]
	CreatedAt Optional[time.Time]
	ExpiresAt Optional[time.Time]
	// Err is set when DNS resolution failed; every field is then unavailable.
	Err error
	// WhoisErr records a degraded WHOIS query. It never invalidates IP.
	WhoisErr error
}

// Failed reports whether the lookup could not resolve the host at all.
func (r RegistrationInfo) Failed() bool {
	return r.Err != nil
}

// Screenshot is a transient image file owned by the request that produced it.
type Screenshot struct {
	Path Optional[string]
	Err  error
}

// Captured reports whether a file was produced.
func (s Screenshot) Captured() bool {
	return s.Path.OK()
}

// Remove deletes the file if one was produced. Removing twice is not an error.
func (s Screenshot) Remove() error {
	path, ok := s.Path.Get()
	if !ok || path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
