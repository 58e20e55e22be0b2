package checker

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/khanhnv2901/sitecheck-bot/internal/domain/site"
	"github.com/khanhnv2901/sitecheck-bot/internal/shared/constants"
	sharedErrors "github.com/khanhnv2901/sitecheck-bot/internal/shared/errors"
)

// maxDrainBytes caps how much of a probed body is read before closing.
const maxDrainBytes = 64 * 1024

// HTTPProber performs a single timed GET to report availability.
type HTTPProber struct {
	Timeout time.Duration
	Client  *http.Client
}

// NewHTTPProber returns a prober using the default client settings.
func NewHTTPProber(timeout time.Duration) *HTTPProber {
	if timeout <= 0 {
		timeout = constants.ProbeTimeout
	}
	return &HTTPProber{
		Timeout: timeout,
		Client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy:           http.ProxyFromEnvironment,
				TLSClientConfig: &tls.Config{MinVersion: tls.VersionTLS12},
			},
		},
	}
}

// Probe issues one GET and measures the time until response headers arrive.
// Failures are reported in the result, never returned.
func (h *HTTPProber) Probe(ctx context.Context, target string) site.ProbeResult {
	result := site.ProbeResult{
		URL:        target,
		CheckedAt:  time.Now().UTC(),
		StatusCode: site.None[int](),
		ElapsedMS:  site.None[int64](),
	}

	client := h.Client
	if client == nil {
		client = &http.Client{Timeout: h.Timeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		result.Err = fmt.Errorf("%w: create request: %v", sharedErrors.ErrNetworkFailure, err)
		return result
	}

	start := time.Now()
	resp, err := client.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		result.Err = fmt.Errorf("%w: %v", sharedErrors.ErrNetworkFailure, err)
		return result
	}
	defer resp.Body.Close()

	result.StatusCode = site.Some(resp.StatusCode)
	result.ElapsedMS = site.Some(elapsed.Milliseconds())

	// Discard response body - ignore errors as this is just cleanup
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrainBytes))

	return result
}

// Name returns the name of this checker
func (h *HTTPProber) Name() string {
	return "probe"
}
