// Package checker implements the lookups the bot runs against a submitted site.
//
// Architecture overview:
//
//   - HTTPProber issues one timed GET and reports status code and latency.
//   - RegistrationLookup resolves the host (DNSResolver) and queries WHOIS
//     (WhoisLookup). DNS failure fails the lookup; WHOIS failure only leaves
//     its own fields unavailable.
//   - ScreenshotCapturer drives a throwaway headless Chrome through chromedp
//     and downsizes wide captures.
//   - Runner executes a request's lookups in order or concurrently and waits
//     for all of them before returning.
//
// No lookup returns an error to its caller. Failures are recorded in the
// result value so the reply can always be composed.
package checker
