package checker

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/likexian/whois"
	whoisparser "github.com/likexian/whois-parser"
	"golang.org/x/net/publicsuffix"

	"github.com/khanhnv2901/sitecheck-bot/internal/domain/site"
	"github.com/khanhnv2901/sitecheck-bot/internal/shared/constants"
	sharedErrors "github.com/khanhnv2901/sitecheck-bot/internal/shared/errors"
)

// WhoisQuerier fetches a raw WHOIS record. *whois.Client satisfies it.
type WhoisQuerier interface {
	Whois(domain string, servers ...string) (string, error)
}

// WhoisRecord holds the registration fields the bot presents.
type WhoisRecord struct {
	Registrar site.Optional[string]
	CreatedAt site.Optional[time.Time]
	ExpiresAt site.Optional[time.Time]
}

// WhoisLookup queries and parses WHOIS records for a host.
type WhoisLookup struct {
	Timeout time.Duration
	Client  WhoisQuerier
	Parse   func(text string) (whoisparser.WhoisInfo, error)
}

// NewWhoisLookup returns a lookup backed by the public WHOIS servers.
func NewWhoisLookup(timeout time.Duration) *WhoisLookup {
	if timeout <= 0 {
		timeout = constants.WhoisTimeout
	}
	return &WhoisLookup{
		Timeout: timeout,
		Client:  whois.NewClient().SetTimeout(timeout),
		Parse:   whoisparser.Parse,
	}
}

// Query returns the registration record of host's registrable domain.
func (w *WhoisLookup) Query(ctx context.Context, host string) (WhoisRecord, error) {
	record := WhoisRecord{
		Registrar: site.None[string](),
		CreatedAt: site.None[time.Time](),
		ExpiresAt: site.None[time.Time](),
	}

	domain := RegistrableDomain(host)
	if domain == "" {
		return record, fmt.Errorf("%w: %w", sharedErrors.ErrLookupFailure, sharedErrors.ErrEmptyTarget)
	}

	type reply struct {
		text string
		err  error
	}
	done := make(chan reply, 1)
	go func() {
		text, err := w.Client.Whois(domain)
		done <- reply{text: text, err: err}
	}()

	var raw reply
	select {
	case raw = <-done:
	case <-ctx.Done():
		return record, fmt.Errorf("%w: %v", sharedErrors.ErrLookupFailure, ctx.Err())
	}
	if raw.err != nil {
		return record, fmt.Errorf("%w: query %s: %v", sharedErrors.ErrLookupFailure, domain, raw.err)
	}

	parse := w.Parse
	if parse == nil {
		parse = whoisparser.Parse
	}
	info, err := parse(raw.text)
	if err != nil {
		return record, fmt.Errorf("%w: parse %s: %v", sharedErrors.ErrLookupFailure, domain, err)
	}

	if info.Registrar != nil {
		name := strings.TrimSpace(info.Registrar.Name)
		if name == "" {
			name = strings.TrimSpace(info.Registrar.Organization)
		}
		if name != "" {
			record.Registrar = site.Some(name)
		}
	}
	if info.Domain != nil {
		record.CreatedAt = parsedDate(info.Domain.CreatedDateInTime, info.Domain.CreatedDate)
		record.ExpiresAt = parsedDate(info.Domain.ExpirationDateInTime, info.Domain.ExpirationDate)
	}

	return record, nil
}

// RegistrableDomain reduces host to the domain a registrar holds
// (www.shop.example.co.uk -> example.co.uk). Hosts without a known public
// suffix, and IP literals, are returned unchanged.
func RegistrableDomain(host string) string {
	host = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(host)), ".")
	if host == "" || net.ParseIP(host) != nil {
		return host
	}
	if domain, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		return domain
	}
	return host
}

var whoisDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05-0700",
	"2006-01-02T15:04:05.000-0700",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05 MST",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02-Jan-2006",
	"02-Jan-2006 15:04:05 MST",
	"2006.01.02",
	"2006.01.02 15:04:05",
	"02.01.2006",
	"2006/01/02",
	"January 2 2006",
}

// parsedDate prefers the time the parser already decoded and falls back to
// FirstDate on the raw field.
func parsedDate(parsed *time.Time, raw string) site.Optional[time.Time] {
	if parsed != nil && !parsed.IsZero() {
		return site.Some(parsed.UTC())
	}
	return FirstDate(raw)
}

// FirstDate parses a WHOIS date field. Registries that report several dates
// are joined by the parser with commas; the first entry is the primary record.
func FirstDate(raw string) site.Optional[time.Time] {
	first := strings.TrimSpace(strings.Split(raw, ",")[0])
	if first == "" {
		return site.None[time.Time]()
	}
	for _, layout := range whoisDateLayouts {
		if t, err := time.Parse(layout, first); err == nil {
			return site.Some(t.UTC())
		}
	}
	return site.None[time.Time]()
}
