package checker

import (
	"context"
	"time"

	"github.com/khanhnv2901/sitecheck-bot/internal/domain/site"
)

// AddressResolver resolves a host to one address.
type AddressResolver interface {
	Resolve(ctx context.Context, host string) (string, error)
}

// RegistrationQuerier fetches WHOIS data for a host.
type RegistrationQuerier interface {
	Query(ctx context.Context, host string) (WhoisRecord, error)
}

// RegistrationLookup combines DNS resolution and WHOIS into RegistrationInfo.
// DNS failure fails the lookup; WHOIS failure only degrades its own fields.
type RegistrationLookup struct {
	DNS   AddressResolver
	Whois RegistrationQuerier
}

// NewRegistrationLookup wires the default resolver and WHOIS client.
func NewRegistrationLookup(dnsTimeout, whoisTimeout time.Duration, nameservers []string) *RegistrationLookup {
	return &RegistrationLookup{
		DNS:   NewDNSResolver(dnsTimeout, nameservers),
		Whois: NewWhoisLookup(whoisTimeout),
	}
}

// Lookup resolves the URL's host then queries WHOIS for it.
func (l *RegistrationLookup) Lookup(ctx context.Context, target string) site.RegistrationInfo {
	host := ExtractHost(target)
	info := site.RegistrationInfo{
		URL:       target,
		Host:      host,
		IP:        site.None[string](),
		Registrar: site.None[string](),
		CreatedAt: site.None[time.Time](),
		ExpiresAt: site.None[time.Time](),
	}

	ip, err := l.DNS.Resolve(ctx, host)
	if err != nil {
		info.Err = err
		return info
	}
	info.IP = site.Some(ip)

	record, err := l.Whois.Query(ctx, host)
	if err != nil {
		info.WhoisErr = err
		return info
	}
	info.Registrar = record.Registrar
	info.CreatedAt = record.CreatedAt
	info.ExpiresAt = record.ExpiresAt

	return info
}

// Name returns the name of this checker
func (l *RegistrationLookup) Name() string {
	return "registration"
}
