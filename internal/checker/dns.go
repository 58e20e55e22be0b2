package checker

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/khanhnv2901/sitecheck-bot/internal/shared/constants"
	sharedErrors "github.com/khanhnv2901/sitecheck-bot/internal/shared/errors"
)

// HostResolver is the subset of *net.Resolver used for address lookups.
type HostResolver interface {
	LookupHost(ctx context.Context, host string) ([]string, error)
}

// DNSResolver resolves a hostname to a single address.
type DNSResolver struct {
	Timeout    time.Duration
	NameServer []string // Optional custom nameservers
	Resolver   HostResolver
}

// NewDNSResolver builds a resolver, dialing the first custom nameserver when given.
func NewDNSResolver(timeout time.Duration, nameservers []string) *DNSResolver {
	if timeout <= 0 {
		timeout = constants.DNSTimeout
	}

	resolver := &net.Resolver{
		PreferGo: true,
	}

	// If custom nameservers provided, use them
	if len(nameservers) > 0 {
		dialer := &net.Dialer{
			Timeout: timeout,
		}
		server := nameservers[0]
		if _, _, err := net.SplitHostPort(server); err != nil {
			server = net.JoinHostPort(server, "53")
		}
		resolver.Dial = func(ctx context.Context, network, address string) (net.Conn, error) {
			// Use first nameserver for now
			return dialer.DialContext(ctx, network, server)
		}
	}

	return &DNSResolver{
		Timeout:    timeout,
		NameServer: nameservers,
		Resolver:   resolver,
	}
}

// Resolve returns the first IPv4 address of host, or the first address of
// any family when no IPv4 record exists.
func (d *DNSResolver) Resolve(ctx context.Context, host string) (string, error) {
	if host == "" {
		return "", fmt.Errorf("%w: %w", sharedErrors.ErrResolutionFailure, sharedErrors.ErrEmptyTarget)
	}

	// Literal addresses resolve to themselves
	if ip := net.ParseIP(host); ip != nil {
		return ip.String(), nil
	}

	// Create context with timeout
	lookupCtx, cancel := context.WithTimeout(ctx, d.Timeout)
	defer cancel()

	resolver := d.Resolver
	if resolver == nil {
		resolver = net.DefaultResolver
	}

	addrs, err := resolver.LookupHost(lookupCtx, host)
	if err != nil {
		return "", fmt.Errorf("%w: %v", sharedErrors.ErrResolutionFailure, err)
	}
	if len(addrs) == 0 {
		return "", fmt.Errorf("%w: no A records found for %s", sharedErrors.ErrResolutionFailure, host)
	}

	for _, addr := range addrs {
		if ip := net.ParseIP(addr); ip != nil && ip.To4() != nil {
			return addr, nil
		}
	}
	return addrs[0], nil
}
