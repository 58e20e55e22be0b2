package checker

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/khanhnv2901/sitecheck-bot/internal/domain/site"
	sharedErrors "github.com/khanhnv2901/sitecheck-bot/internal/shared/errors"
)

type stubAddressResolver struct {
	ip    string
	err   error
	hosts []string
}

func (s *stubAddressResolver) Resolve(ctx context.Context, host string) (string, error) {
	s.hosts = append(s.hosts, host)
	return s.ip, s.err
}

type stubRegistrationQuerier struct {
	record WhoisRecord
	err    error
	calls  int
}

func (s *stubRegistrationQuerier) Query(ctx context.Context, host string) (WhoisRecord, error) {
	s.calls++
	return s.record, s.err
}

func TestRegistrationLookup_Success(t *testing.T) {
	created := time.Date(1995, 8, 14, 4, 0, 0, 0, time.UTC)
	dns := &stubAddressResolver{ip: "93.184.216.34"}
	lookup := &RegistrationLookup{
		DNS: dns,
		Whois: &stubRegistrationQuerier{record: WhoisRecord{
			Registrar: site.Some("RESERVED-Internet Assigned Numbers Authority"),
			CreatedAt: site.Some(created),
			ExpiresAt: site.None[time.Time](),
		}},
	}

	info := lookup.Lookup(context.Background(), "https://example.com/path")
	if info.Failed() || info.WhoisErr != nil {
		t.Fatalf("unexpected errors: %v / %v", info.Err, info.WhoisErr)
	}
	if len(dns.hosts) != 1 || dns.hosts[0] != "example.com" {
		t.Errorf("expected bare hostname lookup, got %v", dns.hosts)
	}
	if info.Host != "example.com" {
		t.Errorf("Host = %q", info.Host)
	}
	if info.IP.OrElse("") != "93.184.216.34" {
		t.Errorf("IP = %q", info.IP.OrElse(""))
	}
	if got, _ := info.CreatedAt.Get(); !got.Equal(created) {
		t.Errorf("CreatedAt = %v", got)
	}
	if info.ExpiresAt.OK() {
		t.Error("ExpiresAt should stay unavailable")
	}
}

func TestRegistrationLookup_WhoisFailureDegrades(t *testing.T) {
	lookup := &RegistrationLookup{
		DNS:   &stubAddressResolver{ip: "192.0.2.10"},
		Whois: &stubRegistrationQuerier{err: fmt.Errorf("%w: timeout", sharedErrors.ErrLookupFailure)},
	}

	info := lookup.Lookup(context.Background(), "https://example.net")
	if info.Failed() {
		t.Fatalf("WHOIS failure must not fail the lookup: %v", info.Err)
	}
	if !errors.Is(info.WhoisErr, sharedErrors.ErrLookupFailure) {
		t.Errorf("expected WhoisErr to record the failure, got %v", info.WhoisErr)
	}
	if info.IP.OrElse("") != "192.0.2.10" {
		t.Errorf("IP should remain populated, got %q", info.IP.OrElse(""))
	}
	if info.Registrar.OK() || info.CreatedAt.OK() || info.ExpiresAt.OK() {
		t.Errorf("WHOIS fields should be unavailable: %+v", info)
	}
}

func TestRegistrationLookup_DNSFailureIsFatal(t *testing.T) {
	whois := &stubRegistrationQuerier{}
	lookup := &RegistrationLookup{
		DNS:   &stubAddressResolver{err: fmt.Errorf("%w: no such host", sharedErrors.ErrResolutionFailure)},
		Whois: whois,
	}

	info := lookup.Lookup(context.Background(), "https://missing.invalid")
	if !errors.Is(info.Err, sharedErrors.ErrResolutionFailure) {
		t.Fatalf("expected ErrResolutionFailure, got %v", info.Err)
	}
	if whois.calls != 0 {
		t.Errorf("WHOIS should not be queried after DNS failure")
	}
	if info.IP.OK() || info.Registrar.OK() {
		t.Errorf("no field may be resolved after DNS failure: %+v", info)
	}
}

func TestRegistrationLookup_Name(t *testing.T) {
	if got := NewRegistrationLookup(time.Second, time.Second, nil).Name(); got != "registration" {
		t.Errorf("Expected name 'registration', got '%s'", got)
	}
}
