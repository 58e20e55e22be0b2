package view

import (
	"errors"
	"strings"
	"testing"

	sharedErrors "github.com/khanhnv2901/sitecheck-bot/internal/shared/errors"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	testCases := []struct {
		name string
		tag  Tag
		url  string
		want string
	}{
		{name: "more", tag: TagMore, url: "https://example.com", want: "more_https://example.com"},
		{name: "back", tag: TagBack, url: "https://example.com", want: "back_https://example.com"},
		{name: "underscore in url", tag: TagMore, url: "https://my_site.example/a_b", want: "more_https://my_site.example/a_b"},
		{name: "url containing tag prefix", tag: TagBack, url: "https://x.io/more_back_", want: "back_https://x.io/more_back_"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			data, err := Encode(tc.tag, tc.url)
			if err != nil {
				t.Fatalf("Encode returned error: %v", err)
			}
			if data != tc.want {
				t.Fatalf("Encode = %q, want %q", data, tc.want)
			}

			p, err := Decode(data)
			if err != nil {
				t.Fatalf("Decode returned error: %v", err)
			}
			if p.Tag != tc.tag || p.URL != tc.url {
				t.Fatalf("Decode = %+v, want tag %q url %q", p, tc.tag, tc.url)
			}
		})
	}
}

func TestDecodeRejectsMalformed(t *testing.T) {
	for _, data := range []string{"", "more", "more_", "info_https://example.com", "_https://example.com"} {
		if _, err := Decode(data); !errors.Is(err, sharedErrors.ErrInvalidPayload) {
			t.Errorf("Decode(%q) error = %v, want ErrInvalidPayload", data, err)
		}
	}
}

func TestEncodeLimits(t *testing.T) {
	long := "https://example.com/" + strings.Repeat("a", 64)
	if _, err := Encode(TagMore, long); !errors.Is(err, sharedErrors.ErrPayloadTooLong) {
		t.Fatalf("expected ErrPayloadTooLong, got %v", err)
	}
	if _, err := Encode(Tag("info"), "https://example.com"); !errors.Is(err, sharedErrors.ErrInvalidPayload) {
		t.Fatalf("expected ErrInvalidPayload for unknown tag, got %v", err)
	}
	if _, err := Encode(TagMore, ""); !errors.Is(err, sharedErrors.ErrInvalidPayload) {
		t.Fatalf("expected ErrInvalidPayload for empty url, got %v", err)
	}
}

func TestTagTarget(t *testing.T) {
	if TagMore.Target() != Detail {
		t.Errorf("more should open the detail view")
	}
	if TagBack.Target() != Summary {
		t.Errorf("back should open the summary view")
	}
	if Detail.String() != "detail" || Summary.String() != "summary" {
		t.Errorf("unexpected view names %q %q", Summary, Detail)
	}
}
