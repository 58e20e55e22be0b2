package view

import (
	"fmt"
	"strings"

	"github.com/khanhnv2901/sitecheck-bot/internal/shared/constants"
	sharedErrors "github.com/khanhnv2901/sitecheck-bot/internal/shared/errors"
)

// View identifies which panel a message is showing.
type View int

const (
	Summary View = iota
	Detail
)

func (v View) String() string {
	switch v {
	case Summary:
		return "summary"
	case Detail:
		return "detail"
	}
	return "unknown"
}

// Tag is the action carried by a button. The tag names the view the press
// switches to, not the view it is shown on.
type Tag string

const (
	// TagMore is attached to the summary view and opens the detail view.
	TagMore Tag = "more"
	// TagBack is attached to the detail view and returns to the summary.
	TagBack Tag = "back"
)

const separator = "_"

// Target returns the view a press of this tag renders.
func (t Tag) Target() View {
	if t == TagMore {
		return Detail
	}
	return Summary
}

func (t Tag) valid() bool {
	return t == TagMore || t == TagBack
}

// Payload is the decoded content of a button press: the action and the URL
// it refers to. Nothing about a message is kept server side; the payload is
// the only record of which site a button belongs to.
type Payload struct {
	Tag Tag
	URL string
}

// Encode renders the payload as "<tag>_<url>". The URL is embedded verbatim.
func Encode(tag Tag, url string) (string, error) {
	if !tag.valid() {
		return "", fmt.Errorf("%w: unknown tag %q", sharedErrors.ErrInvalidPayload, tag)
	}
	if url == "" {
		return "", fmt.Errorf("%w: empty url", sharedErrors.ErrInvalidPayload)
	}
	data := string(tag) + separator + url
	if len(data) > constants.MaxCallbackPayloadBytes {
		return "", fmt.Errorf("%w: %d bytes", sharedErrors.ErrPayloadTooLong, len(data))
	}
	return data, nil
}

// Decode splits a payload on its first separator. Tags never contain the
// separator, so any underscores in the URL survive the round trip.
func Decode(data string) (Payload, error) {
	tag, url, found := strings.Cut(data, separator)
	if !found {
		return Payload{}, fmt.Errorf("%w: missing separator", sharedErrors.ErrInvalidPayload)
	}
	p := Payload{Tag: Tag(tag), URL: url}
	if !p.Tag.valid() {
		return Payload{}, fmt.Errorf("%w: unknown tag %q", sharedErrors.ErrInvalidPayload, tag)
	}
	if p.URL == "" {
		return Payload{}, fmt.Errorf("%w: empty url", sharedErrors.ErrInvalidPayload)
	}
	return p, nil
}
