package constants

import (
	"io/fs"
	"time"
)

const (
	// DefaultFilePerm is the default permission used when writing screenshots.
	DefaultFilePerm fs.FileMode = 0o644
)

const (
	// ProbeTimeout bounds the single availability GET.
	ProbeTimeout = 10 * time.Second
	// DNSTimeout bounds hostname resolution during registration lookups.
	DNSTimeout = 10 * time.Second
	// WhoisTimeout bounds the WHOIS query.
	WhoisTimeout = 15 * time.Second
)

const (
	// ScreenshotSettleDelay is how long the page gets to render after navigation.
	ScreenshotSettleDelay = 2 * time.Second
	// ScreenshotMaxWidth is the widest image sent to the chat; wider captures are downscaled.
	ScreenshotMaxWidth = 1280
	// ScreenshotWindowWidth and ScreenshotWindowHeight size the headless viewport.
	ScreenshotWindowWidth  = 1920
	ScreenshotWindowHeight = 1080
	// ScreenshotTimeout caps a whole capture (launch, navigate, settle, capture).
	ScreenshotTimeout = 45 * time.Second
)

const (
	// Unavailable is rendered for any field that could not be resolved.
	Unavailable = "N/A"
	// MaxCallbackPayloadBytes is the Telegram limit for inline button data.
	MaxCallbackPayloadBytes = 64
)
