package errors

import "errors"

// Domain errors
var (
	// Access errors
	ErrUnauthorized = errors.New("sender is not authorized")

	// Lookup errors
	ErrNetworkFailure    = errors.New("site probe failed")
	ErrResolutionFailure = errors.New("dns resolution failed")
	ErrLookupFailure     = errors.New("whois lookup failed")
	ErrCaptureFailure    = errors.New("screenshot capture failed")
	ErrEmptyTarget       = errors.New("target cannot be empty")

	// Transport errors
	ErrTransportFailure = errors.New("chat transport call failed")

	// Callback payload errors
	ErrInvalidPayload = errors.New("invalid callback payload")
	ErrPayloadTooLong = errors.New("callback payload exceeds size limit")

	// Configuration errors
	ErrMissingToken   = errors.New("bot token is required")
	ErrInvalidAllowID = errors.New("invalid allow-list identifier")
)
