package report

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/khanhnv2901/sitecheck-bot/internal/domain/site"
	"github.com/khanhnv2901/sitecheck-bot/internal/domain/view"
	"github.com/khanhnv2901/sitecheck-bot/internal/shared/constants"
	sharedErrors "github.com/khanhnv2901/sitecheck-bot/internal/shared/errors"
)

// Fixed user-facing texts.
const (
	WelcomeText      = "Welcome to the Website Checker Bot!\nSend me a website URL to check its availability and get detailed information."
	RejectionText    = "Sorry, you are not authorized to use this bot."
	ProcessingText   = "Processing your request..."
	ErrorTextPrefix  = "Error checking website: "
	ScreenshotFailed = "\n❌ Could not generate screenshot"
	URLTooLong       = "ℹ️ This URL is too long for the More Info button.\n"

	MoreInfoLabel = "More Info ℹ️"
	BackLabel     = "Back 🔙"
)

// dateLayout matches how registration dates are shown to users.
const dateLayout = "2006-01-02 15:04:05"

// Button is an inline button carrying an encoded callback payload.
type Button struct {
	Label   string
	Payload string
}

// Reply is a rendered view. Button is nil when no payload could be encoded.
type Reply struct {
	View   view.View
	Text   string
	Button *Button
}

// SummaryView renders the availability panel with a More Info button. The
// returned error only concerns the button; Text is always usable.
func SummaryView(url string, probe site.ProbeResult) (Reply, error) {
	var b strings.Builder
	b.WriteString("🌐 Website: " + url + "\n")
	b.WriteString("⏱ Response Time: " + formatInt64(probe.ElapsedMS) + "ms\n")
	b.WriteString("📊 Status: " + formatInt(probe.StatusCode) + "\n")

	reply := Reply{View: view.Summary, Text: b.String()}
	button, err := newButton(MoreInfoLabel, view.TagMore, url)
	if err != nil {
		if errors.Is(err, sharedErrors.ErrPayloadTooLong) {
			reply.Text += URLTooLong
		}
		return reply, err
	}
	reply.Button = button
	return reply, nil
}

// DetailView renders the registration panel with a Back button.
func DetailView(url string, reg site.RegistrationInfo) (Reply, error) {
	var b strings.Builder
	b.WriteString("🌐 Detailed Information for " + url + "\n\n")
	b.WriteString("🔍 IP Address: " + reg.IP.OrElse(constants.Unavailable) + "\n")
	b.WriteString("🏢 Registrar: " + reg.Registrar.OrElse(constants.Unavailable) + "\n")
	b.WriteString("📅 Created: " + formatDate(reg.CreatedAt) + "\n")
	b.WriteString("⌛ Expires: " + formatDate(reg.ExpiresAt) + "\n")

	reply := Reply{View: view.Detail, Text: b.String()}
	button, err := newButton(BackLabel, view.TagBack, url)
	if err != nil {
		return reply, err
	}
	reply.Button = button
	return reply, nil
}

// WithoutScreenshot appends the failed-capture note to a summary text.
func WithoutScreenshot(text string) string {
	return text + ScreenshotFailed
}

// ErrorText renders the message shown when handling a URL fails outright.
func ErrorText(err error) string {
	if err == nil {
		return ErrorTextPrefix + "unknown error"
	}
	return ErrorTextPrefix + err.Error()
}

func newButton(label string, tag view.Tag, url string) (*Button, error) {
	payload, err := view.Encode(tag, url)
	if err != nil {
		return nil, err
	}
	return &Button{Label: label, Payload: payload}, nil
}

func formatInt(v site.Optional[int]) string {
	if n, ok := v.Get(); ok {
		return strconv.Itoa(n)
	}
	return constants.Unavailable
}

func formatInt64(v site.Optional[int64]) string {
	if n, ok := v.Get(); ok {
		return strconv.FormatInt(n, 10)
	}
	return constants.Unavailable
}

func formatDate(v site.Optional[time.Time]) string {
	if t, ok := v.Get(); ok {
		return t.UTC().Format(dateLayout)
	}
	return constants.Unavailable
}
