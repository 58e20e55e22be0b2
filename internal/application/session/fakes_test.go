package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/khanhnv2901/sitecheck-bot/internal/application/report"
	"github.com/khanhnv2901/sitecheck-bot/internal/domain/site"
	sharedErrors "github.com/khanhnv2901/sitecheck-bot/internal/shared/errors"
)

type sentMessage struct {
	Kind    string // text, photo, edit-text, edit-caption, delete, answer
	ChatID  int64
	ReplyTo int
	Ref     MessageRef
	Text    string
	Path    string
	Button  *report.Button
	Alert   bool
	// PhotoExisted records whether the photo file was on disk when sent.
	PhotoExisted bool
}

type fakeTransport struct {
	mu     sync.Mutex
	calls  []sentMessage
	nextID int
	failOn map[string]error
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{nextID: 100, failOn: map[string]error{}}
}

func (f *fakeTransport) record(m sentMessage) (MessageRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, m)
	if err := f.failOn[m.Kind]; err != nil {
		return MessageRef{}, err
	}
	f.nextID++
	return MessageRef{ChatID: m.ChatID, MessageID: f.nextID}, nil
}

func (f *fakeTransport) SendText(ctx context.Context, chatID int64, replyTo int, text string, button *report.Button) (MessageRef, error) {
	return f.record(sentMessage{Kind: "text", ChatID: chatID, ReplyTo: replyTo, Text: text, Button: button})
}

func (f *fakeTransport) SendPhoto(ctx context.Context, chatID int64, replyTo int, path, caption string, button *report.Button) (MessageRef, error) {
	_, statErr := os.Stat(path)
	return f.record(sentMessage{Kind: "photo", ChatID: chatID, ReplyTo: replyTo, Path: path, Text: caption, Button: button, PhotoExisted: statErr == nil})
}

func (f *fakeTransport) EditText(ctx context.Context, ref MessageRef, text string, button *report.Button) error {
	_, err := f.record(sentMessage{Kind: "edit-text", ChatID: ref.ChatID, Ref: ref, Text: text, Button: button})
	return err
}

func (f *fakeTransport) EditCaption(ctx context.Context, ref MessageRef, caption string, button *report.Button) error {
	_, err := f.record(sentMessage{Kind: "edit-caption", ChatID: ref.ChatID, Ref: ref, Text: caption, Button: button})
	return err
}

func (f *fakeTransport) Delete(ctx context.Context, ref MessageRef) error {
	_, err := f.record(sentMessage{Kind: "delete", ChatID: ref.ChatID, Ref: ref})
	return err
}

func (f *fakeTransport) AnswerCallback(ctx context.Context, queryID, text string, alert bool) error {
	_, err := f.record(sentMessage{Kind: "answer", Text: text, Alert: alert})
	return err
}

func (f *fakeTransport) Calls() []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentMessage(nil), f.calls...)
}

type fakeProber struct {
	result site.ProbeResult
	urls   []string
}

func (f *fakeProber) Name() string { return "probe" }

func (f *fakeProber) Probe(ctx context.Context, url string) site.ProbeResult {
	f.urls = append(f.urls, url)
	r := f.result
	r.URL = url
	return r
}

type fakeRegistrar struct {
	info  site.RegistrationInfo
	panic bool
	urls  []string
}

func (f *fakeRegistrar) Name() string { return "registration" }

func (f *fakeRegistrar) Lookup(ctx context.Context, url string) site.RegistrationInfo {
	f.urls = append(f.urls, url)
	if f.panic {
		panic("whois parser blew up")
	}
	i := f.info
	i.URL = url
	return i
}

type fakeCapturer struct {
	dir   string
	fail  bool
	panic bool
	urls  []string
	paths []string
}

func (f *fakeCapturer) Name() string { return "screenshot" }

func (f *fakeCapturer) Capture(ctx context.Context, url string) site.Screenshot {
	f.urls = append(f.urls, url)
	if f.panic {
		panic("browser exploded")
	}
	if f.fail || f.dir == "" {
		return site.Screenshot{Path: site.None[string](), Err: sharedErrors.ErrCaptureFailure}
	}
	path := filepath.Join(f.dir, "shot.png")
	if err := os.WriteFile(path, []byte("png"), 0o644); err != nil {
		return site.Screenshot{Path: site.None[string](), Err: err}
	}
	f.paths = append(f.paths, path)
	return site.Screenshot{Path: site.Some(path)}
}

type countingRecorder struct {
	mu      sync.Mutex
	events  map[string]int
	lookups map[string]int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{events: map[string]int{}, lookups: map[string]int{}}
}

func (c *countingRecorder) ObserveLookup(name string, d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lookups[name]++
}

func (c *countingRecorder) CountEvent(kind, outcome string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events[kind+"/"+outcome]++
}

func okProbe() site.ProbeResult {
	return site.ProbeResult{StatusCode: site.Some(200), ElapsedMS: site.Some(int64(87))}
}

func okRegistration() site.RegistrationInfo {
	return site.RegistrationInfo{
		Host:      "example.com",
		IP:        site.Some("93.184.216.34"),
		Registrar: site.Some("Example Registrar"),
		CreatedAt: site.Some(time.Date(1995, 8, 14, 4, 0, 0, 0, time.UTC)),
		ExpiresAt: site.Some(time.Date(2026, 8, 13, 4, 0, 0, 0, time.UTC)),
	}
}

func kinds(calls []sentMessage) []string {
	out := make([]string, 0, len(calls))
	for _, c := range calls {
		out = append(out, c.Kind)
	}
	return out
}

func assertKinds(t *testing.T, calls []sentMessage, want ...string) {
	t.Helper()
	got := kinds(calls)
	if len(got) != len(want) {
		t.Fatalf("transport calls = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("transport calls = %v, want %v", got, want)
		}
	}
}

var errSendFailed = errors.New("telegram: bad gateway")
