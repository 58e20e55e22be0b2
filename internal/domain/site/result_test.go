package site

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestOptional(t *testing.T) {
	some := Some(42)
	if v, ok := some.Get(); !ok || v != 42 {
		t.Fatalf("Some(42).Get() = %d, %v", v, ok)
	}
	if some.OrElse(7) != 42 {
		t.Fatal("OrElse should return the resolved value")
	}

	none := None[string]()
	if none.OK() {
		t.Fatal("None must not be OK")
	}
	if none.OrElse("N/A") != "N/A" {
		t.Fatalf("expected fallback, got %q", none.OrElse("N/A"))
	}
}

func TestProbeResultFailed(t *testing.T) {
	if (ProbeResult{}).Failed() {
		t.Fatal("zero result should not be failed")
	}
	if !(ProbeResult{Err: errors.New("boom")}).Failed() {
		t.Fatal("result with error should be failed")
	}
}

func TestScreenshotRemove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shot.png")
	if err := os.WriteFile(path, []byte("png"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	shot := Screenshot{Path: Some(path)}
	if !shot.Captured() {
		t.Fatal("expected screenshot to be captured")
	}
	if err := shot.Remove(); err != nil {
		t.Fatalf("Remove returned error: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected file to be deleted, stat err = %v", err)
	}
	if err := shot.Remove(); err != nil {
		t.Fatalf("second Remove should be a no-op, got %v", err)
	}

	if err := (Screenshot{}).Remove(); err != nil {
		t.Fatalf("Remove on empty screenshot returned %v", err)
	}
}
