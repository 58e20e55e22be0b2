package cmd

import (
	"bytes"
	"strings"
	"testing"
)

func TestVersionCommand(t *testing.T) {
	var buf bytes.Buffer
	versionCmd.SetOut(&buf)
	t.Cleanup(func() {
		versionCmd.SetOut(nil)
		_ = versionCmd.Flags().Set("verbose", "false")
	})

	versionCmd.Run(versionCmd, nil)
	if got := buf.String(); got != "sitecheck-bot version "+Version+"\n" {
		t.Fatalf("unexpected short version output %q", got)
	}

	buf.Reset()
	if err := versionCmd.Flags().Set("verbose", "true"); err != nil {
		t.Fatalf("set verbose: %v", err)
	}
	versionCmd.Run(versionCmd, nil)
	out := buf.String()
	for _, want := range []string{
		"Version:    " + Version,
		"Git Commit: " + GitCommit,
		"Go Version:",
		"Browser:    auto-detected Chrome/Chromium",
		"github.com/chromedp/chromedp ",
		"github.com/go-telegram-bot-api/telegram-bot-api/v5 ",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("verbose output missing %q:\n%s", want, out)
		}
	}
}

func TestBrowserDescription(t *testing.T) {
	if got := browserDescription("/usr/bin/chromium"); got != "/usr/bin/chromium (headless)" {
		t.Errorf("browserDescription = %q", got)
	}
	if got := browserDescription(""); !strings.HasPrefix(got, "auto-detected") {
		t.Errorf("browserDescription(\"\") = %q", got)
	}
}
