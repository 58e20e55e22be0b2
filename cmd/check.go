package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/khanhnv2901/sitecheck-bot/internal/application"
	"github.com/khanhnv2901/sitecheck-bot/internal/application/report"
	"github.com/khanhnv2901/sitecheck-bot/internal/application/session"
	"github.com/khanhnv2901/sitecheck-bot/internal/checker"
	"github.com/khanhnv2901/sitecheck-bot/internal/domain/site"
	"github.com/khanhnv2901/sitecheck-bot/internal/shared/constants"
	sharedErrors "github.com/khanhnv2901/sitecheck-bot/internal/shared/errors"
)

var checkCmd = &cobra.Command{
	Use:   "check <url>",
	Short: "Check one website from the terminal",
	Long: `Run the same availability probe and registration lookup the bot performs
and print both views. With --screenshot the page is also captured and the
image kept at the given path.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		appCtx := getAppContext(cmd)
		shotPath, _ := cmd.Flags().GetString("screenshot")

		if strings.TrimSpace(args[0]) == "" {
			return sharedErrors.ErrEmptyTarget
		}
		url := checker.NormalizeURL(args[0])

		container := application.NewContainer(appCtx.Config.Settings(), appCtx.Logger)
		ctx := cmd.Context()

		var outcome session.Outcome
		if shotPath != "" {
			var err error
			outcome, err = container.Pipeline.Run(ctx, url)
			if err != nil {
				_ = outcome.Screenshot.Remove()
				return err
			}
		} else {
			outcome = session.Outcome{
				URL:          url,
				Probe:        container.Pipeline.Probe(ctx, url),
				Registration: container.Pipeline.Lookup(ctx, url),
			}
		}
		defer func() {
			if err := outcome.Screenshot.Remove(); err != nil {
				appCtx.Logger.Warn("failed to remove temporary screenshot", zap.Error(err))
			}
		}()

		savedTo := ""
		if shotPath != "" && outcome.Screenshot.Captured() {
			src, _ := outcome.Screenshot.Path.Get()
			if err := copyFile(src, shotPath); err != nil {
				return fmt.Errorf("failed to save screenshot: %w", err)
			}
			savedTo = shotPath
		}

		renderCheck(cmd.OutOrStdout(), url, outcome.Probe, outcome.Registration, shotPath != "", savedTo)
		if outcome.Probe.Failed() {
			return outcome.Probe.Err
		}
		return nil
	},
}

func init() {
	checkCmd.Flags().String("screenshot", "", "Capture the page and save the PNG to this path")
}

// renderCheck prints the summary and detail views with terminal colours.
func renderCheck(w io.Writer, url string, probe site.ProbeResult, reg site.RegistrationInfo, wantShot bool, savedTo string) {
	summary, _ := report.SummaryView(url, probe)
	detail, _ := report.DetailView(url, reg)

	if probe.Failed() {
		fmt.Fprintf(w, "%s %s\n", colorError("✗"), report.ErrorText(probe.Err))
	} else {
		status := constants.Unavailable
		if code, ok := probe.StatusCode.Get(); ok {
			status = strconv.Itoa(code)
		}
		fmt.Fprintf(w, "%s %s responded with %s\n", colorSuccess("✓"), url, formatStatusWithColor(status))
	}
	fmt.Fprintln(w)
	fmt.Fprint(w, summary.Text)
	fmt.Fprintln(w)
	fmt.Fprint(w, detail.Text)

	if reg.Failed() {
		fmt.Fprintf(w, "%s registration lookup failed: %v\n", colorWarn("!"), reg.Err)
	} else if reg.WhoisErr != nil {
		fmt.Fprintf(w, "%s whois unavailable: %v\n", colorWarn("!"), reg.WhoisErr)
	}

	switch {
	case savedTo != "":
		fmt.Fprintf(w, "%s Screenshot saved to %s\n", colorSuccess("✓"), savedTo)
	case wantShot:
		fmt.Fprintln(w, colorError(strings.TrimPrefix(report.ScreenshotFailed, "\n")))
	}
}

func copyFile(src, dst string) error {
	in, err := os.Open(src) // #nosec G304 -- src is the capturer's own temp file.
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, constants.DefaultFilePerm) // #nosec G304 -- operator-provided output path.
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
