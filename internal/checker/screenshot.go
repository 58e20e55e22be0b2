package checker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"github.com/khanhnv2901/sitecheck-bot/internal/domain/site"
	"github.com/khanhnv2901/sitecheck-bot/internal/shared/constants"
	sharedErrors "github.com/khanhnv2901/sitecheck-bot/internal/shared/errors"
)

// ScreenshotOptions configures the headless browser capture.
type ScreenshotOptions struct {
	SettleDelay  time.Duration // Time to wait after navigation for rendering
	MaxWidth     int           // Captures wider than this are downscaled
	WindowWidth  int
	WindowHeight int
	Timeout      time.Duration // Cap for launch, navigation and capture together
	ExecPath     string        // Optional browser binary
	TempDir      string        // Directory for captured files, os.TempDir() when empty
}

// DefaultScreenshotOptions returns the capture defaults.
func DefaultScreenshotOptions() ScreenshotOptions {
	return ScreenshotOptions{
		SettleDelay:  constants.ScreenshotSettleDelay,
		MaxWidth:     constants.ScreenshotMaxWidth,
		WindowWidth:  constants.ScreenshotWindowWidth,
		WindowHeight: constants.ScreenshotWindowHeight,
		Timeout:      constants.ScreenshotTimeout,
	}
}

// ScreenshotCapturer renders a page in a fresh headless Chrome and stores
// the viewport as a PNG.
type ScreenshotCapturer struct {
	Options ScreenshotOptions
}

// NewScreenshotCapturer fills unset options from the defaults.
func NewScreenshotCapturer(opts ScreenshotOptions) *ScreenshotCapturer {
	defaults := DefaultScreenshotOptions()
	if opts.SettleDelay <= 0 {
		opts.SettleDelay = defaults.SettleDelay
	}
	if opts.MaxWidth <= 0 {
		opts.MaxWidth = defaults.MaxWidth
	}
	if opts.WindowWidth <= 0 {
		opts.WindowWidth = defaults.WindowWidth
	}
	if opts.WindowHeight <= 0 {
		opts.WindowHeight = defaults.WindowHeight
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaults.Timeout
	}
	return &ScreenshotCapturer{Options: opts}
}

// Capture renders target and returns the image path. Every failure yields a
// Screenshot without a path; the caller owns removing a produced file.
func (c *ScreenshotCapturer) Capture(ctx context.Context, target string) (shot site.Screenshot) {
	shot = site.Screenshot{Path: site.None[string]()}

	defer func() {
		if r := recover(); r != nil {
			shot = site.Screenshot{
				Path: site.None[string](),
				Err:  fmt.Errorf("%w: panic: %v", sharedErrors.ErrCaptureFailure, r),
			}
		}
	}()

	buf, err := c.render(ctx, target)
	if err != nil {
		shot.Err = fmt.Errorf("%w: %v", sharedErrors.ErrCaptureFailure, err)
		return shot
	}

	path := filepath.Join(c.tempDir(), fmt.Sprintf("screenshot-%s.png", uuid.NewString()))
	if err := os.WriteFile(path, buf, constants.DefaultFilePerm); err != nil {
		shot.Err = fmt.Errorf("%w: write %s: %v", sharedErrors.ErrCaptureFailure, path, err)
		return shot
	}

	if err := DownscaleImage(path, c.Options.MaxWidth); err != nil {
		_ = os.Remove(path)
		shot.Err = fmt.Errorf("%w: %v", sharedErrors.ErrCaptureFailure, err)
		return shot
	}

	shot.Path = site.Some(path)
	return shot
}

// render launches an isolated browser, navigates, waits and captures. The
// browser is torn down by the deferred cancels on every path.
func (c *ScreenshotCapturer) render(ctx context.Context, target string) ([]byte, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Headless,
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("start-maximized", true),
		chromedp.WindowSize(c.Options.WindowWidth, c.Options.WindowHeight),
	)
	if c.Options.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(c.Options.ExecPath))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	runCtx, cancel := context.WithTimeout(browserCtx, c.Options.Timeout)
	defer cancel()

	var buf []byte
	err := chromedp.Run(runCtx,
		chromedp.Navigate(target),
		chromedp.Sleep(c.Options.SettleDelay),
		chromedp.CaptureScreenshot(&buf),
	)
	if err != nil {
		return nil, err
	}
	if len(buf) == 0 {
		return nil, fmt.Errorf("browser returned an empty image")
	}
	return buf, nil
}

func (c *ScreenshotCapturer) tempDir() string {
	if c.Options.TempDir != "" {
		return c.Options.TempDir
	}
	return os.TempDir()
}

// DownscaleImage rewrites the image at path to maxWidth pixels wide, keeping
// the aspect ratio, when it is wider than that. Narrower images are untouched.
func DownscaleImage(path string, maxWidth int) error {
	img, err := imaging.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	if maxWidth <= 0 || img.Bounds().Dx() <= maxWidth {
		return nil
	}

	resized := imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
	if err := imaging.Save(resized, path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// Name returns the name of this checker
func (c *ScreenshotCapturer) Name() string {
	return "screenshot"
}
