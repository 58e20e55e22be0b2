package application

import (
	"time"

	"go.uber.org/zap"

	"github.com/khanhnv2901/sitecheck-bot/internal/application/session"
	"github.com/khanhnv2901/sitecheck-bot/internal/checker"
	"github.com/khanhnv2901/sitecheck-bot/internal/domain/access"
	"github.com/khanhnv2901/sitecheck-bot/internal/infrastructure/metrics"
)

// Settings is the resolved runtime configuration the container needs.
type Settings struct {
	AllowedIDs   []int64
	ProbeTimeout time.Duration
	DNSTimeout   time.Duration
	WhoisTimeout time.Duration
	Nameservers  []string
	Screenshot   checker.ScreenshotOptions
	Fanout       bool
}

// Container holds all application services
// This is a simple dependency injection container
type Container struct {
	Guard     *access.Guard
	Prober    *checker.HTTPProber
	Registrar *checker.RegistrationLookup
	Capturer  *checker.ScreenshotCapturer
	Pipeline  *session.Pipeline
	Metrics   *metrics.Collector
	Logger    *zap.Logger
}

// NewContainer creates a new application service container
func NewContainer(settings Settings, logger *zap.Logger) *Container {
	if logger == nil {
		logger = zap.NewNop()
	}

	collector := metrics.NewCollector()
	prober := checker.NewHTTPProber(settings.ProbeTimeout)
	registrar := checker.NewRegistrationLookup(settings.DNSTimeout, settings.WhoisTimeout, settings.Nameservers)
	capturer := checker.NewScreenshotCapturer(settings.Screenshot)

	return &Container{
		Guard:     access.NewGuard(settings.AllowedIDs),
		Prober:    prober,
		Registrar: registrar,
		Capturer:  capturer,
		Pipeline:  session.NewPipeline(prober, registrar, capturer, settings.Fanout, collector),
		Metrics:   collector,
		Logger:    logger,
	}
}

// Router builds the session router over transport.
func (c *Container) Router(transport session.Transport) *session.Router {
	return session.NewRouter(session.Config{
		Guard:     c.Guard,
		Pipeline:  c.Pipeline,
		Transport: transport,
		Logger:    c.Logger,
		Recorder:  c.Metrics,
	})
}
