package session

import (
	"context"
	"time"

	"github.com/khanhnv2901/sitecheck-bot/internal/checker"
	"github.com/khanhnv2901/sitecheck-bot/internal/domain/site"
)

// Prober checks a site's availability.
type Prober interface {
	checker.Checker
	Probe(ctx context.Context, url string) site.ProbeResult
}

// Registrar fetches a site's DNS and WHOIS metadata.
type Registrar interface {
	checker.Checker
	Lookup(ctx context.Context, url string) site.RegistrationInfo
}

// Capturer renders a screenshot of a site.
type Capturer interface {
	checker.Checker
	Capture(ctx context.Context, url string) site.Screenshot
}

// Recorder receives lookup timings and event outcomes.
type Recorder interface {
	ObserveLookup(name string, duration time.Duration)
	CountEvent(kind, outcome string)
}

type nopRecorder struct{}

func (nopRecorder) ObserveLookup(string, time.Duration) {}
func (nopRecorder) CountEvent(string, string)           {}

// Outcome holds every lookup result of one submitted URL.
type Outcome struct {
	URL          string
	Probe        site.ProbeResult
	Registration site.RegistrationInfo
	Screenshot   site.Screenshot
}

// Pipeline runs the three lookups for a URL and joins their results.
type Pipeline struct {
	prober    Prober
	registrar Registrar
	capturer  Capturer
	runner    *checker.Runner
	recorder  Recorder
}

// NewPipeline builds a pipeline. With concurrent set the lookups fan out;
// otherwise they run in probe, registration, screenshot order.
func NewPipeline(prober Prober, registrar Registrar, capturer Capturer, concurrent bool, recorder Recorder) *Pipeline {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Pipeline{
		prober:    prober,
		registrar: registrar,
		capturer:  capturer,
		runner:    &checker.Runner{Concurrent: concurrent, Observe: recorder.ObserveLookup},
		recorder:  recorder,
	}
}

// Run executes all lookups and returns once every one has finished. A lookup
// that panics leaves its result empty and is reported as a *checker.PanicError;
// a screenshot captured by the other lookups is still returned for cleanup.
func (p *Pipeline) Run(ctx context.Context, url string) (Outcome, error) {
	out := Outcome{URL: url}
	err := p.runner.Run(ctx,
		checker.Task{Name: p.prober.Name(), Run: func(ctx context.Context) {
			out.Probe = p.prober.Probe(ctx, url)
		}},
		checker.Task{Name: p.registrar.Name(), Run: func(ctx context.Context) {
			out.Registration = p.registrar.Lookup(ctx, url)
		}},
		checker.Task{Name: p.capturer.Name(), Run: func(ctx context.Context) {
			out.Screenshot = p.capturer.Capture(ctx, url)
		}},
	)
	return out, err
}

// Probe runs only the availability check.
func (p *Pipeline) Probe(ctx context.Context, url string) site.ProbeResult {
	start := time.Now()
	result := p.prober.Probe(ctx, url)
	p.recorder.ObserveLookup(p.prober.Name(), time.Since(start))
	return result
}

// Lookup runs only the registration lookup.
func (p *Pipeline) Lookup(ctx context.Context, url string) site.RegistrationInfo {
	start := time.Now()
	info := p.registrar.Lookup(ctx, url)
	p.recorder.ObserveLookup(p.registrar.Name(), time.Since(start))
	return info
}
