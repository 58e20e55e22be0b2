package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Collector records bot activity in a private Prometheus registry.
type Collector struct {
	reg            *prometheus.Registry
	events         *prometheus.CounterVec
	unauthorized   prometheus.Counter
	lookupDuration *prometheus.HistogramVec
}

// NewCollector registers the bot's metrics.
func NewCollector() *Collector {
	c := &Collector{
		reg: prometheus.NewRegistry(),
		events: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "sitecheck_events_total", Help: "Inbound events by kind and outcome"},
			[]string{"kind", "outcome"},
		),
		unauthorized: prometheus.NewCounter(
			prometheus.CounterOpts{Name: "sitecheck_unauthorized_total", Help: "Events rejected by the allow-list"},
		),
		lookupDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sitecheck_lookup_duration_seconds",
				Help:    "Duration of probe, registration and screenshot lookups",
				Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
			},
			[]string{"lookup"},
		),
	}
	c.reg.MustRegister(c.events, c.unauthorized, c.lookupDuration)
	return c
}

// ObserveLookup records how long a lookup took.
func (c *Collector) ObserveLookup(name string, duration time.Duration) {
	c.lookupDuration.WithLabelValues(name).Observe(duration.Seconds())
}

// CountEvent records one handled event.
func (c *Collector) CountEvent(kind, outcome string) {
	c.events.WithLabelValues(kind, outcome).Inc()
	if outcome == "unauthorized" {
		c.unauthorized.Inc()
	}
}

// Registry exposes the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.reg
}

// Handler serves /metrics and /healthz.
func (c *Collector) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

// Serve runs the metrics listener on addr until ctx is cancelled.
func (c *Collector) Serve(ctx context.Context, addr string, logger *zap.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           c.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("metrics listener started", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
