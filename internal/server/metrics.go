package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Jokero/webpack.js.org/internal/theme"
)

// Metrics holds the site's Prometheus collectors on an isolated registry,
// so every server (and every test) gets its own set.
type Metrics struct {
	Registry *prometheus.Registry

	RendersTotal          *prometheus.CounterVec
	RenderDurationSeconds *prometheus.HistogramVec
	ThemeSwitchesTotal    *prometheus.CounterVec
	StoreErrorsTotal      *prometheus.CounterVec
	ContentReloadsTotal   *prometheus.CounterVec
	ReloadClients         prometheus.Gauge
	BuildInfo             *prometheus.GaugeVec
}

// NewMetrics creates a Metrics instance with all collectors registered.
func NewMetrics(version string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		Registry: reg,

		RendersTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docsite_renders_total",
				Help: "Total number of rendered views by route outcome.",
			},
			[]string{"outcome"},
		),
		RenderDurationSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "docsite_render_duration_seconds",
				Help:    "Time spent composing and writing a view.",
				Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12), // 0.5ms to ~1s
			},
			[]string{"outcome"},
		),
		ThemeSwitchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docsite_theme_switches_total",
				Help: "Total number of theme switches by target theme.",
			},
			[]string{"theme"},
		),
		StoreErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docsite_preference_store_errors_total",
				Help: "Preference store failures that were swallowed.",
			},
			[]string{"op"},
		),
		ContentReloadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docsite_content_reloads_total",
				Help: "Content tree reload attempts by result.",
			},
			[]string{"result"},
		),
		ReloadClients: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "docsite_reload_clients",
				Help: "Number of connected live-reload clients.",
			},
		),
		BuildInfo: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "docsite_info",
				Help: "Build information.",
			},
			[]string{"version"},
		),
	}

	reg.MustRegister(
		m.RendersTotal,
		m.RenderDurationSeconds,
		m.ThemeSwitchesTotal,
		m.StoreErrorsTotal,
		m.ContentReloadsTotal,
		m.ReloadClients,
		m.BuildInfo,
	)
	m.BuildInfo.WithLabelValues(version).Set(1)
	return m
}

// Handler returns an HTTP handler serving this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// StoreErrorHook counts swallowed preference store failures.
func (m *Metrics) StoreErrorHook() theme.Option {
	return theme.OnStoreError(func(op string, _ error) {
		m.StoreErrorsTotal.WithLabelValues(op).Inc()
	})
}

// ReloadResult records the outcome of a content reload.
func (m *Metrics) ReloadResult(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.ContentReloadsTotal.WithLabelValues(result).Inc()
}
