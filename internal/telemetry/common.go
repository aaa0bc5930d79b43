package telemetry

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/prometheus"
	api "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

const (
	ExporterScraper = "scraper"
	ExporterGRPC    = "grpc"
	ExporterNone    = "none"

	scrapeAddr = ":9080"
)

// Structure for Open Telemetry variables
type Telemetry struct {
	server   *http.Server          // If type of metrics collection == "scraper".
	Provider *metric.MeterProvider // If not scraper use gRPC.
	meter    api.Meter             // meter to create metrics.
	ctx      *context.Context
}

var (
	once sync.Once
)

// Initialize metrics depending on the configured exporter. Only the first
// call installs a provider.
func (t *Telemetry) InitMetrics(meterName, exporter string, ctx *context.Context) *Telemetry {
	t.ctx = ctx

	once.Do(func() {
		switch exporter {
		case ExporterNone:
			slog.Info("Metrics export disabled")
		case ExporterScraper:
			slog.Info("Starting metrics with scraper exporter")
			t.initScrapeMetrics(meterName) // Serves a page on http://localhost:9080/metrics .
		default:
			slog.Info("Starting metrics with grpc exporter")
			t.initGRPCMetrics(meterName) // Sends data to localhost:4317 or whatever OTEL_EXPORTER_OTLP_METRICS_ENDPOINT is set to.
		}
	})
	return t
}

// Close flushes pending metrics and stops the scrape endpoint
func (t *Telemetry) Close() {
	if t.Provider != nil {
		if err := t.Provider.ForceFlush(*t.ctx); err != nil {
			slog.Warn("Flushing metrics failed", "error", err)
		}
	}
	t.shutdownScraperMetrics()
}

// Initialize GRPC metrics exporter. https://opentelemetry.io/docs/languages/go/exporters/#otlp-metrics-over-grpc.
func (t *Telemetry) initGRPCMetrics(meterName string) {
	// OTEL_EXPORTER_OTLP_METRICS_ENDPOINT, default "localhost:4317"
	exporter, err := otlpmetricgrpc.New(*t.ctx)
	if err != nil {
		slog.Error("Creating GRPC exporter", "error", err)

		return
	}

	t.Provider = metric.NewMeterProvider(metric.WithReader(metric.NewPeriodicReader(exporter)))
	otel.SetMeterProvider(t.Provider)
	t.meter = t.Provider.Meter(meterName)
}

// Initialize scrape metrics exporter. https://github.com/open-telemetry/opentelemetry-go/blob/main/example/prometheus/main.go.
func (t *Telemetry) initScrapeMetrics(meterName string) {
	// The exporter is both a Reader and a prometheus.Collector
	exporter, err := prometheus.New()
	if err != nil {
		slog.Error("Creating HTML scrape exporter", "error", err)

		return
	}

	t.Provider = metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(t.Provider)
	t.meter = t.Provider.Meter(meterName)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	t.server = &http.Server{
		Addr:    scrapeAddr,
		Handler: mux,
	}

	go t.serveMetrics()
}

// Run metrics server for "scraper" open telemetry collector
func (t *Telemetry) serveMetrics() {
	slog.Info("Serving metrics", "address", "localhost"+scrapeAddr+"/metrics")

	err := t.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		slog.Info("Metrics server closed")
		return
	}
	if err != nil {
		slog.Error("Metrics server exited", "error", err)
	}
}

// Shutdown HTTP server used for "scraper" metrics collection.
func (t *Telemetry) shutdownScraperMetrics() {
	if t.server != nil {
		_ = t.server.Shutdown(*t.ctx)
		slog.Info("Shutting down metrics server")
	}
}
