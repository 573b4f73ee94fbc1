package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"

	"indicators/internal/config"
)

// MeterName is the instrumentation scope for all indicator metrics and spans
const MeterName = "indicators"

// TelemetryProviders holds the OpenTelemetry providers and the Prometheus
// registry their metrics are exported to.
type TelemetryProviders struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
	Tracer         trace.Tracer
	Meter          metric.Meter
	Registry       *prometheus.Registry
	MetricsHandler http.Handler
}

// InitializeTelemetry sets up tracing and metrics and installs them as the
// global providers. Spans are always recorded; they are only exported when
// TraceExporter is "stdout", in which case they go to traceOut (stderr when
// nil).
func InitializeTelemetry(ctx context.Context, cfg config.TelemetryConfig, traceOut io.Writer, logger *slog.Logger) (*TelemetryProviders, error) {
	if logger == nil {
		logger = GetLogger()
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(config.AppVersion),
	)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	exporter, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)

	tpOpts := []sdktrace.TracerProviderOption{sdktrace.WithResource(res)}
	switch cfg.TraceExporter {
	case "stdout":
		if traceOut == nil {
			traceOut = os.Stderr
		}
		spanExporter, err := stdouttrace.New(stdouttrace.WithWriter(traceOut))
		if err != nil {
			return nil, fmt.Errorf("failed to create trace exporter: %w", err)
		}
		tpOpts = append(tpOpts, sdktrace.WithBatcher(spanExporter))
	case "", "none":
	default:
		return nil, fmt.Errorf("unsupported trace exporter: %s", cfg.TraceExporter)
	}
	tp := sdktrace.NewTracerProvider(tpOpts...)

	otel.SetTracerProvider(tp)
	otel.SetMeterProvider(mp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	logger.InfoContext(ctx, "telemetry_initialized",
		slog.String("service", cfg.ServiceName),
		slog.String("trace_exporter", cfg.TraceExporter))

	return &TelemetryProviders{
		TracerProvider: tp,
		MeterProvider:  mp,
		Tracer:         tp.Tracer(MeterName, trace.WithInstrumentationVersion(config.AppVersion)),
		Meter:          mp.Meter(MeterName, metric.WithInstrumentationVersion(config.AppVersion)),
		Registry:       registry,
		MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	}, nil
}

// WriteTextfile writes the current metrics in Prometheus text format, for
// batch runs scraped through a node exporter textfile collector.
func (p *TelemetryProviders) WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	if err := config.EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	if err := prometheus.WriteToTextfile(path, p.Registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}

// Shutdown flushes and stops both providers
func (p *TelemetryProviders) Shutdown(ctx context.Context) error {
	var errs []error
	if p.TracerProvider != nil {
		if err := p.TracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider: %w", err))
		}
	}
	if p.MeterProvider != nil {
		if err := p.MeterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider: %w", err))
		}
	}
	return errors.Join(errs...)
}

// SpanTraceID returns the OpenTelemetry trace ID of the span in ctx, or "".
func SpanTraceID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.HasTraceID() {
		return ""
	}
	return sc.TraceID().String()
}
