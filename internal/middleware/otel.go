package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"

	"indicators/internal/infrastructure"
)

const instrumentationName = "indicators.http"

// OTelMiddleware traces each request and records request counters and
// latency histograms
type OTelMiddleware struct {
	tracer   trace.Tracer
	requests metric.Int64Counter
	duration metric.Float64Histogram
	active   metric.Int64UpDownCounter
}

// NewOTelMiddleware creates the middleware. Nil providers fall back to the
// global ones.
func NewOTelMiddleware(tp trace.TracerProvider, mp metric.MeterProvider) (*OTelMiddleware, error) {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	meter := mp.Meter(instrumentationName)

	requests, err := meter.Int64Counter("http_requests",
		metric.WithDescription("HTTP requests served"))
	if err != nil {
		return nil, fmt.Errorf("failed to create request counter: %w", err)
	}
	duration, err := meter.Float64Histogram("http_request_duration",
		metric.WithDescription("HTTP request latency"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5))
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}
	active, err := meter.Int64UpDownCounter("http_active_requests",
		metric.WithDescription("HTTP requests in flight"))
	if err != nil {
		return nil, fmt.Errorf("failed to create active request counter: %w", err)
	}

	return &OTelMiddleware{
		tracer:   tp.Tracer(instrumentationName),
		requests: requests,
		duration: duration,
		active:   active,
	}, nil
}

// Handler returns the middleware handler function
func (m *OTelMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

		ctx, span := m.tracer.Start(ctx, r.Method+" "+r.URL.Path,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				semconv.HTTPRequestMethodKey.String(r.Method),
				semconv.URLPath(r.URL.Path),
				semconv.UserAgentOriginal(r.UserAgent()),
			),
		)
		defer span.End()

		if sc := span.SpanContext(); sc.IsValid() {
			ctx = infrastructure.WithTraceID(ctx, sc.TraceID().String())
		}
		r = r.WithContext(ctx)

		m.active.Add(ctx, 1)
		defer m.active.Add(ctx, -1)

		ww := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(ww, r)
		elapsed := time.Since(start)

		// The route pattern is only known once chi has routed the request.
		route := routePattern(r)
		span.SetName(r.Method + " " + route)
		span.SetAttributes(
			semconv.HTTPRoute(route),
			semconv.HTTPResponseStatusCode(ww.statusCode),
			semconv.HTTPResponseBodySize(int(ww.bytesWritten)),
		)
		if ww.statusCode >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(ww.statusCode))
		}

		attrs := metric.WithAttributes(
			attribute.String("method", r.Method),
			attribute.String("route", route),
			attribute.Int("status_code", ww.statusCode),
		)
		m.requests.Add(ctx, 1, attrs)
		m.duration.Record(ctx, elapsed.Seconds(), attrs)
	})
}

// responseWriter captures the status and body size
type responseWriter struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int64
	wroteHeader  bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.statusCode = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	n, err := rw.ResponseWriter.Write(b)
	rw.bytesWritten += int64(n)
	return n, err
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
		return rctx.RoutePattern()
	}
	return r.URL.Path
}
