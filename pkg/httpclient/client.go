package httpclient

import (
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Config configures New.
type Config struct {
	Timeout        time.Duration
	UserAgent      string
	TracerProvider trace.TracerProvider
	MeterProvider  metric.MeterProvider
	// Transport is the base transport. Nil means http.DefaultTransport.
	Transport http.RoundTripper
}

// New returns an http.Client with the standard middleware chain: request id,
// user agent, logging and OpenTelemetry instrumentation.
func New(cfg Config) *http.Client {
	var otelOpts []otelhttp.Option
	if cfg.TracerProvider != nil {
		otelOpts = append(otelOpts, otelhttp.WithTracerProvider(cfg.TracerProvider))
	}
	if cfg.MeterProvider != nil {
		otelOpts = append(otelOpts, otelhttp.WithMeterProvider(cfg.MeterProvider))
	}
	base := cfg.Transport
	if base == nil {
		base = http.DefaultTransport
	}

	return &http.Client{
		Timeout: cfg.Timeout,
		Transport: Wrap(otelhttp.NewTransport(base, otelOpts...),
			RequestID(),
			UserAgent(cfg.UserAgent),
			LogRequests(),
		),
	}
}
