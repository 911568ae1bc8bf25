// Package tracing configures OpenTelemetry tracing for the framework.
package tracing

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// Config contains configuration for OpenTelemetry tracing.
type Config struct {
	ServiceName    string  `yaml:"service_name" json:"service_name"`
	ServiceVersion string  `yaml:"service_version" json:"service_version"`
	Environment    string  `yaml:"environment" json:"environment"`
	Enabled        bool    `yaml:"enabled" json:"enabled"`
	SampleRate     float64 `yaml:"sample_rate" json:"sample_rate"`

	// ExportType selects the span exporter: otlp or console.
	ExportType     string        `yaml:"export_type" json:"export_type"`
	ExportEndpoint string        `yaml:"export_endpoint" json:"export_endpoint"`
	ExportTimeout  time.Duration `yaml:"export_timeout" json:"export_timeout"`
	ExportInsecure bool          `yaml:"export_insecure" json:"export_insecure"`
}

// DefaultConfig returns the default tracing configuration. Tracing is
// off unless enabled explicitly.
func DefaultConfig() *Config {
	return &Config{
		ServiceName:    "threat-analytics",
		ServiceVersion: "1.0.0",
		Environment:    "development",
		Enabled:        false,
		SampleRate:     1.0,
		ExportType:     "console",
		ExportTimeout:  30 * time.Second,
		ExportInsecure: true,
	}
}

// Service owns the tracer provider lifecycle.
type Service struct {
	config   *Config
	provider *sdktrace.TracerProvider
	tracer   trace.Tracer
}

// NewService builds a tracing service and installs it as the global
// tracer provider. With Enabled false the returned service is a no-op.
func NewService(config *Config) (*Service, error) {
	if config == nil {
		config = DefaultConfig()
	}

	if !config.Enabled {
		return &Service{
			config: config,
			tracer: otel.Tracer("noop"),
		}, nil
	}

	res, err := resource.New(context.Background(),
		resource.WithAttributes(
			semconv.ServiceName(config.ServiceName),
			semconv.ServiceVersion(config.ServiceVersion),
			semconv.DeploymentEnvironment(config.Environment),
		))
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	exporter, err := newExporter(config)
	if err != nil {
		return nil, err
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(config.ExportTimeout)),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.TraceIDRatioBased(config.SampleRate)),
	)

	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return &Service{
		config:   config,
		provider: provider,
		tracer:   provider.Tracer(config.ServiceName),
	}, nil
}

func newExporter(config *Config) (sdktrace.SpanExporter, error) {
	switch config.ExportType {
	case "otlp":
		opts := []otlptracehttp.Option{}
		if config.ExportEndpoint != "" {
			opts = append(opts, otlptracehttp.WithEndpointURL(config.ExportEndpoint))
		}
		if config.ExportInsecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		return otlptracehttp.New(context.Background(), opts...)
	case "console", "":
		return stdouttrace.New(stdouttrace.WithPrettyPrint())
	default:
		return nil, fmt.Errorf("unsupported export type: %s", config.ExportType)
	}
}

// Tracer returns the service tracer.
func (s *Service) Tracer() trace.Tracer {
	return s.tracer
}

// Shutdown flushes pending spans and stops the provider.
func (s *Service) Shutdown(ctx context.Context) error {
	if s.provider == nil {
		return nil
	}
	return s.provider.Shutdown(ctx)
}
