package obs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

const (
	ExporterNone   = "none"
	ExporterStdout = "stdout"
)

var ErrUnknownExporter = errors.New("unknown trace exporter")

type Config struct {
	ServiceName    string
	ServiceVersion string
	// Exporter is "none" or "stdout". With "none" spans are still sampled, so
	// trace IDs reach the access log, but nothing is exported.
	Exporter string
	// Output defaults to os.Stdout for the stdout exporter.
	Output io.Writer
}

// NewTracerProvider builds an SDK tracer provider from conf without touching
// the global one.
func NewTracerProvider(ctx context.Context, conf Config) (*sdktrace.TracerProvider, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(conf.ServiceName),
			semconv.ServiceVersionKey.String(conf.ServiceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("create trace resource: %w", err)
	}

	opts := []sdktrace.TracerProviderOption{sdktrace.WithResource(res)}

	switch conf.Exporter {
	case "", ExporterNone:
	case ExporterStdout:
		out := conf.Output
		if out == nil {
			out = os.Stdout
		}

		exp, err := stdouttrace.New(stdouttrace.WithWriter(out))
		if err != nil {
			return nil, fmt.Errorf("create stdout trace exporter: %w", err)
		}

		opts = append(opts, sdktrace.WithBatcher(exp))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownExporter, conf.Exporter)
	}

	return sdktrace.NewTracerProvider(opts...), nil
}

// InitTracer installs the provider and the W3C propagator globally. Shutdown
// on the returned provider flushes pending spans.
func InitTracer(ctx context.Context, conf Config) (*sdktrace.TracerProvider, error) {
	tp, err := NewTracerProvider(ctx, conf)
	if err != nil {
		return nil, err
	}

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp, nil
}
