package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"fismcp/internal/config"
)

const serviceName = "fismcp"

// Recorder counts tool calls and records their latency. A nil Recorder is
// valid and records nothing.
type Recorder struct {
	provider  *sdkmetric.MeterProvider
	calls     metric.Int64Counter
	durations metric.Float64Histogram
}

// New builds a Recorder exporting over OTLP gRPC when an endpoint is
// configured. Without one the Recorder aggregates in memory only.
func New(ctx context.Context, cfg config.MetricsConfig, version string) (*Recorder, error) {
	if cfg.OTLPEndpoint == "" {
		return NewWithReader(ctx, nil, version)
	}
	opts := []otlpmetricgrpc.Option{
		otlpmetricgrpc.WithEndpoint(cfg.OTLPEndpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetricgrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())))
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}
	exp, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating OTLP exporter: %w", err)
	}
	return NewWithReader(ctx, sdkmetric.NewPeriodicReader(exp), version)
}

func NewWithReader(ctx context.Context, reader sdkmetric.Reader, version string) (*Recorder, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(version),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}
	opts := []sdkmetric.Option{sdkmetric.WithResource(res)}
	if reader != nil {
		opts = append(opts, sdkmetric.WithReader(reader))
	}
	provider := sdkmetric.NewMeterProvider(opts...)
	meter := provider.Meter(serviceName)

	calls, err := meter.Int64Counter(
		"fismcp_tool_calls_total",
		metric.WithDescription("Tool invocations by tool and outcome"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating calls counter: %w", err)
	}
	durations, err := meter.Float64Histogram(
		"fismcp_tool_call_duration_seconds",
		metric.WithDescription("Tool invocation latency in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating duration histogram: %w", err)
	}
	return &Recorder{provider: provider, calls: calls, durations: durations}, nil
}

func (r *Recorder) RecordToolCall(ctx context.Context, tool, toolset, outcome string, elapsed time.Duration) {
	if r == nil {
		return
	}
	opt := metric.WithAttributes(
		attribute.String("tool", tool),
		attribute.String("toolset", toolset),
		attribute.String("outcome", outcome),
	)
	r.calls.Add(ctx, 1, opt)
	r.durations.Record(ctx, elapsed.Seconds(), opt)
}

// Close flushes pending metrics and stops the exporter.
func (r *Recorder) Close(ctx context.Context) error {
	if r == nil || r.provider == nil {
		return nil
	}
	return r.provider.Shutdown(ctx)
}
