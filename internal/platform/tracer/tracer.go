package tracer

import (
	"context"
	"fmt"
	"time"

	"github.com/invisiedge/Atreo-sub001/internal/platform/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.uber.org/zap"
)

const exporterDialTimeout = 10 * time.Second

// Options configures the tracer provider.
type Options struct {
	ServiceName string
	Environment string
	// Endpoint is the OTLP gRPC collector address. Empty disables export.
	Endpoint string
	// SampleRatio is the fraction of root spans kept, in [0, 1].
	SampleRatio float64
}

func (o Options) sampler() sdktrace.Sampler {
	switch {
	case o.SampleRatio >= 1:
		return sdktrace.ParentBased(sdktrace.AlwaysSample())
	case o.SampleRatio <= 0:
		return sdktrace.ParentBased(sdktrace.NeverSample())
	default:
		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(o.SampleRatio))
	}
}

func (o Options) resource() (*resource.Resource, error) {
	// resource.Default carries its own schema URL.
	attrs := resource.NewSchemaless(
		semconv.ServiceName(o.ServiceName),
		semconv.DeploymentEnvironment(o.Environment),
	)
	return resource.Merge(resource.Default(), attrs)
}

// InitTracer sets the global propagator and tracer provider. Export failures
// are logged and leave a provider without exporters so callers can always
// defer Shutdown.
func InitTracer(opts Options, appLogger *logger.Logger) *sdktrace.TracerProvider {
	log := appLogger.Named("Tracer")

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	if opts.Endpoint == "" {
		log.Info("Tracing export disabled, OTEL_EXPORTER_OTLP_ENDPOINT is empty")
		return sdktrace.NewTracerProvider()
	}

	tp, err := newExportingProvider(opts)
	if err != nil {
		log.Error("Tracing export disabled", zap.String("endpoint", opts.Endpoint), zap.Error(err))
		return sdktrace.NewTracerProvider()
	}
	otel.SetTracerProvider(tp)

	log.Info("Tracing enabled",
		zap.String("service_name", opts.ServiceName),
		zap.String("endpoint", opts.Endpoint),
		zap.Float64("sample_ratio", opts.SampleRatio),
	)
	return tp
}

func newExportingProvider(opts Options) (*sdktrace.TracerProvider, error) {
	ctx, cancel := context.WithTimeout(context.Background(), exporterDialTimeout)
	defer cancel()

	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(opts.Endpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("create otlp exporter: %w", err)
	}

	res, err := opts.resource()
	if err != nil {
		_ = exporter.Shutdown(ctx)
		return nil, fmt.Errorf("build resource: %w", err)
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(opts.sampler()),
	), nil
}
