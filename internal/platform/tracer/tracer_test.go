package tracer

import (
	"context"
	"testing"

	"github.com/invisiedge/Atreo-sub001/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

func TestOptions_Sampler(t *testing.T) {
	root := sdktrace.SamplingParameters{
		ParentContext: context.Background(),
		TraceID:       trace.TraceID{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff},
		Name:          "op",
	}

	assert.Equal(t, sdktrace.RecordAndSample, Options{SampleRatio: 1}.sampler().ShouldSample(root).Decision)
	assert.Equal(t, sdktrace.RecordAndSample, Options{SampleRatio: 2}.sampler().ShouldSample(root).Decision)
	assert.Equal(t, sdktrace.Drop, Options{SampleRatio: 0}.sampler().ShouldSample(root).Decision)
	assert.Contains(t, Options{SampleRatio: 0.25}.sampler().Description(), "TraceIDRatioBased{0.25}")
}

func TestOptions_Resource(t *testing.T) {
	res, err := Options{ServiceName: "atreo", Environment: "test"}.resource()
	require.NoError(t, err)

	attrs := map[string]string{}
	for _, kv := range res.Attributes() {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	assert.Equal(t, "atreo", attrs["service.name"])
	assert.Equal(t, "test", attrs["deployment.environment"])
}

func TestInitTracer_WithoutEndpoint(t *testing.T) {
	tp := InitTracer(Options{ServiceName: "atreo"}, logger.NewNop())
	require.NotNil(t, tp)
	assert.NoError(t, tp.Shutdown(context.Background()))
}
