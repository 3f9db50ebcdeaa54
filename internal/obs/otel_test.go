package obs

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTracerProviderWithoutExporterSamples(t *testing.T) {
	tp, err := NewTracerProvider(context.Background(), Config{ServiceName: "roomdash"})
	require.NoError(t, err)

	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	_, span := tp.Tracer("test").Start(context.Background(), "op")
	defer span.End()

	assert.True(t, span.SpanContext().IsValid())
	assert.True(t, span.SpanContext().IsSampled())
}

func TestNewTracerProviderStdoutExporter(t *testing.T) {
	var out bytes.Buffer

	tp, err := NewTracerProvider(context.Background(), Config{
		ServiceName: "roomdash",
		Exporter:    ExporterStdout,
		Output:      &out,
	})
	require.NoError(t, err)

	_, span := tp.Tracer("test").Start(context.Background(), "booking.ListRooms")
	span.End()

	require.NoError(t, tp.Shutdown(context.Background()))
	assert.Contains(t, out.String(), "booking.ListRooms")
	assert.Contains(t, out.String(), "roomdash")
}

func TestNewTracerProviderUnknownExporter(t *testing.T) {
	_, err := NewTracerProvider(context.Background(), Config{Exporter: "jaeger"})
	require.ErrorIs(t, err, ErrUnknownExporter)
}
