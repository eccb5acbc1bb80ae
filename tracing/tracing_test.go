package tracing_test

import (
	"context"
	"errors"
	"testing"

	"github.com/NethermindEth/kipt/tracing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestInitWithoutEndpoint(t *testing.T) {
	shutdown, err := tracing.Init(context.Background(), "kipt", "")
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))

	_, span := tracing.StartOperation(context.Background(), "call")
	assert.False(t, span.SpanContext().IsValid())
	tracing.End(span, nil)
}

func TestOperationSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(previous) })

	_, span := tracing.StartOperation(context.Background(), "invoke", attribute.Int("calls", 2))
	tracing.End(span, nil)
	_, span = tracing.StartOperation(context.Background(), "declare")
	tracing.End(span, errors.New("transaction reverted: out of gas"))

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "kipt.invoke", spans[0].Name())
	assert.Equal(t, codes.Ok, spans[0].Status().Code)
	assert.Contains(t, spans[0].Attributes(), attribute.Int("calls", 2))
	assert.Equal(t, "kipt.declare", spans[1].Name())
	assert.Equal(t, codes.Error, spans[1].Status().Code)
	assert.Len(t, spans[1].Events(), 1)
}

func TestInitWithEndpoint(t *testing.T) {
	previous := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(previous) })

	for _, endpoint := range []string{"http://127.0.0.1:4318", "127.0.0.1:4318"} {
		shutdown, err := tracing.Init(context.Background(), "kipt", endpoint)
		require.NoError(t, err)
		_, ok := otel.GetTracerProvider().(*sdktrace.TracerProvider)
		assert.True(t, ok)
		require.NoError(t, shutdown(context.Background()))
	}
}
