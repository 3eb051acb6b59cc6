package tracer_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"coldchain/internal/platform/tracer"
)

func TestNoopTracer(t *testing.T) {
	ctx := context.Background()
	newCtx, span := tracer.NewNoop().Start(ctx, tracer.SpanFleetValidate, tracer.Bool(tracer.AttrDropAndHook, true))

	assert.Equal(t, ctx, newCtx)
	require.NotNil(t, span)
	assert.NotPanics(t, func() {
		span.SetAttributes(tracer.Int64(tracer.AttrConflicts, 2))
		span.AddEvent("checked")
		span.End(errors.New("boom"))
	})
}

func TestOTelTracerWithInjectedProvider(t *testing.T) {
	tr := tracer.NewOTel(tracer.WithTracerProvider(noop.NewTracerProvider()))
	_, span := tr.Start(context.Background(), tracer.SpanFlespiCall, tracer.String(tracer.AttrFlespiPath, "/gw/devices"))
	assert.NotPanics(t, func() { span.End(nil) })
}

func TestHashIdentifier(t *testing.T) {
	assert.Empty(t, tracer.HashIdentifier(""))
	h := tracer.HashIdentifier("352093081234567")
	assert.Len(t, h, 16)
	assert.Equal(t, h, tracer.HashIdentifier("352093081234567"))
}
