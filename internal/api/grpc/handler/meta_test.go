package handler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	"github.com/dtroode/auth-server/internal/mocks"
)

func TestMeta_Version(t *testing.T) {
	t.Parallel()

	h := NewMeta("1.2.3", "staging", mocks.NewContextManager(t))
	out, err := h.Version(context.Background(), &Empty{})
	require.NoError(t, err)
	assert.Equal(t, "1.2.3", out.Version)
	assert.Equal(t, "staging", out.Environment)
}

func TestMeta_Status(t *testing.T) {
	t.Parallel()

	cm := mocks.NewContextManager(t)
	cm.On("GetCorrelationIDFromContext", mock.Anything).Return("corr-1")

	traceID, err := trace.TraceIDFromHex("0102030405060708090a0b0c0d0e0f10")
	require.NoError(t, err)
	spanID, err := trace.SpanIDFromHex("0102030405060708")
	require.NoError(t, err)
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: traceID,
		SpanID:  spanID,
	}))

	h := NewMeta("1.2.3", "staging", cm)
	h.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	out, err := h.Status(ctx, &Empty{})
	require.NoError(t, err)
	assert.Equal(t, "ok", out.Status)
	assert.Equal(t, "1.2.3", out.Version)
	assert.Equal(t, "2026-01-02T03:04:05Z", out.Time)
	assert.Equal(t, "0102030405060708090a0b0c0d0e0f10", out.TraceID)
	assert.Equal(t, "corr-1", out.CorrelationID)
}

func TestMeta_Status_NoTrace(t *testing.T) {
	t.Parallel()

	cm := mocks.NewContextManager(t)
	cm.On("GetCorrelationIDFromContext", mock.Anything).Return("")

	out, err := NewMeta("1.2.3", "dev", cm).Status(context.Background(), &Empty{})
	require.NoError(t, err)
	assert.Empty(t, out.TraceID)
}
