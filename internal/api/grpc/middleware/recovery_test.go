package middleware

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/auth-server/internal/testutil"
)

func TestRecovery_HandlePanic(t *testing.T) {
	t.Parallel()

	err := NewRecovery(testutil.MakeNoopLogger()).HandlePanic(context.Background(), "boom")

	st, ok := status.FromError(err)
	assert.True(t, ok)
	assert.Equal(t, codes.Internal, st.Code())
	assert.Equal(t, "internal server error", st.Message())
}
