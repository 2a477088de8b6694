package apierrors

import (
	"errors"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestNewErrUnauthorized_HidesCause(t *testing.T) {
	t.Parallel()

	cause := errors.New("refresh token revoked")
	err := NewErrUnauthorized(cause)

	assert.ErrorIs(t, err, cause)
	st := status.Convert(err)
	assert.Equal(t, codes.Unauthenticated, st.Code())
	assert.Equal(t, "unauthorized", st.Message())

	other := status.Convert(NewErrUnauthorized(errors.New("signature invalid")))
	assert.Equal(t, st.Message(), other.Message())
}

func TestNewErrInternalServerError(t *testing.T) {
	t.Parallel()

	st := status.Convert(NewErrInternalServerError(errors.New("pq: connection refused")))
	assert.Equal(t, codes.Internal, st.Code())
	assert.Equal(t, "internal server error", st.Message())
}

func TestNewErrEmailIsTaken(t *testing.T) {
	t.Parallel()

	err := NewErrEmailIsTaken("a@x.com")
	assert.True(t, Is(err, codes.AlreadyExists))
	assert.Contains(t, err.Error(), "a@x.com")
}

func TestFromValidation(t *testing.T) {
	t.Parallel()

	err := FromValidation(validation.Errors{
		"password": errors.New("the length must be between 8 and 128"),
		"email":    errors.New("must be a valid email address"),
	})

	require.Len(t, err.Fields, 2)
	assert.Equal(t, "email", err.Fields[0].Field)
	assert.Equal(t, "password", err.Fields[1].Field)

	st := status.Convert(err)
	assert.Equal(t, codes.InvalidArgument, st.Code())
	require.Len(t, st.Details(), 1)
	br, ok := st.Details()[0].(*errdetails.BadRequest)
	require.True(t, ok)
	assert.Len(t, br.GetFieldViolations(), 2)
}

func TestFromValidation_NonValidationError(t *testing.T) {
	t.Parallel()

	err := FromValidation(errors.New("boom"))
	require.Len(t, err.Fields, 1)
	assert.Equal(t, "request", err.Fields[0].Field)
}

func TestIs(t *testing.T) {
	t.Parallel()

	assert.False(t, Is(errors.New("plain"), codes.Internal))
	assert.True(t, Is(NewErrInvalidArgument(nil), codes.InvalidArgument))
}
