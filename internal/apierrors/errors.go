// Package apierrors defines the errors that cross the service boundary.
// Anything not expressed as an *APIError is reported to clients as an
// internal error without detail.
package apierrors

import (
	"errors"
	"fmt"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FieldError describes one rejected input field.
type FieldError struct {
	Field   string
	Message string
}

// APIError is an error with a stable client-facing message and gRPC code.
type APIError struct {
	GRPCCode codes.Code
	Message  string
	Fields   []FieldError
	cause    error
}

func (e *APIError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap exposes the internal cause to errors.Is/As. It is never sent to clients.
func (e *APIError) Unwrap() error {
	return e.cause
}

// GRPCStatus converts the error into a status, attaching field violations
// for invalid-argument errors.
func (e *APIError) GRPCStatus() *status.Status {
	st := status.New(e.GRPCCode, e.Message)
	if len(e.Fields) == 0 {
		return st
	}
	br := &errdetails.BadRequest{}
	for _, f := range e.Fields {
		br.FieldViolations = append(br.FieldViolations, &errdetails.BadRequest_FieldViolation{
			Field:       f.Field,
			Description: f.Message,
		})
	}
	withDetails, err := st.WithDetails(br)
	if err != nil {
		return st
	}
	return withDetails
}

const (
	msgUnauthorized = "unauthorized"
	msgInternal     = "internal server error"
)

// NewErrEmailIsTaken reports a registration conflict.
func NewErrEmailIsTaken(email string) *APIError {
	return &APIError{
		GRPCCode: codes.AlreadyExists,
		Message:  fmt.Sprintf("email %s is already in use", email),
	}
}

// NewErrUnauthorized reports any credential or token failure. The cause is
// kept for logs only; every caller sees the same message.
func NewErrUnauthorized(cause error) *APIError {
	return &APIError{
		GRPCCode: codes.Unauthenticated,
		Message:  msgUnauthorized,
		cause:    cause,
	}
}

// NewErrInvalidArgument reports rejected input fields.
func NewErrInvalidArgument(fields []FieldError) *APIError {
	return &APIError{
		GRPCCode: codes.InvalidArgument,
		Message:  "invalid request",
		Fields:   fields,
	}
}

// NewErrInternalServerError hides cause behind a generic message.
func NewErrInternalServerError(cause error) *APIError {
	return &APIError{
		GRPCCode: codes.Internal,
		Message:  msgInternal,
		cause:    cause,
	}
}

// FromValidation turns an ozzo-validation result into an invalid-argument
// error. Fields are sorted by name so responses are stable.
func FromValidation(err error) *APIError {
	var errs validation.Errors
	if !errors.As(err, &errs) {
		return NewErrInvalidArgument([]FieldError{{Field: "request", Message: err.Error()}})
	}
	fields := make([]FieldError, 0, len(errs))
	for name, fieldErr := range errs {
		fields = append(fields, FieldError{Field: name, Message: fieldErr.Error()})
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i].Field < fields[j].Field })
	return NewErrInvalidArgument(fields)
}

// Is reports whether err is an *APIError with the given code.
func Is(err error, code codes.Code) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.GRPCCode == code
}
