package handler

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/auth-server/internal/apierrors"
)

func handleError(err error) error {
	var apiErr *apierrors.APIError
	if errors.As(err, &apiErr) {
		return apiErr.GRPCStatus().Err()
	}

	return status.Error(codes.Internal, "internal server error")
}
