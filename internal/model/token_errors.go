package model

import "errors"

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrTokenRevoked  = errors.New("refresh token revoked")
	ErrTokenExpired  = errors.New("refresh token expired")
	ErrTokenMismatch = errors.New("refresh token mismatch")
	ErrTokenOwner    = errors.New("refresh token owner mismatch")
)
