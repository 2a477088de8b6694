package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/auth-server/internal/model"
)

var _ model.RefreshTokenStore = (*RefreshTokenRepository)(nil)

type RefreshTokenRepository struct {
	db *Connection
}

func NewRefreshTokenRepository(db *Connection) *RefreshTokenRepository {
	return &RefreshTokenRepository{db: db}
}

func (r *RefreshTokenRepository) Create(ctx context.Context, token model.RefreshToken) error {
	const query = `
        INSERT INTO refresh_tokens (id, user_id, token_hash, expires_at, revoked_at, rotated_from, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, NOW())
    `

	_, err := r.db.Exec(ctx, query,
		token.ID, token.UserID, token.TokenHash, token.ExpiresAt, token.RevokedAt, token.RotatedFrom,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return model.ErrAlreadyExists
		}
		return fmt.Errorf("failed to create refresh token: %w", err)
	}
	return nil
}

func (r *RefreshTokenRepository) GetByID(ctx context.Context, id uuid.UUID) (model.RefreshToken, error) {
	const query = `
        SELECT id, user_id, token_hash, expires_at, revoked_at, rotated_from, created_at
        FROM refresh_tokens WHERE id = $1
    `
	var rt model.RefreshToken
	err := r.db.QueryRow(ctx, query, id).Scan(
		&rt.ID, &rt.UserID, &rt.TokenHash, &rt.ExpiresAt, &rt.RevokedAt, &rt.RotatedFrom, &rt.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.RefreshToken{}, model.ErrNotFound
		}
		return model.RefreshToken{}, fmt.Errorf("failed to get refresh token: %w", err)
	}
	return rt, nil
}

func (r *RefreshTokenRepository) Revoke(ctx context.Context, id uuid.UUID) error {
	const query = `
        UPDATE refresh_tokens SET revoked_at = NOW()
        WHERE id = $1 AND revoked_at IS NULL
    `
	if _, err := r.db.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

// RevokeActive relies on the row-level lock taken by UPDATE: of two
// concurrent callers only one sees revoked_at IS NULL.
func (r *RefreshTokenRepository) RevokeActive(ctx context.Context, id uuid.UUID) error {
	const query = `
        UPDATE refresh_tokens SET revoked_at = NOW()
        WHERE id = $1 AND revoked_at IS NULL
    `
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrTokenRevoked
	}
	return nil
}
