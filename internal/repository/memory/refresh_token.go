package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/auth-server/internal/model"
)

var _ model.RefreshTokenStore = (*RefreshTokenRepository)(nil)

type RefreshTokenRepository struct {
	mu   sync.Mutex
	rows map[uuid.UUID]model.RefreshToken
	now  func() time.Time
}

func NewRefreshTokenRepository() *RefreshTokenRepository {
	return &RefreshTokenRepository{
		rows: make(map[uuid.UUID]model.RefreshToken),
		now:  time.Now,
	}
}

func (r *RefreshTokenRepository) Create(_ context.Context, token model.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rows[token.ID]; ok {
		return model.ErrAlreadyExists
	}
	if token.CreatedAt.IsZero() {
		token.CreatedAt = r.now()
	}
	r.rows[token.ID] = cloneToken(token)
	return nil
}

func (r *RefreshTokenRepository) GetByID(_ context.Context, id uuid.UUID) (model.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	row, ok := r.rows[id]
	if !ok {
		return model.RefreshToken{}, model.ErrNotFound
	}
	return cloneToken(row), nil
}

func (r *RefreshTokenRepository) Revoke(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	row, ok := r.rows[id]
	if !ok || row.RevokedAt != nil {
		return nil
	}
	now := r.now()
	row.RevokedAt = &now
	r.rows[id] = row
	return nil
}

func (r *RefreshTokenRepository) RevokeActive(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	row, ok := r.rows[id]
	if !ok || row.RevokedAt != nil {
		return model.ErrTokenRevoked
	}
	now := r.now()
	row.RevokedAt = &now
	r.rows[id] = row
	return nil
}

// ExpireNow moves the stored expiry of a row into the past. Used to
// exercise the store-side expiry check independently of the token's own exp.
func (r *RefreshTokenRepository) ExpireNow(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if row, ok := r.rows[id]; ok {
		row.ExpiresAt = r.now().Add(-time.Second)
		r.rows[id] = row
	}
}

func cloneToken(t model.RefreshToken) model.RefreshToken {
	if t.RevokedAt != nil {
		v := *t.RevokedAt
		t.RevokedAt = &v
	}
	if t.RotatedFrom != nil {
		v := *t.RotatedFrom
		t.RotatedFrom = &v
	}
	return t
}
