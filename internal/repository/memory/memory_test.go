package memory

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/auth-server/internal/model"
)

func TestUserRepository_CreateAndGet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewUserRepository()
	hash := "h"

	saved, err := repo.Create(ctx, model.User{ID: uuid.New(), Email: "a@x.com", PasswordHash: &hash})
	require.NoError(t, err)
	assert.False(t, saved.CreatedAt.IsZero())

	byEmail, err := repo.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, saved.ID, byEmail.ID)
	require.NotNil(t, byEmail.PasswordHash)
	assert.Equal(t, "h", *byEmail.PasswordHash)

	byID, err := repo.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", byID.Email)

	_, err = repo.GetByEmail(ctx, "A@x.com")
	assert.ErrorIs(t, err, model.ErrNotFound)
	_, err = repo.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewUserRepository()

	_, err := repo.Create(ctx, model.User{Email: "a@x.com"})
	require.NoError(t, err)
	_, err = repo.Create(ctx, model.User{Email: "a@x.com"})
	assert.ErrorIs(t, err, model.ErrAlreadyExists)
}

func TestUserRepository_ReturnsCopies(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewUserRepository()
	hash := "h"

	saved, err := repo.Create(ctx, model.User{Email: "a@x.com", PasswordHash: &hash})
	require.NoError(t, err)
	*saved.PasswordHash = "mutated"

	got, err := repo.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "h", *got.PasswordHash)
}

func TestRefreshTokenRepository_Lifecycle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewRefreshTokenRepository()
	row := model.RefreshToken{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		TokenHash: "hash",
		ExpiresAt: time.Now().Add(time.Hour),
	}

	require.NoError(t, repo.Create(ctx, row))
	assert.ErrorIs(t, repo.Create(ctx, row), model.ErrAlreadyExists)

	got, err := repo.GetByID(ctx, row.ID)
	require.NoError(t, err)
	assert.True(t, got.Active(time.Now()))

	require.NoError(t, repo.RevokeActive(ctx, row.ID))
	assert.ErrorIs(t, repo.RevokeActive(ctx, row.ID), model.ErrTokenRevoked)
	require.NoError(t, repo.Revoke(ctx, row.ID))

	got, err = repo.GetByID(ctx, row.ID)
	require.NoError(t, err)
	require.NotNil(t, got.RevokedAt)
	assert.False(t, got.Active(time.Now()))

	_, err = repo.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.ErrorIs(t, repo.RevokeActive(ctx, uuid.New()), model.ErrTokenRevoked)
	assert.NoError(t, repo.Revoke(ctx, uuid.New()))
}

func TestRefreshTokenRepository_RevokeActive_SingleWinner(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewRefreshTokenRepository()
	id := uuid.New()
	require.NoError(t, repo.Create(ctx, model.RefreshToken{ID: id, ExpiresAt: time.Now().Add(time.Hour)}))

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if repo.RevokeActive(ctx, id) == nil {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
}

func TestRefreshTokenRepository_ExpireNow(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewRefreshTokenRepository()
	id := uuid.New()
	require.NoError(t, repo.Create(ctx, model.RefreshToken{ID: id, ExpiresAt: time.Now().Add(time.Hour)}))

	repo.ExpireNow(id)

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.False(t, got.Active(time.Now()))
}
