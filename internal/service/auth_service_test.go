package service

import (
	"context"
	"testing"

	"github.com/rogerio-castellano/kasir/internal/auth"
	"github.com/rogerio-castellano/kasir/internal/models"
	"github.com/rogerio-castellano/kasir/internal/repo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthRegisterAndLogin(t *testing.T) {
	svc := NewAuthService(repo.NewInMemoryUserRepository())
	ctx := context.Background()

	token, err := svc.Register(ctx, " kasir1 ", "rahasia")
	require.NoError(t, err)
	claims, err := auth.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "kasir1", claims.Username)
	assert.Equal(t, models.RoleUser, claims.Role)

	_, err = svc.Register(ctx, "kasir1", "rahasia")
	assert.ErrorIs(t, err, repo.ErrDuplicatedValueUnique)

	_, err = svc.Login(ctx, "kasir1", "rahasia")
	assert.NoError(t, err)

	_, err = svc.Login(ctx, "kasir1", "salah123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "ghost", "rahasia")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthCreateUserChecks(t *testing.T) {
	svc := NewAuthService(repo.NewInMemoryUserRepository())
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, "", "rahasia", models.RoleUser)
	assert.ErrorIs(t, err, ErrMissingCredentials)

	_, err = svc.CreateUser(ctx, "ab", "rahasia", models.RoleUser)
	assert.ErrorIs(t, err, ErrWeakCredentials)

	_, err = svc.CreateUser(ctx, "kasir", "12345", models.RoleUser)
	assert.ErrorIs(t, err, ErrWeakCredentials)

	_, err = svc.CreateUser(ctx, "kasir", "rahasia", "owner")
	assert.ErrorIs(t, err, ErrInvalidRole)

	u, err := svc.CreateUser(ctx, "manajer", "rahasia", models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, u.Role)
	assert.NotEqual(t, "rahasia", u.PasswordHash)
}

func TestAuthEnsureAdmin(t *testing.T) {
	svc := NewAuthService(repo.NewInMemoryUserRepository())
	ctx := context.Background()

	created, err := svc.EnsureAdmin(ctx, "", "")
	require.NoError(t, err)
	assert.False(t, created)

	created, err = svc.EnsureAdmin(ctx, "admin", "admin123")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.EnsureAdmin(ctx, "admin", "admin123")
	require.NoError(t, err)
	assert.False(t, created)
}
