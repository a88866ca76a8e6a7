package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"avotrade/internal/domain"
	"avotrade/internal/repos"
	"avotrade/internal/services"
)

func init() { services.BcryptCost = bcrypt.MinCost }

func newAuth(t *testing.T) (*services.AuthService, *repos.UserRepo) {
	t.Helper()
	users := repos.NewUserRepo(repos.NewTestDB(t))
	return services.NewAuthService(users, "test-secret", time.Hour), users
}

func TestEnsureAdminWithConfiguredPassword(t *testing.T) {
	svc, _ := newAuth(t)
	ctx := context.Background()

	gen, err := svc.EnsureAdmin(ctx, "admin", "Passw0rd!")
	require.NoError(t, err)
	assert.Empty(t, gen)

	tok, exp, err := svc.Login(ctx, "ADMIN", "Passw0rd!")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, time.Minute)

	claims, err := svc.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
	assert.Equal(t, "admin", claims.Username)

	_, _, err = svc.Login(ctx, "admin", "wrong-password")
	assert.True(t, errors.Is(err, services.ErrBadCreds))
	_, _, err = svc.Login(ctx, "ghost", "Passw0rd!")
	assert.True(t, errors.Is(err, services.ErrBadCreds))
}

func TestEnsureAdminGeneratesOnce(t *testing.T) {
	svc, users := newAuth(t)
	ctx := context.Background()

	gen, err := svc.EnsureAdmin(ctx, "ops", "")
	require.NoError(t, err)
	require.NotEmpty(t, gen)

	again, err := svc.EnsureAdmin(ctx, "ops", "")
	require.NoError(t, err)
	assert.Empty(t, again, "existing account is left alone")

	_, _, err = svc.Login(ctx, "ops", gen)
	require.NoError(t, err)

	n, err := users.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestVerifyRejectsForeignToken(t *testing.T) {
	svc, _ := newAuth(t)
	_, err := svc.EnsureAdmin(context.Background(), "admin", "Passw0rd!")
	require.NoError(t, err)
	tok, _, err := svc.Login(context.Background(), "admin", "Passw0rd!")
	require.NoError(t, err)

	other := services.NewAuthService(nil, "other-secret", time.Hour)
	_, err = other.Verify(tok)
	assert.Error(t, err)
}

func TestHashPasswordLength(t *testing.T) {
	_, err := services.HashPassword("short")
	assert.Contains(t, fieldsOf(t, err), "password")
}
