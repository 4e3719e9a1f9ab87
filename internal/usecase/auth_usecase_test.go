package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/tk-online/catalog-api/internal/config"
)

func newAuthFixture(t *testing.T) *AuthUsecase {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	return NewAuthUsecase(&config.Config{
		Auth: config.AuthConfig{
			JWTSecret:     "test-signing-key",
			TokenTTL:      time.Hour,
			AdminEmail:    "admin@example.com",
			AdminPassword: string(hash),
		},
	})
}

func TestLoginAndValidate(t *testing.T) {
	t.Parallel()
	uc := newAuthFixture(t)
	ctx := context.Background()

	session, err := uc.Login(ctx, "admin@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", session.Email)
	assert.NotEmpty(t, session.Token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), session.ExpiresAt, time.Minute)

	user, err := uc.ValidateToken(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", user.Email)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	t.Parallel()
	uc := newAuthFixture(t)
	ctx := context.Background()

	_, err := uc.Login(ctx, "admin@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = uc.Login(ctx, "someone@example.com", "s3cret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	t.Parallel()
	uc := newAuthFixture(t)

	_, err := uc.ValidateToken(context.Background(), "not-a-token")
	assert.Error(t, err)
}

func TestValidateTokenRejectsWrongKey(t *testing.T) {
	t.Parallel()
	uc := newAuthFixture(t)
	other := newAuthFixture(t)

	session, err := other.Login(context.Background(), "admin@example.com", "s3cret")
	require.NoError(t, err)

	// same token but verified against a different secret
	uc.jwtSecret = []byte("another-signing-key")
	_, err = uc.ValidateToken(context.Background(), session.Token)
	assert.Error(t, err)
}
