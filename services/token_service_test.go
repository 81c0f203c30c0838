package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hausbase/membership/domain"
)

const testSecret = "test-secret-key-0123456789abcdef"

func newTestTokenService(t *testing.T) *TokenService {
	t.Helper()
	return NewTokenService("membership-test", testSecret, 30*time.Minute, 168*time.Hour)
}

func TestGenerateTokenPair(t *testing.T) {
	svc := newTestTokenService(t)

	pair, err := svc.GenerateTokenPair("user@example.com", domain.AuthorityUser)
	require.NoError(t, err)

	assert.Equal(t, domain.GrantType, pair.GrantType)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, int64((30 * time.Minute).Seconds()), pair.AccessTokenExpiresIn)
	assert.Equal(t, int64((168 * time.Hour).Seconds()), pair.RefreshTokenExpiresIn)
	assert.LessOrEqual(t, pair.AccessTokenExpiresIn, pair.RefreshTokenExpiresIn)
}

func TestGenerateTokenPair_RefreshTokensAreUnique(t *testing.T) {
	svc := newTestTokenService(t)

	first, err := svc.GenerateTokenPair("user@example.com", domain.AuthorityUser)
	require.NoError(t, err)
	second, err := svc.GenerateTokenPair("user@example.com", domain.AuthorityUser)
	require.NoError(t, err)

	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
}

func TestValidateAccessToken(t *testing.T) {
	svc := newTestTokenService(t)

	pair, err := svc.GenerateTokenPair("user@example.com", domain.AuthorityAdmin)
	require.NoError(t, err)

	identity, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", identity.Subject)
	assert.Equal(t, domain.AuthorityAdmin, identity.Authority)
}

func TestValidateAccessToken_RejectsGuestToken(t *testing.T) {
	svc := newTestTokenService(t)

	guestToken, err := svc.GenerateScopedToken("guest@example.com", domain.AuthorityGuest, 15*time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, guestToken)

	_, err = svc.ValidateAccessToken(guestToken)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestValidateAccessToken_Expired(t *testing.T) {
	svc := NewTokenService("membership-test", testSecret, -1*time.Minute, 168*time.Hour)

	pair, err := svc.GenerateTokenPair("user@example.com", domain.AuthorityUser)
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestValidateAccessToken_WrongIssuer(t *testing.T) {
	other := NewTokenService("someone-else", testSecret, 30*time.Minute, 168*time.Hour)
	pair, err := other.GenerateTokenPair("user@example.com", domain.AuthorityUser)
	require.NoError(t, err)

	svc := newTestTokenService(t)
	_, err = svc.ValidateAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestValidateAccessToken_Garbage(t *testing.T) {
	svc := newTestTokenService(t)

	_, err := svc.ValidateAccessToken("not-a-jwt")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
