package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hausbase/membership/domain"
	apperrors "github.com/hausbase/membership/errors"
	"github.com/hausbase/membership/internal/social"
)

func TestResolve_ExistingAccount(t *testing.T) {
	repo := new(mockUserRepository)
	email := "linked@example.com"
	user := &domain.User{ID: 7, Email: email, LoginOrigin: domain.OriginKakao}
	repo.On("GetUserByEmailAndOrigin", mock.Anything, email, domain.OriginKakao).Return(user, nil)

	provider := &stubProvider{
		origin:  domain.OriginKakao,
		profile: &social.Profile{Name: "Linked", Gender: social.GenderFemale, Email: &email},
	}
	resolver := NewSocialIdentityResolver(repo, provider)

	resolved, err := resolver.Resolve(context.Background(), domain.OriginKakao, "token")
	require.NoError(t, err)
	require.NotNil(t, resolved.User)
	assert.Nil(t, resolved.RegistrationNeeded)
	assert.Equal(t, user.ID, resolved.User.ID)
}

func TestResolve_NoLinkedAccount(t *testing.T) {
	repo := new(mockUserRepository)
	email := "new@example.com"
	repo.On("GetUserByEmailAndOrigin", mock.Anything, email, domain.OriginKakao).
		Return(nil, apperrors.ErrUserNotFound)

	provider := &stubProvider{
		origin:  domain.OriginKakao,
		profile: &social.Profile{Name: "New", Gender: social.GenderMale, Email: &email},
	}
	resolver := NewSocialIdentityResolver(repo, provider)

	resolved, err := resolver.Resolve(context.Background(), domain.OriginKakao, "token")
	require.NoError(t, err)
	require.NotNil(t, resolved.RegistrationNeeded)
	assert.Nil(t, resolved.User)

	prefill := resolved.RegistrationNeeded
	assert.Equal(t, "New", prefill.Name)
	assert.Equal(t, social.GenderMale, prefill.Gender)
	require.NotNil(t, prefill.Email)
	assert.Equal(t, email, *prefill.Email)
	assert.Len(t, prefill.Password, 16)
	assert.Equal(t, domain.OriginKakao, prefill.Origin)
}

func TestResolve_UndisclosedEmailSkipsLookup(t *testing.T) {
	repo := new(mockUserRepository)

	provider := &stubProvider{
		origin:  domain.OriginNaver,
		profile: &social.Profile{Name: "Private", Gender: social.GenderUndisclosed},
	}
	resolver := NewSocialIdentityResolver(repo, provider)

	resolved, err := resolver.Resolve(context.Background(), domain.OriginNaver, "token")
	require.NoError(t, err)
	require.NotNil(t, resolved.RegistrationNeeded)
	assert.Nil(t, resolved.RegistrationNeeded.Email)
	assert.NotEmpty(t, resolved.RegistrationNeeded.Password)
	repo.AssertNotCalled(t, "GetUserByEmailAndOrigin", mock.Anything, mock.Anything, mock.Anything)
}

func TestResolve_ProviderFailure(t *testing.T) {
	repo := new(mockUserRepository)

	provider := &stubProvider{
		origin: domain.OriginKakao,
		err:    errors.New("upstream said no"),
	}
	resolver := NewSocialIdentityResolver(repo, provider)

	_, err := resolver.Resolve(context.Background(), domain.OriginKakao, "token")
	assert.ErrorIs(t, err, apperrors.ErrProviderAuthFailed)
}

func TestResolve_UnsupportedOrigin(t *testing.T) {
	repo := new(mockUserRepository)
	resolver := NewSocialIdentityResolver(repo)

	_, err := resolver.Resolve(context.Background(), domain.OriginKakao, "token")
	assert.ErrorIs(t, err, apperrors.ErrProviderAuthFailed)
}

func TestResolve_PlaceholderSecretsAreUnique(t *testing.T) {
	repo := new(mockUserRepository)
	provider := &stubProvider{
		origin:  domain.OriginNaver,
		profile: &social.Profile{Name: "Private", Gender: social.GenderUndisclosed},
	}
	resolver := NewSocialIdentityResolver(repo, provider)

	first, err := resolver.Resolve(context.Background(), domain.OriginNaver, "token")
	require.NoError(t, err)
	second, err := resolver.Resolve(context.Background(), domain.OriginNaver, "token")
	require.NoError(t, err)

	assert.NotEqual(t, first.RegistrationNeeded.Password, second.RegistrationNeeded.Password)
}
