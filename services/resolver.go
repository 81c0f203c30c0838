package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/hausbase/membership/domain"
	apperrors "github.com/hausbase/membership/errors"
	"github.com/hausbase/membership/internal/secret"
	"github.com/hausbase/membership/internal/social"
)

// ResolvedIdentity is the outcome of a successful social resolution: exactly
// one of User and RegistrationNeeded is set. A RegistrationNeeded outcome is
// not an error; it carries the prefilled profile for the registration step.
type ResolvedIdentity struct {
	User               *domain.User
	RegistrationNeeded *domain.ProvisionalProfile
}

// SocialIdentityResolver reconciles third-party social identities with local
// accounts. It never creates an account itself.
type SocialIdentityResolver struct {
	userRepo  domain.UserRepository
	providers map[domain.LoginOrigin]social.Provider
}

// NewSocialIdentityResolver creates a resolver over the given provider
// clients, keyed by the origin each one authenticates.
func NewSocialIdentityResolver(userRepo domain.UserRepository, providers ...social.Provider) *SocialIdentityResolver {
	byOrigin := make(map[domain.LoginOrigin]social.Provider, len(providers))
	for _, p := range providers {
		byOrigin[p.Origin()] = p
	}

	return &SocialIdentityResolver{
		userRepo:  userRepo,
		providers: byOrigin,
	}
}

// Resolve exchanges the provider access token for a profile and maps it onto
// a local account. Provider rejections, transport errors and timeouts all
// surface as the single opaque ErrProviderAuthFailed; the token is
// caller-supplied and one-shot, so nothing is retried.
func (r *SocialIdentityResolver) Resolve(ctx context.Context, origin domain.LoginOrigin, providerToken string) (*ResolvedIdentity, error) {
	provider, ok := r.providers[origin]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported origin %q", apperrors.ErrProviderAuthFailed, origin)
	}

	profile, err := provider.FetchProfile(ctx, providerToken)
	if err != nil {
		log.Warn().Err(err).Str("origin", string(origin)).Msg("social profile fetch failed")
		return nil, fmt.Errorf("%w: %w", apperrors.ErrProviderAuthFailed, err)
	}

	// Without a disclosed email there is nothing to reconcile against; the
	// member has to go through registration.
	if profile.Email != nil {
		user, err := r.userRepo.GetUserByEmailAndOrigin(ctx, *profile.Email, origin)
		if err == nil {
			return &ResolvedIdentity{User: user}, nil
		}
		if !errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, fmt.Errorf("account lookup failed: %w", err)
		}
	}

	provisional, err := r.provisionalProfile(origin, profile)
	if err != nil {
		return nil, err
	}

	return &ResolvedIdentity{RegistrationNeeded: provisional}, nil
}

// provisionalProfile synthesizes the registration prefill for a profile with
// no linked local account. The placeholder secret is always non-empty so a
// provisional account can never end up password-less.
func (r *SocialIdentityResolver) provisionalProfile(origin domain.LoginOrigin, profile *social.Profile) (*domain.ProvisionalProfile, error) {
	placeholder, err := secret.GeneratePlaceholder()
	if err != nil {
		return nil, fmt.Errorf("failed to generate placeholder secret: %w", err)
	}

	return &domain.ProvisionalProfile{
		Name:     profile.Name,
		Gender:   profile.Gender,
		Email:    profile.Email,
		Password: placeholder,
		PhoneNum: profile.PhoneNum,
		Origin:   origin,
	}, nil
}
