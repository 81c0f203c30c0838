package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/hausbase/membership/cache"
	"github.com/hausbase/membership/domain"
	apperrors "github.com/hausbase/membership/errors"
)

// refreshPrefixLen is the length of the fixed scheme label ("Bearer ") that
// callers prepend to the refresh token on reissue. It is stripped before the
// stored value comparison.
const refreshPrefixLen = 7

// SessionGrant is the success payload of a login: the principal summary plus
// a complete token pair.
type SessionGrant struct {
	Summary domain.UserSummary
	Tokens  domain.TokenPair
}

// LoginOutcome is the tagged result of a login attempt that passed credential
// verification. Exactly one field is set: Session on full success, or
// OnboardingNeeded when the lifestyle profile is missing and the caller
// should redirect into onboarding.
type LoginOutcome struct {
	Session          *SessionGrant
	OnboardingNeeded *domain.UserSummary
}

// SocialLoginOutcome extends LoginOutcome with the registration-needed
// variant: a provider identity with no linked local account.
type SocialLoginOutcome struct {
	Session            *SessionGrant
	OnboardingNeeded   *domain.UserSummary
	RegistrationNeeded *domain.ProvisionalProfile
}

// SessionService orchestrates the login, reissue, social-login and logout
// flows. It is the only component that writes to the refresh token store.
type SessionService struct {
	userRepo     domain.UserRepository
	hasher       PasswordHasher
	tokenService *TokenService
	refreshStore cache.RefreshTokenStore
	resolver     *SocialIdentityResolver
}

// NewSessionService creates a new SessionService.
func NewSessionService(
	userRepo domain.UserRepository,
	hasher PasswordHasher,
	tokenService *TokenService,
	refreshStore cache.RefreshTokenStore,
	resolver *SocialIdentityResolver,
) *SessionService {
	return &SessionService{
		userRepo:     userRepo,
		hasher:       hasher,
		tokenService: tokenService,
		refreshStore: refreshStore,
		resolver:     resolver,
	}
}

// Login verifies a local identifier/secret pair and, if the member has
// completed onboarding, issues a session.
//
// An unknown identifier and a wrong secret both fail with
// apperrors.ErrCredentialMismatch; the two cases are indistinguishable so the
// response never leaks whether an account exists.
func (s *SessionService) Login(ctx context.Context, email, password string) (*LoginOutcome, error) {
	user, err := s.userRepo.GetUserByEmailAndOrigin(ctx, email, domain.OriginLocal)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrCredentialMismatch
		}
		return nil, fmt.Errorf("principal lookup failed: %w", err)
	}

	if err := s.hasher.Verify(user.PasswordHash, password); err != nil {
		log.Debug().Str("email", email).Msg("login: password mismatch")
		return nil, apperrors.ErrCredentialMismatch
	}

	return s.admit(ctx, user)
}

// SocialLogin resolves a provider access token and re-enters the login state
// machine for the resolved principal. The caller never supplies a local
// secret; provider authentication stands in for credential verification.
func (s *SessionService) SocialLogin(ctx context.Context, origin domain.LoginOrigin, providerToken string) (*SocialLoginOutcome, error) {
	resolved, err := s.resolver.Resolve(ctx, origin, providerToken)
	if err != nil {
		return nil, err
	}

	if resolved.RegistrationNeeded != nil {
		return &SocialLoginOutcome{RegistrationNeeded: resolved.RegistrationNeeded}, nil
	}

	outcome, err := s.admit(ctx, resolved.User)
	if err != nil {
		return nil, err
	}

	return &SocialLoginOutcome{
		Session:          outcome.Session,
		OnboardingNeeded: outcome.OnboardingNeeded,
	}, nil
}

// admit is the shared tail of the login state machine: the onboarding gate
// followed by token issuance and the refresh store write. Nothing is written
// to the store when the gate rejects.
func (s *SessionService) admit(ctx context.Context, user *domain.User) (*LoginOutcome, error) {
	if !user.OnboardingComplete() {
		summary := user.Summary()
		return &LoginOutcome{OnboardingNeeded: &summary}, nil
	}

	tokens, err := s.tokenService.GenerateTokenPair(user.Email, user.Authority)
	if err != nil {
		return nil, err
	}

	if err := s.refreshStore.Put(ctx, user.Email, tokens.RefreshToken); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	log.Info().Int64("userID", user.ID).Str("origin", string(user.LoginOrigin)).Msg("session issued")

	return &LoginOutcome{
		Session: &SessionGrant{
			Summary: user.Summary(),
			Tokens:  *tokens,
		},
	}, nil
}

// Reissue rotates the caller's token pair. The supplied refresh token carries
// a fixed 7-character scheme prefix that is stripped before comparison with
// the stored value. On success the store record is overwritten, so the
// previous refresh token is no longer accepted.
//
// Two concurrent reissues for the same principal may both pass the
// comparison; the last store write wins and the other pair's refresh token is
// rejected on its next use.
func (s *SessionService) Reissue(ctx context.Context, identity *domain.Identity, prefixedRefreshToken string) (*domain.TokenPair, error) {
	if len(prefixedRefreshToken) <= refreshPrefixLen {
		return nil, apperrors.ErrReissueFailed
	}
	presented := prefixedRefreshToken[refreshPrefixLen:]

	record, err := s.refreshStore.Get(ctx, identity.Subject)
	if err != nil {
		if errors.Is(err, apperrors.ErrNoActiveSession) {
			return nil, apperrors.ErrReissueFailed
		}
		return nil, fmt.Errorf("refresh token lookup failed: %w", err)
	}

	if record.Value != presented {
		log.Warn().Str("subject", identity.Subject).Msg("reissue: refresh token mismatch")
		return nil, apperrors.ErrReissueFailed
	}

	tokens, err := s.tokenService.GenerateTokenPair(identity.Subject, identity.Authority)
	if err != nil {
		return nil, err
	}

	if err := s.refreshStore.Put(ctx, identity.Subject, tokens.RefreshToken); err != nil {
		return nil, fmt.Errorf("failed to rotate refresh token: %w", err)
	}

	return tokens, nil
}

// Logout deletes the caller's refresh token record. It is idempotent: logging
// out twice in a row is a no-op the second time.
func (s *SessionService) Logout(ctx context.Context, identity *domain.Identity) error {
	return s.refreshStore.Delete(ctx, identity.Subject)
}

// GetMyInfo returns the authenticated caller's profile.
func (s *SessionService) GetMyInfo(ctx context.Context, identity *domain.Identity) (*domain.UserSummary, error) {
	user, err := s.userRepo.GetUserByEmail(ctx, identity.Subject)
	if err != nil {
		return nil, err
	}

	summary := user.Summary()
	return &summary, nil
}

// UpdatePassword hashes and stores a new secret for the caller.
func (s *SessionService) UpdatePassword(ctx context.Context, identity *domain.Identity, password string) error {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.userRepo.UpdatePassword(ctx, identity.Subject, hash)
}

// UpdateLifeStyle records the onboarding questionnaire result, clearing the
// gate that blocks session issuance.
func (s *SessionService) UpdateLifeStyle(ctx context.Context, userID int64, lifeStyle string) error {
	return s.userRepo.UpdateLifeStyle(ctx, userID, lifeStyle)
}

// EnsurePhoneNumberAvailable checks that no account holds the phone number
// yet. A taken number surfaces as ErrPhoneNumberDuplicated, which the
// registration collaborator passes through unchanged.
func (s *SessionService) EnsurePhoneNumberAvailable(ctx context.Context, phoneNum string) error {
	exists, err := s.userRepo.ExistsByPhoneNum(ctx, phoneNum)
	if err != nil {
		return fmt.Errorf("phone number check failed: %w", err)
	}
	if exists {
		return apperrors.ErrPhoneNumberDuplicated
	}

	return nil
}

// FindEmailByPhone looks up the account id, email and login origin behind a
// phone number, for the find-my-email flow.
func (s *SessionService) FindEmailByPhone(ctx context.Context, phoneNum string) (*domain.UserSummary, error) {
	user, err := s.userRepo.GetUserByPhoneNum(ctx, phoneNum)
	if err != nil {
		return nil, err
	}

	return &domain.UserSummary{
		ID:     user.ID,
		Email:  user.Email,
		Origin: user.LoginOrigin,
	}, nil
}
