package services

import (
	"context"
	"fmt"
	"time"

	"github.com/hausbase/membership/domain"
)

// GuestCheckResult reports whether a member matching both phone number and
// email exists. Token is set only when Exists is true.
type GuestCheckResult struct {
	Exists bool   `json:"result"`
	Token  string `json:"token,omitempty"`
}

// GuestService implements the lightweight identity-check flow. It issues a
// short-lived guest-scoped token, never a session pair, and it does not touch
// the refresh token store.
type GuestService struct {
	userRepo     domain.UserRepository
	tokenService *TokenService
	tokenTTL     time.Duration
}

// NewGuestService creates a new GuestService. tokenTTL bounds the issued
// guest tokens; zero falls back to 15 minutes.
func NewGuestService(userRepo domain.UserRepository, tokenService *TokenService, tokenTTL time.Duration) *GuestService {
	if tokenTTL <= 0 {
		tokenTTL = 15 * time.Minute
	}
	return &GuestService{
		userRepo:     userRepo,
		tokenService: tokenService,
		tokenTTL:     tokenTTL,
	}
}

// CheckAndIssue verifies that a member with the given phone number and email
// exists. When none does the result is negative and carries no token.
func (g *GuestService) CheckAndIssue(ctx context.Context, phoneNum, email string) (*GuestCheckResult, error) {
	exists, err := g.userRepo.ExistsByPhoneNumAndEmail(ctx, phoneNum, email)
	if err != nil {
		return nil, fmt.Errorf("member existence check failed: %w", err)
	}
	if !exists {
		return &GuestCheckResult{Exists: false}, nil
	}

	token, err := g.tokenService.GenerateScopedToken(email, domain.AuthorityGuest, g.tokenTTL)
	if err != nil {
		return nil, err
	}

	return &GuestCheckResult{Exists: true, Token: token}, nil
}
