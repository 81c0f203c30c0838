package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/hausbase/membership/domain"
	apperrors "github.com/hausbase/membership/errors"
)

// Token-use labels embedded in every signed token. A guest token is never
// accepted where a session token is expected, and vice versa.
const (
	tokenUseSession = "session"
	tokenUseGuest   = "guest"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// TokenService mints and validates the tokens of the membership core: signed
// session access tokens, opaque refresh tokens, and narrowly scoped guest
// tokens. Lifetimes come from configuration, never computed.
type TokenService struct {
	issuer     string
	signer     *TokenSigner
	secretKey  []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenService creates a new TokenService instance. secretKey is used both
// for signing (via signer) and for signature verification on validation.
func NewTokenService(issuer, secretKey string, accessTTL, refreshTTL time.Duration) *TokenService {
	signer := NewTokenSigner()
	signer.AddKeySigner(secretKey)

	return &TokenService{
		issuer:     issuer,
		signer:     signer,
		secretKey:  []byte(secretKey),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// AccessTokenTTL returns the configured access token lifetime.
func (s *TokenService) AccessTokenTTL() time.Duration { return s.accessTTL }

// RefreshTokenTTL returns the configured refresh token lifetime.
func (s *TokenService) RefreshTokenTTL() time.Duration { return s.refreshTTL }

// GenerateTokenPair mints a fresh access/refresh pair for the principal. The
// access token is a signed JWT carrying the subject and authority; the
// refresh token is an opaque random value whose only meaning is its entry in
// the refresh token store.
func (s *TokenService) GenerateTokenPair(subject string, authority domain.Authority) (*domain.TokenPair, error) {
	now := time.Now()

	claims := jwt.MapClaims{
		"iss":       s.issuer,
		"sub":       subject,
		"auth":      string(authority),
		"token_use": tokenUseSession,
		"exp":       jwt.NewNumericDate(now.Add(s.accessTTL)).Unix(),
		"iat":       jwt.NewNumericDate(now).Unix(),
		"jti":       uuid.NewString(),
	}

	accessToken, err := s.signer.Sign(claims, "")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrSigningFailure, err)
	}

	return &domain.TokenPair{
		GrantType:             domain.GrantType,
		AccessToken:           accessToken,
		AccessTokenExpiresIn:  int64(s.accessTTL.Seconds()),
		RefreshToken:          uuid.NewString(),
		RefreshTokenExpiresIn: int64(s.refreshTTL.Seconds()),
	}, nil
}

// GenerateScopedToken mints a short-lived token for the lightweight
// identity-check flow. It carries a guest token-use label, so no session code
// path will ever accept it, and it has no refresh counterpart.
func (s *TokenService) GenerateScopedToken(subject string, authority domain.Authority, lifetime time.Duration) (string, error) {
	now := time.Now()

	claims := jwt.MapClaims{
		"iss":       s.issuer,
		"sub":       subject,
		"auth":      string(authority),
		"token_use": tokenUseGuest,
		"exp":       jwt.NewNumericDate(now.Add(lifetime)).Unix(),
		"iat":       jwt.NewNumericDate(now).Unix(),
		"jti":       uuid.NewString(),
	}

	token, err := s.signer.Sign(claims, "")
	if err != nil {
		return "", fmt.Errorf("%w: %w", apperrors.ErrSigningFailure, err)
	}

	return token, nil
}

// ValidateAccessToken verifies a session access token and returns the caller
// identity embedded in it. Guest tokens are rejected here regardless of their
// signature being valid.
func (s *TokenService) ValidateAccessToken(tokenValue string) (*domain.Identity, error) {
	parsed, err := jwt.Parse(tokenValue, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	}, jwt.WithIssuer(s.issuer), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrTokenInvalid
	}

	if use, _ := claims["token_use"].(string); use != tokenUseSession {
		return nil, fmt.Errorf("%w: not a session token", ErrTokenInvalid)
	}

	subject, _ := claims["sub"].(string)
	if subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrTokenInvalid)
	}
	authority, _ := claims["auth"].(string)

	return &domain.Identity{
		Subject:   subject,
		Authority: domain.Authority(authority),
	}, nil
}
