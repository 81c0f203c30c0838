// Package errors defines the error taxonomy of the membership core. Every
// recoverable condition is a sentinel so callers can branch with errors.Is;
// services convert them into structured responses at the API boundary.
package errors

import "errors"

var (
	// ErrCredentialMismatch covers both an unknown local identifier and a
	// wrong secret. The two cases are deliberately indistinguishable so a
	// caller cannot probe for account existence.
	ErrCredentialMismatch = errors.New("email or password does not match")

	// ErrReissueFailed is returned when the stored refresh token is absent
	// or does not equal the presented one. The only recovery is a full
	// re-login.
	ErrReissueFailed = errors.New("refresh token reissue failed")

	// ErrNoActiveSession is returned by the refresh token store when no
	// record exists for the principal.
	ErrNoActiveSession = errors.New("no active session for principal")

	// ErrProviderAuthFailed is the single opaque failure for a rejected,
	// expired or unreachable social provider token. Provider tokens are
	// one-shot, so the call is never retried.
	ErrProviderAuthFailed = errors.New("social provider authentication failed")

	// ErrSigningFailure indicates an infrastructure fault while minting a
	// token. It is fatal for the request and surfaced as an internal error.
	ErrSigningFailure = errors.New("token signing failed")

	// ErrUserNotFound is returned by principal lookups that resolve nothing.
	ErrUserNotFound = errors.New("user not found")

	// ErrPhoneNumberDuplicated reports a phone number that is already bound
	// to an account; the registration collaborator passes it through
	// unchanged.
	ErrPhoneNumberDuplicated = errors.New("phone number already in use")
)
