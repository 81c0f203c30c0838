// Package social talks to the external identity providers and normalizes
// their differently shaped profile payloads into a single Profile structure.
// All provider-specific field-name knowledge lives in the per-provider
// adapter; nothing outside this package parses a provider response.
package social

import (
	"context"

	"github.com/hausbase/membership/domain"
)

// Gender codes inferred from a provider profile.
const (
	GenderFemale      = 0
	GenderMale        = 1
	GenderUndisclosed = 2
)

// Profile holds standardized member information retrieved from an external
// provider. Email and PhoneNum are nil when the provider did not disclose
// them.
type Profile struct {
	Name     string
	Gender   int
	Email    *string
	PhoneNum *string
}

// Provider fetches the profile behind an opaque, caller-supplied provider
// access token. The token is one-shot from this core's perspective: a failed
// call is never retried.
type Provider interface {
	// Origin returns the login origin this provider authenticates.
	Origin() domain.LoginOrigin

	// FetchProfile exchanges the provider access token for the member
	// profile. The call is bounded by the provider timeout; a timeout is
	// indistinguishable from a rejected token to callers.
	FetchProfile(ctx context.Context, accessToken string) (*Profile, error)
}
