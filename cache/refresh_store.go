package cache

import (
	"context"
)

// RefreshTokenRecord is the single live refresh token for one principal.
type RefreshTokenRecord struct {
	// Key is the principal identity string (the account email the tokens
	// were issued for).
	Key string `redis:"key"`
	// Value is the current refresh token.
	Value string `redis:"value"`
}

// RefreshTokenStore keeps at most one live refresh token per principal.
//
// Put is an unconditional upsert: storing a new value for an existing key
// silently invalidates the previous token. Each operation is atomic per key,
// but two concurrent rotations for the same principal are not serialized
// against each other; the last Put wins and the loser's freshly issued token
// is rejected on its next use.
type RefreshTokenStore interface {
	Put(ctx context.Context, key, value string) error
	// Get returns the current record for the principal, or
	// errors.ErrNoActiveSession when none exists.
	Get(ctx context.Context, key string) (*RefreshTokenRecord, error)
	// Delete removes the principal's record. Deleting an absent key is not
	// an error.
	Delete(ctx context.Context, key string) error
	Close() error
}
