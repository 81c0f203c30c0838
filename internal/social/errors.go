package social

import "errors"

var (
	ErrProfileFetchFailed = errors.New("failed to fetch profile from provider")
	ErrProviderRejected   = errors.New("provider rejected the access token")
)
