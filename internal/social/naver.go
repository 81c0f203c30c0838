package social

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/hausbase/membership/domain"
)

// NaverUserInfoEndpoint is a variable so tests can point it at a local server.
var NaverUserInfoEndpoint = "https://openapi.naver.com/v1/nid/me"

// NaverProvider implements the Provider interface for Naver.
//
// Naver wraps the profile in a "response" object, reports gender as "F"/"M"
// (absent when undisclosed), and may disclose a mobile number with dash
// separators.
type NaverProvider struct {
	timeout time.Duration
}

// NewNaverProvider creates a new NaverProvider. timeout bounds every profile
// call; zero falls back to 5 seconds.
func NewNaverProvider(timeout time.Duration) *NaverProvider {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &NaverProvider{timeout: timeout}
}

func (n *NaverProvider) Origin() domain.LoginOrigin {
	return domain.OriginNaver
}

// FetchProfile retrieves the member profile from the Naver open API.
func (n *NaverProvider) FetchProfile(ctx context.Context, accessToken string) (*Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken}))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, NaverUserInfoEndpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("naver: failed to build user info request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("naver: %w: %w", ErrProfileFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, fmt.Errorf("naver: %w: status %d", ErrProviderRejected, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("naver: %w: status %d, body: %s", ErrProfileFetchFailed, resp.StatusCode, string(bodyBytes))
	}

	var raw struct {
		Response struct {
			Name   string  `json:"name"`
			Email  string  `json:"email"`
			Gender *string `json:"gender"`
			Mobile *string `json:"mobile"`
		} `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("naver: failed to decode user info: %w", err)
	}

	profile := raw.Response

	gender := GenderUndisclosed
	if profile.Gender != nil {
		if *profile.Gender == "F" {
			gender = GenderFemale
		} else {
			gender = GenderMale
		}
	}

	var email *string
	if profile.Email != "" {
		email = &profile.Email
	}

	var phoneNum *string
	if profile.Mobile != nil {
		normalized := strings.ReplaceAll(*profile.Mobile, "-", "")
		phoneNum = &normalized
	}

	return &Profile{
		Name:     profile.Name,
		Gender:   gender,
		Email:    email,
		PhoneNum: phoneNum,
	}, nil
}

var _ Provider = (*NaverProvider)(nil)
