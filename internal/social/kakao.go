package social

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"github.com/hausbase/membership/domain"
)

// KakaoUserInfoEndpoint is a variable so tests can point it at a local server.
var KakaoUserInfoEndpoint = "https://kapi.kakao.com/v2/user/me"

// KakaoProvider implements the Provider interface for Kakao.
//
// Kakao reports gender as "female"/"male" guarded by a has_gender flag, and
// email guarded by has_email. It never discloses a phone number.
type KakaoProvider struct {
	timeout time.Duration
}

// NewKakaoProvider creates a new KakaoProvider. timeout bounds every profile
// call; zero falls back to 5 seconds.
func NewKakaoProvider(timeout time.Duration) *KakaoProvider {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &KakaoProvider{timeout: timeout}
}

func (k *KakaoProvider) Origin() domain.LoginOrigin {
	return domain.OriginKakao
}

// FetchProfile retrieves the member profile from the Kakao user info API.
func (k *KakaoProvider) FetchProfile(ctx context.Context, accessToken string) (*Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, k.timeout)
	defer cancel()

	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken}))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, KakaoUserInfoEndpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("kakao: failed to build user info request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("kakao: %w: %w", ErrProfileFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, fmt.Errorf("kakao: %w: status %d", ErrProviderRejected, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("kakao: %w: status %d, body: %s", ErrProfileFetchFailed, resp.StatusCode, string(bodyBytes))
	}

	var raw struct {
		KakaoAccount struct {
			Profile struct {
				Nickname string `json:"nickname"`
			} `json:"profile"`
			HasEmail  bool   `json:"has_email"`
			Email     string `json:"email"`
			HasGender bool   `json:"has_gender"`
			Gender    string `json:"gender"`
		} `json:"kakao_account"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("kakao: failed to decode user info: %w", err)
	}

	account := raw.KakaoAccount

	gender := GenderUndisclosed
	if account.HasGender {
		if account.Gender == "female" {
			gender = GenderFemale
		} else {
			gender = GenderMale
		}
	}

	var email *string
	if account.HasEmail && account.Email != "" {
		email = &account.Email
	}

	return &Profile{
		Name:   account.Profile.Nickname,
		Gender: gender,
		Email:  email,
	}, nil
}

var _ Provider = (*KakaoProvider)(nil)
