package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hausbase/membership/domain"
	"github.com/hausbase/membership/services"
)

func newAuthTestServices(t *testing.T) *services.TokenService {
	t.Helper()
	return services.NewTokenService("membership-test", "test-secret-key-0123456789abcdef", 30*time.Minute, time.Hour)
}

func invokeWithHeader(t *testing.T, tokenService *services.TokenService, header string) (*httptest.ResponseRecorder, *domain.Identity) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seen *domain.Identity
	handler := BearerAuth(tokenService)(func(c echo.Context) error {
		id, ok := domain.IdentityFromContext(c.Request().Context())
		require.True(t, ok)
		seen = id
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, seen
}

func TestBearerAuth_ValidToken(t *testing.T) {
	tokenService := newAuthTestServices(t)
	pair, err := tokenService.GenerateTokenPair("jordan@example.com", domain.AuthorityUser)
	require.NoError(t, err)

	rec, identity := invokeWithHeader(t, tokenService, "Bearer "+pair.AccessToken)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, identity)
	assert.Equal(t, "jordan@example.com", identity.Subject)
	assert.Equal(t, domain.AuthorityUser, identity.Authority)
}

func TestBearerAuth_MissingHeader(t *testing.T) {
	rec, _ := invokeWithHeader(t, newAuthTestServices(t), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBearerAuth_MalformedHeader(t *testing.T) {
	rec, _ := invokeWithHeader(t, newAuthTestServices(t), "Token abc")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBearerAuth_ExpiredToken(t *testing.T) {
	expired := services.NewTokenService("membership-test", "test-secret-key-0123456789abcdef", -time.Minute, time.Hour)
	pair, err := expired.GenerateTokenPair("jordan@example.com", domain.AuthorityUser)
	require.NoError(t, err)

	rec, _ := invokeWithHeader(t, expired, "Bearer "+pair.AccessToken)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "token expired")
}

func TestBearerAuth_GuestTokenRejected(t *testing.T) {
	tokenService := newAuthTestServices(t)
	guestToken, err := tokenService.GenerateScopedToken("guest@example.com", domain.AuthorityGuest, 15*time.Minute)
	require.NoError(t, err)

	rec, _ := invokeWithHeader(t, tokenService, "Bearer "+guestToken)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
