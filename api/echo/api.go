// Package echo exposes the membership core over HTTP. Handlers are thin: they
// bind the wire shapes, call into the service layer, and translate the tagged
// outcomes and sentinel errors into structured responses. No business rule
// lives here.
package echo

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/hausbase/membership/domain"
	apperrors "github.com/hausbase/membership/errors"
	"github.com/hausbase/membership/middleware"
	"github.com/hausbase/membership/services"
)

// MembershipAPI holds the handler dependencies.
type MembershipAPI struct {
	sessions     *services.SessionService
	guests       *services.GuestService
	tokenService *services.TokenService
}

// NewMembershipAPI initializes the membership API.
func NewMembershipAPI(
	sessions *services.SessionService,
	guests *services.GuestService,
	tokenService *services.TokenService,
) *MembershipAPI {
	return &MembershipAPI{
		sessions:     sessions,
		guests:       guests,
		tokenService: tokenService,
	}
}

// RegisterRoutes registers the membership routes.
func (a *MembershipAPI) RegisterRoutes(e *echo.Echo) {
	e.POST("/users/login", a.LoginHandler)
	e.POST("/users/auth/kakao", a.KakaoLoginHandler)
	e.POST("/users/auth/naver", a.NaverLoginHandler)
	e.POST("/users/check", a.GuestCheckHandler)
	e.GET("/users/email", a.FindEmailHandler)
	e.GET("/users/phone/check", a.PhoneCheckHandler)
	// Completing the questionnaire is what unlocks login, so this route
	// cannot sit behind session authentication.
	e.PATCH("/users/life-style", a.UpdateLifeStyleHandler)

	authed := e.Group("/users", middleware.BearerAuth(a.tokenService))
	authed.POST("/token", a.ReissueHandler)
	authed.POST("/logout", a.LogoutHandler)
	authed.GET("/me", a.MyInfoHandler)
	authed.PATCH("/password", a.UpdatePasswordHandler)
}

// Error and alternate-outcome codes carried in structured responses.
const (
	codeAuthFailed          = "AUTH_FAILED"
	codeLifeStyleNeeded     = "LIFE_STYLE_TEST_NEEDED"
	codeAdditionalInfo      = "ADDITIONAL_INFO_NEEDED"
	codeReissueFailed       = "REISSUE_FAILED"
	codeSocialAuthFailed    = "SOCIAL_AUTH_FAILED"
	codePhoneNumDuplicated  = "PHONE_NUMBER_DUPLICATED"
	codeUserNotFound        = "USER_NOT_FOUND"
	codeInternalServerError = "INTERNAL_SERVER_ERROR"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type socialLoginRequest struct {
	Token string `json:"token"`
}

type reissueRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type guestCheckRequest struct {
	PhoneNum string `json:"phoneNum"`
	Email    string `json:"email"`
}

type updatePasswordRequest struct {
	Password string `json:"password"`
}

type updateLifeStyleRequest struct {
	ID        int64  `json:"id"`
	LifeStyle string `json:"lifeStyle"`
}

// loginResponse flattens the principal summary and the token pair, mirroring
// the login wire contract: all four token fields are always present together.
type loginResponse struct {
	ID                    int64         `json:"id"`
	Name                  string        `json:"name"`
	Birth                 time.Time     `json:"birth"`
	Gender                domain.Gender `json:"gender"`
	Email                 string        `json:"email"`
	PhoneNum              string        `json:"phoneNum"`
	RoomID                int64         `json:"roomId"`
	LifeStyle             *string       `json:"lifeStyle,omitempty"`
	GrantType             string        `json:"grantType"`
	AccessToken           string        `json:"accessToken"`
	AccessTokenExpiresIn  int64         `json:"accessTokenExpiresIn"`
	RefreshToken          string        `json:"refreshToken"`
	RefreshTokenExpiresIn int64         `json:"refreshTokenExpiresIn"`
}

func newLoginResponse(grant *services.SessionGrant) *loginResponse {
	return &loginResponse{
		ID:                    grant.Summary.ID,
		Name:                  grant.Summary.Name,
		Birth:                 grant.Summary.Birth,
		Gender:                grant.Summary.Gender,
		Email:                 grant.Summary.Email,
		PhoneNum:              grant.Summary.PhoneNum,
		RoomID:                grant.Summary.RoomID,
		LifeStyle:             grant.Summary.LifeStyle,
		GrantType:             grant.Tokens.GrantType,
		AccessToken:           grant.Tokens.AccessToken,
		AccessTokenExpiresIn:  grant.Tokens.AccessTokenExpiresIn,
		RefreshToken:          grant.Tokens.RefreshToken,
		RefreshTokenExpiresIn: grant.Tokens.RefreshTokenExpiresIn,
	}
}

// LoginHandler handles local email/password login.
func (a *MembershipAPI) LoginHandler(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Code: codeAuthFailed, Message: "malformed login request"})
	}

	outcome, err := a.sessions.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return a.loginError(c, err)
	}

	return a.loginOutcome(c, outcome)
}

// KakaoLoginHandler handles social login with a Kakao access token.
func (a *MembershipAPI) KakaoLoginHandler(c echo.Context) error {
	return a.socialLogin(c, domain.OriginKakao)
}

// NaverLoginHandler handles social login with a Naver access token.
func (a *MembershipAPI) NaverLoginHandler(c echo.Context) error {
	return a.socialLogin(c, domain.OriginNaver)
}

func (a *MembershipAPI) socialLogin(c echo.Context, origin domain.LoginOrigin) error {
	var req socialLoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Code: codeSocialAuthFailed, Message: "malformed social login request"})
	}

	outcome, err := a.sessions.SocialLogin(c.Request().Context(), origin, req.Token)
	if err != nil {
		return a.loginError(c, err)
	}

	if outcome.RegistrationNeeded != nil {
		return c.JSON(http.StatusForbidden, errorResponse{
			Code:    codeAdditionalInfo,
			Message: "no linked account for this provider identity; registration required",
			Data:    outcome.RegistrationNeeded,
		})
	}

	return a.loginOutcome(c, &services.LoginOutcome{
		Session:          outcome.Session,
		OnboardingNeeded: outcome.OnboardingNeeded,
	})
}

func (a *MembershipAPI) loginOutcome(c echo.Context, outcome *services.LoginOutcome) error {
	if outcome.OnboardingNeeded != nil {
		return c.JSON(http.StatusForbidden, errorResponse{
			Code:    codeLifeStyleNeeded,
			Message: "life style test must be completed before login",
			Data:    outcome.OnboardingNeeded,
		})
	}

	return c.JSON(http.StatusOK, newLoginResponse(outcome.Session))
}

func (a *MembershipAPI) loginError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, apperrors.ErrCredentialMismatch):
		return c.JSON(http.StatusUnauthorized, errorResponse{Code: codeAuthFailed, Message: "email or password does not match"})
	case errors.Is(err, apperrors.ErrProviderAuthFailed):
		return c.JSON(http.StatusUnauthorized, errorResponse{Code: codeSocialAuthFailed, Message: "social authentication failed"})
	default:
		log.Error().Err(err).Msg("login failed")
		return c.JSON(http.StatusInternalServerError, errorResponse{Code: codeInternalServerError, Message: "internal server error"})
	}
}

// ReissueHandler rotates the caller's token pair. Caller identity comes from
// the validated access token, not from the request body.
func (a *MembershipAPI) ReissueHandler(c echo.Context) error {
	identity, ok := domain.IdentityFromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}

	var req reissueRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Code: codeReissueFailed, Message: "malformed reissue request"})
	}

	tokens, err := a.sessions.Reissue(c.Request().Context(), identity, req.RefreshToken)
	if err != nil {
		if errors.Is(err, apperrors.ErrReissueFailed) {
			return c.JSON(http.StatusUnauthorized, errorResponse{Code: codeReissueFailed, Message: "token reissue failed; log in again"})
		}
		log.Error().Err(err).Msg("reissue failed")
		return c.JSON(http.StatusInternalServerError, errorResponse{Code: codeInternalServerError, Message: "internal server error"})
	}

	return c.JSON(http.StatusOK, tokens)
}

// LogoutHandler deletes the caller's refresh token record.
func (a *MembershipAPI) LogoutHandler(c echo.Context) error {
	identity, ok := domain.IdentityFromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}

	if err := a.sessions.Logout(c.Request().Context(), identity); err != nil {
		log.Error().Err(err).Msg("logout failed")
		return c.JSON(http.StatusInternalServerError, errorResponse{Code: codeInternalServerError, Message: "internal server error"})
	}

	return c.NoContent(http.StatusNoContent)
}

// MyInfoHandler returns the authenticated caller's profile.
func (a *MembershipAPI) MyInfoHandler(c echo.Context) error {
	identity, ok := domain.IdentityFromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}

	summary, err := a.sessions.GetMyInfo(c.Request().Context(), identity)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, errorResponse{Code: codeUserNotFound, Message: "user not found"})
		}
		log.Error().Err(err).Msg("profile fetch failed")
		return c.JSON(http.StatusInternalServerError, errorResponse{Code: codeInternalServerError, Message: "internal server error"})
	}

	return c.JSON(http.StatusOK, summary)
}

// GuestCheckHandler implements the lightweight identity-check flow.
func (a *MembershipAPI) GuestCheckHandler(c echo.Context) error {
	var req guestCheckRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed guest check request")
	}

	result, err := a.guests.CheckAndIssue(c.Request().Context(), req.PhoneNum, req.Email)
	if err != nil {
		log.Error().Err(err).Msg("guest check failed")
		return c.JSON(http.StatusInternalServerError, errorResponse{Code: codeInternalServerError, Message: "internal server error"})
	}

	return c.JSON(http.StatusOK, result)
}

// FindEmailHandler looks up the account behind a phone number.
func (a *MembershipAPI) FindEmailHandler(c echo.Context) error {
	phoneNum := c.QueryParam("phoneNum")
	if phoneNum == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "phoneNum is required")
	}

	summary, err := a.sessions.FindEmailByPhone(c.Request().Context(), phoneNum)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, errorResponse{Code: codeUserNotFound, Message: "user not found"})
		}
		log.Error().Err(err).Msg("email lookup failed")
		return c.JSON(http.StatusInternalServerError, errorResponse{Code: codeInternalServerError, Message: "internal server error"})
	}

	return c.JSON(http.StatusOK, summary)
}

// PhoneCheckHandler reports whether a phone number is still free to register.
func (a *MembershipAPI) PhoneCheckHandler(c echo.Context) error {
	phoneNum := c.QueryParam("phoneNum")
	if phoneNum == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "phoneNum is required")
	}

	if err := a.sessions.EnsurePhoneNumberAvailable(c.Request().Context(), phoneNum); err != nil {
		if errors.Is(err, apperrors.ErrPhoneNumberDuplicated) {
			return c.JSON(http.StatusConflict, errorResponse{Code: codePhoneNumDuplicated, Message: "phone number already in use"})
		}
		log.Error().Err(err).Msg("phone number check failed")
		return c.JSON(http.StatusInternalServerError, errorResponse{Code: codeInternalServerError, Message: "internal server error"})
	}

	return c.NoContent(http.StatusNoContent)
}

// UpdatePasswordHandler stores a new password for the caller.
func (a *MembershipAPI) UpdatePasswordHandler(c echo.Context) error {
	identity, ok := domain.IdentityFromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}

	var req updatePasswordRequest
	if err := c.Bind(&req); err != nil || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed password update request")
	}

	if err := a.sessions.UpdatePassword(c.Request().Context(), identity, req.Password); err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, errorResponse{Code: codeUserNotFound, Message: "user not found"})
		}
		log.Error().Err(err).Msg("password update failed")
		return c.JSON(http.StatusInternalServerError, errorResponse{Code: codeInternalServerError, Message: "internal server error"})
	}

	return c.NoContent(http.StatusNoContent)
}

// UpdateLifeStyleHandler records the onboarding questionnaire result.
func (a *MembershipAPI) UpdateLifeStyleHandler(c echo.Context) error {
	var req updateLifeStyleRequest
	if err := c.Bind(&req); err != nil || req.LifeStyle == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed life style update request")
	}

	if err := a.sessions.UpdateLifeStyle(c.Request().Context(), req.ID, req.LifeStyle); err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, errorResponse{Code: codeUserNotFound, Message: "user not found"})
		}
		log.Error().Err(err).Msg("life style update failed")
		return c.JSON(http.StatusInternalServerError, errorResponse{Code: codeInternalServerError, Message: "internal server error"})
	}

	return c.NoContent(http.StatusNoContent)
}
