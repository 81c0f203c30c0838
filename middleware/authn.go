package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/hausbase/membership/domain"
	"github.com/hausbase/membership/services"
)

// BearerAuth returns echo middleware that validates the Authorization header
// as a session access token and threads the caller identity through the
// request context. Handlers read it back with domain.IdentityFromContext.
func BearerAuth(tokenService *services.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header format: expected Bearer token")
			}

			identity, err := tokenService.ValidateAccessToken(parts[1])
			if err != nil {
				if errors.Is(err, services.ErrTokenExpired) {
					return echo.NewHTTPError(http.StatusUnauthorized, "token expired")
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			req := c.Request()
			c.SetRequest(req.WithContext(domain.WithIdentity(req.Context(), identity)))

			return next(c)
		}
	}
}
