package middleware

import (
	"errors"
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/minilinkedin/social-network/internal/api/metrics"
	"github.com/minilinkedin/social-network/internal/core/domain"
)

// TokenHeader carries the session token on protected calls.
const TokenHeader = "X-Auth-Token"

// UserIDKey is the echo context key holding the authenticated user id.
const UserIDKey = "user_id"

// TokenVerifier resolves a session token to a user id.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// Auth rejects the request before the handler runs unless it carries a
// valid session token, then stores the token's user id in the context.
func Auth(verifier TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, err := verifier.Verify(tokenFromRequest(c))
			if err != nil {
				metrics.AuthFailuresTotal.WithLabelValues(failureReason(err)).Inc()
				if !domain.IsAuthError(err) {
					err = fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
				}
				return err
			}

			c.Set(UserIDKey, userID)
			return next(c)
		}
	}
}

// UserID returns the id stored by Auth, or "" on public routes.
func UserID(c echo.Context) string {
	id, _ := c.Get(UserIDKey).(string)
	return id
}

// tokenFromRequest reads X-Auth-Token, falling back to a bearer
// Authorization header.
func tokenFromRequest(c echo.Context) string {
	if tok := strings.TrimSpace(c.Request().Header.Get(TokenHeader)); tok != "" {
		return tok
	}

	parts := strings.SplitN(c.Request().Header.Get(echo.HeaderAuthorization), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrMissingToken):
		return "missing"
	case errors.Is(err, domain.ErrExpiredToken):
		return "expired"
	default:
		return "invalid"
	}
}
