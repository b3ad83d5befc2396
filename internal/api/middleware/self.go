package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/minilinkedin/social-network/internal/core/domain"
)

// SelfOnly lets the request through only when the path parameter param
// names the authenticated user. It must run after Auth.
func SelfOnly(param string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID := UserID(c)
			if userID == "" {
				return domain.ErrMissingToken
			}
			if c.Param(param) != userID {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
