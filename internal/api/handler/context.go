package handler

import (
	"errors"
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/minilinkedin/social-network/internal/api/middleware"
	"github.com/minilinkedin/social-network/internal/core/domain"
)

// currentUser returns the user id put in the context by the Auth
// middleware. An empty id means the route was mounted without the gate.
func currentUser(c echo.Context) (string, error) {
	id := middleware.UserID(c)
	if id == "" {
		return "", domain.ErrMissingToken
	}
	return id, nil
}

// bind decodes the body into req and runs the validator.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return fmt.Errorf("%w: invalid payload", domain.ErrValidation)
	}
	return c.Validate(req)
}

// staleSession turns "author not found" into an auth error: the token is
// well formed but its user no longer exists.
func staleSession(err error) error {
	if errors.Is(err, domain.ErrUserNotFound) {
		return fmt.Errorf("%w: user no longer exists", domain.ErrInvalidToken)
	}
	return err
}
