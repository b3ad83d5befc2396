package ports

import (
	"context"

	"github.com/minilinkedin/social-network/internal/core/domain"
)

// RegisterInput carries the fields accepted at sign-up.
type RegisterInput struct {
	DisplayName string
	Headline    string
	Email       string
	Password    string
	Bio         string
}

// AuthResult is returned by successful registration and login.
type AuthResult struct {
	Token string
	User  *domain.User
}

// AuthService issues and verifies session tokens on top of the credential store.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	// Verify resolves a token to the user id it was issued for.
	Verify(token string) (string, error)
	Me(ctx context.Context, userID string) (*domain.User, error)
}
