package service

import (
	"context"
	"fmt"

	"github.com/minilinkedin/social-network/internal/core/domain"
	"github.com/minilinkedin/social-network/internal/core/ports"
)

// AuthService implements registration and login on top of the credential
// store and hands out session tokens.
type AuthService struct {
	users  ports.UserService
	tokens *TokenIssuer
}

func NewAuthService(users ports.UserService, tokens *TokenIssuer) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	user, err := s.users.Register(ctx, in)
	if err != nil {
		return nil, err
	}
	return s.issue(user)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	user, err := s.users.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return s.issue(user)
}

func (s *AuthService) Verify(token string) (string, error) {
	return s.tokens.Verify(token)
}

// Me returns the caller's own profile, email included.
func (s *AuthService) Me(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *AuthService) issue(user *domain.User) (*ports.AuthResult, error) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &ports.AuthResult{Token: token, User: user}, nil
}
