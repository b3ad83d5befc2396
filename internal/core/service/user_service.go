package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/minilinkedin/social-network/internal/core/domain"
	"github.com/minilinkedin/social-network/internal/core/ports"
)

// PasswordCost is the bcrypt work factor for stored password hashes.
const PasswordCost = 10

// maxPasswordBytes is the longest input bcrypt accepts.
const maxPasswordBytes = 72

// dummyHash is compared against when the email is unknown so both failure
// paths of Authenticate spend the same bcrypt time.
var dummyHash = sync.OnceValue(func() []byte {
	h, _ := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), PasswordCost)
	return h
})

// UserService implements the credential store: registration, password
// checks and profile reads/updates.
type UserService struct {
	repo  ports.UserRepository
	cache ports.ProfileCache
	log   zerolog.Logger
	now   func() time.Time
}

func NewUserService(repo ports.UserRepository, cache ports.ProfileCache, log zerolog.Logger) *UserService {
	if cache == nil {
		cache = NopProfileCache{}
	}
	return &UserService{repo: repo, cache: cache, log: log, now: time.Now}
}

// Register creates a user after checking required fields and email
// uniqueness. The lookup is only a fast path; the repository's unique
// index decides when two registrations race.
func (s *UserService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	in.DisplayName = strings.TrimSpace(in.DisplayName)
	in.Headline = strings.TrimSpace(in.Headline)
	in.Bio = strings.TrimSpace(in.Bio)
	email := normalizeEmail(in.Email)

	var missing []string
	for _, f := range []struct{ name, value string }{
		{"displayName", in.DisplayName},
		{"headline", in.Headline},
		{"email", email},
		{"password", in.Password},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s required", domain.ErrValidation, strings.Join(missing, ", "))
	}

	existing, err := s.repo.FindByEmail(ctx, email)
	switch {
	case err == nil && existing != nil:
		return nil, domain.ErrEmailTaken
	case err != nil && !errors.Is(err, domain.ErrUserNotFound):
		return nil, fmt.Errorf("register: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), PasswordCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, fmt.Errorf("%w: password must be at most %d bytes", domain.ErrValidation, maxPasswordBytes)
		}
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	now := s.now().UTC().Truncate(time.Millisecond)
	created, err := s.repo.Create(ctx, &domain.User{
		DisplayName:  in.DisplayName,
		Headline:     in.Headline,
		Bio:          in.Bio,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("register: %w", err)
	}

	s.log.Info().Str("user_id", created.ID).Msg("user registered")
	return created, nil
}

// Authenticate checks email and password. Unknown email and wrong password
// produce the same error.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(password))
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *UserService) ListAll(ctx context.Context) ([]*domain.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// UpdateProfile applies a partial update of displayName, headline and bio.
func (s *UserService) UpdateProfile(ctx context.Context, id string, update ports.ProfileUpdate) (*domain.User, error) {
	update.DisplayName = trimPtr(update.DisplayName)
	update.Headline = trimPtr(update.Headline)
	update.Bio = trimPtr(update.Bio)

	if update.DisplayName != nil && *update.DisplayName == "" {
		return nil, fmt.Errorf("%w: displayName cannot be empty", domain.ErrValidation)
	}
	if update.Headline != nil && *update.Headline == "" {
		return nil, fmt.Errorf("%w: headline cannot be empty", domain.ErrValidation)
	}
	if update.Empty() {
		return s.repo.FindByID(ctx, id)
	}

	user, err := s.repo.Update(ctx, id, update, s.now().UTC())
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, user.Summary()); err != nil {
		s.log.Warn().Err(err).Str("user_id", id).Msg("failed to refresh cached profile")
		if err := s.cache.Delete(ctx, id); err != nil {
			s.log.Warn().Err(err).Str("user_id", id).Msg("failed to evict cached profile")
		}
	}
	s.log.Info().Str("user_id", id).Msg("profile updated")
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
