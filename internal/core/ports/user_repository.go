package ports

import (
	"context"
	"time"

	"github.com/minilinkedin/social-network/internal/core/domain"
)

// ProfileUpdate carries a partial profile change. Nil fields are left as is.
type ProfileUpdate struct {
	DisplayName *string
	Headline    *string
	Bio         *string
}

// Empty reports whether the update touches no field.
func (u ProfileUpdate) Empty() bool {
	return u.DisplayName == nil && u.Headline == nil && u.Bio == nil
}

// UserRepository persists users. Implementations must enforce email
// uniqueness and return domain.ErrEmailTaken when it is violated.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// FindByID returns domain.ErrUserNotFound for unknown or malformed ids.
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// FindByIDs returns the users that exist among ids; unknown ids are skipped.
	FindByIDs(ctx context.Context, ids []string) ([]*domain.User, error)
	// List returns all users sorted by display name ascending.
	List(ctx context.Context) ([]*domain.User, error)
	Update(ctx context.Context, id string, update ProfileUpdate, updatedAt time.Time) (*domain.User, error)
}
