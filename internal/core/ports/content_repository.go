package ports

import (
	"context"

	"github.com/minilinkedin/social-network/internal/core/domain"
)

// PostRepository persists posts.
type PostRepository interface {
	// Create assigns ID and timestamps to p.
	Create(ctx context.Context, p *domain.Post) error
	// FindByID returns domain.ErrPostNotFound for unknown or malformed ids.
	FindByID(ctx context.Context, id string) (*domain.Post, error)
	// List returns every post, newest first.
	List(ctx context.Context) ([]*domain.Post, error)
}

// CommentRepository persists comments.
type CommentRepository interface {
	// Create assigns ID and timestamps to c.
	Create(ctx context.Context, c *domain.Comment) error
	// ListByPost returns the comments of postID oldest first. An unknown
	// post yields an empty slice.
	ListByPost(ctx context.Context, postID string) ([]*domain.Comment, error)
}
