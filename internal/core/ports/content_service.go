package ports

import (
	"context"

	"github.com/minilinkedin/social-network/internal/core/domain"
)

// ContentService reads and writes posts and comments. Author ids always come
// from a verified session, never from request payloads.
type ContentService interface {
	ListPosts(ctx context.Context) ([]domain.PostView, error)
	GetPost(ctx context.Context, id string) (*domain.PostView, error)
	CreatePost(ctx context.Context, authorID, content string) (*domain.PostView, error)
	ListComments(ctx context.Context, postID string) ([]domain.CommentView, error)
	CreateComment(ctx context.Context, authorID, postID, content string) (*domain.CommentView, error)
}
