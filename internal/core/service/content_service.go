package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/minilinkedin/social-network/internal/core/domain"
	"github.com/minilinkedin/social-network/internal/core/ports"
)

// ContentService owns posts and comments. It only reads users to check the
// author exists and to join display fields into views.
type ContentService struct {
	posts    ports.PostRepository
	comments ports.CommentRepository
	users    ports.UserRepository
	authors  *authorResolver
	log      zerolog.Logger
}

func NewContentService(
	posts ports.PostRepository,
	comments ports.CommentRepository,
	users ports.UserRepository,
	cache ports.ProfileCache,
	log zerolog.Logger,
) *ContentService {
	if cache == nil {
		cache = NopProfileCache{}
	}
	return &ContentService{
		posts:    posts,
		comments: comments,
		users:    users,
		authors:  &authorResolver{users: users, cache: cache, log: log},
		log:      log,
	}
}

// ListPosts returns every post newest first with its author joined in.
func (s *ContentService) ListPosts(ctx context.Context) ([]domain.PostView, error) {
	posts, err := s.posts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	ids := make([]string, len(posts))
	for i, p := range posts {
		ids[i] = p.AuthorID
	}
	authors, err := s.authors.resolve(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	views := make([]domain.PostView, 0, len(posts))
	for _, p := range posts {
		views = append(views, domain.NewPostView(p, authors[p.AuthorID]))
	}
	return views, nil
}

func (s *ContentService) GetPost(ctx context.Context, id string) (*domain.PostView, error) {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	authors, err := s.authors.resolve(ctx, []string{post.AuthorID})
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}

	view := domain.NewPostView(post, authors[post.AuthorID])
	return &view, nil
}

// CreatePost stores a post authored by authorID, which must come from a
// verified session.
func (s *ContentService) CreatePost(ctx context.Context, authorID, content string) (*domain.PostView, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, domain.ErrEmptyContent
	}

	author, err := s.users.FindByID(ctx, authorID)
	if err != nil {
		return nil, err
	}

	post := &domain.Post{Content: content, AuthorID: author.ID}
	if err := s.posts.Create(ctx, post); err != nil {
		s.log.Error().Err(err).Str("author_id", author.ID).Msg("failed to create post")
		return nil, fmt.Errorf("create post: %w", err)
	}

	summary := author.Summary()
	s.authors.remember(ctx, summary)
	s.log.Info().Str("post_id", post.ID).Str("author_id", author.ID).Msg("post created")

	view := domain.NewPostView(post, &summary)
	return &view, nil
}

// ListComments returns the comments of a post oldest first. An unknown post
// yields an empty list.
func (s *ContentService) ListComments(ctx context.Context, postID string) ([]domain.CommentView, error) {
	if strings.TrimSpace(postID) == "" {
		return []domain.CommentView{}, nil
	}

	comments, err := s.comments.ListByPost(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	ids := make([]string, len(comments))
	for i, c := range comments {
		ids[i] = c.AuthorID
	}
	authors, err := s.authors.resolve(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	views := make([]domain.CommentView, 0, len(comments))
	for _, c := range comments {
		views = append(views, domain.NewCommentView(c, authors[c.AuthorID]))
	}
	return views, nil
}

// CreateComment stores a comment on postID. The post is not looked up
// first; a comment may reference a post that does not exist.
func (s *ContentService) CreateComment(ctx context.Context, authorID, postID, content string) (*domain.CommentView, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, domain.ErrEmptyContent
	}
	postID = strings.TrimSpace(postID)
	if postID == "" {
		return nil, fmt.Errorf("%w: postId required", domain.ErrValidation)
	}

	author, err := s.users.FindByID(ctx, authorID)
	if err != nil {
		return nil, err
	}

	comment := &domain.Comment{Content: content, AuthorID: author.ID, PostID: postID}
	if err := s.comments.Create(ctx, comment); err != nil {
		if errors.Is(err, domain.ErrValidation) {
			return nil, err
		}
		return nil, fmt.Errorf("create comment: %w", err)
	}

	s.log.Info().
		Str("comment_id", comment.ID).
		Str("post_id", postID).
		Str("author_id", author.ID).
		Msg("comment created")

	summary := author.Summary()
	view := domain.NewCommentView(comment, &summary)
	return &view, nil
}
