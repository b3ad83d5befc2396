// Package memory holds process-local repositories with the same semantics
// as the Mongo ones. They back STORE_DRIVER=memory and the HTTP tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/minilinkedin/social-network/internal/core/domain"
	"github.com/minilinkedin/social-network/internal/core/ports"
)

// Store keeps users, posts and comments behind a single lock.
type Store struct {
	mu       sync.RWMutex
	users    map[string]*domain.User
	emails   map[string]string
	posts    []*domain.Post
	comments []*domain.Comment
	now      func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:  make(map[string]*domain.User),
		emails: make(map[string]string),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the timestamp source for created documents.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

func (s *Store) Users() ports.UserRepository       { return userRepo{s} }
func (s *Store) Posts() ports.PostRepository       { return postRepo{s} }
func (s *Store) Comments() ports.CommentRepository { return commentRepo{s} }

var errInvalidPostID = fmt.Errorf("%w: invalid postId", domain.ErrValidation)

func validID(id string) bool {
	_, err := primitive.ObjectIDFromHex(id)
	return err == nil
}

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	email := strings.ToLower(user.Email)
	if _, taken := r.s.emails[email]; taken {
		return nil, domain.ErrEmailTaken
	}

	u := *user
	u.ID = primitive.NewObjectID().Hex()
	u.Email = email
	r.s.users[u.ID] = &u
	r.s.emails[email] = u.ID

	out := u
	return &out, nil
}

func (r userRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id, ok := r.s.emails[strings.ToLower(email)]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u := *r.s.users[id]
	return &u, nil
}

func (r userRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	out := *u
	return &out, nil
}

func (r userRepo) FindByIDs(_ context.Context, ids []string) ([]*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := r.s.users[id]; ok {
			c := *u
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r userRepo) List(_ context.Context) ([]*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		c := *u
		out = append(out, &c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DisplayName == out[j].DisplayName {
			return out[i].ID < out[j].ID
		}
		return out[i].DisplayName < out[j].DisplayName
	})
	return out, nil
}

func (r userRepo) Update(_ context.Context, id string, update ports.ProfileUpdate, updatedAt time.Time) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if update.DisplayName != nil {
		u.DisplayName = *update.DisplayName
	}
	if update.Headline != nil {
		u.Headline = *update.Headline
	}
	if update.Bio != nil {
		u.Bio = *update.Bio
	}
	u.UpdatedAt = updatedAt

	out := *u
	return &out, nil
}

type postRepo struct{ s *Store }

func (r postRepo) Create(_ context.Context, p *domain.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	p.ID = primitive.NewObjectID().Hex()
	p.CreatedAt, p.UpdatedAt = now, now

	c := *p
	r.s.posts = append(r.s.posts, &c)
	return nil
}

func (r postRepo) FindByID(_ context.Context, id string) (*domain.Post, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, p := range r.s.posts {
		if p.ID == id {
			c := *p
			return &c, nil
		}
	}
	return nil, domain.ErrPostNotFound
}

// List walks insertion order backwards so posts sharing a timestamp still
// come out newest first.
func (r postRepo) List(_ context.Context) ([]*domain.Post, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.Post, 0, len(r.s.posts))
	for i := len(r.s.posts) - 1; i >= 0; i-- {
		c := *r.s.posts[i]
		out = append(out, &c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type commentRepo struct{ s *Store }

func (r commentRepo) Create(_ context.Context, c *domain.Comment) error {
	if !validID(c.PostID) {
		return errInvalidPostID
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	c.ID = primitive.NewObjectID().Hex()
	c.CreatedAt, c.UpdatedAt = now, now

	cp := *c
	r.s.comments = append(r.s.comments, &cp)
	return nil
}

func (r commentRepo) ListByPost(_ context.Context, postID string) ([]*domain.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []*domain.Comment{}
	for _, c := range r.s.comments {
		if c.PostID == postID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}
