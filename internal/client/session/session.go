// Package session holds the client's authentication state and drives every
// API call that needs it.
//
// A Controller is either in guest state (no token) or authenticated (token
// plus the user it was issued for). Login, registration and startup
// validation move it to authenticated; logout and a failed startup
// validation move it back to guest. The token is persisted through a
// TokenStore so it survives restarts.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/minilinkedin/social-network/internal/client/api"
	"github.com/minilinkedin/social-network/internal/core/domain"
)

// ErrNotAuthenticated is returned by protected calls made in guest state.
var ErrNotAuthenticated = errors.New("not authenticated")

// Session is a snapshot of the authentication state.
type Session struct {
	Token string
	User  *domain.User
}

func (s Session) Authenticated() bool {
	return s.Token != "" && s.User != nil
}

// TokenStore persists the session token between runs.
type TokenStore interface {
	// Load returns "" when no token is stored.
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// API is the subset of the HTTP client the controller uses.
type API interface {
	Register(ctx context.Context, req api.RegisterRequest) (*api.AuthResponse, error)
	Login(ctx context.Context, email, password string) (*api.AuthResponse, error)
	Me(ctx context.Context, token string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.PublicUser, error)
	GetUser(ctx context.Context, id string) (*domain.PublicUser, error)
	UpdateProfile(ctx context.Context, token, id string, update api.ProfileUpdate) (*domain.User, error)
	ListPosts(ctx context.Context) ([]domain.PostView, error)
	GetPost(ctx context.Context, id string) (*domain.PostView, error)
	CreatePost(ctx context.Context, token, content string) (*domain.PostView, error)
	ListComments(ctx context.Context, postID string) ([]domain.CommentView, error)
	CreateComment(ctx context.Context, token, postID, content string) (*domain.CommentView, error)
}

// Observer is told about every state change, after it happened.
type Observer interface {
	OnSessionChange(Session)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Session)

func (f ObserverFunc) OnSessionChange(s Session) { f(s) }

type Option func(*Controller)

func WithObserver(o Observer) Option {
	return func(c *Controller) { c.observer = o }
}

func WithLogger(log zerolog.Logger) Option {
	return func(c *Controller) { c.log = log }
}

type Controller struct {
	api      API
	store    TokenStore
	observer Observer
	log      zerolog.Logger

	mu      sync.Mutex
	session Session
}

func NewController(client API, store TokenStore, opts ...Option) *Controller {
	c := &Controller{api: client, store: store, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start restores a stored session. A stored token is only trusted once the
// server accepts it; any failure clears it and leaves the controller in
// guest state. Start itself only fails if the store cannot be read.
func (c *Controller) Start(ctx context.Context) (Session, error) {
	token, err := c.store.Load(ctx)
	if err != nil {
		c.set(Session{})
		return Session{}, fmt.Errorf("load session: %w", err)
	}
	if token == "" {
		c.set(Session{})
		return Session{}, nil
	}

	user, err := c.api.Me(ctx, token)
	if err != nil {
		c.log.Info().Err(err).Msg("stored session rejected, continuing as guest")
		if clearErr := c.store.Clear(ctx); clearErr != nil {
			c.log.Warn().Err(clearErr).Msg("failed to clear stored session")
		}
		c.set(Session{})
		return Session{}, nil
	}

	s := Session{Token: token, User: user}
	c.set(s)
	return s, nil
}

// Login authenticates and persists the new token. On failure the current
// session is left as is.
func (c *Controller) Login(ctx context.Context, email, password string) (Session, error) {
	res, err := c.api.Login(ctx, email, password)
	if err != nil {
		return c.Current(), err
	}
	return c.establish(ctx, res)
}

// Register creates an account and signs it in.
func (c *Controller) Register(ctx context.Context, req api.RegisterRequest) (Session, error) {
	res, err := c.api.Register(ctx, req)
	if err != nil {
		return c.Current(), err
	}
	return c.establish(ctx, res)
}

// Logout forgets the token locally. Tokens are stateless, so the server is
// not involved.
func (c *Controller) Logout(ctx context.Context) error {
	err := c.store.Clear(ctx)
	c.set(Session{})
	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Current returns a snapshot of the session.
func (c *Controller) Current() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

func (c *Controller) CreatePost(ctx context.Context, content string) (*domain.PostView, error) {
	s, err := c.requireSession()
	if err != nil {
		return nil, err
	}
	return c.api.CreatePost(ctx, s.Token, content)
}

func (c *Controller) CreateComment(ctx context.Context, postID, content string) (*domain.CommentView, error) {
	s, err := c.requireSession()
	if err != nil {
		return nil, err
	}
	return c.api.CreateComment(ctx, s.Token, postID, content)
}

// UpdateProfile edits the signed-in user's profile and refreshes the
// session user with the result.
func (c *Controller) UpdateProfile(ctx context.Context, update api.ProfileUpdate) (*domain.User, error) {
	s, err := c.requireSession()
	if err != nil {
		return nil, err
	}

	user, err := c.api.UpdateProfile(ctx, s.Token, s.User.ID, update)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	changed := c.session.Token == s.Token
	if changed {
		c.session.User = user
	}
	snap := c.snapshot()
	c.mu.Unlock()

	if changed {
		c.notify(snap)
	}
	return user, nil
}

// Public reads never carry the token.

func (c *Controller) Feed(ctx context.Context) ([]domain.PostView, error) {
	return c.api.ListPosts(ctx)
}

func (c *Controller) Post(ctx context.Context, id string) (*domain.PostView, error) {
	return c.api.GetPost(ctx, id)
}

func (c *Controller) Comments(ctx context.Context, postID string) ([]domain.CommentView, error) {
	return c.api.ListComments(ctx, postID)
}

func (c *Controller) Users(ctx context.Context) ([]domain.PublicUser, error) {
	return c.api.ListUsers(ctx)
}

func (c *Controller) User(ctx context.Context, id string) (*domain.PublicUser, error) {
	return c.api.GetUser(ctx, id)
}

// establish persists res.Token, then switches the in-memory session.
func (c *Controller) establish(ctx context.Context, res *api.AuthResponse) (Session, error) {
	if res == nil || res.Token == "" || res.User == nil {
		return c.Current(), errors.New("session: incomplete auth response")
	}
	if err := c.store.Save(ctx, res.Token); err != nil {
		return c.Current(), fmt.Errorf("save session: %w", err)
	}

	s := Session{Token: res.Token, User: res.User}
	c.set(s)
	return s, nil
}

func (c *Controller) requireSession() (Session, error) {
	s := c.Current()
	if !s.Authenticated() {
		return Session{}, ErrNotAuthenticated
	}
	return s, nil
}

func (c *Controller) set(s Session) {
	c.mu.Lock()
	c.session = s
	snap := c.snapshot()
	c.mu.Unlock()

	c.notify(snap)
}

// snapshot copies the session; c.mu must be held.
func (c *Controller) snapshot() Session {
	s := c.session
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}

func (c *Controller) notify(s Session) {
	if c.observer != nil {
		c.observer.OnSessionChange(s)
	}
}
