package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minilinkedin/social-network/internal/api"
	apiclient "github.com/minilinkedin/social-network/internal/client/api"
	"github.com/minilinkedin/social-network/internal/client/store"
	"github.com/minilinkedin/social-network/internal/core/service"
	"github.com/minilinkedin/social-network/internal/infrastructure/db/memory"
)

const testSecret = "session-test-secret"

// recorder remembers which paths were called and with which token.
type recorder struct {
	mu       sync.Mutex
	requests []string
	tokens   map[string]string
}

func (r *recorder) wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		r.mu.Lock()
		key := req.Method + " " + req.URL.Path
		r.requests = append(r.requests, key)
		r.tokens[key] = req.Header.Get("X-Auth-Token")
		r.mu.Unlock()
		next.ServeHTTP(w, req)
	})
}

func (r *recorder) count(prefix string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, k := range r.requests {
		if strings.HasPrefix(k, prefix) {
			n++
		}
	}
	return n
}

func (r *recorder) tokenFor(key string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tokens[key]
}

type changes struct {
	mu  sync.Mutex
	all []Session
}

func (c *changes) OnSessionChange(s Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.all = append(c.all, s)
}

func (c *changes) last() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.all) == 0 {
		return Session{}
	}
	return c.all[len(c.all)-1]
}

type fixture struct {
	server *httptest.Server
	rec    *recorder
	store  *store.SQLiteStore
	client *apiclient.Client
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	mem := memory.NewStore()
	log := zerolog.Nop()
	users := service.NewUserService(mem.Users(), nil, log)
	e := api.NewRouter(api.Dependencies{
		Auth:    service.NewAuthService(users, service.NewTokenIssuer(testSecret, 0)),
		Users:   users,
		Content: service.NewContentService(mem.Posts(), mem.Comments(), mem.Users(), nil, log),
		Log:     log,
	})

	rec := &recorder{tokens: map[string]string{}}
	srv := httptest.NewServer(rec.wrap(e))
	t.Cleanup(srv.Close)

	st, err := store.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	return &fixture{
		server: srv,
		rec:    rec,
		store:  st,
		client: apiclient.New(srv.URL+"/api", srv.Client()),
	}
}

func (f *fixture) controller(obs Observer) *Controller {
	if obs == nil {
		return NewController(f.client, f.store)
	}
	return NewController(f.client, f.store, WithObserver(obs))
}

func alice() apiclient.RegisterRequest {
	return apiclient.RegisterRequest{DisplayName: "Alice", Headline: "Engineer", Email: "a@x.io", Password: "pw1"}
}

func TestStart_NoStoredTokenIsGuest(t *testing.T) {
	f := newFixture(t)
	obs := &changes{}
	c := f.controller(obs)

	s, err := c.Start(context.Background())
	require.NoError(t, err)
	assert.False(t, s.Authenticated())
	assert.False(t, obs.last().Authenticated())
	assert.Zero(t, f.rec.count("GET /api/auth/me"), "no token, no validation call")
}

func TestRegister_PersistsAndAuthenticates(t *testing.T) {
	f := newFixture(t)
	obs := &changes{}
	c := f.controller(obs)
	ctx := context.Background()

	_, err := c.Start(ctx)
	require.NoError(t, err)

	s, err := c.Register(ctx, alice())
	require.NoError(t, err)
	require.True(t, s.Authenticated())
	assert.Equal(t, "Alice", s.User.DisplayName)

	stored, err := f.store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, s.Token, stored)
	assert.Equal(t, s.Token, obs.last().Token)
}

func TestStart_RestoresValidSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.controller(nil).Register(ctx, alice())
	require.NoError(t, err)

	restarted := f.controller(nil)
	s, err := restarted.Start(ctx)
	require.NoError(t, err)
	require.True(t, s.Authenticated())
	assert.Equal(t, first.User.ID, s.User.ID)
	assert.Equal(t, first.Token, s.Token)
	assert.Equal(t, 1, f.rec.count("GET /api/auth/me"))
}

func TestStart_RejectedTokenFallsBackToGuest(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	registered, err := f.controller(nil).Register(ctx, alice())
	require.NoError(t, err)

	expired, err := service.NewTokenIssuer(testSecret, 0).
		WithClock(func() time.Time { return time.Now().Add(-48 * time.Hour) }).
		Issue(registered.User.ID)
	require.NoError(t, err)

	for name, token := range map[string]string{"garbage": "not-a-token", "expired": expired} {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, f.store.Save(ctx, token))

			obs := &changes{}
			s, err := f.controller(obs).Start(ctx)
			require.NoError(t, err)
			assert.False(t, s.Authenticated())
			assert.False(t, obs.last().Authenticated())

			stored, err := f.store.Load(ctx)
			require.NoError(t, err)
			assert.Empty(t, stored, "rejected token must be removed")
		})
	}
}

func TestLogin_FailureKeepsSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.controller(nil)

	_, err := c.Register(ctx, alice())
	require.NoError(t, err)
	before := c.Current()

	_, err = c.Login(ctx, "a@x.io", "wrong")
	require.Error(t, err)

	var apiErr *apiclient.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "invalid email or password", apiErr.Message)

	assert.Equal(t, before.Token, c.Current().Token)
	stored, err := f.store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, before.Token, stored)
}

func TestLogin_Success(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.controller(nil).Register(ctx, alice())
	require.NoError(t, err)

	c := f.controller(nil)
	require.NoError(t, c.Logout(ctx))

	s, err := c.Login(ctx, "a@x.io", "pw1")
	require.NoError(t, err)
	assert.True(t, s.Authenticated())
	assert.Equal(t, "a@x.io", s.User.Email)
}

func TestProtectedCalls_GuestFailsFast(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.controller(nil)

	_, err := c.CreatePost(ctx, "Hello")
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	_, err = c.CreateComment(ctx, "000000000000000000000000", "Hi")
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	bio := "x"
	_, err = c.UpdateProfile(ctx, apiclient.ProfileUpdate{Bio: &bio})
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	assert.Zero(t, f.rec.count("POST"), "guest calls must not reach the server")
	assert.Zero(t, f.rec.count("PUT"), "guest calls must not reach the server")
}

func TestProtectedAndPublicCalls(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.controller(nil)

	s, err := c.Register(ctx, alice())
	require.NoError(t, err)

	post, err := c.CreatePost(ctx, "Hello")
	require.NoError(t, err)
	assert.Equal(t, s.User.ID, post.Author.ID)
	assert.Equal(t, s.Token, f.rec.tokenFor("POST /api/posts"))

	_, err = c.CreateComment(ctx, post.ID, "First!")
	require.NoError(t, err)

	feed, err := c.Feed(ctx)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Empty(t, f.rec.tokenFor("GET /api/posts"), "public reads omit the token")

	comments, err := c.Comments(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "Alice", comments[0].Author.DisplayName)

	got, err := c.Post(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hello", got.Content)

	users, err := c.Users(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)

	_, err = c.User(ctx, "000000000000000000000000")
	var apiErr *apiclient.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
}

func TestUpdateProfile_RefreshesSessionUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	obs := &changes{}
	c := f.controller(obs)

	_, err := c.Register(ctx, alice())
	require.NoError(t, err)

	headline := "Staff Engineer"
	user, err := c.UpdateProfile(ctx, apiclient.ProfileUpdate{Headline: &headline})
	require.NoError(t, err)
	assert.Equal(t, headline, user.Headline)
	assert.Equal(t, headline, c.Current().User.Headline)
	assert.Equal(t, headline, obs.last().User.Headline)
}

func TestLogout_ClearsEverything(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	obs := &changes{}
	c := f.controller(obs)

	_, err := c.Register(ctx, alice())
	require.NoError(t, err)
	require.NoError(t, c.Logout(ctx))

	assert.False(t, c.Current().Authenticated())
	assert.False(t, obs.last().Authenticated())

	stored, err := f.store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, stored)

	s, err := f.controller(nil).Start(ctx)
	require.NoError(t, err)
	assert.False(t, s.Authenticated())
}

func TestCurrent_ReturnsCopy(t *testing.T) {
	f := newFixture(t)
	c := f.controller(nil)

	_, err := c.Register(context.Background(), alice())
	require.NoError(t, err)

	snap := c.Current()
	snap.User.DisplayName = "mutated"
	assert.Equal(t, "Alice", c.Current().User.DisplayName)
}
