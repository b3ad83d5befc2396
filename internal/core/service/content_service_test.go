package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/minilinkedin/social-network/internal/core/domain"
	"github.com/minilinkedin/social-network/internal/core/ports"
	"github.com/minilinkedin/social-network/internal/infrastructure/db/memory"
)

type contentFixture struct {
	store   *memory.Store
	users   *UserService
	content *ContentService
	cache   *recordingCache
	clock   time.Time
}

func newContentFixture(t *testing.T) *contentFixture {
	t.Helper()

	f := &contentFixture{clock: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	f.store = memory.NewStore().WithClock(func() time.Time {
		f.clock = f.clock.Add(time.Second)
		return f.clock
	})
	f.cache = newRecordingCache()
	f.users = NewUserService(f.store.Users(), f.cache, zerolog.Nop())
	f.content = NewContentService(f.store.Posts(), f.store.Comments(), f.store.Users(), f.cache, zerolog.Nop())
	return f
}

func (f *contentFixture) register(t *testing.T, name, email string) *domain.User {
	t.Helper()
	u, err := f.users.Register(context.Background(), registerInput(name, email))
	if err != nil {
		t.Fatalf("register %s: %v", name, err)
	}
	return u
}

func registerInput(name, email string) ports.RegisterInput {
	return ports.RegisterInput{DisplayName: name, Headline: "Engineer", Email: email, Password: "pw"}
}

func TestContentService_CreatePost_AuthorJoined(t *testing.T) {
	f := newContentFixture(t)
	alice := f.register(t, "Alice", "a@x.io")

	post, err := f.content.CreatePost(context.Background(), alice.ID, "  Hello  ")
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	if post.Content != "Hello" {
		t.Fatalf("expected trimmed content, got %q", post.Content)
	}
	if post.Author.ID != alice.ID || post.Author.DisplayName != "Alice" || post.Author.Headline != "Engineer" {
		t.Fatalf("unexpected author: %+v", post.Author)
	}
}

func TestContentService_CreatePost_Errors(t *testing.T) {
	f := newContentFixture(t)
	alice := f.register(t, "Alice", "a@x.io")

	if _, err := f.content.CreatePost(context.Background(), alice.ID, "   "); !errors.Is(err, domain.ErrEmptyContent) {
		t.Fatalf("expected ErrEmptyContent, got %v", err)
	}
	if _, err := f.content.CreatePost(context.Background(), "000000000000000000000000", "Hi"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	posts, err := f.content.ListPosts(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(posts) != 0 {
		t.Fatalf("failed creates must not store posts, got %d", len(posts))
	}
}

func TestContentService_ListPosts_NewestFirst(t *testing.T) {
	f := newContentFixture(t)
	alice := f.register(t, "Alice", "a@x.io")
	bob := f.register(t, "Bob", "b@x.io")

	for _, tc := range []struct{ author, content string }{
		{alice.ID, "one"}, {bob.ID, "two"}, {alice.ID, "three"},
	} {
		if _, err := f.content.CreatePost(context.Background(), tc.author, tc.content); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	posts, err := f.content.ListPosts(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(posts) != 3 {
		t.Fatalf("expected 3 posts, got %d", len(posts))
	}
	want := []struct{ content, author string }{{"three", "Alice"}, {"two", "Bob"}, {"one", "Alice"}}
	for i, w := range want {
		if posts[i].Content != w.content || posts[i].Author.DisplayName != w.author {
			t.Fatalf("post %d: expected %+v, got %+v", i, w, posts[i])
		}
	}
}

func TestContentService_GetPost(t *testing.T) {
	f := newContentFixture(t)
	alice := f.register(t, "Alice", "a@x.io")

	created, err := f.content.CreatePost(context.Background(), alice.ID, "Hello")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := f.content.GetPost(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != created.ID || got.Author.DisplayName != "Alice" {
		t.Fatalf("unexpected post: %+v", got)
	}

	for _, id := range []string{"000000000000000000000000", "garbage"} {
		if _, err := f.content.GetPost(context.Background(), id); !errors.Is(err, domain.ErrPostNotFound) {
			t.Fatalf("%s: expected ErrPostNotFound, got %v", id, err)
		}
	}
}

func TestContentService_Comments(t *testing.T) {
	f := newContentFixture(t)
	alice := f.register(t, "Alice", "a@x.io")
	bob := f.register(t, "Bob", "b@x.io")

	post, err := f.content.CreatePost(context.Background(), alice.ID, "Hello")
	if err != nil {
		t.Fatalf("create post: %v", err)
	}

	if _, err := f.content.CreateComment(context.Background(), bob.ID, post.ID, "first"); err != nil {
		t.Fatalf("comment: %v", err)
	}
	c2, err := f.content.CreateComment(context.Background(), alice.ID, post.ID, "second")
	if err != nil {
		t.Fatalf("comment: %v", err)
	}
	if c2.PostID != post.ID || c2.Author.ID != alice.ID || c2.Author.Headline != "" {
		t.Fatalf("unexpected comment view: %+v", c2)
	}

	comments, err := f.content.ListComments(context.Background(), post.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(comments) != 2 || comments[0].Content != "first" || comments[1].Content != "second" {
		t.Fatalf("expected oldest first, got %+v", comments)
	}
	if comments[0].Author.DisplayName != "Bob" {
		t.Fatalf("expected Bob as first author, got %+v", comments[0].Author)
	}
}

func TestContentService_ListComments_Empty(t *testing.T) {
	f := newContentFixture(t)

	for _, postID := range []string{"", "000000000000000000000000", "garbage"} {
		comments, err := f.content.ListComments(context.Background(), postID)
		if err != nil {
			t.Fatalf("%q: %v", postID, err)
		}
		if comments == nil || len(comments) != 0 {
			t.Fatalf("%q: expected empty non-nil slice, got %#v", postID, comments)
		}
	}
}

func TestContentService_CreateComment_Errors(t *testing.T) {
	f := newContentFixture(t)
	bob := f.register(t, "Bob", "b@x.io")

	if _, err := f.content.CreateComment(context.Background(), bob.ID, "000000000000000000000000", " "); !errors.Is(err, domain.ErrEmptyContent) {
		t.Fatalf("expected ErrEmptyContent, got %v", err)
	}
	if _, err := f.content.CreateComment(context.Background(), bob.ID, "", "hi"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for empty post id, got %v", err)
	}
	if _, err := f.content.CreateComment(context.Background(), bob.ID, "not-an-id", "hi"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for malformed post id, got %v", err)
	}
}

func TestContentService_AuthorsServedFromCache(t *testing.T) {
	f := newContentFixture(t)
	alice := f.register(t, "Alice", "a@x.io")
	if _, err := f.content.CreatePost(context.Background(), alice.ID, "Hello"); err != nil {
		t.Fatalf("create: %v", err)
	}

	// A stale cached summary wins over the store until evicted.
	f.cache.entries[alice.ID] = domain.AuthorSummary{ID: alice.ID, DisplayName: "Cached Alice"}
	posts, err := f.content.ListPosts(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if posts[0].Author.DisplayName != "Cached Alice" {
		t.Fatalf("expected cached author, got %+v", posts[0].Author)
	}

	if _, err := f.users.UpdateProfile(context.Background(), alice.ID, ports.ProfileUpdate{DisplayName: ptr("Alice B")}); err != nil {
		t.Fatalf("update: %v", err)
	}
	posts, err = f.content.ListPosts(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if posts[0].Author.DisplayName != "Alice B" {
		t.Fatalf("expected refreshed author after update, got %+v", posts[0].Author)
	}
}
