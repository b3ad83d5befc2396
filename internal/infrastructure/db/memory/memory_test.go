package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/minilinkedin/social-network/internal/core/domain"
	"github.com/minilinkedin/social-network/internal/core/ports"
)

func TestUsers_EmailUnique(t *testing.T) {
	users := NewStore().Users()
	ctx := context.Background()

	if _, err := users.Create(ctx, &domain.User{DisplayName: "Alice", Email: "a@x.io"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := users.Create(ctx, &domain.User{DisplayName: "Other", Email: "a@x.io"}); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestUsers_LookupsAndSort(t *testing.T) {
	users := NewStore().Users()
	ctx := context.Background()

	var ids []string
	for _, name := range []string{"Carol", "Alice", "Bob"} {
		u, err := users.Create(ctx, &domain.User{DisplayName: name, Email: name + "@x.io"})
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		ids = append(ids, u.ID)
	}

	list, err := users.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if list[0].DisplayName != "Alice" || list[1].DisplayName != "Bob" || list[2].DisplayName != "Carol" {
		t.Fatalf("unexpected order: %s %s %s", list[0].DisplayName, list[1].DisplayName, list[2].DisplayName)
	}

	found, err := users.FindByIDs(ctx, []string{ids[0], "000000000000000000000000", "bad"})
	if err != nil {
		t.Fatalf("find by ids: %v", err)
	}
	if len(found) != 1 || found[0].DisplayName != "Carol" {
		t.Fatalf("unexpected result: %+v", found)
	}

	if _, err := users.FindByID(ctx, "bad"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if _, err := users.FindByEmail(ctx, "nobody@x.io"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUsers_UpdateDoesNotAliasStoredValue(t *testing.T) {
	users := NewStore().Users()
	ctx := context.Background()

	u, err := users.Create(ctx, &domain.User{DisplayName: "Alice", Email: "a@x.io"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	u.DisplayName = "mutated"

	bio := "hi"
	at := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	updated, err := users.Update(ctx, u.ID, ports.ProfileUpdate{Bio: &bio}, at)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.DisplayName != "Alice" || updated.Bio != "hi" || !updated.UpdatedAt.Equal(at) {
		t.Fatalf("unexpected user: %+v", updated)
	}
}

func TestPosts_NewestFirstWithTies(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	posts := NewStore().WithClock(func() time.Time { return fixed }).Posts()
	ctx := context.Background()

	for _, content := range []string{"a", "b", "c"} {
		if err := posts.Create(ctx, &domain.Post{Content: content, AuthorID: "u"}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	list, err := posts.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if list[0].Content != "c" || list[1].Content != "b" || list[2].Content != "a" {
		t.Fatalf("unexpected order: %s %s %s", list[0].Content, list[1].Content, list[2].Content)
	}
}

func TestComments_ByPostOldestFirst(t *testing.T) {
	store := NewStore()
	comments := store.Comments()
	ctx := context.Background()
	postID := "65f000000000000000000001"

	for _, content := range []string{"first", "second"} {
		if err := comments.Create(ctx, &domain.Comment{Content: content, AuthorID: "u", PostID: postID}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	if err := comments.Create(ctx, &domain.Comment{Content: "elsewhere", AuthorID: "u", PostID: "65f000000000000000000002"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	list, err := comments.ListByPost(ctx, postID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].Content != "first" || list[1].Content != "second" {
		t.Fatalf("unexpected comments: %+v", list)
	}

	if err := comments.Create(ctx, &domain.Comment{Content: "x", PostID: "nope"}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
