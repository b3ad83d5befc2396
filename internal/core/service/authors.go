package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/minilinkedin/social-network/internal/core/domain"
	"github.com/minilinkedin/social-network/internal/core/ports"
)

// NopProfileCache is used when no cache backend is configured.
type NopProfileCache struct{}

func (NopProfileCache) Get(context.Context, string) (*domain.AuthorSummary, error) { return nil, nil }
func (NopProfileCache) Set(context.Context, domain.AuthorSummary) error          { return nil }
func (NopProfileCache) Delete(context.Context, string) error                      { return nil }

// authorResolver loads author summaries for read-time joins, cache first.
type authorResolver struct {
	users ports.UserRepository
	cache ports.ProfileCache
	log   zerolog.Logger
}

// resolve returns the summaries of the given author ids keyed by id. Ids
// that match no user are absent from the result.
func (r *authorResolver) resolve(ctx context.Context, ids []string) (map[string]*domain.AuthorSummary, error) {
	out := make(map[string]*domain.AuthorSummary, len(ids))
	var misses []string

	for _, id := range ids {
		if _, seen := out[id]; seen {
			continue
		}
		out[id] = nil

		cached, err := r.cache.Get(ctx, id)
		if err != nil {
			r.log.Debug().Err(err).Str("user_id", id).Msg("profile cache read failed")
		}
		if cached != nil {
			out[id] = cached
			continue
		}
		misses = append(misses, id)
	}

	if len(misses) > 0 {
		users, err := r.users.FindByIDs(ctx, misses)
		if err != nil {
			return nil, fmt.Errorf("load authors: %w", err)
		}
		for _, u := range users {
			summary := u.Summary()
			out[u.ID] = &summary
			r.remember(ctx, summary)
		}
	}

	for id, s := range out {
		if s == nil {
			delete(out, id)
		}
	}
	return out, nil
}

func (r *authorResolver) remember(ctx context.Context, s domain.AuthorSummary) {
	if err := r.cache.Set(ctx, s); err != nil {
		r.log.Debug().Err(err).Str("user_id", s.ID).Msg("profile cache write failed")
	}
}
