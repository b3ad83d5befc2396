package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/minilinkedin/social-network/internal/core/domain"
)

const defaultProfileTTL = 10 * time.Minute

// ProfileCache keeps author summaries for post and comment joins.
// Key format: profile:<user_id>
type ProfileCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewProfileCache wraps client. A non-positive ttl falls back to defaultProfileTTL.
func NewProfileCache(client *redis.Client, ttl time.Duration) *ProfileCache {
	if ttl <= 0 {
		ttl = defaultProfileTTL
	}
	return &ProfileCache{client: client, ttl: ttl}
}

// setAttempts bounds the optimistic retries of Set when another writer
// touches the same key between the read and the write.
const setAttempts = 3

// cachedProfile is the stored form; AuthorSummary does not serialise its version.
type cachedProfile struct {
	Summary   domain.AuthorSummary `json:"summary"`
	UpdatedAt time.Time            `json:"updatedAt"`
}

// Get returns the cached summary or nil on a miss.
func (c *ProfileCache) Get(ctx context.Context, id string) (*domain.AuthorSummary, error) {
	return load(ctx, c.client, c.key(id))
}

// Set stores s unless the cached entry is newer. The check and the write run
// in one WATCH transaction.
func (c *ProfileCache) Set(ctx context.Context, s domain.AuthorSummary) error {
	raw, err := json.Marshal(cachedProfile{Summary: s, UpdatedAt: s.UpdatedAt})
	if err != nil {
		return fmt.Errorf("profile cache encode: %w", err)
	}

	key := c.key(s.ID)
	write := func(tx *redis.Tx) error {
		cur, err := load(ctx, tx, key)
		if err != nil {
			return err
		}
		if cur != nil && cur.UpdatedAt.After(s.UpdatedAt) {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, raw, c.ttl)
			return nil
		})
		return err
	}

	for i := 0; i < setAttempts; i++ {
		err = c.client.Watch(ctx, write, key)
		if !errors.Is(err, redis.TxFailedErr) {
			break
		}
	}
	if err != nil {
		return fmt.Errorf("profile cache set: %w", err)
	}
	return nil
}

func (c *ProfileCache) Delete(ctx context.Context, id string) error {
	return c.client.Del(ctx, c.key(id)).Err()
}

func (c *ProfileCache) key(id string) string {
	return "profile:" + id
}

// getter is satisfied by both *redis.Client and *redis.Tx.
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func load(ctx context.Context, r getter, key string) (*domain.AuthorSummary, error) {
	raw, err := r.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("profile cache get: %w", err)
	}

	var p cachedProfile
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("profile cache decode: %w", err)
	}
	s := p.Summary
	s.UpdatedAt = p.UpdatedAt
	return &s, nil
}
