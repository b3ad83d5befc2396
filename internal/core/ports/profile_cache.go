package ports

import (
	"context"

	"github.com/minilinkedin/social-network/internal/core/domain"
)

// ProfileCache holds the public author fields used by read-time joins.
// A miss is (nil, nil); errors are treated as misses by callers.
//
// Set never replaces an entry whose UpdatedAt is later than the author it is
// given, so a join that loaded a profile before an update cannot overwrite
// the updated copy.
type ProfileCache interface {
	Get(ctx context.Context, id string) (*domain.AuthorSummary, error)
	Set(ctx context.Context, author domain.AuthorSummary) error
	Delete(ctx context.Context, id string) error
}
