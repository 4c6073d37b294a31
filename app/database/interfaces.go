package database

import (
	"context"
	"time"

	"github.com/are-dev/blog/app/content"
)

// PostRepository is the post index. It satisfies content.Collection so the feed
// handler can read from it the same way it reads from the content loader.
type PostRepository interface {
	content.Collection

	ReplaceAll(ctx context.Context, posts []content.Post) error

	GetPostCount(ctx context.Context) (int, error)
	GetStats(ctx context.Context) (Stats, error)
	GetLastSyncedAt(ctx context.Context) (*time.Time, error)
}
