package cache

import (
	"context"
	"time"
)

// FeedCache stores rendered feed documents between requests.
type FeedCache interface {
	GetFeed(ctx context.Context, key string) (*CachedFeed, error)
	SetFeed(ctx context.Context, key string, feed CachedFeed) error
	FeedKey(siteURL, feedPath string, syncedAt time.Time) string
	Close() error
}

type CachedFeed struct {
	Content  string `json:"content"`
	Items    int    `json:"items"`
	CachedAt int64  `json:"cached_at"`
}
