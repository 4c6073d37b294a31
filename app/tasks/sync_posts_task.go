package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// SyncPostsTask reloads the content directory and replaces the post index with it.
// Tasks sharing syncMu never interleave a load with another task's replace, so the
// index always ends on the latest disk state.
type SyncPostsTask struct {
	Task
	loader ContentLoader
	store  PostStore
	syncMu *sync.Mutex
}

func NewSyncPostsTask(loader ContentLoader, store PostStore, syncMu *sync.Mutex) *SyncPostsTask {
	return &SyncPostsTask{
		Task:   NewTask(TaskTypeSyncPosts, loader.Name()),
		loader: loader,
		store:  store,
		syncMu: syncMu,
	}
}

func (t *SyncPostsTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	t.syncMu.Lock()
	defer t.syncMu.Unlock()

	posts, err := t.loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load collection: %w", err)
	}

	if err := t.store.ReplaceAll(ctx, posts); err != nil {
		return fmt.Errorf("failed to replace post index: %w", err)
	}

	drafts := 0
	for _, post := range posts {
		if post.Draft {
			drafts++
		}
	}

	slog.Info("Task completed",
		"type", t.GetType(),
		"collection", t.Collection,
		"duration", t.GetDuration(),
		"total", len(posts),
		"drafts", drafts)

	return nil
}
