package tasks

import (
	"context"

	"github.com/are-dev/blog/app/content"
)

// TaskSchedulerInterface defines the interface for task scheduling operations.
// Used by the main application and the API handlers to run background syncs.
// Example usage:
//
//	scheduler := NewScheduler(loader, postRepo, time.Minute, 2)
//	if err := scheduler.SyncNow(ctx); err != nil { ... }
//	scheduler.Start()
//	defer scheduler.Stop()
//	scheduler.EnqueueTask(scheduler.NewSyncTask())
type TaskSchedulerInterface interface {
	Start()
	Stop()
	SyncNow(ctx context.Context) error
	NewSyncTask() TaskInterface
	EnqueueTask(task TaskInterface) error
}

// ContentLoader reads a collection from its source of truth.
type ContentLoader interface {
	Name() string
	Load(ctx context.Context) ([]content.Post, error)
}

// PostStore receives the loaded collection.
type PostStore interface {
	ReplaceAll(ctx context.Context, posts []content.Post) error
}
