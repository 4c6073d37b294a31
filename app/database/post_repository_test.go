package database

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/are-dev/blog/app/content"
)

func setupTestRepo(t *testing.T) *PostRepo {
	t.Helper()

	db, err := NewConnection(filepath.Join(t.TempDir(), "data", "blog.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	version, dirty, err := RunMigrations(db)
	if err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}
	if version != 1 || dirty {
		t.Fatalf("Expected clean migration version 1, got %d (dirty=%v)", version, dirty)
	}

	return NewPostRepo(db)
}

func testPosts() []content.Post {
	return []content.Post{
		{
			Slug:          "hello-world",
			Title:         "Hello World",
			Description:   "First post",
			Tags:          []string{"go", "rss"},
			PublishedDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			CoverImage:    "/images/cover.png",
			Gallery:       []string{"/images/a.png", "/images/b.png"},
			Author:        "Are",
			AuthorImage:   "/images/are.png",
			AuthorURL:     "https://are-dev.es/about/",
			URL:           "https://example.com/original",
			Language:      "en-US",
		},
		{
			Slug:          "draft-post",
			Title:         "Work in progress",
			Description:   "Not ready",
			Tags:          []string{},
			PublishedDate: time.Date(2024, 4, 1, 12, 30, 0, 0, time.UTC),
			Author:        "Are",
			Draft:         true,
		},
		{
			Slug:          "another",
			Title:         "Another",
			Description:   "Second post",
			Tags:          []string{"go"},
			PublishedDate: time.Date(2024, 2, 1, 8, 0, 0, 0, time.UTC),
			Author:        "Are",
			Language:      "es",
		},
	}
}

func TestNewConnectionRequiresPath(t *testing.T) {
	_, err := NewConnection("")
	if err == nil {
		t.Error("Expected error for empty database path")
	}
}

func TestRunMigrationsIsIdempotent(t *testing.T) {
	repo := setupTestRepo(t)

	version, dirty, err := RunMigrations(repo.db)
	if err != nil {
		t.Fatalf("Expected second migration run to succeed, got %v", err)
	}
	if version != 1 || dirty {
		t.Errorf("Expected clean migration version 1, got %d (dirty=%v)", version, dirty)
	}
}

func TestRunMigrationsCreatesSchema(t *testing.T) {
	repo := setupTestRepo(t)

	for _, table := range []string{"posts", "sync_state", "schema_migrations"} {
		var name string
		err := repo.db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		if err != nil {
			t.Errorf("Expected table %s to exist: %v", table, err)
		}
	}
}

func TestReplaceAllAndGetCollection(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()
	posts := testPosts()

	if err := repo.ReplaceAll(ctx, posts); err != nil {
		t.Fatalf("Failed to replace posts: %v", err)
	}

	got, err := repo.GetCollection(ctx, content.PostsCollection)
	if err != nil {
		t.Fatalf("Failed to get collection: %v", err)
	}

	if len(got) != len(posts) {
		t.Fatalf("Expected %d posts, got %d", len(posts), len(got))
	}

	for i := range posts {
		want := posts[i]
		if !got[i].PublishedDate.Equal(want.PublishedDate) {
			t.Errorf("Post %d: expected published date %v, got %v", i, want.PublishedDate, got[i].PublishedDate)
		}
		got[i].PublishedDate = want.PublishedDate
		if !reflect.DeepEqual(got[i], want) {
			t.Errorf("Post %d: expected %+v, got %+v", i, want, got[i])
		}
	}
}

func TestReplaceAllRemovesStalePosts(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	if err := repo.ReplaceAll(ctx, testPosts()); err != nil {
		t.Fatalf("Failed to replace posts: %v", err)
	}
	if err := repo.ReplaceAll(ctx, testPosts()[2:]); err != nil {
		t.Fatalf("Failed to replace posts: %v", err)
	}

	got, err := repo.GetCollection(ctx, content.PostsCollection)
	if err != nil {
		t.Fatalf("Failed to get collection: %v", err)
	}
	if len(got) != 1 || got[0].Slug != "another" {
		t.Errorf("Expected only 'another' to remain, got %+v", got)
	}
}

func TestReplaceAllRollsBackOnDuplicateSlug(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	if err := repo.ReplaceAll(ctx, testPosts()); err != nil {
		t.Fatalf("Failed to replace posts: %v", err)
	}

	posts := testPosts()
	posts[1].Slug = posts[0].Slug
	if err := repo.ReplaceAll(ctx, posts); err == nil {
		t.Fatal("Expected error for duplicate slug")
	}

	count, err := repo.GetPostCount(ctx)
	if err != nil {
		t.Fatalf("Failed to count posts: %v", err)
	}
	if count != 3 {
		t.Errorf("Expected previous 3 posts to survive the failed replace, got %d", count)
	}
}

func TestGetCollectionUnknownName(t *testing.T) {
	repo := setupTestRepo(t)

	_, err := repo.GetCollection(context.Background(), "authors")
	if !errors.Is(err, content.ErrCollectionNotFound) {
		t.Errorf("Expected ErrCollectionNotFound, got %v", err)
	}
}

func TestGetCollectionEmpty(t *testing.T) {
	repo := setupTestRepo(t)

	got, err := repo.GetCollection(context.Background(), content.PostsCollection)
	if err != nil {
		t.Fatalf("Failed to get collection: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("Expected empty non-nil collection, got %#v", got)
	}
}

func TestGetStats(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	stats, err := repo.GetStats(ctx)
	if err != nil {
		t.Fatalf("Failed to get stats: %v", err)
	}
	if stats != (Stats{}) {
		t.Errorf("Expected zero stats on empty index, got %+v", stats)
	}

	if err := repo.ReplaceAll(ctx, testPosts()); err != nil {
		t.Fatalf("Failed to replace posts: %v", err)
	}

	stats, err = repo.GetStats(ctx)
	if err != nil {
		t.Fatalf("Failed to get stats: %v", err)
	}
	expected := Stats{Total: 3, Published: 2, Drafts: 1}
	if stats != expected {
		t.Errorf("Expected %+v, got %+v", expected, stats)
	}
}

func TestGetLastSyncedAt(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	syncedAt, err := repo.GetLastSyncedAt(ctx)
	if err != nil {
		t.Fatalf("Failed to get last sync time: %v", err)
	}
	if syncedAt != nil {
		t.Errorf("Expected nil before first sync, got %v", syncedAt)
	}

	fixed := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	repo.now = func() time.Time { return fixed }

	if err := repo.ReplaceAll(ctx, testPosts()); err != nil {
		t.Fatalf("Failed to replace posts: %v", err)
	}

	syncedAt, err = repo.GetLastSyncedAt(ctx)
	if err != nil {
		t.Fatalf("Failed to get last sync time: %v", err)
	}
	if syncedAt == nil || !syncedAt.Equal(fixed) {
		t.Errorf("Expected last sync %v, got %v", fixed, syncedAt)
	}
}
