package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/are-dev/blog/app/content"
)

var _ PostRepository = (*PostRepo)(nil)

type PostRepo struct {
	db  *DB
	now func() time.Time
}

func NewPostRepo(db *DB) *PostRepo {
	return &PostRepo{db: db, now: time.Now}
}

// ReplaceAll swaps the whole index for posts in one transaction. Positions keep
// the collection order so readers see the same order the loader produced.
func (r *PostRepo) ReplaceAll(ctx context.Context, posts []content.Post) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM posts`); err != nil {
		return fmt.Errorf("failed to clear posts: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO posts (slug, position, title, description, tags, published_at,
			cover_image, gallery, author, author_image, author_url, url, draft, language)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, post := range posts {
		tags, err := json.Marshal(post.Tags)
		if err != nil {
			return fmt.Errorf("failed to encode tags for %s: %w", post.Slug, err)
		}
		gallery, err := json.Marshal(post.Gallery)
		if err != nil {
			return fmt.Errorf("failed to encode gallery for %s: %w", post.Slug, err)
		}

		_, err = stmt.ExecContext(ctx,
			post.Slug, i, post.Title, post.Description, string(tags),
			post.PublishedDate.UTC().Format(time.RFC3339Nano),
			post.CoverImage, string(gallery), post.Author, post.AuthorImage,
			post.AuthorURL, post.URL, post.Draft, post.Language)
		if err != nil {
			return fmt.Errorf("failed to insert post %s: %w", post.Slug, err)
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sync_state (id, synced_at, post_count) VALUES (1, ?, ?)
		ON CONFLICT (id) DO UPDATE SET synced_at = excluded.synced_at, post_count = excluded.post_count
	`, r.now().UTC().Format(time.RFC3339Nano), len(posts))
	if err != nil {
		return fmt.Errorf("failed to record sync state: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetCollection returns the indexed posts in collection order.
func (r *PostRepo) GetCollection(ctx context.Context, name string) ([]content.Post, error) {
	if name != content.PostsCollection {
		return nil, fmt.Errorf("%w: %s", content.ErrCollectionNotFound, name)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT slug, title, description, tags, published_at, cover_image, gallery,
			author, author_image, author_url, url, draft, language
		FROM posts
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer rows.Close()

	posts := []content.Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate posts: %w", err)
	}

	return posts, nil
}

func (r *PostRepo) GetPostCount(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count posts: %w", err)
	}

	return count, nil
}

func (r *PostRepo) GetStats(ctx context.Context) (Stats, error) {
	var stats Stats
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(CASE WHEN draft = 0 THEN 1 ELSE 0 END), 0)
		FROM posts
	`).Scan(&stats.Total, &stats.Published)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to get post stats: %w", err)
	}

	stats.Drafts = stats.Total - stats.Published
	return stats, nil
}

// GetLastSyncedAt returns nil until the first ReplaceAll.
func (r *PostRepo) GetLastSyncedAt(ctx context.Context) (*time.Time, error) {
	var raw string
	err := r.db.QueryRowContext(ctx, `SELECT synced_at FROM sync_state WHERE id = 1`).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get last sync time: %w", err)
	}

	syncedAt, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse last sync time: %w", err)
	}

	return &syncedAt, nil
}

func scanPost(rows *sql.Rows) (content.Post, error) {
	var post content.Post
	var tags, gallery, publishedAt string

	err := rows.Scan(&post.Slug, &post.Title, &post.Description, &tags, &publishedAt,
		&post.CoverImage, &gallery, &post.Author, &post.AuthorImage, &post.AuthorURL,
		&post.URL, &post.Draft, &post.Language)
	if err != nil {
		return content.Post{}, fmt.Errorf("failed to scan post: %w", err)
	}

	if err := json.Unmarshal([]byte(tags), &post.Tags); err != nil {
		return content.Post{}, fmt.Errorf("failed to decode tags for %s: %w", post.Slug, err)
	}
	if post.Tags == nil {
		post.Tags = []string{}
	}

	if err := json.Unmarshal([]byte(gallery), &post.Gallery); err != nil {
		return content.Post{}, fmt.Errorf("failed to decode gallery for %s: %w", post.Slug, err)
	}

	post.PublishedDate, err = time.Parse(time.RFC3339Nano, publishedAt)
	if err != nil {
		return content.Post{}, fmt.Errorf("failed to parse published date for %s: %w", post.Slug, err)
	}

	return post, nil
}
