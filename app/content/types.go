package content

import (
	"context"
	"errors"
	"time"
)

// PostsCollection is the name of the blog posts collection.
const PostsCollection = "posts"

var (
	ErrCollectionNotFound = errors.New("collection not found")
	ErrDuplicateSlug      = errors.New("duplicate slug")
)

// Post is a validated entry of the posts collection.
type Post struct {
	Slug          string    `json:"slug"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Tags          []string  `json:"tags"`
	PublishedDate time.Time `json:"published_date"`
	CoverImage    string    `json:"cover_image,omitempty"`
	Gallery       []string  `json:"gallery,omitempty"`
	Author        string    `json:"author"`
	AuthorImage   string    `json:"author_image,omitempty"`
	AuthorURL     string    `json:"author_url,omitempty"`
	URL           string    `json:"url,omitempty"`
	Draft         bool      `json:"draft"`
	Language      string    `json:"language"` // BCP 47 tag, empty when the post does not declare one
}

// Collection gives read access to a named content collection.
type Collection interface {
	GetCollection(ctx context.Context, name string) ([]Post, error)
}
