package api

import (
	"github.com/are-dev/blog/app/cache"
	"github.com/are-dev/blog/app/database"
	"github.com/are-dev/blog/app/feed"
	"github.com/are-dev/blog/app/tasks"
)

type GeneratorInterface interface {
	Run(doc feed.Document) (string, error)
}

var _ GeneratorInterface = (*feed.Generator)(nil)

type Handler struct {
	postRepo  database.PostRepository
	builder   *feed.Builder
	generator GeneratorInterface
	scheduler tasks.TaskSchedulerInterface
	metrics   *Metrics
	feedCache cache.FeedCache
	feedPath  string
	siteURL   string
	version   string
}

// PostSummary is the JSON shape of a published post in the API listing.
type PostSummary struct {
	Slug          string   `json:"slug"`
	Title         string   `json:"title"`
	Link          string   `json:"link"`
	PublishedDate string   `json:"published_date"`
	Language      string   `json:"language"`
	Tags          []string `json:"tags"`
}
