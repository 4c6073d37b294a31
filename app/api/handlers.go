package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/are-dev/blog/app/cache"
	"github.com/are-dev/blog/app/content"
	"github.com/are-dev/blog/app/database"
	"github.com/are-dev/blog/app/feed"
	"github.com/are-dev/blog/app/tasks"
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

func NewHandler(postRepo database.PostRepository, builder *feed.Builder, generator GeneratorInterface,
	scheduler tasks.TaskSchedulerInterface, metrics *Metrics, siteURL, version string) *Handler {
	return &Handler{
		postRepo:  postRepo,
		builder:   builder,
		generator: generator,
		scheduler: scheduler,
		metrics:   metrics,
		siteURL:   siteURL,
		version:   version,
	}
}

// UseCache serves rendered feeds from feedCache. Entries are keyed by the last sync time.
func (h *Handler) UseCache(feedCache cache.FeedCache, feedPath string) {
	h.feedCache = feedCache
	h.feedPath = feedPath
}

func (h *Handler) GetFeed(c *gin.Context) {
	started := time.Now()
	ctx := c.Request.Context()

	syncedAt, err := h.postRepo.GetLastSyncedAt(ctx)
	if err != nil {
		slog.Warn("Failed to get last sync time", "error", err)
	}
	if syncedAt != nil {
		c.Header("X-Last-Synced", syncedAt.In(time.Local).Format(time.RFC3339))
	}

	cacheKey := ""
	if h.feedCache != nil && syncedAt != nil {
		cacheKey = h.feedCache.FeedKey(h.siteURL, h.feedPath, *syncedAt)

		cached, err := h.feedCache.GetFeed(ctx, cacheKey)
		if err != nil {
			slog.Warn("Feed cache read failed", "key", cacheKey, "error", err)
		} else if cached != nil {
			c.Header("X-Cache", "HIT")
			c.Header("X-Feed-Items", strconv.Itoa(cached.Items))
			h.metrics.observeFeed("cached", cached.Items, started)
			c.Data(http.StatusOK, "application/xml; charset=utf-8", []byte(cached.Content))
			return
		}
	}

	posts, err := h.postRepo.GetCollection(ctx, content.PostsCollection)
	if err != nil {
		slog.Error("Database error", "operation", "get_collection", "collection", content.PostsCollection, "error", err)
		h.metrics.observeFeed("error", 0, started)
		c.Status(http.StatusInternalServerError)
		return
	}

	doc := h.builder.Run(posts, h.siteURL)

	rss, err := h.generator.Run(doc)
	if err != nil {
		slog.Error("RSS generation error", "site", h.siteURL, "error", err)
		h.metrics.observeFeed("error", 0, started)
		c.Status(http.StatusInternalServerError)
		return
	}

	if cacheKey != "" {
		c.Header("X-Cache", "MISS")
		if err := h.feedCache.SetFeed(ctx, cacheKey, cache.CachedFeed{Content: rss, Items: len(doc.Items)}); err != nil {
			slog.Warn("Feed cache write failed", "key", cacheKey, "error", err)
		}
	}

	c.Header("X-Feed-Items", strconv.Itoa(len(doc.Items)))

	h.metrics.observeFeed("ok", len(doc.Items), started)
	c.Data(http.StatusOK, "application/xml; charset=utf-8", []byte(rss))
}

func (h *Handler) GetHealth(c *gin.Context) {
	ctx := c.Request.Context()

	health := map[string]interface{}{
		"status":    "ok",
		"version":   h.version,
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	stats, err := h.postRepo.GetStats(ctx)
	if err != nil {
		slog.Error("Database error", "operation", "get_stats", "error", err)
		health["status"] = "degraded"
		c.JSON(http.StatusServiceUnavailable, health)
		return
	}
	health["posts"] = stats

	if syncedAt, err := h.postRepo.GetLastSyncedAt(ctx); err == nil && syncedAt != nil {
		health["last_synced_at"] = syncedAt.In(time.Local).Format(time.RFC3339)
	}

	c.JSON(http.StatusOK, health)
}

// APIListPosts lists published posts newest first, in feed order.
func (h *Handler) APIListPosts(c *gin.Context) {
	posts, err := h.postRepo.GetCollection(c.Request.Context(), content.PostsCollection)
	if err != nil {
		slog.Error("Database error", "operation", "get_collection", "collection", content.PostsCollection, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	summaries := lo.Map(feed.Published(posts), func(post content.Post, _ int) PostSummary {
		return PostSummary{
			Slug:          post.Slug,
			Title:         post.Title,
			Link:          feed.PostLink(post.Slug),
			PublishedDate: post.PublishedDate.UTC().Format(time.RFC3339),
			Language:      post.Language,
			Tags:          post.Tags,
		}
	})

	c.JSON(http.StatusOK, gin.H{
		"posts": summaries,
		"total": len(summaries),
	})
}

func (h *Handler) APISyncPosts(c *gin.Context) {
	task := h.scheduler.NewSyncTask()

	if err := h.scheduler.EnqueueTask(task); err != nil {
		slog.Error("Error enqueueing sync task", "collection", task.GetCollection(), "error", err)
		h.metrics.syncRequests.WithLabelValues("rejected").Inc()
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "Failed to enqueue sync task",
			"details": err.Error(),
		})
		return
	}

	h.metrics.syncRequests.WithLabelValues("accepted").Inc()
	c.JSON(http.StatusAccepted, gin.H{
		"success": true,
		"message": "Sync task enqueued",
		"task": gin.H{
			"id":         task.GetID(),
			"type":       task.GetType(),
			"collection": task.GetCollection(),
		},
	})
}
