package cfg

import (
	"cmp"
	"fmt"
	"strings"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Site configuration
	SiteURL         string `long:"site-url" env:"SITE_URL" default:"https://are-dev.es/" description:"Public base URL of the site"`
	SiteTitle       string `long:"site-title" env:"SITE_TITLE" default:"Are.dev" description:"Feed channel title"`
	SiteDescription string `long:"site-description" env:"SITE_DESCRIPTION" default:"A blog dedicated to mastering software development — learn, build, and elevate your coding skills." description:"Feed channel description"`
	FeedPath        string `long:"feed-path" env:"FEED_PATH" default:"/index.xml" description:"Route the RSS feed is served on"`

	// Content and storage
	ContentDir string `long:"content-dir" env:"CONTENT_DIR" default:"./content/posts" description:"Directory containing the posts collection"`
	DBPath     string `long:"db-path" env:"DB_PATH" default:"./data/blog.db" description:"SQLite database file for the post index"`
	RedisURL   string `long:"redis-url" env:"REDIS_URL" description:"Redis URL for caching rendered feeds (optional)"`
	CacheTTL   int    `long:"cache-ttl" env:"CACHE_TTL" default:"300" description:"Rendered feed cache TTL in seconds"`

	// Application configuration
	Port         string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	SyncInterval int    `long:"sync-interval" env:"SYNC_INTERVAL" default:"60" description:"Content sync interval in seconds"`
	WorkerCount  int    `long:"worker-count" env:"WORKER_COUNT" default:"2" description:"Number of background workers"`
	APIAccessKey string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authentication (optional)"`
	Out          string `long:"out" env:"OUT" description:"Write the feed to this file and exit instead of serving it"`

	// Application metadata
	Timezone string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, Europe/Madrid)"`
	Debug    bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

func Load() (*Cfg, error) {
	return LoadArgs(nil)
}

// LoadArgs parses the given arguments instead of os.Args when args is non-nil.
func LoadArgs(args []string) (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	var err error
	if args == nil {
		_, err = parser.Parse()
	} else {
		_, err = parser.ParseArgs(args)
	}
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		SiteURL:         NormalizeSiteURL(raw.SiteURL),
		SiteTitle:       raw.SiteTitle,
		SiteDescription: raw.SiteDescription,
		FeedPath:        normalizeRoute(raw.FeedPath),
		ContentDir:      raw.ContentDir,
		DBPath:          raw.DBPath,
		RedisURL:        raw.RedisURL,
		CacheTTL:        raw.CacheTTL,
		Port:            raw.Port,
		SyncInterval:    raw.SyncInterval,
		WorkerCount:     raw.WorkerCount,
		APIAccessKey:    raw.APIAccessKey,
		Out:             raw.Out,
		Timezone:        raw.Timezone,
		Debug:           raw.Debug,
		Version:         GetVersion(),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	return cfg, nil
}

// NormalizeSiteURL applies the site's trailing-slash policy: the base URL always ends in "/".
func NormalizeSiteURL(siteURL string) string {
	siteURL = strings.TrimSpace(siteURL)
	if siteURL == "" || strings.HasSuffix(siteURL, "/") {
		return siteURL
	}
	return siteURL + "/"
}

func normalizeRoute(route string) string {
	route = strings.TrimSpace(route)
	if !strings.HasPrefix(route, "/") {
		route = "/" + route
	}
	return route
}

func (c *Cfg) validate() error {
	if c.SiteURL == "" {
		return fmt.Errorf("site URL is required")
	}

	nonNegativeFields := map[string]int{
		"sync interval": c.SyncInterval,
		"worker count":  c.WorkerCount,
		"cache TTL":     c.CacheTTL,
	}

	for fieldName, fieldValue := range nonNegativeFields {
		if fieldValue <= 0 {
			return fmt.Errorf("%s must be positive", fieldName)
		}
	}

	return nil
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}
