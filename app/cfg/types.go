package cfg

type Cfg struct {
	// Site configuration
	SiteURL         string
	SiteTitle       string
	SiteDescription string
	FeedPath        string

	// Content and storage
	ContentDir string
	DBPath     string
	RedisURL   string
	CacheTTL   int

	// Application configuration
	Port         string
	SyncInterval int
	WorkerCount  int
	APIAccessKey string
	Out          string

	// Application metadata
	Timezone string
	Debug    bool
	Version  string
}
