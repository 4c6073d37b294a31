package feed

import (
	"time"
)

// Document is a syndication feed ready to be serialized.
type Document struct {
	Title       string
	Description string
	Site        string // base URL item links are resolved against
	Items       []Item
}

type Item struct {
	Title       string
	PubDate     time.Time
	Description string
	Link        string // site-relative permalink, e.g. /posts/hello-world/
	Categories  []string
	Author      string
	CustomData  string // raw XML appended to the item
}
