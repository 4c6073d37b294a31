package feed

import (
	"bytes"
	"fmt"

	"github.com/mmcdole/gofeed"
)

// Verifier parses a rendered document back with a real feed reader.
type Verifier struct {
	gofeedParser *gofeed.Parser
}

func NewVerifier() *Verifier {
	return &Verifier{
		gofeedParser: gofeed.NewParser(),
	}
}

func (v *Verifier) Run(data []byte, expectedItems int) (*gofeed.Feed, error) {
	parsed, err := v.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	if parsed.FeedType != "rss" {
		return nil, fmt.Errorf("unexpected feed type %q", parsed.FeedType)
	}

	if len(parsed.Items) != expectedItems {
		return nil, fmt.Errorf("feed has %d items, expected %d", len(parsed.Items), expectedItems)
	}

	return parsed, nil
}
