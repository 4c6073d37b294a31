package feed

import (
	"strings"
	"testing"
	"time"
)

func sampleDocument() Document {
	return Document{
		Title:       "Are.dev",
		Description: "A blog about software",
		Site:        "https://are-dev.es/",
		Items: []Item{
			{
				Title:       "Test Item 1",
				PubDate:     time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
				Description: "Test Item 1 Description",
				Link:        "/posts/test-item-1/",
				Categories:  []string{"Technology", "Programming"},
				Author:      "Ann",
				CustomData:  "<language>en</language>",
			},
			{
				Title:       "Test Item 2",
				PubDate:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
				Description: "Test Item 2 Description",
				Link:        "/posts/test-item-2/",
				Author:      "Bo",
				CustomData:  "<language></language>",
			},
		},
	}
}

func TestGenerateRSS(t *testing.T) {
	generator := NewGenerator("1.2.3", "/index.xml")

	rss, err := generator.Run(sampleDocument())
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	expectedFragments := []string{
		`<?xml version="1.0" encoding="UTF-8"?>`,
		`<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom">`,
		"<title>Are.dev</title>",
		"<description>A blog about software</description>",
		"<link>https://are-dev.es/</link>",
		`<atom:link href="https://are-dev.es/index.xml" rel="self" type="application/rss+xml" />`,
		"<lastBuildDate>Fri, 01 Mar 2024 10:00:00 GMT</lastBuildDate>",
		"<generator>are-dev/1.2.3</generator>",
		"<title>Test Item 1</title>",
		"<link>https://are-dev.es/posts/test-item-1/</link>",
		`<guid isPermaLink="true">https://are-dev.es/posts/test-item-1/</guid>`,
		"<description>Test Item 1 Description</description>",
		"<pubDate>Fri, 01 Mar 2024 10:00:00 GMT</pubDate>",
		"<category>Technology</category>",
		"<category>Programming</category>",
		"<author>Ann</author>",
		"<language>en</language>",
		"<pubDate>Mon, 01 Jan 2024 00:00:00 GMT</pubDate>",
		"<language></language>",
		"</channel>",
		"</rss>",
	}

	for _, fragment := range expectedFragments {
		if !strings.Contains(rss, fragment) {
			t.Errorf("RSS should contain %s", fragment)
		}
	}

	first := strings.Index(rss, "<title>Test Item 1</title>")
	second := strings.Index(rss, "<title>Test Item 2</title>")
	if first == -1 || second == -1 || first > second {
		t.Error("RSS items should keep document order")
	}
}

func TestGenerateWithEmptyItems(t *testing.T) {
	generator := NewGenerator("dev", "/index.xml")

	rss, err := generator.Run(Document{
		Title:       "Empty Feed",
		Description: "Nothing yet",
		Site:        "https://are-dev.es/",
	})
	if err != nil {
		t.Fatalf("Expected no error with empty items, got: %v", err)
	}

	if !strings.Contains(rss, "<title>Empty Feed</title>") {
		t.Error("Empty items RSS should contain feed title")
	}
	if strings.Contains(rss, "<item>") {
		t.Error("Empty items RSS should not contain any items")
	}
	if strings.Contains(rss, "<lastBuildDate>") {
		t.Error("Empty items RSS should not contain lastBuildDate")
	}
	if !strings.Contains(rss, "</rss>") {
		t.Error("Empty items RSS should contain closing rss tag")
	}
}

func TestGenerateWithSpecialCharacters(t *testing.T) {
	generator := NewGenerator("dev", "/index.xml")

	doc := Document{
		Title:       "Feed with <special> & \"characters\"",
		Description: "Tips & tricks",
		Site:        "https://are-dev.es/",
		Items: []Item{
			{
				Title:       "Item with <tags> & \"quotes\"",
				Description: "Description with <em>emphasis</em>",
				Link:        "/posts/special/",
				Categories:  []string{"Category & Ampersand"},
				Author:      "Ann <ann@example.com>",
			},
		},
	}

	rss, err := generator.Run(doc)
	if err != nil {
		t.Fatalf("Expected no error with special characters, got: %v", err)
	}

	expectedFragments := []string{
		"Feed with &lt;special&gt; &amp; &#34;characters&#34;",
		"Tips &amp; tricks",
		"Item with &lt;tags&gt; &amp; &#34;quotes&#34;",
		"Description with &lt;em&gt;emphasis&lt;/em&gt;",
		"Category &amp; Ampersand",
		"Ann &lt;ann@example.com&gt;",
	}
	for _, fragment := range expectedFragments {
		if !strings.Contains(rss, fragment) {
			t.Errorf("RSS should contain escaped %s", fragment)
		}
	}
}

func TestGenerateWithoutSite(t *testing.T) {
	generator := NewGenerator("dev", "/index.xml")

	doc := sampleDocument()
	doc.Site = ""

	rss, err := generator.Run(doc)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if strings.Contains(rss, "<atom:link") {
		t.Error("RSS should not contain a self link without a site URL")
	}
	if !strings.Contains(rss, "<link>/posts/test-item-1/</link>") {
		t.Error("RSS should keep relative links without a site URL")
	}
	if !strings.Contains(rss, `<guid isPermaLink="false">/posts/test-item-1/</guid>`) {
		t.Error("Relative links should not be marked as permalinks")
	}
}

func TestGenerateResolvesLinksAgainstSitePath(t *testing.T) {
	generator := NewGenerator("dev", "rss.xml")

	doc := sampleDocument()
	doc.Site = "https://example.com/blog/"

	rss, err := generator.Run(doc)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	// Absolute paths replace the site path, as URL resolution does in browsers
	if !strings.Contains(rss, "<link>https://example.com/posts/test-item-1/</link>") {
		t.Error("RSS should resolve item links against the site URL")
	}
	if !strings.Contains(rss, `<atom:link href="https://example.com/blog/rss.xml"`) {
		t.Error("RSS should resolve a relative feed path against the site URL")
	}
}

func TestGenerateInvalidSite(t *testing.T) {
	generator := NewGenerator("dev", "/index.xml")

	doc := sampleDocument()
	doc.Site = "http://[::1"

	if _, err := generator.Run(doc); err == nil {
		t.Error("Expected error for invalid site URL")
	}
}

func TestGenerateDatesIgnoreLocalTimezone(t *testing.T) {
	generator := NewGenerator("dev", "/index.xml")

	madrid := time.FixedZone("CET", 3600)
	doc := Document{
		Title: "Zones",
		Items: []Item{
			{Title: "Zoned", PubDate: time.Date(2024, 1, 1, 1, 0, 0, 0, madrid), Link: "/posts/zoned/"},
		},
	}

	rss, err := generator.Run(doc)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if !strings.Contains(rss, "<pubDate>Mon, 01 Jan 2024 00:00:00 GMT</pubDate>") {
		t.Error("pubDate should be rendered in GMT")
	}
}

func TestIsURLMethod(t *testing.T) {
	generator := NewGenerator("dev", "/index.xml")

	tests := []struct {
		input    string
		expected bool
	}{
		{"", false},
		{"http://example.com", true},
		{"https://example.com", true},
		{"/posts/a/", false},
		{"http://", false},
		{"https://", false},
	}

	for _, test := range tests {
		result := generator.isURL(test.input)
		if result != test.expected {
			t.Errorf("For input '%s', expected %v, got %v", test.input, test.expected, result)
		}
	}
}
