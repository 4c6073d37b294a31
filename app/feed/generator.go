package feed

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"html"
	"net/url"
	"time"
)

// RSS 2.0 dates, always rendered in GMT.
const pubDateLayout = "Mon, 02 Jan 2006 15:04:05 GMT"

type Generator struct {
	version  string
	feedPath string
}

func NewGenerator(version, feedPath string) *Generator {
	return &Generator{
		version:  version,
		feedPath: feedPath,
	}
}

func (g *Generator) Run(doc Document) (string, error) {
	var site *url.URL
	if doc.Site != "" {
		parsed, err := url.Parse(doc.Site)
		if err != nil {
			return "", fmt.Errorf("invalid site URL %q: %w", doc.Site, err)
		}
		site = parsed
	}

	var buf bytes.Buffer

	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	buf.WriteString("\n")
	buf.WriteString(`<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom">`)
	buf.WriteString("\n  <channel>\n")

	g.writeElement(&buf, "title", doc.Title, 4)
	g.writeElement(&buf, "description", doc.Description, 4)
	g.writeElement(&buf, "link", doc.Site, 4)

	if site != nil && g.feedPath != "" {
		selfLink, err := resolve(site, g.feedPath)
		if err != nil {
			return "", err
		}
		buf.WriteString(fmt.Sprintf("    <atom:link href=\"%s\" rel=\"self\" type=\"application/rss+xml\" />\n",
			html.EscapeString(selfLink)))
	}

	// Derived from the newest item so that the same input always renders the same document
	if len(doc.Items) > 0 {
		g.writeElement(&buf, "lastBuildDate", formatDate(doc.Items[0].PubDate), 4)
	}
	g.writeElement(&buf, "generator", fmt.Sprintf("are-dev/%s", g.version), 4)

	for _, item := range doc.Items {
		if err := g.writeItem(&buf, site, item); err != nil {
			return "", err
		}
	}

	buf.WriteString("  </channel>\n</rss>\n")

	return buf.String(), nil
}

func (g *Generator) writeItem(buf *bytes.Buffer, site *url.URL, item Item) error {
	link := item.Link
	if site != nil && link != "" {
		resolved, err := resolve(site, link)
		if err != nil {
			return err
		}
		link = resolved
	}

	buf.WriteString("    <item>\n")

	g.writeElement(buf, "title", item.Title, 6)
	g.writeElement(buf, "link", link, 6)

	if link != "" {
		buf.WriteString(fmt.Sprintf("      <guid isPermaLink=\"%t\">", g.isURL(link)))
		xml.EscapeText(buf, []byte(link))
		buf.WriteString("</guid>\n")
	}

	g.writeElement(buf, "description", item.Description, 6)

	if !item.PubDate.IsZero() {
		g.writeElement(buf, "pubDate", formatDate(item.PubDate), 6)
	}

	for _, category := range item.Categories {
		if category != "" {
			g.writeElement(buf, "category", category, 6)
		}
	}

	g.writeElement(buf, "author", item.Author, 6)

	if item.CustomData != "" {
		buf.WriteString("      ")
		buf.WriteString(item.CustomData)
		buf.WriteString("\n")
	}

	buf.WriteString("    </item>\n")

	return nil
}

func (g *Generator) writeElement(buf *bytes.Buffer, tag, content string, indent int) {
	if content == "" {
		return
	}

	for i := 0; i < indent; i++ {
		buf.WriteByte(' ')
	}

	buf.WriteString("<")
	buf.WriteString(tag)
	buf.WriteString(">")
	xml.EscapeText(buf, []byte(content))
	buf.WriteString("</")
	buf.WriteString(tag)
	buf.WriteString(">\n")
}

func (g *Generator) isURL(s string) bool {
	return (len(s) > 7 && s[:7] == "http://") || (len(s) > 8 && s[:8] == "https://")
}

func resolve(site *url.URL, ref string) (string, error) {
	refURL, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("invalid link %q: %w", ref, err)
	}
	return site.ResolveReference(refURL).String(), nil
}

func formatDate(t time.Time) string {
	return t.UTC().Format(pubDateLayout)
}
