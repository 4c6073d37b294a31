package feed

import (
	"bytes"
	"encoding/xml"
	"slices"

	"github.com/are-dev/blog/app/content"
	"github.com/samber/lo"
)

const (
	DefaultTitle       = "Are.dev"
	DefaultDescription = "A blog dedicated to mastering software development — learn, build, and elevate your coding skills."
)

type Builder struct {
	title       string
	description string
}

func NewBuilder(title, description string) *Builder {
	return &Builder{
		title:       title,
		description: description,
	}
}

// BuildFeed builds the site feed with the default channel metadata.
func BuildFeed(posts []content.Post, siteURL string) Document {
	return NewBuilder(DefaultTitle, DefaultDescription).Run(posts, siteURL)
}

// Published drops drafts and orders the remaining posts newest first. Posts with the
// same publication date keep their collection order. The input is not modified.
func Published(posts []content.Post) []content.Post {
	published := lo.Filter(posts, func(post content.Post, _ int) bool {
		return !post.Draft
	})

	slices.SortStableFunc(published, func(a, b content.Post) int {
		return b.PublishedDate.Compare(a.PublishedDate)
	})

	return published
}

// Run maps the published posts to feed items in feed order.
func (b *Builder) Run(posts []content.Post, siteURL string) Document {
	items := lo.Map(Published(posts), func(post content.Post, _ int) Item {
		return Item{
			Title:       post.Title,
			PubDate:     post.PublishedDate,
			Description: post.Description,
			Link:        PostLink(post.Slug),
			Categories:  slices.Clone(post.Tags),
			Author:      post.Author,
			CustomData:  LanguageData(post.Language),
		}
	})

	return Document{
		Title:       b.title,
		Description: b.description,
		Site:        siteURL,
		Items:       items,
	}
}

func PostLink(slug string) string {
	return "/posts/" + slug + "/"
}

// LanguageData renders the language custom element. An empty language gives an empty element.
func LanguageData(language string) string {
	var buf bytes.Buffer
	buf.WriteString("<language>")
	xml.EscapeText(&buf, []byte(language))
	buf.WriteString("</language>")
	return buf.String()
}
