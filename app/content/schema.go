package content

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// frontMatter mirrors the posts collection schema as written in a document's YAML block.
type frontMatter struct {
	Title         string   `yaml:"title" validate:"required"`
	Description   string   `yaml:"description" validate:"required"`
	Tags          []string `yaml:"tags"`
	PublishedDate string   `yaml:"publishedDate" validate:"required"`
	CoverImage    string   `yaml:"coverImage"`
	Gallery       []string `yaml:"gallery"`
	Author        string   `yaml:"author" validate:"required"`
	AuthorImage   string   `yaml:"authorImage"`
	AuthorURL     string   `yaml:"authorUrl"`
	URL           string   `yaml:"URL"`
	Draft         *bool    `yaml:"draft" validate:"required"`
	Language      string   `yaml:"language"`
	Slug          string   `yaml:"slug"`
}

type schema struct {
	validate *validator.Validate
	location *time.Location
}

func newSchema() *schema {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("yaml"), ",")
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})

	return &schema{
		validate: v,
		location: time.UTC,
	}
}

// parse decodes and validates a front matter block. The returned post has no slug yet.
func (s *schema) parse(data []byte) (Post, string, error) {
	var fm frontMatter
	if err := yaml.Unmarshal(data, &fm); err != nil {
		return Post{}, "", fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := s.validate.Struct(fm); err != nil {
		return Post{}, "", translateValidationError(err)
	}

	publishedDate, err := dateparse.ParseIn(strings.TrimSpace(fm.PublishedDate), s.location)
	if err != nil {
		return Post{}, "", fmt.Errorf("invalid publishedDate %q: %w", fm.PublishedDate, err)
	}

	language, err := NormalizeLanguage(fm.Language)
	if err != nil {
		return Post{}, "", err
	}

	post := Post{
		Title:         fm.Title,
		Description:   fm.Description,
		Tags:          fm.Tags,
		PublishedDate: publishedDate,
		CoverImage:    fm.CoverImage,
		Gallery:       fm.Gallery,
		Author:        fm.Author,
		AuthorImage:   fm.AuthorImage,
		AuthorURL:     fm.AuthorURL,
		URL:           fm.URL,
		Draft:         *fm.Draft,
		Language:      language,
	}
	if post.Tags == nil {
		post.Tags = []string{}
	}

	return post, strings.Trim(strings.TrimSpace(fm.Slug), "/"), nil
}

func translateValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("failed to validate front matter: %w", err)
	}

	messages := make([]string, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		switch fieldErr.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", fieldErr.Field()))
		default:
			messages = append(messages, fmt.Sprintf("%s failed %s validation", fieldErr.Field(), fieldErr.Tag()))
		}
	}

	return fmt.Errorf("invalid front matter: %s", strings.Join(messages, ", "))
}
