package content

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

var documentExtensions = []string{".md", ".markdown", ".mdx"}

// Loader reads a collection from a directory of Markdown documents with YAML front matter.
type Loader struct {
	name   string
	dir    string
	schema *schema
}

var _ Collection = (*Loader)(nil)

func NewLoader(name, dir string) *Loader {
	return &Loader{
		name:   name,
		dir:    dir,
		schema: newSchema(),
	}
}

func (l *Loader) Name() string {
	return l.name
}

// Load reads every document of the collection from disk. Any invalid document fails the
// whole collection.
func (l *Loader) Load(ctx context.Context) ([]Post, error) {
	if _, err := os.Stat(l.dir); os.IsNotExist(err) {
		slog.Warn("Collection directory does not exist", "collection", l.name, "dir", l.dir)
		return []Post{}, nil
	}

	var posts []Post
	slugs := make(map[string]string)

	err := filepath.WalkDir(l.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if path != l.dir && (strings.HasPrefix(d.Name(), "_") || strings.HasPrefix(d.Name(), ".")) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !slices.Contains(documentExtensions, strings.ToLower(filepath.Ext(path))) {
			return nil
		}

		post, err := l.loadFile(path)
		if err != nil {
			return fmt.Errorf("error loading %s: %w", path, err)
		}

		if previous, ok := slugs[post.Slug]; ok {
			return fmt.Errorf("%w %q in %s and %s", ErrDuplicateSlug, post.Slug, previous, path)
		}
		slugs[post.Slug] = path

		posts = append(posts, post)
		slog.Debug("Post loaded", "collection", l.name, "slug", post.Slug, "draft", post.Draft)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if posts == nil {
		posts = []Post{}
	}

	return posts, nil
}

// GetCollection reads the named collection straight from disk.
func (l *Loader) GetCollection(ctx context.Context, name string) ([]Post, error) {
	if name != l.name {
		return nil, fmt.Errorf("%w: %s", ErrCollectionNotFound, name)
	}

	return l.Load(ctx)
}

func (l *Loader) loadFile(path string) (Post, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Post{}, fmt.Errorf("failed to read file: %w", err)
	}

	block, _, err := splitFrontMatter(data)
	if err != nil {
		return Post{}, err
	}

	post, slug, err := l.schema.parse(block)
	if err != nil {
		return Post{}, err
	}

	if slug == "" {
		rel, err := filepath.Rel(l.dir, path)
		if err != nil {
			return Post{}, fmt.Errorf("failed to resolve relative path: %w", err)
		}
		slug = Slugify(rel)
	}
	if slug == "" {
		return Post{}, fmt.Errorf("could not derive a slug")
	}
	post.Slug = slug

	return post, nil
}
