package content

import (
	"path"
	"path/filepath"
	"strings"
	"unicode"
)

// Slugify turns a document path relative to its collection into a URL-safe slug.
// Directory separators are kept, so "guides/Getting Started.md" becomes "guides/getting-started".
func Slugify(relPath string) string {
	relPath = filepath.ToSlash(relPath)
	relPath = strings.TrimSuffix(relPath, path.Ext(relPath))

	segments := strings.Split(relPath, "/")
	slugged := make([]string, 0, len(segments))
	for _, segment := range segments {
		if s := slugifySegment(segment); s != "" {
			slugged = append(slugged, s)
		}
	}

	return strings.Join(slugged, "/")
}

func slugifySegment(segment string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(segment)) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('-')
		}
	}
	return b.String()
}
