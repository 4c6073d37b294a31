package content

import (
	"bytes"
	"errors"
)

var errMissingFrontMatter = errors.New("missing front matter block")

var frontMatterDelimiter = []byte("---")

// splitFrontMatter separates the YAML block delimited by "---" lines from the document body.
func splitFrontMatter(data []byte) ([]byte, []byte, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	first, rest, _ := cutLine(data)
	if !bytes.Equal(bytes.TrimSpace(first), frontMatterDelimiter) {
		return nil, nil, errMissingFrontMatter
	}

	start := len(data) - len(rest)
	for offset := start; offset <= len(data); {
		line, next, more := cutLine(data[offset:])
		if bytes.Equal(bytes.TrimRight(line, " \t\r"), frontMatterDelimiter) {
			return data[start:offset], next, nil
		}
		if !more {
			break
		}
		offset = len(data) - len(next)
	}

	return nil, nil, errors.New("unterminated front matter block")
}

func cutLine(data []byte) ([]byte, []byte, bool) {
	line, rest, found := bytes.Cut(data, []byte("\n"))
	return bytes.TrimSuffix(line, []byte("\r")), rest, found
}
