package content

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// NormalizeLanguage canonicalizes a BCP 47 language tag ("en-us" becomes "en-US").
// An empty value stays empty.
func NormalizeLanguage(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}

	tag, err := language.Parse(value)
	if err != nil {
		return "", fmt.Errorf("invalid language %q: %w", value, err)
	}

	return tag.String(), nil
}
