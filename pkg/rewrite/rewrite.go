package rewrite

import (
	"fmt"
	"strings"
)

// Result carries the outcome of a literal replacement pass
type Result struct {
	Content      string `json:"content"`
	Replacements int    `json:"replacements"`
}

// Replace substitutes every non-overlapping occurrence of search in content
// with replacement, scanning left to right in a single pass over the original
// string. The search term is matched character-for-character, never as a
// pattern, so characters like '.' or '[' have no special meaning.
//
// An empty search string is a caller error and fails before any content is
// produced. When search does not occur, the content is returned unchanged.
func Replace(content, search, replacement string) (*Result, error) {
	if search == "" {
		return nil, fmt.Errorf("search pattern cannot be empty")
	}

	count := strings.Count(content, search)
	if count == 0 {
		return &Result{Content: content}, nil
	}

	return &Result{
		Content:      strings.ReplaceAll(content, search, replacement),
		Replacements: count,
	}, nil
}
