package rewrite

import (
	"fmt"
	"regexp"
	"strings"
)

// Placeholder names accepted in replacement templates
const (
	PlaceholderRepository = "repository"
	PlaceholderRefName    = "ref_name"
)

// InterpolationError reports a template placeholder that has no bound value
// or is syntactically malformed.
type InterpolationError struct {
	Placeholder string `json:"placeholder"`
	Template    string `json:"template"`
}

// Error implements the error interface
func (e *InterpolationError) Error() string {
	if e.Placeholder == "" {
		return fmt.Sprintf("template %q contains an empty placeholder", e.Template)
	}
	return fmt.Sprintf("template %q references unknown placeholder %q", e.Template, e.Placeholder)
}

var placeholderPattern = regexp.MustCompile(`\$\{([^}]*)\}`)

// TemplateVars builds the fixed two-key variable set available to
// replacement templates.
func TemplateVars(repository, refName string) map[string]string {
	return map[string]string{
		PlaceholderRepository: repository,
		PlaceholderRefName:    refName,
	}
}

// Interpolate substitutes ${name} placeholders in template with values from
// vars. This is deliberately not a templating engine: only direct
// substitution is supported, and a placeholder that is unknown, empty, or
// left unterminated fails loudly instead of passing through to the remote
// registry.
func Interpolate(template string, vars map[string]string) (string, error) {
	matches := placeholderPattern.FindAllStringSubmatchIndex(template, -1)

	var b strings.Builder
	last := 0
	for _, m := range matches {
		name := template[m[2]:m[3]]
		value, ok := vars[name]
		if !ok || name == "" {
			return "", &InterpolationError{Placeholder: name, Template: template}
		}
		b.WriteString(template[last:m[0]])
		b.WriteString(value)
		last = m[1]
	}

	rest := template[last:]
	if i := strings.Index(rest, "${"); i >= 0 {
		// Unterminated placeholder, e.g. "${repository"
		return "", &InterpolationError{Placeholder: rest[i:], Template: template}
	}
	b.WriteString(rest)

	return b.String(), nil
}
