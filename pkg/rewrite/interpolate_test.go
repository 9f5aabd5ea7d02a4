package rewrite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterpolate(t *testing.T) {
	vars := TemplateVars("acme/app", "main")

	tests := []struct {
		name     string
		template string
		expected string
	}{
		{
			name:     "both placeholders",
			template: "](https://raw.githubusercontent.com/${repository}/${ref_name}/",
			expected: "](https://raw.githubusercontent.com/acme/app/main/",
		},
		{
			name:     "repeated placeholder",
			template: "${repository} ${repository}",
			expected: "acme/app acme/app",
		},
		{
			name:     "no placeholders",
			template: "](https://example.com/static/",
			expected: "](https://example.com/static/",
		},
		{
			name:     "empty template",
			template: "",
			expected: "",
		},
		{
			name:     "dollar without brace is literal",
			template: "costs $5",
			expected: "costs $5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Interpolate(tt.template, vars)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestInterpolate_UnknownPlaceholder(t *testing.T) {
	vars := TemplateVars("acme/app", "main")

	result, err := Interpolate("prefix/${branch}/", vars)
	require.Error(t, err)
	assert.Empty(t, result)

	var interpErr *InterpolationError
	require.ErrorAs(t, err, &interpErr)
	assert.Equal(t, "branch", interpErr.Placeholder)
	assert.Contains(t, err.Error(), "branch")
}

func TestInterpolate_EmptyPlaceholder(t *testing.T) {
	_, err := Interpolate("prefix/${}/", TemplateVars("acme/app", "main"))

	var interpErr *InterpolationError
	require.ErrorAs(t, err, &interpErr)
	assert.Empty(t, interpErr.Placeholder)
}

func TestInterpolate_UnterminatedPlaceholder(t *testing.T) {
	_, err := Interpolate("prefix/${repository", TemplateVars("acme/app", "main"))

	var interpErr *InterpolationError
	require.ErrorAs(t, err, &interpErr)
	assert.Contains(t, interpErr.Placeholder, "${repository")
}

func TestTemplateVars(t *testing.T) {
	vars := TemplateVars("acme/app", "release-1.2")

	assert.Equal(t, "acme/app", vars[PlaceholderRepository])
	assert.Equal(t, "release-1.2", vars[PlaceholderRefName])
	assert.Len(t, vars, 2)
}
