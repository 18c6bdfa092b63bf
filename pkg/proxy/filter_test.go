package proxy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestMatchGlob tests glob pattern matching.
func TestMatchGlob(t *testing.T) {
	tests := []struct {
		pattern string
		input   string
		want    bool
	}{
		// Exact match
		{"/api/users", "/api/users", true},
		{"/api/users", "/api/items", false},

		// Single segment wildcard
		{"/api/*", "/api/users", true},
		{"/api/*", "/api/users/123", false},
		{"/api/*/details", "/api/users/details", true},
		{"/api/*/details", "/api/users/summary", false},

		// Recursive wildcard
		{"/api/**", "/api/users/123", true},
		{"/api/**", "/other/path", false},
		{"/**/users", "/v1/api/users", true},

		// Alternatives
		{"/{todos,posts}/*", "/posts/1", true},
		{"/{todos,posts}/*", "/users/1", false},

		// Malformed patterns never match
		{"/api/[", "/api/[", false},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"_vs_"+tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, matchGlob(tt.pattern, tt.input))
		})
	}
}

// TestShouldRecord tests filter logic with include/exclude precedence.
func TestShouldRecord(t *testing.T) {
	t.Run("empty filter records everything", func(t *testing.T) {
		assert.True(t, NewFilterConfig().ShouldRecord("/api/users"))
	})

	t.Run("exclude paths take precedence", func(t *testing.T) {
		f := &FilterConfig{
			IncludePaths: []string{"/api/**"},
			ExcludePaths: []string{"/api/health"},
		}
		assert.True(t, f.ShouldRecord("/api/users"))
		assert.False(t, f.ShouldRecord("/api/health"))
	})

	t.Run("include paths restrict", func(t *testing.T) {
		f := &FilterConfig{IncludePaths: []string{"/todos/*"}}
		assert.True(t, f.ShouldRecord("/todos/1"))
		assert.False(t, f.ShouldRecord("/users/1"))
	})
}

func TestFilterConfig_Validate(t *testing.T) {
	assert.NoError(t, (&FilterConfig{IncludePaths: []string{"/api/**"}}).Validate())

	err := (&FilterConfig{ExcludePaths: []string{"/api/["}}).Validate()
	var perr *PatternError
	if assert.ErrorAs(t, err, &perr) {
		assert.Equal(t, "/api/[", perr.Pattern)
	}
}
