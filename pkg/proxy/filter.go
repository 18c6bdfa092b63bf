package proxy

import "github.com/bmatcuk/doublestar/v4"

// FilterConfig decides which proxied exchanges a gateway captures.
// Patterns are doublestar globs matched against the request path, before
// the gateway prefix is stripped ("/api/**", "/api/*/details").
type FilterConfig struct {
	IncludePaths []string // Capture only if path matches (empty = all)
	ExcludePaths []string // Never capture if path matches
}

// NewFilterConfig creates an empty filter config (captures everything).
func NewFilterConfig() *FilterConfig {
	return &FilterConfig{}
}

// Validate reports the first malformed pattern.
func (f *FilterConfig) Validate() error {
	for _, p := range append(append([]string(nil), f.IncludePaths...), f.ExcludePaths...) {
		if !doublestar.ValidatePattern(p) {
			return &PatternError{Pattern: p}
		}
	}
	return nil
}

// ShouldRecord determines if a path should be captured.
// Precedence:
// 1. If matches ANY exclude pattern → NOT captured
// 2. If include patterns exist AND matches NONE → NOT captured
// 3. Otherwise → captured
func (f *FilterConfig) ShouldRecord(path string) bool {
	for _, pattern := range f.ExcludePaths {
		if matchGlob(pattern, path) {
			return false
		}
	}

	if len(f.IncludePaths) == 0 {
		return true
	}
	for _, pattern := range f.IncludePaths {
		if matchGlob(pattern, path) {
			return true
		}
	}
	return false
}

// PatternError reports an invalid glob.
type PatternError struct {
	Pattern string
}

func (e *PatternError) Error() string {
	return "invalid capture pattern: " + e.Pattern
}

// matchGlob matches a doublestar pattern; malformed patterns never match.
func matchGlob(pattern, s string) bool {
	ok, err := doublestar.Match(pattern, s)
	return err == nil && ok
}
