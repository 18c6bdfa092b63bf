package testing

import (
	"strings"
	"testing"

	"github.com/getmockd/mockgate/pkg/model"
)

// AssertCalled asserts that an endpoint was called at least once.
func (m *MockServer) AssertCalled(t testing.TB, method model.Method, path string) {
	t.Helper()

	count := m.countCalls(method, path)
	if count == 0 {
		t.Errorf("expected %s %s to be called, but it was not called", method, path)
	}
}

// AssertCalledTimes asserts that an endpoint was called exactly n times.
func (m *MockServer) AssertCalledTimes(t testing.TB, method model.Method, path string, times int) {
	t.Helper()

	count := m.countCalls(method, path)
	if count != times {
		t.Errorf("expected %s %s to be called %d times, but was called %d times",
			method, path, times, count)
	}
}

// AssertNotCalled asserts that an endpoint was not called.
func (m *MockServer) AssertNotCalled(t testing.TB, method model.Method, path string) {
	t.Helper()

	count := m.countCalls(method, path)
	if count > 0 {
		t.Errorf("expected %s %s to not be called, but it was called %d times",
			method, path, count)
	}
}

// countCalls counts how many times a method/path combination was called.
func (m *MockServer) countCalls(method model.Method, path string) int {
	count := 0
	for _, req := range m.Requests() {
		if req.Method == method && matchesPath(req.Path, path) {
			count++
		}
	}
	return count
}

// matchesPath checks if a request path matches the expected path pattern.
// Supports exact matching and path parameters ({id} patterns).
func matchesPath(actual, expected string) bool {
	if actual == expected {
		return true
	}

	actualParts := strings.Split(actual, "/")
	expectedParts := strings.Split(expected, "/")
	if len(actualParts) != len(expectedParts) {
		return false
	}

	for i := range expectedParts {
		exp := expectedParts[i]
		if strings.HasPrefix(exp, "{") && strings.HasSuffix(exp, "}") {
			continue // Any value matches a path parameter
		}
		if exp != actualParts[i] {
			return false
		}
	}
	return true
}
