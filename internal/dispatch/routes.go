package dispatch

import (
	"strings"

	"github.com/IGLOU-EU/go-wildcard/v2"
)

// RouteClass is the authentication requirement of a path.
type RouteClass int

const (
	// RouteProtected requires an authenticated session.
	RouteProtected RouteClass = iota
	// RoutePublic is reachable without a session.
	RoutePublic
)

func (c RouteClass) String() string {
	switch c {
	case RoutePublic:
		return "public"
	default:
		return "protected"
	}
}

// RouteMatcher classifies request paths against fixed pattern tables.
// Patterns are exact paths or globs using "*".
type RouteMatcher struct {
	public  []string
	ignored []string
}

// NewRouteMatcher creates a matcher. Pattern order is preserved.
func NewRouteMatcher(public, ignored []string) *RouteMatcher {
	return &RouteMatcher{
		public:  cleanPatterns(public),
		ignored: cleanPatterns(ignored),
	}
}

// Classify returns RoutePublic when path matches a public pattern and
// RouteProtected otherwise. Unknown paths are protected.
func (m *RouteMatcher) Classify(path string) RouteClass {
	if matchAny(m.public, normalizePath(path)) {
		return RoutePublic
	}
	return RouteProtected
}

// Ignored reports whether path is excluded from instrumentation.
func (m *RouteMatcher) Ignored(path string) bool {
	return matchAny(m.ignored, normalizePath(path))
}

func matchAny(patterns []string, path string) bool {
	for _, pattern := range patterns {
		if pattern == path {
			return true
		}
		if strings.Contains(pattern, "*") && wildcard.Match(pattern, path) {
			return true
		}
	}
	return false
}

func cleanPatterns(patterns []string) []string {
	cleaned := make([]string, 0, len(patterns))
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if !strings.HasPrefix(p, "/") {
			p = "/" + p
		}
		cleaned = append(cleaned, p)
	}
	return cleaned
}

func normalizePath(path string) string {
	if path == "" {
		return "/"
	}
	return path
}
