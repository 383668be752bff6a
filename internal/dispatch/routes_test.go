package dispatch

import "testing"

var testPublicRoutes = []string{
	"/", "/play", "/play/*", "/monitor/*", "/api/*", "/blog", "/blog/*",
	"/legal/*", "/discord", "/github", "/oss-friends", "/status-page/*", "/incidents",
}

var testIgnoredRoutes = []string{"/api/og", "/discord", "github"}

func TestRouteMatcherClassify(t *testing.T) {
	m := NewRouteMatcher(testPublicRoutes, testIgnoredRoutes)

	cases := map[string]RouteClass{
		"":                        RoutePublic,
		"/":                       RoutePublic,
		"/play":                   RoutePublic,
		"/play/checker":           RoutePublic,
		"/blog/hello-world":       RoutePublic,
		"/api/webhook/auth":       RoutePublic,
		"/status-page/acme/":      RoutePublic,
		"/incidents":              RoutePublic,
		"/app":                    RouteProtected,
		"/app/acme/monitors":      RouteProtected,
		"/playground":             RouteProtected,
		"/legal":                  RouteProtected,
		"/something/not/declared": RouteProtected,
	}

	for path, want := range cases {
		if got := m.Classify(path); got != want {
			t.Fatalf("Classify(%q) = %s, want %s", path, got, want)
		}
	}
}

func TestRouteMatcherIgnoredIsIndependentOfPublic(t *testing.T) {
	m := NewRouteMatcher([]string{"/discord"}, []string{"/api/og", "/discord"})

	if !m.Ignored("/api/og") {
		t.Fatal("expected /api/og to be ignored")
	}
	if m.Classify("/api/og") != RouteProtected {
		t.Fatal("ignored path must not become public")
	}
	if !m.Ignored("/discord") || m.Classify("/discord") != RoutePublic {
		t.Fatal("path in both tables should be ignored and public")
	}
}

func TestRouteMatcherNormalizesPatternsWithoutLeadingSlash(t *testing.T) {
	m := NewRouteMatcher(nil, testIgnoredRoutes)

	if !m.Ignored("/github") {
		t.Fatal("expected pattern without leading slash to match")
	}
}

func TestRouteMatcherIsDeterministic(t *testing.T) {
	m := NewRouteMatcher(testPublicRoutes, testIgnoredRoutes)

	for i := 0; i < 10; i++ {
		if m.Classify("/app/acme") != RouteProtected || m.Classify("/blog/x") != RoutePublic {
			t.Fatal("classification changed between calls")
		}
	}
}
