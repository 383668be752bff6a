package dispatch

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestLocaleRewriter() *LocaleRewriter {
	return NewLocaleRewriter([]string{"en", "es", "fr", "de"}, "en", "locale")
}

func TestLocaleRewriterSplitLocale(t *testing.T) {
	l := newTestLocaleRewriter()

	cases := []struct {
		path, locale, rest string
	}{
		{path: "/fr/incidents", locale: "fr", rest: "/incidents"},
		{path: "/fr", locale: "fr", rest: "/"},
		{path: "/de/", locale: "de", rest: "/"},
		{path: "/incidents", locale: "", rest: "/incidents"},
		{path: "/pt/incidents", locale: "", rest: "/pt/incidents"},
		{path: "", locale: "", rest: "/"},
	}

	for _, tc := range cases {
		locale, rest := l.SplitLocale(tc.path)
		if locale != tc.locale || rest != tc.rest {
			t.Fatalf("SplitLocale(%q) = (%q, %q), want (%q, %q)", tc.path, locale, rest, tc.locale, tc.rest)
		}
	}
}

func TestLocaleRewriterNegotiate(t *testing.T) {
	l := newTestLocaleRewriter()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := l.Negotiate(req); got != "en" {
		t.Fatalf("expected default locale, got %s", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "de-DE,de;q=0.9,en;q=0.8")
	if got := l.Negotiate(req); got != "de" {
		t.Fatalf("expected de from Accept-Language, got %s", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "ja-JP")
	if got := l.Negotiate(req); got != "en" {
		t.Fatalf("expected default for unsupported language, got %s", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "de")
	req.AddCookie(&http.Cookie{Name: "locale", Value: "es"})
	if got := l.Negotiate(req); got != "es" {
		t.Fatalf("expected cookie to override Accept-Language, got %s", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "locale", Value: "xx"})
	if got := l.Negotiate(req); got != "en" {
		t.Fatalf("expected unsupported cookie to be ignored, got %s", got)
	}
}

func TestLocaleRewriterRewrite(t *testing.T) {
	l := newTestLocaleRewriter()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "fr")

	if got := l.Rewrite(req, "", "/status-page/acme/incidents"); got != "/fr/status-page/acme/incidents" {
		t.Fatalf("unexpected rewrite %s", got)
	}
	if got := l.Rewrite(req, "de", "/status-page/acme/"); got != "/de/status-page/acme/" {
		t.Fatalf("URL locale should win, got %s", got)
	}
	if got := l.Rewrite(req, "", "/status-page/acme"); got != "/fr/status-page/acme/" {
		t.Fatalf("expected trailing slash after tenant, got %s", got)
	}
}

func TestLocaleRewriterLocalesDefaultFirst(t *testing.T) {
	l := NewLocaleRewriter([]string{"es", "fr", "en"}, "en", "")

	locales := l.Locales()
	if len(locales) != 3 || locales[0] != "en" {
		t.Fatalf("expected default locale first, got %v", locales)
	}
}
