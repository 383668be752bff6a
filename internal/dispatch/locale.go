package dispatch

import (
	"net/http"
	"strings"

	"golang.org/x/text/language"
)

// StatusPagePrefix is the path prefix under which tenant status pages live.
const StatusPagePrefix = "/status-page/"

// LocaleRewriter rewrites status-page requests to a locale-qualified path.
type LocaleRewriter struct {
	codes         []string
	matcher       language.Matcher
	defaultLocale string
	cookieName    string
}

// NewLocaleRewriter creates a rewriter for the supported locales. The
// default locale must be one of them.
func NewLocaleRewriter(supported []string, defaultLocale, cookieName string) *LocaleRewriter {
	defaultLocale = strings.ToLower(defaultLocale)
	codes := []string{defaultLocale}
	for _, code := range supported {
		code = strings.ToLower(strings.TrimSpace(code))
		if code != "" && code != defaultLocale {
			codes = append(codes, code)
		}
	}

	tags := make([]language.Tag, 0, len(codes))
	for _, code := range codes {
		tags = append(tags, language.Make(code))
	}

	return &LocaleRewriter{
		codes:         codes,
		matcher:       language.NewMatcher(tags),
		defaultLocale: defaultLocale,
		cookieName:    cookieName,
	}
}

// Locales returns the supported locale codes, default first.
func (l *LocaleRewriter) Locales() []string {
	return append([]string(nil), l.codes...)
}

// SplitLocale removes a leading supported-locale segment from path.
// It returns the locale ("" when absent) and the remaining path, which is
// always at least "/".
func (l *LocaleRewriter) SplitLocale(path string) (string, string) {
	trimmed := strings.TrimPrefix(path, "/")
	segment, rest, _ := strings.Cut(trimmed, "/")
	if !l.isSupported(segment) {
		return "", normalizePath(path)
	}
	return segment, "/" + rest
}

// Negotiate picks the locale for r when the URL carries none: the locale
// cookie first, then Accept-Language, then the default.
func (l *LocaleRewriter) Negotiate(r *http.Request) string {
	if l.cookieName != "" {
		if cookie, err := r.Cookie(l.cookieName); err == nil {
			if code := strings.ToLower(strings.TrimSpace(cookie.Value)); l.isSupported(code) {
				return code
			}
		}
	}

	header := r.Header.Get("Accept-Language")
	if header == "" {
		return l.defaultLocale
	}

	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return l.defaultLocale
	}

	_, index, confidence := l.matcher.Match(tags...)
	if confidence == language.No || index < 0 || index >= len(l.codes) {
		return l.defaultLocale
	}
	return l.codes[index]
}

// Rewrite returns the locale-qualified form of a status-page path:
// /<locale>/status-page/<tenant>/<rest>. statusPath must start with
// StatusPagePrefix; urlLocale overrides negotiation when non-empty.
func (l *LocaleRewriter) Rewrite(r *http.Request, urlLocale, statusPath string) string {
	locale := urlLocale
	if !l.isSupported(locale) {
		locale = l.Negotiate(r)
	}

	// the tenant segment must be followed by a slash so the status-page
	// route's catch-all always matches
	tail := strings.TrimPrefix(statusPath, StatusPagePrefix)
	if tail != "" && !strings.Contains(tail, "/") {
		statusPath += "/"
	}

	return "/" + locale + statusPath
}

func (l *LocaleRewriter) isSupported(code string) bool {
	for _, c := range l.codes {
		if c == code {
			return true
		}
	}
	return false
}
