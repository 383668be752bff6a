package dispatch

import (
	"net"
	"strings"
)

// HostClassifier maps a Host header to the tenant it addresses, if any.
// A tenant is either a subdomain slug of the canonical domain or a whole
// custom domain.
type HostClassifier struct {
	canonicalDomain string
	previewSuffix   string
	tunnelMarker    string
}

// NewHostClassifier creates a classifier for the given platform domains.
func NewHostClassifier(canonicalDomain, previewSuffix, tunnelMarker string) HostClassifier {
	return HostClassifier{
		canonicalDomain: normalizeHost(canonicalDomain),
		previewSuffix:   strings.ToLower(strings.TrimSpace(previewSuffix)),
		tunnelMarker:    strings.ToLower(strings.TrimSpace(tunnelMarker)),
	}
}

// Classify returns the tenant identifier for host and whether one was found.
//
// Rules are applied in order and the last one that fires wins:
//  1. an empty host has no tenant;
//  2. a dotted, non-preview host whose leftmost label is not "www" yields
//     that label as a slug candidate;
//  3. a tunnel host never has a tenant;
//  4. a dotted host outside the canonical and preview domains is a custom
//     domain and the whole host becomes the tenant.
//
// The bare canonical domain is the platform itself, never a tenant.
func (h HostClassifier) Classify(host string) (string, bool) {
	host = normalizeHost(host)
	if host == "" || !strings.Contains(host, ".") {
		return "", false
	}

	preview := h.isPreview(host)

	var tenant string
	if !preview && host != h.canonicalDomain {
		if label := host[:strings.Index(host, ".")]; label != "" && label != "www" {
			tenant = label
		}
	}

	if h.tunnelMarker != "" && strings.Contains(host, h.tunnelMarker) {
		return "", false
	}

	if !preview && (h.canonicalDomain == "" || !strings.Contains(host, h.canonicalDomain)) {
		tenant = host
	}

	return tenant, tenant != ""
}

func (h HostClassifier) isPreview(host string) bool {
	return h.previewSuffix != "" && strings.HasSuffix(host, h.previewSuffix)
}

// normalizeHost lower-cases host and strips any port.
func normalizeHost(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	if host == "" {
		return ""
	}
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	return host
}
