package dispatch

import "testing"

func TestHostClassifierClassify(t *testing.T) {
	h := NewHostClassifier("openstatus.dev", ".vercel.app", "ngrok-free.app")

	cases := []struct {
		host   string
		tenant string
	}{
		{host: "", tenant: ""},
		{host: "localhost", tenant: ""},
		{host: "localhost:3000", tenant: ""},
		{host: "openstatus.dev", tenant: ""},
		{host: "www.openstatus.dev", tenant: ""},
		{host: "openstatus-git-main.vercel.app", tenant: ""},
		{host: "abc123.ngrok-free.app", tenant: ""},
		{host: "acme.openstatus.dev", tenant: "acme"},
		{host: "ACME.openstatus.dev:443", tenant: "acme"},
		{host: "status.acme.com", tenant: "status.acme.com"},
		{host: "www.acme.com", tenant: "www.acme.com"},
		{host: "status.acme.com:8443", tenant: "status.acme.com"},
	}

	for _, tc := range cases {
		tenant, ok := h.Classify(tc.host)
		if tenant != tc.tenant {
			t.Fatalf("Classify(%q) = %q, want %q", tc.host, tenant, tc.tenant)
		}
		if ok != (tc.tenant != "") {
			t.Fatalf("Classify(%q) ok = %v, want %v", tc.host, ok, tc.tenant != "")
		}
	}
}

func TestHostClassifierHostsWithoutDotNeverYieldTenant(t *testing.T) {
	h := NewHostClassifier("openstatus.dev", ".vercel.app", "ngrok-free.app")

	for _, host := range []string{"localhost", "intranet", "acme", "acme:8080", "[::1]:3000"} {
		if tenant, ok := h.Classify(host); ok {
			t.Fatalf("expected no tenant for %q, got %q", host, tenant)
		}
	}
}

func TestHostClassifierCustomDomainOverridesSubdomain(t *testing.T) {
	h := NewHostClassifier("openstatus.dev", ".vercel.app", "ngrok-free.app")

	tenant, ok := h.Classify("status.documenso.com")
	if !ok || tenant != "status.documenso.com" {
		t.Fatalf("expected whole host as tenant, got %q", tenant)
	}
}

func TestHostClassifierTunnelOverridesCustomDomain(t *testing.T) {
	h := NewHostClassifier("openstatus.dev", ".vercel.app", "ngrok-free.app")

	if tenant, ok := h.Classify("acme.ngrok-free.app"); ok {
		t.Fatalf("tunnel host should not be a tenant, got %q", tenant)
	}
}
