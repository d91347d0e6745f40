package middleware

import "testing"

func TestDefaultPathMatcher(t *testing.T) {
	m := DefaultPathMatcher()

	exempt := []string{
		"/login",
		"/setup",
		"/favicon.ico",
		"/healthcheck",
		"/metrics",
		"/api/login",
		"/api/addresses",
		"/static/logo.svg",
		"/assets/app.js",
		"/images/banner.webp",
		"/brand.PNG",
	}
	for _, p := range exempt {
		if !m.Exempt(p) {
			t.Errorf("expected %s to be exempt", p)
		}
	}

	gated := []string{
		"/",
		"/orders",
		"/products",
		"/users",
		"/settings",
		"/login/history", // exact match only, not a prefix
		"/orders.export", // unknown extension
	}
	for _, p := range gated {
		if m.Exempt(p) {
			t.Errorf("expected %s to be gated", p)
		}
	}
}

func TestPathMatcherIgnoresQueryString(t *testing.T) {
	m := DefaultPathMatcher()
	// Matching runs on the path component; a crafted query must not flip
	// the decision either way.
	if m.Exempt("/orders?next=/login") {
		t.Fatal("query content must not make a page exempt")
	}
}

func TestPathMatcherCustomRules(t *testing.T) {
	m := NewPathMatcher([]string{"/public"}, []string{"/docs/"}, []string{"pdf"})
	if !m.Exempt("/public") || !m.Exempt("/docs/intro") || !m.Exempt("/files/manual.pdf") {
		t.Fatal("custom rules not applied")
	}
	if m.Exempt("/private") {
		t.Fatal("unlisted path must stay gated")
	}
}
