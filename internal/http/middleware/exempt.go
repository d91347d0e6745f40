package middleware

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// PathMatcher decides which request paths bypass the admin gate: the login
// and setup pages, the API namespace (which authenticates per request), and
// static assets. Matching is on the path only, never the query string.
type PathMatcher struct {
	exact      map[string]struct{}
	prefixes   []string
	extensions map[string]struct{}
}

// DefaultPathMatcher covers the routes a browser must reach while logged
// out, plus operational endpoints scraped by infrastructure.
func DefaultPathMatcher() *PathMatcher {
	return NewPathMatcher(
		[]string{"/login", "/setup", "/favicon.ico", "/healthcheck"},
		[]string{"/api/", "/metrics", "/static/", "/assets/"},
		[]string{".svg", ".png", ".jpg", ".jpeg", ".gif", ".webp", ".ico", ".css", ".js", ".map", ".woff", ".woff2"},
	)
}

func NewPathMatcher(exact, prefixes, extensions []string) *PathMatcher {
	m := &PathMatcher{
		exact:      make(map[string]struct{}, len(exact)),
		extensions: make(map[string]struct{}, len(extensions)),
	}
	for _, p := range exact {
		p = strings.TrimSpace(p)
		if p != "" {
			m.exact[p] = struct{}{}
		}
	}
	for _, p := range prefixes {
		p = strings.TrimSpace(p)
		if p != "" {
			m.prefixes = append(m.prefixes, p)
		}
	}
	for _, e := range extensions {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		m.extensions[e] = struct{}{}
	}
	return m
}

// PathMatcherFromFile loads a matcher from a YAML file so deployments can
// extend the exempt list without a rebuild. Defaults apply when path is
// empty.
func PathMatcherFromFile(path string) (*PathMatcher, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return DefaultPathMatcher(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read exempt paths %s: %w", path, err)
	}
	var cfg struct {
		Exact      []string `yaml:"exact"`
		Prefixes   []string `yaml:"prefixes"`
		Extensions []string `yaml:"extensions"`
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parse exempt paths %s: %w", path, err)
	}
	return NewPathMatcher(cfg.Exact, cfg.Prefixes, cfg.Extensions), nil
}

func (m *PathMatcher) Exempt(path string) bool {
	if m == nil || path == "" {
		return false
	}
	if _, ok := m.exact[path]; ok {
		return true
	}
	for _, p := range m.prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	if i := strings.LastIndexByte(path, '.'); i >= 0 {
		if _, ok := m.extensions[strings.ToLower(path[i:])]; ok {
			return true
		}
	}
	return false
}
