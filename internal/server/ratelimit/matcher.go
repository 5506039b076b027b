package ratelimit

import (
	"strings"
)

// MatchEndpoint matches a request path and method to an endpoint configuration.
// Returns the matching EndpointConfig or nil if no match is found.
// Path matching supports prefix matching (e.g., "/companies/" matches "/companies/{id}/profile.pdf")
// and single segment wildcards (e.g., "/companies/*/profile/email").
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	// Health checks are never limited
	if path == "/health" && method == "GET" {
		return &EndpointConfig{}
	}

	for i := range configs {
		if configs[i].Method == method && matchSegments(configs[i].Path, path) {
			return &configs[i]
		}
	}

	// Longest matching prefix wins
	var best *EndpointConfig
	for i := range configs {
		c := &configs[i]
		if c.Method != method || !strings.HasSuffix(c.Path, "/") || !strings.HasPrefix(path, c.Path) {
			continue
		}
		if best == nil || len(c.Path) > len(best.Path) {
			best = c
		}
	}
	return best
}

// matchSegments reports whether path equals pattern, where a "*" segment in
// pattern matches any one non-empty path segment.
func matchSegments(pattern, path string) bool {
	if !strings.Contains(pattern, "*") {
		return pattern == path
	}
	want := strings.Split(pattern, "/")
	got := strings.Split(path, "/")
	if len(want) != len(got) {
		return false
	}
	for i := range want {
		if want[i] == "*" {
			if got[i] == "" {
				return false
			}
			continue
		}
		if want[i] != got[i] {
			return false
		}
	}
	return true
}

// key returns the bucket key component for a request path: the configured
// path for prefix and wildcard rules and the request path otherwise.
func (c *EndpointConfig) key(path string) string {
	if c.Path != "" && (strings.HasSuffix(c.Path, "/") || strings.Contains(c.Path, "*")) {
		return c.Path
	}
	return path
}
