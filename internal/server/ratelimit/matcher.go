package ratelimit

import (
	"net/http"
	"strings"
)

// unlimited is returned for endpoints that are never rate limited.
var unlimited = EndpointConfig{}

// MatchEndpoint matches a request path and method to an endpoint configuration.
// Returns nil if no configuration matches. Exact paths win over prefixes; a
// configured path ending in "/" matches every path below it.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	if path == "/health" && method == http.MethodGet {
		u := unlimited
		return &u
	}
	// Preflights are answered by the CORS layer and never counted
	if method == http.MethodOptions {
		u := unlimited
		return &u
	}

	for i := range configs {
		if configs[i].Path == path && configs[i].Method == method {
			return &configs[i]
		}
	}

	for i := range configs {
		config := &configs[i]
		if config.Method == method && strings.HasSuffix(config.Path, "/") && strings.HasPrefix(path, config.Path) {
			return config
		}
	}

	return nil
}
