// Package middleware provides HTTP middleware for resolving the acting user.
package middleware

import (
	"context"
	"net/http"
	"strings"
)

// SessionCookieName is the cookie that carries the session.
const SessionCookieName = "network_username"

// ContextKey is a typed key for context values to avoid collisions.
type ContextKey string

// usernameKey is the context key for storing the acting username.
const usernameKey ContextKey = "username"

// SessionDecoder turns a session cookie value into a username.
// This allows the middleware to work with signed and unsigned sessions.
type SessionDecoder interface {
	DecodeSession(value string) (string, error)
}

// CurrentUser creates middleware that resolves the acting username from the
// session cookie and adds it to the request context. Requests without a
// usable cookie act as fallback; an empty fallback leaves them anonymous.
func CurrentUser(decoder SessionDecoder, fallback string) func(http.Handler) http.Handler {
	fallback = strings.TrimSpace(fallback)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username := fallback
			if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
				if decoded, err := decoder.DecodeSession(cookie.Value); err == nil && decoded != "" {
					username = decoded
				}
			}

			if username == "" {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUsername(r.Context(), username)))
		})
	}
}

// WithUsername returns a copy of ctx carrying username as the acting user.
func WithUsername(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, usernameKey, username)
}

// Username extracts the acting username from the request context.
func Username(r *http.Request) (string, bool) {
	username, ok := r.Context().Value(usernameKey).(string)
	return username, ok && username != ""
}
