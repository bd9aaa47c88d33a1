package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testDecoder accepts "tok-<username>" values.
type testDecoder struct{}

func (testDecoder) DecodeSession(value string) (string, error) {
	var username string
	if _, err := fmt.Sscanf(value, "tok-%s", &username); err != nil {
		return "", fmt.Errorf("invalid session")
	}
	return username, nil
}

func serve(t *testing.T, fallback string, cookie *http.Cookie) (string, bool) {
	t.Helper()

	var (
		got    string
		gotOK  bool
		called bool
	)
	handler := CurrentUser(testDecoder{}, fallback)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		got, gotOK = Username(r)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/feed", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	require.True(t, called, "handler should always be called")
	assert.Equal(t, http.StatusOK, w.Code)
	return got, gotOK
}

func TestCurrentUser(t *testing.T) {
	tests := []struct {
		name     string
		fallback string
		cookie   *http.Cookie
		want     string
		wantOK   bool
	}{
		{
			name:     "valid cookie",
			fallback: "samlatif",
			cookie:   &http.Cookie{Name: SessionCookieName, Value: "tok-emmachen"},
			want:     "emmachen",
			wantOK:   true,
		},
		{
			name:     "no cookie uses fallback",
			fallback: "samlatif",
			want:     "samlatif",
			wantOK:   true,
		},
		{
			name:     "undecodable cookie uses fallback",
			fallback: "samlatif",
			cookie:   &http.Cookie{Name: SessionCookieName, Value: "garbage"},
			want:     "samlatif",
			wantOK:   true,
		},
		{
			name:   "no cookie and no fallback is anonymous",
			cookie: &http.Cookie{Name: "other", Value: "tok-emmachen"},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := serve(t, tt.fallback, tt.cookie)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUsername_EmptyContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := Username(req)
	assert.False(t, ok)

	req = req.WithContext(WithUsername(context.Background(), ""))
	_, ok = Username(req)
	assert.False(t, ok, "empty username is not an acting user")
}
