package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/samlatif/network/internal/config"
	"github.com/samlatif/network/internal/db"
	"github.com/samlatif/network/internal/server/middleware"
	"github.com/samlatif/network/internal/server/ratelimit"
	"github.com/samlatif/network/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func intPtr(v int) *int { return &v }

// testShared is a small dataset: one current React job, one pre-2015
// JavaScript job and one React Native job.
func testShared() *types.CVData {
	return &types.CVData{
		OverviewStats: []types.OverviewStat{{Value: "15+", Label: "Years Experience"}},
		Summary:       []string{"Shared summary"},
		TechRows: []types.TechRow{
			{Category: "Frontend", Items: "React, TypeScript, Vue", Years: "8"},
		},
		Skills: []types.SkillTag{
			{Name: "React", Category: types.CategoryCore},
			{Name: "TypeScript", Category: types.CategoryCore},
			{Name: "Jest", Category: types.CategoryTesting},
			{Name: "CSS3 / SCSS / LESS", Category: types.CategoryUI},
		},
		DateBasedStackDefaults: []types.DateBasedStackDefault{{Skill: "jQuery", MaxStartYear: intPtr(2014)}},
		GlobalStackDefaults:    []string{"Git"},
		Testimonials: []types.Testimonial{
			{By: "Shared Person", Quote: "Great at Acme Corp.", Visibility: types.VisibilityPublic},
		},
		Jobs: []types.Job{
			{Company: "Acme Corp", DateRange: "2019 – Present", Stack: []string{"React", "TypeScript"}},
			{Company: "Globex", DateRange: "2012 – 2014", Stack: []string{"JavaScript", "Backbone"}},
			{Company: "Initech", DateRange: "2016 – 2018", Stack: []string{"React Native", "Jest"}},
		},
	}
}

type testEnv struct {
	t     *testing.T
	srv   *Server
	store *fakeStore
	logs  *observer.ObservedLogs
	sam   *db.User
	emma  *db.User
	alex  *db.User
}

func newTestEnv(t *testing.T, mutate ...func(*config.Config)) *testEnv {
	t.Helper()

	cfg := config.Default()
	cfg.DatabaseURL = "postgres://unused"
	for _, m := range mutate {
		m(&cfg)
	}

	store := newFakeStore()
	env := &testEnv{t: t, store: store}
	env.sam = store.addUser("samlatif", "Sam Latif")
	env.emma = store.addUser("emmachen", "Emma Chen")
	env.alex = store.addUser("alexrivera", "Alex Rivera")

	core, logs := observer.New(zap.InfoLevel)
	env.logs = logs

	limiter := ratelimit.NewLimiter(&ratelimit.Config{Enabled: false})
	t.Cleanup(limiter.Stop)
	env.srv = New(&cfg, store, testShared(), zap.New(core), WithRateLimiter(limiter))
	return env
}

// do sends a request through the full middleware chain. A non-empty as logs
// the request in as that user; otherwise the demo user applies.
func (e *testEnv) do(method, path string, body any, as string) *httptest.ResponseRecorder {
	e.t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(e.t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if as != "" {
		value, err := e.srv.sessions.EncodeSession(as)
		require.NoError(e.t, err)
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: value})
	}

	w := httptest.NewRecorder()
	e.srv.Handler().ServeHTTP(w, req)
	return w
}

// doWithCookie sends a bodiless request carrying a raw session cookie value.
func (e *testEnv) doWithCookie(method, path, value string) *httptest.ResponseRecorder {
	e.t.Helper()
	req := httptest.NewRequest(method, path, nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: value})
	w := httptest.NewRecorder()
	e.srv.Handler().ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "body: %s", w.Body.String())
	return out
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	return decodeBody[map[string]any](t, w)["error"].(string)
}

func TestHealthEndpoint(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decodeBody[map[string]string](t, w)["status"])

	env.store.pingErr = errors.New("connection refused")
	w = env.do(http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "unavailable", decodeBody[map[string]string](t, w)["status"])
}

func TestCORS(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name        string
		method      string
		path        string
		origin      string
		wantOrigin  string
		wantMethods string
		wantStatus  int
	}{
		{
			name:        "allowed origin is echoed",
			method:      http.MethodGet,
			path:        "/api/cv/samlatif",
			origin:      "http://localhost:5173",
			wantOrigin:  "http://localhost:5173",
			wantMethods: "GET,OPTIONS",
			wantStatus:  http.StatusOK,
		},
		{
			name:        "unknown origin gets wildcard",
			method:      http.MethodGet,
			path:        "/api/cv/samlatif",
			origin:      "https://evil.example",
			wantOrigin:  "*",
			wantMethods: "GET,OPTIONS",
			wantStatus:  http.StatusOK,
		},
		{
			name:        "preflight",
			method:      http.MethodOptions,
			path:        "/api/cv/samlatif",
			origin:      "https://samlatif.uk",
			wantOrigin:  "https://samlatif.uk",
			wantMethods: "GET,OPTIONS",
			wantStatus:  http.StatusNoContent,
		},
		{
			name:        "api writes advertise write methods",
			method:      http.MethodOptions,
			path:        "/api/posts",
			wantOrigin:  "*",
			wantMethods: "GET,POST,PATCH,OPTIONS",
			wantStatus:  http.StatusNoContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			w := httptest.NewRecorder()
			env.srv.Handler().ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantOrigin, w.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, tt.wantMethods, w.Header().Get("Access-Control-Allow-Methods"))
			assert.Equal(t, "Content-Type", w.Header().Get("Access-Control-Allow-Headers"))
			assert.Contains(t, w.Header().Values("Vary"), "Origin")
		})
	}
}

func TestRateLimit(t *testing.T) {
	env := newTestEnv(t)
	limiter := ratelimit.NewLimiter(&ratelimit.Config{
		Enabled:       true,
		DefaultLimit:  2,
		DefaultWindow: time.Minute,
	})
	defer limiter.Stop()
	env.srv = New(env.srv.config, env.store, testShared(), zap.New(env.srv.log.Core()), WithRateLimiter(limiter))

	for i := 0; i < 2; i++ {
		w := env.do(http.MethodGet, "/api/feed", nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	}

	w := env.do(http.MethodGet, "/api/feed", nil, "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Contains(t, errorMessage(t, w), "Rate limit exceeded")
	assert.Equal(t, 1, env.logs.FilterMessage("rate limit exceeded").Len())

	// Health checks are never limited
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/health", nil, "").Code)
	}
}

func TestRequestLogging(t *testing.T) {
	env := newTestEnv(t)

	env.do(http.MethodGet, "/api/profiles/nobody", nil, "")

	entries := env.logs.FilterMessage("request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "GET", fields["method"])
	assert.Equal(t, "/api/profiles/nobody", fields["path"])
	assert.EqualValues(t, http.StatusNotFound, fields["status"])
}

func TestUnknownRoute(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/api/nope", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(http.MethodDelete, "/api/feed", nil, "")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestInternalErrorsAreNotLeaked(t *testing.T) {
	env := newTestEnv(t)
	req := httptest.NewRequest(http.MethodGet, "/api/feed", nil)
	w := httptest.NewRecorder()

	env.srv.writeError(w, req, errors.New("pq: password authentication failed"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal server error", errorMessage(t, w))
	assert.Equal(t, 1, env.logs.FilterMessage("request failed").Len())
}
