package server

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/samlatif/network/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePostAndFeed(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/api/posts", map[string]string{"content": "  Hello network  "}, "emmachen")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	post := decodeBody[map[string]db.Post](t, w)["post"]
	assert.Equal(t, "Hello network", post.Content)
	require.NotNil(t, post.Author)
	assert.Equal(t, "emmachen", post.Author.Username)

	env.do(http.MethodPost, "/api/posts", map[string]string{"content": "Second"}, "alexrivera")

	w = env.do(http.MethodGet, "/api/feed", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	posts := decodeBody[map[string][]db.Post](t, w)["posts"]
	require.Len(t, posts, 2)
	assert.Equal(t, "Second", posts[0].Content, "newest first")
	assert.Equal(t, "Hello network", posts[1].Content)
}

func TestFeed_Limit(t *testing.T) {
	env := newTestEnv(t)
	for i := 0; i < db.FeedLimit+5; i++ {
		_, err := env.store.CreatePost(t.Context(), env.sam.ID, fmt.Sprintf("post %d", i))
		require.NoError(t, err)
	}

	w := env.do(http.MethodGet, "/api/feed", nil, "")
	posts := decodeBody[map[string][]db.Post](t, w)["posts"]
	assert.Len(t, posts, db.FeedLimit)
	assert.Equal(t, fmt.Sprintf("post %d", db.FeedLimit+4), posts[0].Content)
}

func TestFeed_EmptyIsArray(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/api/feed", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"posts":[]}`, w.Body.String())
}

func TestCreatePost_Errors(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name       string
		body       any
		as         string
		wantStatus int
		wantError  string
	}{
		{name: "blank content", body: map[string]string{"content": "   "}, as: "emmachen", wantStatus: http.StatusBadRequest, wantError: "Post content is required."},
		{name: "missing content", body: map[string]string{}, as: "emmachen", wantStatus: http.StatusBadRequest, wantError: "content is required"},
		{name: "unknown session user", body: map[string]string{"content": "hi"}, as: "ghost", wantStatus: http.StatusUnauthorized, wantError: "Unauthorized"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(http.MethodPost, "/api/posts", tt.body, tt.as)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantError, errorMessage(t, w))
		})
	}
}
