package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/samlatif/network/internal/db"
	"github.com/samlatif/network/internal/types"
)

// handleFeed handles GET /api/feed
func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	posts, err := s.store.ListFeed(r.Context(), db.FeedLimit)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("failed to list feed: %w", err))
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"posts": posts})
}

// handleCreatePost handles POST /api/posts
func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	user, err := s.currentUser(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req types.CreatePostRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		s.writeError(w, r, &ErrValidation{Field: "content", Message: "Post content is required."})
		return
	}

	post, err := s.store.CreatePost(r.Context(), user.ID, content)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("failed to create post: %w", err))
		return
	}
	s.jsonResponse(w, http.StatusCreated, map[string]any{"post": post})
}
