package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/samlatif/network/internal/db"
	"github.com/samlatif/network/internal/logger"
	"github.com/samlatif/network/internal/server/middleware"
	"github.com/samlatif/network/internal/types"
	"go.uber.org/zap"
)

// currentUser loads the acting user resolved by the session middleware.
func (s *Server) currentUser(r *http.Request) (*db.User, error) {
	username, ok := middleware.Username(r)
	if !ok {
		return nil, &ErrUnauthenticated{}
	}
	user, err := s.store.GetUserByUsername(r.Context(), username)
	if err != nil {
		return nil, fmt.Errorf("failed to load current user: %w", err)
	}
	if user == nil {
		return nil, &ErrUnauthenticated{}
	}
	return user, nil
}

// handleLogin handles POST /api/auth/login. Login is by username only.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req types.LoginRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, &ErrValidation{Message: "Invalid JSON body."})
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" {
		s.writeError(w, r, &ErrValidation{Field: "username", Message: "Username is required."})
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, r, newValidationError(err))
		return
	}

	user, err := s.store.GetUserByUsername(r.Context(), req.Username)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("failed to look up user: %w", err))
		return
	}
	if user == nil {
		s.writeError(w, r, &ErrUserNotFound{Username: req.Username})
		return
	}

	value, err := s.sessions.EncodeSession(user.Username)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	http.SetCookie(w, s.sessions.cookie(value))

	logger.WithFields(s.log, zap.String(logger.FieldUsername, user.Username)).Info("user logged in")
	s.jsonResponse(w, http.StatusOK, map[string]any{"user": user})
}

// handleLogout handles POST /api/auth/logout
func (s *Server) handleLogout(w http.ResponseWriter, _ *http.Request) {
	http.SetCookie(w, s.sessions.expiredCookie())
	s.jsonResponse(w, http.StatusOK, map[string]bool{"ok": true})
}

// handleMe handles GET /api/me
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := s.currentUser(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"user": user})
}
