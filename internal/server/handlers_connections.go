package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/samlatif/network/internal/db"
	"github.com/samlatif/network/internal/types"
)

// requireSelf rejects a ?username= query naming someone other than the current user.
func requireSelf(r *http.Request, user *db.User, what string) error {
	if q := strings.TrimSpace(r.URL.Query().Get("username")); q != "" && q != user.Username {
		return &ErrForbidden{Message: fmt.Sprintf("You can only view your own %s.", what)}
	}
	return nil
}

// handleListConnections handles GET /api/connections
func (s *Server) handleListConnections(w http.ResponseWriter, r *http.Request) {
	user, err := s.currentUser(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := requireSelf(r, user, "connections"); err != nil {
		s.writeError(w, r, err)
		return
	}

	lists, err := s.store.ListConnections(r.Context(), user.ID)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("failed to list connections: %w", err))
		return
	}
	s.jsonResponse(w, http.StatusOK, lists)
}

// handleCreateConnection handles POST /api/connections. An existing
// connection between the pair, in either direction, is returned as is.
func (s *Server) handleCreateConnection(w http.ResponseWriter, r *http.Request) {
	user, err := s.currentUser(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req types.ConnectRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	receiverName := strings.TrimSpace(req.ReceiverUsername)
	if receiverName == user.Username {
		s.writeError(w, r, &ErrValidation{Field: "receiverUsername", Message: "You cannot connect with yourself."})
		return
	}

	receiver, err := s.store.GetUserByUsername(r.Context(), receiverName)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("failed to look up receiver: %w", err))
		return
	}
	if receiver == nil {
		s.writeError(w, r, &ErrUserNotFound{Username: receiverName})
		return
	}

	existing, err := s.store.FindConnectionBetween(r.Context(), user.ID, receiver.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if existing != nil {
		s.jsonResponse(w, http.StatusOK, map[string]any{"connection": existing, "existing": true})
		return
	}

	conn, err := s.store.CreateConnection(r.Context(), user.ID, receiver.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, map[string]any{"connection": conn})
}

// handleUpdateConnection handles PATCH /api/connections. Only the receiver may
// accept or decline.
func (s *Server) handleUpdateConnection(w http.ResponseWriter, r *http.Request) {
	user, err := s.currentUser(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req types.UpdateConnectionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	id, err := uuid.Parse(req.ConnectionID)
	if err != nil {
		s.writeError(w, r, &ErrValidation{Field: "connectionId", Message: "connectionId must be a UUID"})
		return
	}

	conn, err := s.store.GetConnectionByID(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if conn == nil {
		s.writeError(w, r, &ErrNotFound{Resource: "Connection"})
		return
	}
	if conn.ReceiverID != user.ID {
		s.writeError(w, r, &ErrForbidden{Message: "Only the receiver can respond to this request."})
		return
	}

	updated, err := s.store.UpdateConnectionStatus(r.Context(), id, db.ConnectionStatus(req.Status))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if updated == nil {
		s.writeError(w, r, &ErrNotFound{Resource: "Connection"})
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"connection": updated})
}
