package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/samlatif/network/internal/types"
)

// handleListConversations handles GET /api/messages
func (s *Server) handleListConversations(w http.ResponseWriter, r *http.Request) {
	user, err := s.currentUser(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := requireSelf(r, user, "messages"); err != nil {
		s.writeError(w, r, err)
		return
	}

	conversations, err := s.store.ListConversations(r.Context(), user.ID)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("failed to list conversations: %w", err))
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"conversations": conversations})
}

// handleSendMessage handles POST /api/messages. Without a conversation id a
// new conversation between sender and recipient is started.
func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	user, err := s.currentUser(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req types.SendMessageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		s.writeError(w, r, &ErrValidation{Field: "content", Message: "Message content is required."})
		return
	}

	recipientName := strings.TrimSpace(req.RecipientUsername)
	recipient, err := s.store.GetUserByUsername(r.Context(), recipientName)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("failed to look up recipient: %w", err))
		return
	}
	if recipient == nil {
		s.writeError(w, r, &ErrUserNotFound{Username: recipientName})
		return
	}

	var conversationID uuid.UUID
	if req.ConversationID != "" {
		conversationID, err = uuid.Parse(req.ConversationID)
		if err != nil {
			s.writeError(w, r, &ErrValidation{Field: "conversationId", Message: "conversationId must be a UUID"})
			return
		}
		exists, member, err := s.store.IsConversationMember(r.Context(), conversationID, user.ID)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		if !exists {
			s.writeError(w, r, &ErrNotFound{Resource: "Conversation"})
			return
		}
		if !member {
			s.writeError(w, r, &ErrForbidden{Message: "You are not a member of this conversation."})
			return
		}
	} else {
		conversationID, err = s.store.CreateConversation(r.Context(), user.ID, recipient.ID)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	message, err := s.store.CreateMessage(r.Context(), conversationID, user.ID, content)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, map[string]any{"message": message})
}
