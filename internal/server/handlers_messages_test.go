package server

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/samlatif/network/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendMessage_StartsConversation(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/api/messages", map[string]string{
		"recipientUsername": "emmachen",
		"content":           " Hi Emma ",
	}, "samlatif")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	msg := decodeBody[map[string]db.Message](t, w)["message"]
	assert.Equal(t, "Hi Emma", msg.Content)
	assert.Equal(t, env.sam.ID, msg.SenderID)
	require.Len(t, env.store.conversations, 1)

	// Reply into the same conversation
	w = env.do(http.MethodPost, "/api/messages", map[string]string{
		"recipientUsername": "samlatif",
		"content":           "Hello!",
		"conversationId":    msg.ConversationID.String(),
	}, "emmachen")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Len(t, env.store.conversations, 1)

	w = env.do(http.MethodGet, "/api/messages", nil, "emmachen")
	require.Equal(t, http.StatusOK, w.Code)
	conversations := decodeBody[map[string][]db.Conversation](t, w)["conversations"]
	require.Len(t, conversations, 1)
	require.Len(t, conversations[0].Messages, 2)
	assert.Equal(t, "Hi Emma", conversations[0].Messages[0].Content, "oldest first")
	assert.Len(t, conversations[0].Members, 2)
}

func TestSendMessage_Errors(t *testing.T) {
	env := newTestEnv(t)
	private, err := env.store.CreateConversation(t.Context(), env.emma.ID, env.alex.ID)
	require.NoError(t, err)

	tests := []struct {
		name       string
		body       map[string]string
		wantStatus int
		wantError  string
	}{
		{
			name:       "missing recipient",
			body:       map[string]string{"content": "hi"},
			wantStatus: http.StatusBadRequest,
			wantError:  "recipientUsername is required",
		},
		{
			name:       "blank content",
			body:       map[string]string{"recipientUsername": "emmachen", "content": "  "},
			wantStatus: http.StatusBadRequest,
			wantError:  "Message content is required.",
		},
		{
			name:       "unknown recipient",
			body:       map[string]string{"recipientUsername": "ghost", "content": "hi"},
			wantStatus: http.StatusNotFound,
			wantError:  "User not found.",
		},
		{
			name:       "unknown conversation",
			body:       map[string]string{"recipientUsername": "emmachen", "content": "hi", "conversationId": uuid.NewString()},
			wantStatus: http.StatusNotFound,
			wantError:  "Conversation not found.",
		},
		{
			name:       "not a member",
			body:       map[string]string{"recipientUsername": "emmachen", "content": "hi", "conversationId": private.String()},
			wantStatus: http.StatusForbidden,
			wantError:  "You are not a member of this conversation.",
		},
		{
			name:       "malformed conversation id",
			body:       map[string]string{"recipientUsername": "emmachen", "content": "hi", "conversationId": "abc"},
			wantStatus: http.StatusBadRequest,
			wantError:  "conversationID must be a UUID",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(http.MethodPost, "/api/messages", tt.body, "samlatif")
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantError, errorMessage(t, w))
		})
	}
}

func TestListConversations(t *testing.T) {
	env := newTestEnv(t)
	older, err := env.store.CreateConversation(t.Context(), env.sam.ID, env.emma.ID)
	require.NoError(t, err)
	newer, err := env.store.CreateConversation(t.Context(), env.sam.ID, env.alex.ID)
	require.NoError(t, err)
	for i := 0; i < 12; i++ {
		_, err := env.store.CreateMessage(t.Context(), older, env.sam.ID, fmt.Sprintf("m%d", i))
		require.NoError(t, err)
	}
	_, err = env.store.CreateMessage(t.Context(), newer, env.alex.ID, "latest")
	require.NoError(t, err)

	w := env.do(http.MethodGet, "/api/messages", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	conversations := decodeBody[map[string][]db.Conversation](t, w)["conversations"]
	require.Len(t, conversations, 2)
	assert.Equal(t, newer, conversations[0].ID, "most recently updated first")
	assert.Len(t, conversations[1].Messages, 10)
	assert.Equal(t, "m0", conversations[1].Messages[0].Content)

	w = env.do(http.MethodGet, "/api/messages?username=alexrivera", nil, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "You can only view your own messages.", errorMessage(t, w))

	w = env.do(http.MethodGet, "/api/messages", nil, "emmachen")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody[map[string][]db.Conversation](t, w)["conversations"], 1)
}
