package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ListConversations returns the conversations a user belongs to, most recently
// updated first, each with its members and its oldest messages.
func (db *DB) ListConversations(ctx context.Context, userID uuid.UUID) ([]Conversation, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT c.id, c.created_at, c.updated_at
		 FROM conversations c
		 JOIN conversation_members m ON m.conversation_id = c.id
		 WHERE m.user_id = $1
		 ORDER BY c.updated_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	defer rows.Close()

	conversations := []Conversation{}
	index := make(map[uuid.UUID]int)
	var ids []string
	for rows.Next() {
		c := Conversation{Members: []UserSummary{}, Messages: []Message{}}
		if err := rows.Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan conversation: %w", err)
		}
		index[c.ID] = len(conversations)
		ids = append(ids, c.ID.String())
		conversations = append(conversations, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate conversations: %w", err)
	}
	rows.Close()

	if len(conversations) == 0 {
		return conversations, nil
	}

	if err := db.loadConversationMembers(ctx, ids, conversations, index); err != nil {
		return nil, err
	}
	if err := db.loadConversationMessages(ctx, ids, conversations, index); err != nil {
		return nil, err
	}
	return conversations, nil
}

func (db *DB) loadConversationMembers(ctx context.Context, ids []string, conversations []Conversation, index map[uuid.UUID]int) error {
	rows, err := db.pool.Query(ctx,
		`SELECT m.conversation_id, u.username, u.name, u.headline
		 FROM conversation_members m JOIN users u ON u.id = m.user_id
		 WHERE m.conversation_id = ANY($1::uuid[])
		 ORDER BY u.username`,
		ids,
	)
	if err != nil {
		return fmt.Errorf("failed to load conversation members: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var conversationID uuid.UUID
		var member UserSummary
		if err := rows.Scan(&conversationID, &member.Username, &member.Name, &member.Headline); err != nil {
			return fmt.Errorf("failed to scan conversation member: %w", err)
		}
		if i, ok := index[conversationID]; ok {
			conversations[i].Members = append(conversations[i].Members, member)
		}
	}
	return rows.Err()
}

func (db *DB) loadConversationMessages(ctx context.Context, ids []string, conversations []Conversation, index map[uuid.UUID]int) error {
	rows, err := db.pool.Query(ctx,
		`SELECT id, conversation_id, sender_id, content, created_at, username, name
		 FROM (
		     SELECT msg.id, msg.conversation_id, msg.sender_id, msg.content, msg.created_at,
		            u.username, u.name,
		            ROW_NUMBER() OVER (PARTITION BY msg.conversation_id ORDER BY msg.created_at ASC) AS rn
		     FROM messages msg JOIN users u ON u.id = msg.sender_id
		     WHERE msg.conversation_id = ANY($1::uuid[])
		 ) ranked
		 WHERE rn <= $2
		 ORDER BY conversation_id, created_at ASC`,
		ids, conversationMessageLimit,
	)
	if err != nil {
		return fmt.Errorf("failed to load messages: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		m := Message{Sender: &UserSummary{}}
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.SenderID, &m.Content, &m.CreatedAt,
			&m.Sender.Username, &m.Sender.Name); err != nil {
			return fmt.Errorf("failed to scan message: %w", err)
		}
		if i, ok := index[m.ConversationID]; ok {
			conversations[i].Messages = append(conversations[i].Messages, m)
		}
	}
	return rows.Err()
}

// CreateConversation creates a conversation with the given members
func (db *DB) CreateConversation(ctx context.Context, memberIDs ...uuid.UUID) (uuid.UUID, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var id uuid.UUID
	if err := tx.QueryRow(ctx, `INSERT INTO conversations DEFAULT VALUES RETURNING id`).Scan(&id); err != nil {
		return uuid.Nil, fmt.Errorf("failed to create conversation: %w", err)
	}

	for _, memberID := range memberIDs {
		_, err = tx.Exec(ctx,
			`INSERT INTO conversation_members (conversation_id, user_id)
			 VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			id, memberID,
		)
		if err != nil {
			return uuid.Nil, fmt.Errorf("failed to add conversation member: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return id, nil
}

// IsConversationMember reports whether the user belongs to the conversation.
// exists is false when the conversation itself does not exist.
func (db *DB) IsConversationMember(ctx context.Context, conversationID, userID uuid.UUID) (exists, member bool, err error) {
	err = db.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM conversation_members WHERE conversation_id = $1 AND user_id = $2)
		 FROM conversations WHERE id = $1`,
		conversationID, userID,
	).Scan(&member)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, false, nil
		}
		return false, false, fmt.Errorf("failed to check conversation membership: %w", err)
	}
	return true, member, nil
}

// CreateMessage appends a message to a conversation and bumps its update time
func (db *DB) CreateMessage(ctx context.Context, conversationID, senderID uuid.UUID, content string) (*Message, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	m := Message{Sender: &UserSummary{}}
	err = tx.QueryRow(ctx,
		`WITH inserted AS (
		     INSERT INTO messages (conversation_id, sender_id, content) VALUES ($1, $2, $3)
		     RETURNING id, conversation_id, sender_id, content, created_at
		 )
		 SELECT i.id, i.conversation_id, i.sender_id, i.content, i.created_at, u.username, u.name
		 FROM inserted i JOIN users u ON u.id = i.sender_id`,
		conversationID, senderID, content,
	).Scan(&m.ID, &m.ConversationID, &m.SenderID, &m.Content, &m.CreatedAt,
		&m.Sender.Username, &m.Sender.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}

	if _, err := tx.Exec(ctx, `UPDATE conversations SET updated_at = NOW() WHERE id = $1`, conversationID); err != nil {
		return nil, fmt.Errorf("failed to touch conversation: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return &m, nil
}
