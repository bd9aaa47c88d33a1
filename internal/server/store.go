package server

import (
	"context"

	"github.com/google/uuid"
	"github.com/samlatif/network/internal/cvdata"
	"github.com/samlatif/network/internal/db"
	"github.com/samlatif/network/internal/types"
)

// Store is the persistence the API needs. *db.DB implements it; tests use an
// in-memory fake.
type Store interface {
	cvdata.Store

	Ping(ctx context.Context) error

	ListProfiles(ctx context.Context) ([]db.ProfileListing, error)
	GetProfileCounts(ctx context.Context, userID uuid.UUID) (*db.ProfileCounts, error)

	CreatePost(ctx context.Context, authorID uuid.UUID, content string) (*db.Post, error)
	ListFeed(ctx context.Context, limit int) ([]db.Post, error)
	ListPostsByAuthor(ctx context.Context, authorID uuid.UUID, limit int) ([]db.Post, error)

	FindConnectionBetween(ctx context.Context, a, b uuid.UUID) (*db.Connection, error)
	GetConnectionByID(ctx context.Context, id uuid.UUID) (*db.Connection, error)
	CreateConnection(ctx context.Context, requesterID, receiverID uuid.UUID) (*db.Connection, error)
	UpdateConnectionStatus(ctx context.Context, id uuid.UUID, status db.ConnectionStatus) (*db.Connection, error)
	ListConnections(ctx context.Context, userID uuid.UUID) (*db.ConnectionLists, error)

	ListConversations(ctx context.Context, userID uuid.UUID) ([]db.Conversation, error)
	CreateConversation(ctx context.Context, memberIDs ...uuid.UUID) (uuid.UUID, error)
	IsConversationMember(ctx context.Context, conversationID, userID uuid.UUID) (exists, member bool, err error)
	CreateMessage(ctx context.Context, conversationID, senderID uuid.UUID, content string) (*db.Message, error)

	ReplaceTechRows(ctx context.Context, userID uuid.UUID, rows []types.TechRow) error
	ReplaceOverviewStats(ctx context.Context, userID uuid.UUID, stats []types.OverviewStat) error
	ReplaceEducation(ctx context.Context, userID uuid.UUID, entries []types.EducationEntry) error
}

var _ Store = (*db.DB)(nil)
