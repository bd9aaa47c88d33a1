package db

import (
	"time"

	"github.com/google/uuid"
	"github.com/samlatif/network/internal/types"
)

// User represents a network member profile
type User struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Headline  string    `json:"headline"`
	Location  string    `json:"location"`
	Bio       string    `json:"bio"`
	AvatarURL *string   `json:"avatarUrl"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Summary returns the public identity of the user.
func (u *User) Summary() UserSummary {
	return UserSummary{Username: u.Username, Name: u.Name, Headline: u.Headline}
}

// UserCreateInput contains the fields needed to create a user
type UserCreateInput struct {
	Username string
	Name     string
	Email    string
	Headline string
	Location string
	Bio      string
}

// UserSummary is the author/participant view of a user embedded in other records
type UserSummary struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Headline string `json:"headline,omitempty"`
}

// ProfileListing is a user with its post count, as shown in the people directory
type ProfileListing struct {
	User
	PostCount int `json:"postCount"`
}

// ProfileCounts aggregates the activity counters shown on a profile page
type ProfileCounts struct {
	Posts               int `json:"posts"`
	SentConnections     int `json:"sentConnections"`
	ReceivedConnections int `json:"receivedConnections"`
}

// Post is a feed entry
type Post struct {
	ID        uuid.UUID    `json:"id"`
	AuthorID  uuid.UUID    `json:"authorId"`
	Content   string       `json:"content"`
	CreatedAt time.Time    `json:"createdAt"`
	Author    *UserSummary `json:"author,omitempty"`
}

// ConnectionStatus is the state of a connection request
type ConnectionStatus string

// Connection statuses
const (
	ConnectionPending  ConnectionStatus = "PENDING"
	ConnectionAccepted ConnectionStatus = "ACCEPTED"
	ConnectionDeclined ConnectionStatus = "DECLINED"
)

// IsValid reports whether s is a known status.
func (s ConnectionStatus) IsValid() bool {
	switch s {
	case ConnectionPending, ConnectionAccepted, ConnectionDeclined:
		return true
	}
	return false
}

// Connection is a directed connection request between two users
type Connection struct {
	ID          uuid.UUID        `json:"id"`
	RequesterID uuid.UUID        `json:"requesterId"`
	ReceiverID  uuid.UUID        `json:"receiverId"`
	Status      ConnectionStatus `json:"status"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
	Requester   *UserSummary     `json:"requester,omitempty"`
	Receiver    *UserSummary     `json:"receiver,omitempty"`
}

// ConnectionLists groups a user's connections for the connections page
type ConnectionLists struct {
	Incoming []Connection `json:"incoming"`
	Outgoing []Connection `json:"outgoing"`
	Accepted []Connection `json:"accepted"`
}

// Conversation is a message thread with its members and first messages
type Conversation struct {
	ID        uuid.UUID     `json:"id"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
	Members   []UserSummary `json:"members"`
	Messages  []Message     `json:"messages"`
}

// Message is a single chat message
type Message struct {
	ID             uuid.UUID    `json:"id"`
	ConversationID uuid.UUID    `json:"conversationId"`
	SenderID       uuid.UUID    `json:"senderId"`
	Content        string       `json:"content"`
	CreatedAt      time.Time    `json:"createdAt"`
	Sender         *UserSummary `json:"sender,omitempty"`
}

// Recommendation is a testimonial written for a user
type Recommendation struct {
	ID                uuid.UUID `json:"id"`
	RecipientID       uuid.UUID `json:"recipientId"`
	RecommenderName   string    `json:"recommenderName"`
	RecommenderRole   string    `json:"recommenderRole"`
	RelationshipLabel string    `json:"relationshipLabel"`
	Content           string    `json:"content"`
	RecommendationAt  time.Time `json:"recommendationAt"`
	IsPublic          bool      `json:"isPublic"`
}

// CVRows holds the CV sections a user has stored. Empty sections mean the
// shared dataset should be used instead.
type CVRows struct {
	TechRows      []types.TechRow        `json:"techRows"`
	OverviewStats []types.OverviewStat   `json:"overviewStats"`
	Education     []types.EducationEntry `json:"education"`
	Skills        []types.SkillTag       `json:"skills"`
	Jobs          []types.Job            `json:"jobs"`
}

// conversationMessageLimit is the number of messages loaded per conversation.
const conversationMessageLimit = 10

// Feed and profile page sizes
const (
	FeedLimit        = 30
	ProfilePostLimit = 20
)
