package server

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samlatif/network/internal/db"
	"github.com/samlatif/network/internal/types"
)

// fakeStore is an in-memory Store.
type fakeStore struct {
	mu            sync.Mutex
	users         map[string]*db.User
	posts         []db.Post
	connections   map[uuid.UUID]*db.Connection
	conversations map[uuid.UUID]*fakeConversation
	recs          map[string][]db.Recommendation
	cvRows        map[uuid.UUID]*db.CVRows
	pingErr       error
	clock         time.Time
}

type fakeConversation struct {
	id        uuid.UUID
	members   []uuid.UUID
	messages  []db.Message
	updatedAt time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:         make(map[string]*db.User),
		connections:   make(map[uuid.UUID]*db.Connection),
		conversations: make(map[uuid.UUID]*fakeConversation),
		recs:          make(map[string][]db.Recommendation),
		cvRows:        make(map[uuid.UUID]*db.CVRows),
		clock:         time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
	}
}

// tick returns a strictly increasing timestamp.
func (f *fakeStore) tick() time.Time {
	f.clock = f.clock.Add(time.Minute)
	return f.clock
}

func (f *fakeStore) addUser(username, name string) *db.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := f.tick()
	u := &db.User{
		ID:        uuid.New(),
		Username:  username,
		Name:      name,
		Email:     username + "@example.com",
		Headline:  name + " headline",
		Bio:       name + " bio",
		CreatedAt: now,
		UpdatedAt: now,
	}
	f.users[username] = u
	return u
}

func (f *fakeStore) userByID(id uuid.UUID) *db.User {
	for _, u := range f.users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

func (f *fakeStore) summary(id uuid.UUID) *db.UserSummary {
	if u := f.userByID(id); u != nil {
		s := u.Summary()
		return &s
	}
	return nil
}

func (f *fakeStore) Ping(context.Context) error { return f.pingErr }

func (f *fakeStore) GetUserByUsername(_ context.Context, username string) (*db.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.users[username], nil
}

func (f *fakeStore) ListRecommendationsByUsername(_ context.Context, username string) ([]db.Recommendation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.recs[username], nil
}

func (f *fakeStore) GetCVRows(_ context.Context, userID uuid.UUID) (*db.CVRows, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if rows, ok := f.cvRows[userID]; ok {
		copied := *rows
		return &copied, nil
	}
	return &db.CVRows{}, nil
}

func (f *fakeStore) ListProfiles(context.Context) ([]db.ProfileListing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]db.ProfileListing, 0, len(f.users))
	for _, u := range f.users {
		count := 0
		for _, p := range f.posts {
			if p.AuthorID == u.ID {
				count++
			}
		}
		out = append(out, db.ProfileListing{User: *u, PostCount: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeStore) GetProfileCounts(_ context.Context, userID uuid.UUID) (*db.ProfileCounts, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := &db.ProfileCounts{}
	for _, p := range f.posts {
		if p.AuthorID == userID {
			counts.Posts++
		}
	}
	for _, c := range f.connections {
		if c.RequesterID == userID {
			counts.SentConnections++
		}
		if c.ReceiverID == userID {
			counts.ReceivedConnections++
		}
	}
	return counts, nil
}

func (f *fakeStore) CreatePost(_ context.Context, authorID uuid.UUID, content string) (*db.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := db.Post{
		ID:        uuid.New(),
		AuthorID:  authorID,
		Content:   content,
		CreatedAt: f.tick(),
		Author:    f.summary(authorID),
	}
	f.posts = append(f.posts, p)
	return &p, nil
}

func (f *fakeStore) newestPosts(limit int, keep func(db.Post) bool) []db.Post {
	out := []db.Post{}
	for i := len(f.posts) - 1; i >= 0 && len(out) < limit; i-- {
		if keep(f.posts[i]) {
			out = append(out, f.posts[i])
		}
	}
	return out
}

func (f *fakeStore) ListFeed(_ context.Context, limit int) ([]db.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.newestPosts(limit, func(db.Post) bool { return true }), nil
}

func (f *fakeStore) ListPostsByAuthor(_ context.Context, authorID uuid.UUID, limit int) ([]db.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.newestPosts(limit, func(p db.Post) bool { return p.AuthorID == authorID }), nil
}

func (f *fakeStore) FindConnectionBetween(_ context.Context, a, b uuid.UUID) (*db.Connection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.connections {
		if (c.RequesterID == a && c.ReceiverID == b) || (c.RequesterID == b && c.ReceiverID == a) {
			copied := *c
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) GetConnectionByID(_ context.Context, id uuid.UUID) (*db.Connection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.connections[id]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeStore) addConnection(requesterID, receiverID uuid.UUID, status db.ConnectionStatus) *db.Connection {
	now := f.tick()
	c := &db.Connection{
		ID:          uuid.New(),
		RequesterID: requesterID,
		ReceiverID:  receiverID,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
		Requester:   f.summary(requesterID),
		Receiver:    f.summary(receiverID),
	}
	f.connections[c.ID] = c
	return c
}

func (f *fakeStore) CreateConnection(_ context.Context, requesterID, receiverID uuid.UUID) (*db.Connection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *f.addConnection(requesterID, receiverID, db.ConnectionPending)
	return &copied, nil
}

func (f *fakeStore) UpdateConnectionStatus(_ context.Context, id uuid.UUID, status db.ConnectionStatus) (*db.Connection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.connections[id]
	if !ok {
		return nil, nil
	}
	c.Status = status
	c.UpdatedAt = f.tick()
	copied := *c
	return &copied, nil
}

func (f *fakeStore) ListConnections(_ context.Context, userID uuid.UUID) (*db.ConnectionLists, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	lists := &db.ConnectionLists{Incoming: []db.Connection{}, Outgoing: []db.Connection{}, Accepted: []db.Connection{}}
	for _, c := range f.connections {
		switch {
		case c.Status == db.ConnectionPending && c.ReceiverID == userID:
			lists.Incoming = append(lists.Incoming, *c)
		case c.Status == db.ConnectionPending && c.RequesterID == userID:
			lists.Outgoing = append(lists.Outgoing, *c)
		case c.Status == db.ConnectionAccepted && (c.RequesterID == userID || c.ReceiverID == userID):
			lists.Accepted = append(lists.Accepted, *c)
		}
	}
	return lists, nil
}

func (f *fakeStore) ListConversations(_ context.Context, userID uuid.UUID) ([]db.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []db.Conversation{}
	for _, conv := range f.conversations {
		if !containsID(conv.members, userID) {
			continue
		}
		c := db.Conversation{ID: conv.id, UpdatedAt: conv.updatedAt, Members: []db.UserSummary{}}
		for _, m := range conv.members {
			c.Members = append(c.Members, *f.summary(m))
		}
		c.Messages = conv.messages[:min(len(conv.messages), 10)]
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (f *fakeStore) CreateConversation(_ context.Context, memberIDs ...uuid.UUID) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	conv := &fakeConversation{id: uuid.New(), updatedAt: f.tick()}
	for _, id := range memberIDs {
		if !containsID(conv.members, id) {
			conv.members = append(conv.members, id)
		}
	}
	f.conversations[conv.id] = conv
	return conv.id, nil
}

func (f *fakeStore) IsConversationMember(_ context.Context, conversationID, userID uuid.UUID) (bool, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	conv, ok := f.conversations[conversationID]
	if !ok {
		return false, false, nil
	}
	return true, containsID(conv.members, userID), nil
}

func (f *fakeStore) CreateMessage(_ context.Context, conversationID, senderID uuid.UUID, content string) (*db.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	conv := f.conversations[conversationID]
	m := db.Message{
		ID:             uuid.New(),
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        content,
		CreatedAt:      f.tick(),
		Sender:         f.summary(senderID),
	}
	conv.messages = append(conv.messages, m)
	conv.updatedAt = m.CreatedAt
	return &m, nil
}

func (f *fakeStore) rowsFor(userID uuid.UUID) *db.CVRows {
	rows, ok := f.cvRows[userID]
	if !ok {
		rows = &db.CVRows{}
		f.cvRows[userID] = rows
	}
	return rows
}

func (f *fakeStore) ReplaceTechRows(_ context.Context, userID uuid.UUID, rows []types.TechRow) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rowsFor(userID).TechRows = rows
	return nil
}

func (f *fakeStore) ReplaceOverviewStats(_ context.Context, userID uuid.UUID, stats []types.OverviewStat) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rowsFor(userID).OverviewStats = stats
	return nil
}

func (f *fakeStore) ReplaceEducation(_ context.Context, userID uuid.UUID, entries []types.EducationEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rowsFor(userID).Education = entries
	return nil
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

var _ Store = (*fakeStore)(nil)
