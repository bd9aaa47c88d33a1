package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/errgroup"
)

const connectionSelect = `
	SELECT c.id, c.requester_id, c.receiver_id, c.status, c.created_at, c.updated_at,
	       rq.username, rq.name, rc.username, rc.name
	FROM connections c
	JOIN users rq ON rq.id = c.requester_id
	JOIN users rc ON rc.id = c.receiver_id`

func scanConnection(row pgx.Row, c *Connection) error {
	c.Requester = &UserSummary{}
	c.Receiver = &UserSummary{}
	return row.Scan(&c.ID, &c.RequesterID, &c.ReceiverID, &c.Status, &c.CreatedAt, &c.UpdatedAt,
		&c.Requester.Username, &c.Requester.Name, &c.Receiver.Username, &c.Receiver.Name)
}

// FindConnectionBetween returns the connection between two users in either
// direction. Returns nil, nil if none exists.
func (db *DB) FindConnectionBetween(ctx context.Context, a, b uuid.UUID) (*Connection, error) {
	var c Connection
	err := scanConnection(db.pool.QueryRow(ctx,
		connectionSelect+`
		 WHERE (c.requester_id = $1 AND c.receiver_id = $2)
		    OR (c.requester_id = $2 AND c.receiver_id = $1)
		 LIMIT 1`,
		a, b,
	), &c)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find connection: %w", err)
	}
	return &c, nil
}

// GetConnectionByID retrieves a connection. Returns nil, nil if not found.
func (db *DB) GetConnectionByID(ctx context.Context, id uuid.UUID) (*Connection, error) {
	var c Connection
	err := scanConnection(db.pool.QueryRow(ctx, connectionSelect+` WHERE c.id = $1`, id), &c)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get connection: %w", err)
	}
	return &c, nil
}

// CreateConnection creates a pending connection request
func (db *DB) CreateConnection(ctx context.Context, requesterID, receiverID uuid.UUID) (*Connection, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO connections (requester_id, receiver_id, status)
		 VALUES ($1, $2, $3)
		 RETURNING id`,
		requesterID, receiverID, ConnectionPending,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection: %w", err)
	}
	return db.GetConnectionByID(ctx, id)
}

// CreateConnectionWithStatus creates a connection in a given state
func (db *DB) CreateConnectionWithStatus(ctx context.Context, requesterID, receiverID uuid.UUID, status ConnectionStatus) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO connections (requester_id, receiver_id, status) VALUES ($1, $2, $3)`,
		requesterID, receiverID, status,
	)
	if err != nil {
		return fmt.Errorf("failed to create connection: %w", err)
	}
	return nil
}

// UpdateConnectionStatus sets the status of a connection and returns it.
// Returns nil, nil if the connection does not exist.
func (db *DB) UpdateConnectionStatus(ctx context.Context, id uuid.UUID, status ConnectionStatus) (*Connection, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid connection status %q", status)
	}
	tag, err := db.pool.Exec(ctx,
		`UPDATE connections SET status = $1, updated_at = NOW() WHERE id = $2`,
		status, id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update connection: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, nil
	}
	return db.GetConnectionByID(ctx, id)
}

// ListConnections returns the user's incoming and outgoing pending requests
// (newest first) and accepted connections (most recently updated first).
func (db *DB) ListConnections(ctx context.Context, userID uuid.UUID) (*ConnectionLists, error) {
	lists := &ConnectionLists{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		lists.Incoming, err = db.queryConnections(gctx,
			connectionSelect+` WHERE c.receiver_id = $1 AND c.status = $2 ORDER BY c.created_at DESC`,
			userID, ConnectionPending)
		return err
	})
	g.Go(func() error {
		var err error
		lists.Outgoing, err = db.queryConnections(gctx,
			connectionSelect+` WHERE c.requester_id = $1 AND c.status = $2 ORDER BY c.created_at DESC`,
			userID, ConnectionPending)
		return err
	})
	g.Go(func() error {
		var err error
		lists.Accepted, err = db.queryConnections(gctx,
			connectionSelect+` WHERE (c.requester_id = $1 OR c.receiver_id = $1) AND c.status = $2
			 ORDER BY c.updated_at DESC`,
			userID, ConnectionAccepted)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return lists, nil
}

func (db *DB) queryConnections(ctx context.Context, sql string, args ...any) ([]Connection, error) {
	rows, err := db.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list connections: %w", err)
	}
	defer rows.Close()

	connections := []Connection{}
	for rows.Next() {
		var c Connection
		if err := scanConnection(rows, &c); err != nil {
			return nil, fmt.Errorf("failed to scan connection: %w", err)
		}
		connections = append(connections, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate connections: %w", err)
	}
	return connections, nil
}
