package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const userColumns = `id, username, name, email, headline, location, bio, avatar_url, created_at, updated_at`

func scanUser(row pgx.Row, u *User) error {
	return row.Scan(&u.ID, &u.Username, &u.Name, &u.Email, &u.Headline, &u.Location,
		&u.Bio, &u.AvatarURL, &u.CreatedAt, &u.UpdatedAt)
}

// CreateUser inserts a new user
func (db *DB) CreateUser(ctx context.Context, input *UserCreateInput) (*User, error) {
	var u User
	err := scanUser(db.pool.QueryRow(ctx,
		`INSERT INTO users (username, name, email, headline, location, bio)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+userColumns,
		input.Username, input.Name, input.Email, input.Headline, input.Location, input.Bio,
	), &u)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &u, nil
}

// GetUserByUsername retrieves a user by username. Returns nil, nil if not found.
func (db *DB) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	var u User
	err := scanUser(db.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`,
		username,
	), &u)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user %s: %w", username, err)
	}
	return &u, nil
}

// GetUserByID retrieves a user by ID. Returns nil, nil if not found.
func (db *DB) GetUserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	var u User
	err := scanUser(db.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`,
		id,
	), &u)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

// ListProfiles returns every user, newest first, with post counts
func (db *DB) ListProfiles(ctx context.Context) ([]ProfileListing, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT u.id, u.username, u.name, u.email, u.headline, u.location, u.bio, u.avatar_url,
		        u.created_at, u.updated_at,
		        (SELECT COUNT(*) FROM posts p WHERE p.author_id = u.id)
		 FROM users u
		 ORDER BY u.created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []ProfileListing
	for rows.Next() {
		var p ProfileListing
		if err := rows.Scan(&p.ID, &p.Username, &p.Name, &p.Email, &p.Headline, &p.Location,
			&p.Bio, &p.AvatarURL, &p.CreatedAt, &p.UpdatedAt, &p.PostCount); err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate profiles: %w", err)
	}
	return profiles, nil
}

// GetProfileCounts returns post and connection counters for a user
func (db *DB) GetProfileCounts(ctx context.Context, userID uuid.UUID) (*ProfileCounts, error) {
	var c ProfileCounts
	err := db.pool.QueryRow(ctx,
		`SELECT
		     (SELECT COUNT(*) FROM posts WHERE author_id = $1),
		     (SELECT COUNT(*) FROM connections WHERE requester_id = $1),
		     (SELECT COUNT(*) FROM connections WHERE receiver_id = $1)`,
		userID,
	).Scan(&c.Posts, &c.SentConnections, &c.ReceivedConnections)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile counts: %w", err)
	}
	return &c, nil
}
