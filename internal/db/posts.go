package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CreatePost inserts a post and returns it with its author
func (db *DB) CreatePost(ctx context.Context, authorID uuid.UUID, content string) (*Post, error) {
	p := Post{Author: &UserSummary{}}
	err := db.pool.QueryRow(ctx,
		`WITH inserted AS (
		     INSERT INTO posts (author_id, content) VALUES ($1, $2)
		     RETURNING id, author_id, content, created_at
		 )
		 SELECT i.id, i.author_id, i.content, i.created_at, u.username, u.name, u.headline
		 FROM inserted i JOIN users u ON u.id = i.author_id`,
		authorID, content,
	).Scan(&p.ID, &p.AuthorID, &p.Content, &p.CreatedAt,
		&p.Author.Username, &p.Author.Name, &p.Author.Headline)
	if err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	return &p, nil
}

// ListFeed returns the newest posts across all users
func (db *DB) ListFeed(ctx context.Context, limit int) ([]Post, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT p.id, p.author_id, p.content, p.created_at, u.username, u.name, u.headline
		 FROM posts p JOIN users u ON u.id = p.author_id
		 ORDER BY p.created_at DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list feed: %w", err)
	}
	return collectPosts(rows)
}

// ListPostsByAuthor returns a user's newest posts
func (db *DB) ListPostsByAuthor(ctx context.Context, authorID uuid.UUID, limit int) ([]Post, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT p.id, p.author_id, p.content, p.created_at, u.username, u.name, u.headline
		 FROM posts p JOIN users u ON u.id = p.author_id
		 WHERE p.author_id = $1
		 ORDER BY p.created_at DESC
		 LIMIT $2`,
		authorID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return collectPosts(rows)
}

func collectPosts(rows pgx.Rows) ([]Post, error) {
	defer rows.Close()

	posts := []Post{}
	for rows.Next() {
		p := Post{Author: &UserSummary{}}
		if err := rows.Scan(&p.ID, &p.AuthorID, &p.Content, &p.CreatedAt,
			&p.Author.Username, &p.Author.Name, &p.Author.Headline); err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate posts: %w", err)
	}
	return posts, nil
}
