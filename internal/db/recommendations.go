package db

import (
	"context"
	"fmt"
)

// ListRecommendationsByUsername returns recommendations written for a user,
// newest first
func (db *DB) ListRecommendationsByUsername(ctx context.Context, username string) ([]Recommendation, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT r.id, r.recipient_id, r.recommender_name, r.recommender_role, r.relationship_label,
		        r.content, r.recommendation_at, r.is_public
		 FROM recommendations r JOIN users u ON u.id = r.recipient_id
		 WHERE u.username = $1
		 ORDER BY r.recommendation_at DESC`,
		username,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list recommendations: %w", err)
	}
	defer rows.Close()

	var recs []Recommendation
	for rows.Next() {
		var r Recommendation
		if err := rows.Scan(&r.ID, &r.RecipientID, &r.RecommenderName, &r.RecommenderRole,
			&r.RelationshipLabel, &r.Content, &r.RecommendationAt, &r.IsPublic); err != nil {
			return nil, fmt.Errorf("failed to scan recommendation: %w", err)
		}
		recs = append(recs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate recommendations: %w", err)
	}
	return recs, nil
}

// CreateRecommendation inserts a recommendation and fills in its ID
func (db *DB) CreateRecommendation(ctx context.Context, r *Recommendation) error {
	err := db.pool.QueryRow(ctx,
		`INSERT INTO recommendations (recipient_id, recommender_name, recommender_role,
		     relationship_label, content, recommendation_at, is_public)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		r.RecipientID, r.RecommenderName, r.RecommenderRole, r.RelationshipLabel,
		r.Content, r.RecommendationAt, r.IsPublic,
	).Scan(&r.ID)
	if err != nil {
		return fmt.Errorf("failed to create recommendation: %w", err)
	}
	return nil
}
