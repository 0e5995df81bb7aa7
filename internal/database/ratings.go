package database

import (
	"context"
	"fmt"

	"review-eval/internal/models"

	"github.com/jackc/pgx/v5"
)

const insertRating = `
	INSERT INTO evaluation_ratings (
		submission_id, created_at, user_id, paper_id, review_label, review_variant,
		source, section, point_index, point_text, rating
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

// Append mirrors one submission into evaluation_ratings inside a single
// transaction.
func (db *Database) Append(ctx context.Context, records []models.RatingRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, r := range records {
		batch.Queue(insertRating,
			r.SubmissionID, r.Timestamp, r.UserID, r.PaperID, r.ReviewLabel, r.Variant,
			r.Source, string(r.Section), r.PointIndex, r.PointText, r.Rating,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert ratings: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit ratings: %w", err)
	}
	return nil
}

// CountSubmission returns how many rows a submission stored.
func (db *Database) CountSubmission(ctx context.Context, submissionID string) (int, error) {
	var n int
	err := db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM evaluation_ratings WHERE submission_id = $1`, submissionID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count ratings: %w", err)
	}
	return n, nil
}
