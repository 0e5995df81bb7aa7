package database

import (
	"context"
	"fmt"

	"review-eval/internal/config"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type Database struct {
	Pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewConnection(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Database, error) {
	return Connect(ctx, cfg.GetDatabaseURL(), logger)
}

func Connect(ctx context.Context, url string, logger *zap.Logger) (*Database, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	// Test the connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	logger.Info("connected to database")
	return &Database{Pool: pool, logger: logger}, nil
}

func (db *Database) Close() {
	if db.Pool != nil {
		db.Pool.Close()
	}
}

func RunMigrations(ctx context.Context, db *Database) error {
	createRatingsTable := `
	CREATE TABLE IF NOT EXISTS evaluation_ratings (
		id BIGSERIAL PRIMARY KEY,
		submission_id UUID NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE NOT NULL,
		user_id VARCHAR(255) NOT NULL,
		paper_id VARCHAR(255) NOT NULL,
		review_label VARCHAR(16) NOT NULL,
		review_variant VARCHAR(64) NOT NULL,
		source VARCHAR(64) NOT NULL,
		section VARCHAR(32) NOT NULL CHECK (section IN ('Summary', 'Strengths', 'Weaknesses', 'Questions')),
		point_index INTEGER NOT NULL CHECK (point_index >= 0),
		point_text TEXT NOT NULL,
		rating VARCHAR(64) NOT NULL
	);`

	createIndexes := `
	CREATE INDEX IF NOT EXISTS idx_evaluation_ratings_submission ON evaluation_ratings(submission_id);
	CREATE INDEX IF NOT EXISTS idx_evaluation_ratings_user_paper ON evaluation_ratings(user_id, paper_id);`

	migrations := []string{
		createRatingsTable,
		createIndexes,
	}

	for _, migration := range migrations {
		if _, err := db.Pool.Exec(ctx, migration); err != nil {
			return fmt.Errorf("failed to run migration: %w", err)
		}
	}

	db.logger.Info("database migrations completed")
	return nil
}

func (db *Database) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return db.Pool.Begin(ctx)
}

func (db *Database) Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	return db.Pool.Exec(ctx, sql, args...)
}
