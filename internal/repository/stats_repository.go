package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/StudyBeacon/physics-learn/internal/models"
)

// StatsRepository aggregates dashboard counters.
type StatsRepository struct {
	db *sqlx.DB
}

// NewStatsRepository constructs the repository.
func NewStatsRepository(db *sqlx.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// Counts returns row counts for the admin dashboard in one round trip.
func (r *StatsRepository) Counts(ctx context.Context) (*models.AdminStats, error) {
	const query = `SELECT
	(SELECT COUNT(*) FROM users) AS users,
	(SELECT COUNT(*) FROM posts) AS posts,
	(SELECT COUNT(*) FROM materials) AS materials,
	(SELECT COUNT(*) FROM exam_papers) AS exam_papers,
	(SELECT COUNT(*) FROM chapters) AS chapters,
	(SELECT COUNT(*) FROM chapter_notes) AS chapter_notes`
	var stats models.AdminStats
	if err := r.db.GetContext(ctx, &stats, query); err != nil {
		return nil, fmt.Errorf("count admin stats: %w", err)
	}
	return &stats, nil
}
