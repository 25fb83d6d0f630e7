package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/StudyBeacon/physics-learn/internal/models"
)

const chapterColumns = `id, title, description, subject_id, year_slug, subject_code, topics, resources, difficulty, estimated_time, tags, sort_order, published, created_at, updated_at`

// ChapterRepository persists catalog chapters.
type ChapterRepository struct {
	db *sqlx.DB
}

// NewChapterRepository constructs the repository.
func NewChapterRepository(db *sqlx.DB) *ChapterRepository {
	return &ChapterRepository{db: db}
}

// List returns chapters in display order.
func (r *ChapterRepository) List(ctx context.Context, filter models.ChapterFilter) ([]models.Chapter, error) {
	query := `SELECT ` + chapterColumns + ` FROM chapters WHERE 1=1`
	var conditions []string
	var args []interface{}
	if filter.YearSlug != "" {
		conditions = append(conditions, fmt.Sprintf("year_slug = $%d", len(args)+1))
		args = append(args, filter.YearSlug)
	}
	if filter.SubjectCode != "" {
		conditions = append(conditions, fmt.Sprintf("subject_code = $%d", len(args)+1))
		args = append(args, filter.SubjectCode)
	}
	if filter.SubjectID != "" {
		conditions = append(conditions, fmt.Sprintf("subject_id = $%d", len(args)+1))
		args = append(args, filter.SubjectID)
	}
	if filter.Published != nil {
		conditions = append(conditions, fmt.Sprintf("published = $%d", len(args)+1))
		args = append(args, *filter.Published)
	}
	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY sort_order ASC, created_at ASC"

	var chapters []models.Chapter
	if err := r.db.SelectContext(ctx, &chapters, query, args...); err != nil {
		return nil, fmt.Errorf("list chapters: %w", err)
	}
	return chapters, nil
}

// GetByID fetches a chapter.
func (r *ChapterRepository) GetByID(ctx context.Context, id string) (*models.Chapter, error) {
	var chapter models.Chapter
	if err := r.db.GetContext(ctx, &chapter, `SELECT `+chapterColumns+` FROM chapters WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get chapter: %w", err)
	}
	return &chapter, nil
}

// Exists reports whether a chapter id is present.
func (r *ChapterRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM chapters WHERE id = $1)`, id); err != nil {
		return false, fmt.Errorf("check chapter exists: %w", err)
	}
	return exists, nil
}

// Create inserts a chapter.
func (r *ChapterRepository) Create(ctx context.Context, chapter *models.Chapter) error {
	if chapter.ID == "" {
		chapter.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if chapter.CreatedAt.IsZero() {
		chapter.CreatedAt = now
	}
	chapter.UpdatedAt = now
	const query = `INSERT INTO chapters (id, title, description, subject_id, year_slug, subject_code, topics, resources, difficulty, estimated_time, tags, sort_order, published, created_at, updated_at)
VALUES (:id, :title, :description, :subject_id, :year_slug, :subject_code, :topics, :resources, :difficulty, :estimated_time, :tags, :sort_order, :published, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, chapter); err != nil {
		return fmt.Errorf("create chapter: %w", err)
	}
	return nil
}

// Update replaces a chapter's mutable columns.
func (r *ChapterRepository) Update(ctx context.Context, chapter *models.Chapter) error {
	chapter.UpdatedAt = time.Now().UTC()
	const query = `UPDATE chapters SET title = :title, description = :description, subject_id = :subject_id, year_slug = :year_slug, subject_code = :subject_code, topics = :topics, resources = :resources, difficulty = :difficulty, estimated_time = :estimated_time, tags = :tags, sort_order = :sort_order, published = :published, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, chapter)
	if err != nil {
		return fmt.Errorf("update chapter: %w", err)
	}
	return requireAffected(res, "update chapter")
}

// Delete removes a chapter.
func (r *ChapterRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM chapters WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete chapter: %w", err)
	}
	return requireAffected(res, "delete chapter")
}
