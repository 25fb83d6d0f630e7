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

const chapterNoteColumns = `id, title, subject_code, year_slug, chapter_id, pdf_url, storage_key, description, published, page_count, created_at, updated_at`

// ChapterNoteRepository persists chapter notes.
type ChapterNoteRepository struct {
	db *sqlx.DB
}

// NewChapterNoteRepository constructs the repository.
func NewChapterNoteRepository(db *sqlx.DB) *ChapterNoteRepository {
	return &ChapterNoteRepository{db: db}
}

// List returns notes matching the filter, newest first.
func (r *ChapterNoteRepository) List(ctx context.Context, filter models.ChapterNoteFilter) ([]models.ChapterNote, error) {
	query := `SELECT ` + chapterNoteColumns + ` FROM chapter_notes WHERE 1=1`
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
	if filter.ChapterID != "" {
		conditions = append(conditions, fmt.Sprintf("chapter_id = $%d", len(args)+1))
		args = append(args, filter.ChapterID)
	}
	if filter.Published != nil {
		conditions = append(conditions, fmt.Sprintf("published = $%d", len(args)+1))
		args = append(args, *filter.Published)
	}
	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"

	var notes []models.ChapterNote
	if err := r.db.SelectContext(ctx, &notes, query, args...); err != nil {
		return nil, fmt.Errorf("list chapter notes: %w", err)
	}
	return notes, nil
}

// GetByID fetches a note by id.
func (r *ChapterNoteRepository) GetByID(ctx context.Context, id string) (*models.ChapterNote, error) {
	var note models.ChapterNote
	if err := r.db.GetContext(ctx, &note, `SELECT `+chapterNoteColumns+` FROM chapter_notes WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get chapter note: %w", err)
	}
	return &note, nil
}

// Create inserts a note.
func (r *ChapterNoteRepository) Create(ctx context.Context, note *models.ChapterNote) error {
	if note.ID == "" {
		note.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if note.CreatedAt.IsZero() {
		note.CreatedAt = now
	}
	note.UpdatedAt = now
	const query = `INSERT INTO chapter_notes (id, title, subject_code, year_slug, chapter_id, pdf_url, storage_key, description, published, page_count, created_at, updated_at)
VALUES (:id, :title, :subject_code, :year_slug, :chapter_id, :pdf_url, :storage_key, :description, :published, :page_count, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, note); err != nil {
		return fmt.Errorf("create chapter note: %w", err)
	}
	return nil
}

// Update replaces the mutable columns of a note.
func (r *ChapterNoteRepository) Update(ctx context.Context, note *models.ChapterNote) error {
	note.UpdatedAt = time.Now().UTC()
	const query = `UPDATE chapter_notes SET title = :title, subject_code = :subject_code, year_slug = :year_slug, chapter_id = :chapter_id, pdf_url = :pdf_url, storage_key = :storage_key, description = :description, published = :published, page_count = :page_count, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, note)
	if err != nil {
		return fmt.Errorf("update chapter note: %w", err)
	}
	return requireAffected(res, "update chapter note")
}

// Delete removes a note.
func (r *ChapterNoteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM chapter_notes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete chapter note: %w", err)
	}
	return requireAffected(res, "delete chapter note")
}
