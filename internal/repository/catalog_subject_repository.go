package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/StudyBeacon/physics-learn/internal/models"
)

const catalogSubjectColumns = `id, code, name, description, year_slug, chapters, syllabus, created_at, updated_at`

// CatalogSubjectRepository persists catalog subjects.
type CatalogSubjectRepository struct {
	db *sqlx.DB
}

// NewCatalogSubjectRepository constructs the repository.
func NewCatalogSubjectRepository(db *sqlx.DB) *CatalogSubjectRepository {
	return &CatalogSubjectRepository{db: db}
}

// ListByYear returns subjects of a year ordered by code. An empty year lists all.
func (r *CatalogSubjectRepository) ListByYear(ctx context.Context, yearSlug models.YearSlug) ([]models.CatalogSubject, error) {
	var subjects []models.CatalogSubject
	var err error
	if yearSlug == "" {
		err = r.db.SelectContext(ctx, &subjects, `SELECT `+catalogSubjectColumns+` FROM catalog_subjects ORDER BY year_slug ASC, code ASC`)
	} else {
		err = r.db.SelectContext(ctx, &subjects, `SELECT `+catalogSubjectColumns+` FROM catalog_subjects WHERE year_slug = $1 ORDER BY code ASC`, yearSlug)
	}
	if err != nil {
		return nil, fmt.Errorf("list catalog subjects: %w", err)
	}
	return subjects, nil
}

// GetByID fetches a subject.
func (r *CatalogSubjectRepository) GetByID(ctx context.Context, id string) (*models.CatalogSubject, error) {
	var subject models.CatalogSubject
	if err := r.db.GetContext(ctx, &subject, `SELECT `+catalogSubjectColumns+` FROM catalog_subjects WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get catalog subject: %w", err)
	}
	return &subject, nil
}

// FindByYearAndCode looks up the unique (year, code) pair.
func (r *CatalogSubjectRepository) FindByYearAndCode(ctx context.Context, yearSlug models.YearSlug, code string) (*models.CatalogSubject, error) {
	var subject models.CatalogSubject
	if err := r.db.GetContext(ctx, &subject, `SELECT `+catalogSubjectColumns+` FROM catalog_subjects WHERE year_slug = $1 AND code = $2`, yearSlug, code); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find catalog subject: %w", err)
	}
	return &subject, nil
}

// Create inserts a subject.
func (r *CatalogSubjectRepository) Create(ctx context.Context, subject *models.CatalogSubject) error {
	if subject.ID == "" {
		subject.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if subject.CreatedAt.IsZero() {
		subject.CreatedAt = now
	}
	subject.UpdatedAt = now
	const query = `INSERT INTO catalog_subjects (id, code, name, description, year_slug, chapters, syllabus, created_at, updated_at)
VALUES (:id, :code, :name, :description, :year_slug, :chapters, :syllabus, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, subject); err != nil {
		return fmt.Errorf("create catalog subject: %w", err)
	}
	return nil
}

// Update replaces a subject's mutable columns.
func (r *CatalogSubjectRepository) Update(ctx context.Context, subject *models.CatalogSubject) error {
	subject.UpdatedAt = time.Now().UTC()
	const query = `UPDATE catalog_subjects SET code = :code, name = :name, description = :description, year_slug = :year_slug, chapters = :chapters, syllabus = :syllabus, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, subject)
	if err != nil {
		return fmt.Errorf("update catalog subject: %w", err)
	}
	return requireAffected(res, "update catalog subject")
}

// Delete removes a subject.
func (r *CatalogSubjectRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM catalog_subjects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete catalog subject: %w", err)
	}
	return requireAffected(res, "delete catalog subject")
}
