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

const unitColumns = `id, subject_code, year_slug, unit_code, unit_name, topics, resources, estimated_time_min, difficulty, tags, published, created_at, updated_at`

// UnitRepository persists syllabus units.
type UnitRepository struct {
	db *sqlx.DB
}

// NewUnitRepository constructs the repository.
func NewUnitRepository(db *sqlx.DB) *UnitRepository {
	return &UnitRepository{db: db}
}

// List returns units ordered by subject then unit code.
func (r *UnitRepository) List(ctx context.Context, filter models.UnitFilter) ([]models.Unit, error) {
	query := `SELECT ` + unitColumns + ` FROM units WHERE 1=1`
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
	if filter.Published != nil {
		conditions = append(conditions, fmt.Sprintf("published = $%d", len(args)+1))
		args = append(args, *filter.Published)
	}
	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY subject_code ASC, unit_code ASC"

	var units []models.Unit
	if err := r.db.SelectContext(ctx, &units, query, args...); err != nil {
		return nil, fmt.Errorf("list units: %w", err)
	}
	return units, nil
}

// GetByID fetches a unit.
func (r *UnitRepository) GetByID(ctx context.Context, id string) (*models.Unit, error) {
	var unit models.Unit
	if err := r.db.GetContext(ctx, &unit, `SELECT `+unitColumns+` FROM units WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get unit: %w", err)
	}
	return &unit, nil
}

// FindBySubjectAndCode looks up the unique (subject, unit code) pair.
func (r *UnitRepository) FindBySubjectAndCode(ctx context.Context, subjectCode, unitCode string) (*models.Unit, error) {
	var unit models.Unit
	if err := r.db.GetContext(ctx, &unit, `SELECT `+unitColumns+` FROM units WHERE subject_code = $1 AND unit_code = $2`, subjectCode, unitCode); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find unit: %w", err)
	}
	return &unit, nil
}

// Create inserts a unit.
func (r *UnitRepository) Create(ctx context.Context, unit *models.Unit) error {
	if unit.ID == "" {
		unit.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if unit.CreatedAt.IsZero() {
		unit.CreatedAt = now
	}
	unit.UpdatedAt = now
	const query = `INSERT INTO units (id, subject_code, year_slug, unit_code, unit_name, topics, resources, estimated_time_min, difficulty, tags, published, created_at, updated_at)
VALUES (:id, :subject_code, :year_slug, :unit_code, :unit_name, :topics, :resources, :estimated_time_min, :difficulty, :tags, :published, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, unit); err != nil {
		return fmt.Errorf("create unit: %w", err)
	}
	return nil
}

// Update replaces a unit's mutable columns.
func (r *UnitRepository) Update(ctx context.Context, unit *models.Unit) error {
	unit.UpdatedAt = time.Now().UTC()
	const query = `UPDATE units SET subject_code = :subject_code, year_slug = :year_slug, unit_code = :unit_code, unit_name = :unit_name, topics = :topics, resources = :resources, estimated_time_min = :estimated_time_min, difficulty = :difficulty, tags = :tags, published = :published, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, unit)
	if err != nil {
		return fmt.Errorf("update unit: %w", err)
	}
	return requireAffected(res, "update unit")
}

// Delete removes a unit.
func (r *UnitRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM units WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete unit: %w", err)
	}
	return requireAffected(res, "delete unit")
}
