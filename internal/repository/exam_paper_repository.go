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

const examPaperColumns = `id, title, description, subject_code, year_slug, exam_year, exam_type, question_content, questions, images, pdf_url, storage_key, file_size, page_count, published, download_count, uploaded_by, created_at, updated_at`

// ExamPaperRepository persists exam papers with their questions and images as JSONB.
type ExamPaperRepository struct {
	db *sqlx.DB
}

// NewExamPaperRepository constructs the repository.
func NewExamPaperRepository(db *sqlx.DB) *ExamPaperRepository {
	return &ExamPaperRepository{db: db}
}

// List returns papers matching the filter, newest exam year first, with the total count.
func (r *ExamPaperRepository) List(ctx context.Context, filter models.ExamPaperFilter) ([]models.ExamPaper, int, error) {
	baseQuery := `FROM exam_papers WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.SubjectCode != "" {
		conditions = append(conditions, fmt.Sprintf("subject_code = $%d", len(args)+1))
		args = append(args, filter.SubjectCode)
	}
	if filter.YearSlug != "" {
		conditions = append(conditions, fmt.Sprintf("year_slug = $%d", len(args)+1))
		args = append(args, filter.YearSlug)
	}
	if filter.ExamYear != "" {
		conditions = append(conditions, fmt.Sprintf("exam_year = $%d", len(args)+1))
		args = append(args, filter.ExamYear)
	}
	if filter.ExamType != "" {
		conditions = append(conditions, fmt.Sprintf("exam_type = $%d", len(args)+1))
		args = append(args, filter.ExamType)
	}
	if filter.Published != nil {
		conditions = append(conditions, fmt.Sprintf("published = $%d", len(args)+1))
		args = append(args, *filter.Published)
	}
	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY exam_year DESC, created_at DESC LIMIT %d OFFSET %d", examPaperColumns, baseQuery, pageSize, offset)
	var papers []models.ExamPaper
	if err := r.db.SelectContext(ctx, &papers, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list exam papers: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+baseQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count exam papers: %w", err)
	}
	return papers, total, nil
}

// ListBySubjectYear returns every paper of a subject in a year, published or not.
func (r *ExamPaperRepository) ListBySubjectYear(ctx context.Context, subjectCode string, yearSlug models.YearSlug) ([]models.ExamPaper, error) {
	query := `SELECT ` + examPaperColumns + ` FROM exam_papers WHERE subject_code = $1 AND year_slug = $2 ORDER BY exam_year DESC, created_at DESC`
	var papers []models.ExamPaper
	if err := r.db.SelectContext(ctx, &papers, query, subjectCode, yearSlug); err != nil {
		return nil, fmt.Errorf("list exam papers by subject: %w", err)
	}
	return papers, nil
}

// ListAll returns every paper ordered for catalogue export.
func (r *ExamPaperRepository) ListAll(ctx context.Context) ([]models.ExamPaper, error) {
	query := `SELECT ` + examPaperColumns + ` FROM exam_papers ORDER BY year_slug ASC, subject_code ASC, exam_year DESC`
	var papers []models.ExamPaper
	if err := r.db.SelectContext(ctx, &papers, query); err != nil {
		return nil, fmt.Errorf("list all exam papers: %w", err)
	}
	return papers, nil
}

// GetByID fetches a paper by id.
func (r *ExamPaperRepository) GetByID(ctx context.Context, id string) (*models.ExamPaper, error) {
	query := `SELECT ` + examPaperColumns + ` FROM exam_papers WHERE id = $1`
	var paper models.ExamPaper
	if err := r.db.GetContext(ctx, &paper, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get exam paper: %w", err)
	}
	return &paper, nil
}

// Create inserts a new paper.
func (r *ExamPaperRepository) Create(ctx context.Context, paper *models.ExamPaper) error {
	if paper.ID == "" {
		paper.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if paper.CreatedAt.IsZero() {
		paper.CreatedAt = now
	}
	paper.UpdatedAt = now

	const query = `INSERT INTO exam_papers (id, title, description, subject_code, year_slug, exam_year, exam_type, question_content, questions, images, pdf_url, storage_key, file_size, page_count, published, download_count, uploaded_by, created_at, updated_at)
VALUES (:id, :title, :description, :subject_code, :year_slug, :exam_year, :exam_type, :question_content, :questions, :images, :pdf_url, :storage_key, :file_size, :page_count, :published, :download_count, :uploaded_by, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, paper); err != nil {
		return fmt.Errorf("create exam paper: %w", err)
	}
	return nil
}

// Update replaces the mutable columns of a paper. The download counter is left alone.
func (r *ExamPaperRepository) Update(ctx context.Context, paper *models.ExamPaper) error {
	paper.UpdatedAt = time.Now().UTC()
	const query = `UPDATE exam_papers SET title = :title, description = :description, subject_code = :subject_code, year_slug = :year_slug, exam_year = :exam_year, exam_type = :exam_type, question_content = :question_content, questions = :questions, images = :images, pdf_url = :pdf_url, storage_key = :storage_key, file_size = :file_size, page_count = :page_count, published = :published, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, paper)
	if err != nil {
		return fmt.Errorf("update exam paper: %w", err)
	}
	return requireAffected(res, "update exam paper")
}

// Delete removes a paper.
func (r *ExamPaperRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM exam_papers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete exam paper: %w", err)
	}
	return requireAffected(res, "delete exam paper")
}

// IncrementDownloadCount bumps the counter in a single statement.
func (r *ExamPaperRepository) IncrementDownloadCount(ctx context.Context, id string) error {
	const query = `UPDATE exam_papers SET download_count = download_count + 1 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("increment download count: %w", err)
	}
	return nil
}

func requireAffected(res sql.Result, op string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", op, err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
