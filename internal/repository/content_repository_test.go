package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/StudyBeacon/physics-learn/internal/models"
)

func TestUnitRepositoryList(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUnitRepository(db)

	now := time.Now()
	published := true
	rows := sqlmock.NewRows([]string{"id", "subject_code", "year_slug", "unit_code", "unit_name", "topics", "resources", "estimated_time_min", "difficulty", "tags", "published", "created_at", "updated_at"}).
		AddRow("u1", "PHY101", "first", "U1", "Mechanics", []byte(`["kinematics"]`), []byte(`[{"type":"video","title":"Intro","url":"https://example.com/v"}]`), 120, "medium", []byte(`[]`), true, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT "+unitColumns+" FROM units WHERE 1=1 AND year_slug = $1 AND subject_code = $2 AND published = $3 ORDER BY subject_code ASC, unit_code ASC")).
		WithArgs(models.YearFirst, "PHY101", true).
		WillReturnRows(rows)

	units, err := repo.List(context.Background(), models.UnitFilter{YearSlug: models.YearFirst, SubjectCode: "PHY101", Published: &published})
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Equal(t, models.StringList{"kinematics"}, units[0].Topics)
	require.Len(t, units[0].Resources, 1)
	assert.Equal(t, "video", units[0].Resources[0].Type)
	assert.Equal(t, models.UnitMedium, units[0].Difficulty)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnitRepositoryFindBySubjectAndCodeNotFound(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUnitRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM units WHERE subject_code = $1 AND unit_code = $2")).
		WithArgs("PHY101", "U9").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindBySubjectAndCode(context.Background(), "PHY101", "U9")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnitRepositoryCreateAssignsID(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUnitRepository(db)

	mock.ExpectExec("INSERT INTO units").WillReturnResult(sqlmock.NewResult(1, 1))

	unit := &models.Unit{SubjectCode: "PHY101", YearSlug: models.YearFirst, UnitCode: "U1", UnitName: "Mechanics", Topics: models.StringList{}, Resources: models.ResourceList{}, Tags: models.StringList{}, Difficulty: models.UnitEasy}
	require.NoError(t, repo.Create(context.Background(), unit))
	assert.NotEmpty(t, unit.ID)
	assert.False(t, unit.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMaterialRepositoryListByCategory(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewMaterialRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "title", "url", "subject_code", "year_slug", "type", "category", "published", "created_at", "updated_at"}).
		AddRow("m1", "Syllabus", "https://example.com/s.pdf", "PHY101", "first", "pdf", "syllabus", true, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT "+materialColumns+" FROM materials WHERE 1=1 AND subject_code = $1 AND category = $2 ORDER BY created_at DESC")).
		WithArgs("PHY101", models.MaterialSyllabus).
		WillReturnRows(rows)

	materials, err := repo.List(context.Background(), models.MaterialFilter{SubjectCode: "PHY101", Category: models.MaterialSyllabus})
	require.NoError(t, err)
	require.Len(t, materials, 1)
	assert.Equal(t, models.MaterialPDF, materials[0].Type)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMaterialRepositoryDeleteMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewMaterialRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM materials WHERE id = $1")).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), "missing"), sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepositoryListPublished(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPostRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "title", "description", "image_url", "published", "author_id", "created_at", "updated_at"}).
		AddRow("p1", "Exam schedule", "", "", true, nil, now, now).
		AddRow("p2", "Results", "", "", true, "admin-1", now, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT " + postColumns + " FROM posts WHERE published = TRUE ORDER BY created_at DESC")).
		WillReturnRows(rows)

	posts, err := repo.List(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Nil(t, posts[0].AuthorID)
	require.NotNil(t, posts[1].AuthorID)
	assert.Equal(t, "admin-1", *posts[1].AuthorID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepositoryUpdateMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPostRepository(db)

	mock.ExpectExec("UPDATE posts SET title").WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &models.Post{ID: "missing", Title: "x"})
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSettingsRepositoryGetAndSave(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSettingsRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM site_settings WHERE id = 1")).WillReturnError(sql.ErrNoRows)
	_, err := repo.Get(context.Background())
	assert.ErrorIs(t, err, sql.ErrNoRows)

	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (id) DO UPDATE")).WillReturnResult(sqlmock.NewResult(0, 1))
	settings := &models.SiteSettings{SiteName: "PhysicsLearn", Theme: models.ThemeDark}
	require.NoError(t, repo.Save(context.Background(), settings))
	assert.False(t, settings.UpdatedAt.IsZero())

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM site_settings WHERE id = 1")).
		WillReturnRows(sqlmock.NewRows([]string{"site_name", "logo_url", "theme", "analytics_key", "email_key", "updated_at"}).
			AddRow("PhysicsLearn", "", "dark", "", "", now))
	stored, err := repo.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.ThemeDark, stored.Theme)
	assert.NoError(t, mock.ExpectationsWereMet())
}
