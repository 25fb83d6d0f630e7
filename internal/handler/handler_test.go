package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/StudyBeacon/physics-learn/internal/dto"
	"github.com/StudyBeacon/physics-learn/internal/middleware"
	"github.com/StudyBeacon/physics-learn/internal/models"
	"github.com/StudyBeacon/physics-learn/internal/service"
	appErrors "github.com/StudyBeacon/physics-learn/pkg/errors"
)

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

type fakeAuthSrv struct {
	lastLogin models.LoginRequest
	adminOnly bool
}

func (f *fakeAuthSrv) Register(ctx context.Context, req models.RegisterRequest) (*models.LoginResponse, error) {
	return &models.LoginResponse{Token: "t", User: models.UserInfo{Email: req.Email, Role: models.RoleViewer}}, nil
}

func (f *fakeAuthSrv) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	f.lastLogin = req
	return &models.LoginResponse{Token: "t"}, nil
}

func (f *fakeAuthSrv) AdminLogin(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	f.lastLogin = req
	if f.adminOnly {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "admin access required")
	}
	return &models.LoginResponse{Token: "t"}, nil
}

func (f *fakeAuthSrv) Me(ctx context.Context, userID string) (*models.UserInfo, error) {
	return &models.UserInfo{ID: userID}, nil
}

func TestAuthHandlerLogin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeAuthSrv{adminOnly: true}
	h := NewAuthHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = jsonRequest(http.MethodPost, "/auth/login", `{"email":"a@example.com","password":"pw"}`)
	h.Login(c)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "a@example.com", srv.lastLogin.Email)

	rec = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(rec)
	c.Request = jsonRequest(http.MethodPost, "/auth/admin/login", `{"email":"a@example.com","password":"pw"}`)
	h.AdminLogin(c)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(rec)
	c.Request = jsonRequest(http.MethodPost, "/auth/login", `{"email":`)
	h.Login(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthHandlerRegisterAndMe(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewAuthHandler(&fakeAuthSrv{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = jsonRequest(http.MethodPost, "/auth/register", `{"name":"A","email":"a@example.com","password":"secret1"}`)
	h.Register(c)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	h.Me(c)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "u1"})
	h.Me(c)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":"u1"`)
}

type fakeUserSrv struct {
	filter  models.UserFilter
	deleted [2]string
}

func (f *fakeUserSrv) List(ctx context.Context, filter models.UserFilter) ([]models.User, *models.Pagination, error) {
	f.filter = filter
	return []models.User{}, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize}, nil
}

func (f *fakeUserSrv) Create(ctx context.Context, req dto.CreateUserRequest) (*models.User, error) {
	return &models.User{ID: "u2", Email: req.Email}, nil
}

func (f *fakeUserSrv) Update(ctx context.Context, id string, req dto.UpdateUserRequest) (*models.User, error) {
	return &models.User{ID: id}, nil
}

func (f *fakeUserSrv) Delete(ctx context.Context, id, actorID string) error {
	f.deleted = [2]string{id, actorID}
	return nil
}

func TestUserHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeUserSrv{}
	h := NewUserHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/admin/users?page=3&page_size=5&role=editor&search=ada", nil)
	h.List(c)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3, srv.filter.Page)
	assert.Equal(t, 5, srv.filter.PageSize)
	require.NotNil(t, srv.filter.Role)
	assert.Equal(t, models.RoleEditor, *srv.filter.Role)
	assert.Equal(t, "ada", srv.filter.Search)

	rec = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(rec)
	c.Request = jsonRequest(http.MethodPost, "/admin/users", `{"name":"B","email":"b@example.com","password":"secret1"}`)
	h.Create(c)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodDelete, "/admin/users/u2", nil)
	c.Params = gin.Params{{Key: "id", Value: "u2"}}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "admin-1"})
	h.Delete(c)
	assert.Equal(t, http.StatusNoContent, c.Writer.Status())
	assert.Equal(t, [2]string{"u2", "admin-1"}, srv.deleted)
}

type fakeSubjectSrv struct{ year string }

func (f *fakeSubjectSrv) List(ctx context.Context, yearSlug string) ([]models.CatalogSubject, error) {
	f.year = yearSlug
	return []models.CatalogSubject{{Code: "PHY101"}}, nil
}
func (f *fakeSubjectSrv) Get(ctx context.Context, id string) (*models.CatalogSubject, error) {
	return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
}
func (f *fakeSubjectSrv) Create(ctx context.Context, req dto.CatalogSubjectRequest) (*models.CatalogSubject, error) {
	return nil, appErrors.Clone(appErrors.ErrConflict, "subject code already exists for this year")
}
func (f *fakeSubjectSrv) Update(ctx context.Context, id string, req dto.CatalogSubjectRequest) (*models.CatalogSubject, error) {
	return &models.CatalogSubject{ID: id}, nil
}
func (f *fakeSubjectSrv) Delete(ctx context.Context, id string) error { return nil }

type fakeChapterSrv struct{ filter models.ChapterFilter }

func (f *fakeChapterSrv) ListPublished(ctx context.Context, yearSlug, subjectCode string) ([]models.Chapter, error) {
	return []models.Chapter{}, nil
}
func (f *fakeChapterSrv) ListAll(ctx context.Context, filter models.ChapterFilter) ([]models.Chapter, error) {
	f.filter = filter
	return []models.Chapter{}, nil
}
func (f *fakeChapterSrv) Get(ctx context.Context, id string) (*models.Chapter, error) {
	return &models.Chapter{ID: id}, nil
}
func (f *fakeChapterSrv) Create(ctx context.Context, req dto.ChapterRequest) (*models.Chapter, error) {
	return &models.Chapter{Title: req.Title}, nil
}
func (f *fakeChapterSrv) Update(ctx context.Context, id string, req dto.ChapterRequest) (*models.Chapter, error) {
	return &models.Chapter{ID: id}, nil
}
func (f *fakeChapterSrv) Delete(ctx context.Context, id string) error { return nil }

func TestCatalogHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	subjects := &fakeSubjectSrv{}
	chapters := &fakeChapterSrv{}
	h := NewCatalogHandler(subjects, chapters)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/catalog/subjects?yearSlug=second", nil)
	h.ListSubjects(c)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "second", subjects.year)

	rec = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(rec)
	c.Request = jsonRequest(http.MethodPost, "/catalog/subjects", `{"code":"PHY101","name":"Mechanics","yearSlug":"first"}`)
	h.CreateSubject(c)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(rec)
	c.Request = jsonRequest(http.MethodPost, "/chapters", `{"title":"Kinematics"}`)
	h.CreateChapter(c)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/admin/chapters?yearSlug=first&subjectId=s1", nil)
	h.ListAllChapters(c)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.YearFirst, chapters.filter.YearSlug)
	assert.Equal(t, "s1", chapters.filter.SubjectID)
}

type fakeNoteSrv struct {
	sub service.ChapterNoteSubmission
}

func (f *fakeNoteSrv) ListPublished(ctx context.Context, query dto.ChapterNoteQuery) ([]models.ChapterNote, error) {
	return []models.ChapterNote{}, nil
}
func (f *fakeNoteSrv) Get(ctx context.Context, id string) (*models.ChapterNote, error) {
	return &models.ChapterNote{ID: id}, nil
}
func (f *fakeNoteSrv) Create(ctx context.Context, sub service.ChapterNoteSubmission) (*models.ChapterNote, error) {
	f.sub = sub
	return &models.ChapterNote{ID: "n1"}, nil
}
func (f *fakeNoteSrv) Update(ctx context.Context, id string, sub service.ChapterNoteSubmission) (*models.ChapterNote, error) {
	f.sub = sub
	return &models.ChapterNote{ID: id}, nil
}
func (f *fakeNoteSrv) Delete(ctx context.Context, id string) error { return nil }

func TestChapterNoteHandlerCreate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeNoteSrv{}
	h := NewChapterNoteHandler(srv, UploadLimits{MaxFileSize: 1 << 20})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = multipartRequest(t, http.MethodPost, "/chapter-notes",
		map[string]string{"title": "Notes", "chapterId": "ch-1"},
		multipartFile{field: "file", name: "notes.pdf", data: []byte("%PDF-")},
	)
	h.Create(c)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, srv.sub.PDF)
	assert.Equal(t, "notes.pdf", srv.sub.PDF.Filename)
	require.NotNil(t, srv.sub.Fields.ChapterID)
	assert.Equal(t, "ch-1", *srv.sub.Fields.ChapterID)
}

type fakeStatsSrv struct{ err error }

func (f fakeStatsSrv) Summary(ctx context.Context) (*models.AdminStats, error) {
	return &models.AdminStats{ExamPapers: 4}, f.err
}

func TestStatsHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
	NewStatsHandler(fakeStatsSrv{}).Summary(c)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"examPapers":4`)
}

func TestMetricsHandlerReady(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ok := Probe{Name: "postgres", Check: func(ctx context.Context) error { return nil }}
	down := Probe{Name: "redis", Check: func(ctx context.Context) error { return errors.New("connection refused") }}

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/ready", nil)
	NewMetricsHandler(nil, ok).Ready(c)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/ready", nil)
	NewMetricsHandler(nil, ok, down).Ready(c)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "connection refused")

	rec = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	NewMetricsHandler(nil).Prometheus(c)
	assert.Equal(t, http.StatusServiceUnavailable, c.Writer.Status())
}
