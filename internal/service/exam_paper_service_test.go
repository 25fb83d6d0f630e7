package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/StudyBeacon/physics-learn/internal/dto"
	"github.com/StudyBeacon/physics-learn/internal/models"
	appErrors "github.com/StudyBeacon/physics-learn/pkg/errors"
	"github.com/StudyBeacon/physics-learn/pkg/storage"
)

type examPaperRepoStub struct {
	papers       map[string]*models.ExamPaper
	createCalls  int
	updateCalls  int
	deleted      []string
	increments   []string
	createErr    error
	updateErr    error
	incrementErr error
}

func newExamPaperRepoStub() *examPaperRepoStub {
	return &examPaperRepoStub{papers: map[string]*models.ExamPaper{}}
}

func (r *examPaperRepoStub) List(ctx context.Context, filter models.ExamPaperFilter) ([]models.ExamPaper, int, error) {
	var out []models.ExamPaper
	for _, p := range r.papers {
		if filter.Published != nil && p.Published != *filter.Published {
			continue
		}
		out = append(out, *p)
	}
	return out, len(out), nil
}

func (r *examPaperRepoStub) ListBySubjectYear(ctx context.Context, subjectCode string, yearSlug models.YearSlug) ([]models.ExamPaper, error) {
	var out []models.ExamPaper
	for _, p := range r.papers {
		if p.SubjectCode == subjectCode && p.YearSlug == yearSlug {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *examPaperRepoStub) ListAll(ctx context.Context) ([]models.ExamPaper, error) {
	out, _, err := r.List(ctx, models.ExamPaperFilter{})
	return out, err
}

func (r *examPaperRepoStub) GetByID(ctx context.Context, id string) (*models.ExamPaper, error) {
	p, ok := r.papers[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *p
	clone.Questions = append(models.QuestionList{}, p.Questions...)
	clone.Images = append(models.ImageList{}, p.Images...)
	return &clone, nil
}

func (r *examPaperRepoStub) Create(ctx context.Context, paper *models.ExamPaper) error {
	r.createCalls++
	if r.createErr != nil {
		return r.createErr
	}
	paper.ID = fmt.Sprintf("paper-%d", r.createCalls)
	clone := *paper
	r.papers[paper.ID] = &clone
	return nil
}

func (r *examPaperRepoStub) Update(ctx context.Context, paper *models.ExamPaper) error {
	r.updateCalls++
	if r.updateErr != nil {
		return r.updateErr
	}
	clone := *paper
	r.papers[paper.ID] = &clone
	return nil
}

func (r *examPaperRepoStub) Delete(ctx context.Context, id string) error {
	if _, ok := r.papers[id]; !ok {
		return sql.ErrNoRows
	}
	delete(r.papers, id)
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *examPaperRepoStub) IncrementDownloadCount(ctx context.Context, id string) error {
	if r.incrementErr != nil {
		return r.incrementErr
	}
	r.increments = append(r.increments, id)
	if p, ok := r.papers[id]; ok {
		p.DownloadCount++
	}
	return nil
}

type assetStoreStub struct {
	uploads   []storage.Object
	deletes   []string
	failOn    map[string]bool
	deleteErr error
}

func newAssetStoreStub() *assetStoreStub {
	return &assetStoreStub{failOn: map[string]bool{}}
}

func (a *assetStoreStub) Upload(ctx context.Context, obj storage.Object) storage.Result {
	if a.failOn[obj.Filename] {
		return storage.Failed(errors.New("both tiers down"))
	}
	a.uploads = append(a.uploads, obj)
	key := obj.Folder + "/" + obj.Filename
	return storage.Uploaded("https://cdn.test/"+key, key, int64(len(obj.Data)), storage.TierRemote)
}

func (a *assetStoreStub) Delete(ctx context.Context, key string) error {
	a.deletes = append(a.deletes, key)
	return a.deleteErr
}

type downloadCounterStub struct{ n int }

func (d *downloadCounterStub) ObserveDownload() { d.n++ }

func newExamPaperServiceForTest(repo examPaperRepository, assets assetStore, downloads downloadObserver) *ExamPaperService {
	svc := NewExamPaperService(repo, assets, nil, downloads, validator.New(), zap.NewNop(), ExamPaperServiceConfig{MaxImages: 3})
	svc.async = func(fn func()) { fn() }
	return svc
}

func strPtr(s string) *string { return &s }

func validFields() dto.ExamPaperRequest {
	return dto.ExamPaperRequest{
		Title:           strPtr("Mechanics Final"),
		SubjectCode:     strPtr(" phy101 "),
		YearSlug:        strPtr("first"),
		ExamYear:        strPtr("2023"),
		QuestionContent: strPtr("1 What is force?\n2 Define energy.\n   (2 marks)"),
	}
}

func imageFile(name string) dto.FileUpload {
	return dto.FileUpload{Filename: name, ContentType: "image/png", Data: []byte("png-" + name)}
}

func TestExamPaperCreateRejectsMissingQuestions(t *testing.T) {
	repo := newExamPaperRepoStub()
	assets := newAssetStoreStub()
	svc := newExamPaperServiceForTest(repo, assets, nil)

	fields := validFields()
	fields.QuestionContent = nil
	_, err := svc.Create(context.Background(), ExamPaperSubmission{
		Fields: fields,
		PDF:    &dto.FileUpload{Filename: "paper.pdf", Data: []byte("%PDF-1.4")},
		Images: []dto.FileUpload{imageFile("a.png")},
	}, nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrValidation)
	assert.Equal(t, 0, repo.createCalls)
	assert.Empty(t, assets.uploads)
}

func TestExamPaperCreateRejectsNumberedLinesWithoutContent(t *testing.T) {
	for name, text := range map[string]string{
		"bare number":   "1\n2 Define energy.",
		"trailing year": "1 What is force?\n2023",
	} {
		t.Run(name, func(t *testing.T) {
			repo := newExamPaperRepoStub()
			assets := newAssetStoreStub()
			svc := newExamPaperServiceForTest(repo, assets, nil)

			fields := validFields()
			fields.QuestionContent = strPtr(text)
			_, err := svc.Create(context.Background(), ExamPaperSubmission{
				Fields: fields,
				Images: []dto.FileUpload{imageFile("a.png")},
			}, nil)

			assert.ErrorIs(t, err, appErrors.ErrValidation)
			assert.Equal(t, 0, repo.createCalls)
			assert.Empty(t, assets.uploads)
		})
	}
}

func TestExamPaperCreateRejectsMissingRequiredFields(t *testing.T) {
	repo := newExamPaperRepoStub()
	svc := newExamPaperServiceForTest(repo, newAssetStoreStub(), nil)

	for _, mutate := range []func(*dto.ExamPaperRequest){
		func(f *dto.ExamPaperRequest) { f.Title = strPtr("  ") },
		func(f *dto.ExamPaperRequest) { f.SubjectCode = nil },
		func(f *dto.ExamPaperRequest) { f.YearSlug = nil },
		func(f *dto.ExamPaperRequest) { f.ExamYear = strPtr("") },
		func(f *dto.ExamPaperRequest) { f.YearSlug = strPtr("fifth") },
		func(f *dto.ExamPaperRequest) { f.ExamType = strPtr("quiz") },
	} {
		fields := validFields()
		mutate(&fields)
		_, err := svc.Create(context.Background(), ExamPaperSubmission{Fields: fields}, nil)
		assert.ErrorIs(t, err, appErrors.ErrValidation)
	}
	assert.Equal(t, 0, repo.createCalls)
}

func TestExamPaperCreateParsesAndBindsImages(t *testing.T) {
	repo := newExamPaperRepoStub()
	assets := newAssetStoreStub()
	svc := newExamPaperServiceForTest(repo, assets, nil)

	paper, err := svc.Create(context.Background(), ExamPaperSubmission{
		Fields: validFields(),
		Images: []dto.FileUpload{imageFile("a.png"), imageFile("b.png"), imageFile("c.png")},
	}, &models.JWTClaims{UserID: "admin-1", Role: models.RoleAdmin})
	require.NoError(t, err)

	assert.Equal(t, "PHY101", paper.SubjectCode)
	assert.Equal(t, models.ExamTypeFinal, paper.ExamType)
	assert.True(t, paper.Published)
	assert.Equal(t, int64(0), paper.DownloadCount)
	require.NotNil(t, paper.UploadedBy)
	assert.Equal(t, "admin-1", *paper.UploadedBy)

	require.Len(t, paper.Questions, 2)
	assert.Equal(t, "Define energy.\n(2 marks)", paper.Questions[1].Content)
	require.Len(t, paper.Questions[0].Images, 1)
	require.Len(t, paper.Questions[1].Images, 2)
	assert.Equal(t, 2, paper.Questions[1].Images[1].Order)
	require.Len(t, paper.Images, 3)

	require.Len(t, assets.uploads, 3)
	assert.Equal(t, "a.png", assets.uploads[0].Filename)
	assert.Equal(t, examPaperImageFolder, assets.uploads[0].Folder)
	assert.Equal(t, 1, repo.createCalls)
}

func TestExamPaperCreateStructuredQuestionsWin(t *testing.T) {
	repo := newExamPaperRepoStub()
	svc := newExamPaperServiceForTest(repo, newAssetStoreStub(), nil)

	fields := validFields()
	fields.Questions = strPtr(`[{"questionNumber":"5","content":"Explain torque."}]`)
	fields.Published = new(bool)
	fields.ExamType = strPtr("midterm")

	paper, err := svc.Create(context.Background(), ExamPaperSubmission{Fields: fields}, nil)
	require.NoError(t, err)
	require.Len(t, paper.Questions, 1)
	assert.Equal(t, "5", paper.Questions[0].Number)
	assert.NotNil(t, paper.Questions[0].Images)
	assert.Equal(t, "1 What is force?\n2 Define energy.\n   (2 marks)", paper.QuestionContent)
	assert.False(t, paper.Published)
	assert.Equal(t, models.ExamTypeMidterm, paper.ExamType)
}

func TestExamPaperCreateRejectsBadStructuredQuestions(t *testing.T) {
	svc := newExamPaperServiceForTest(newExamPaperRepoStub(), newAssetStoreStub(), nil)

	for _, raw := range []string{`not json`, `[{"questionNumber":"","content":"x"}]`, `[{"questionNumber":"1","content":"x","images":[{"url":""}]}]`} {
		fields := validFields()
		fields.Questions = strPtr(raw)
		_, err := svc.Create(context.Background(), ExamPaperSubmission{Fields: fields}, nil)
		assert.ErrorIs(t, err, appErrors.ErrValidation, raw)
	}
}

func TestExamPaperCreateRejectsTooManyImages(t *testing.T) {
	assets := newAssetStoreStub()
	svc := newExamPaperServiceForTest(newExamPaperRepoStub(), assets, nil)

	images := []dto.FileUpload{imageFile("1.png"), imageFile("2.png"), imageFile("3.png"), imageFile("4.png")}
	_, err := svc.Create(context.Background(), ExamPaperSubmission{Fields: validFields(), Images: images}, nil)
	assert.ErrorIs(t, err, appErrors.ErrValidation)
	assert.Empty(t, assets.uploads)
}

func TestExamPaperCreateUploadFailureCleansUp(t *testing.T) {
	repo := newExamPaperRepoStub()
	assets := newAssetStoreStub()
	assets.failOn["b.png"] = true
	svc := newExamPaperServiceForTest(repo, assets, nil)

	_, err := svc.Create(context.Background(), ExamPaperSubmission{
		Fields: validFields(),
		PDF:    &dto.FileUpload{Filename: "paper.pdf", ContentType: "application/pdf", Data: []byte("%PDF-1.4 broken")},
		Images: []dto.FileUpload{imageFile("a.png"), imageFile("b.png"), imageFile("c.png")},
	}, nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrUploadFailed)
	assert.Equal(t, 0, repo.createCalls)
	assert.ElementsMatch(t, []string{"past-questions/paper.pdf", "past-questions-images/a.png"}, assets.deletes)
}

func TestExamPaperCreateStoreFailureCleansUp(t *testing.T) {
	repo := newExamPaperRepoStub()
	repo.createErr = errors.New("db down")
	assets := newAssetStoreStub()
	svc := newExamPaperServiceForTest(repo, assets, nil)

	_, err := svc.Create(context.Background(), ExamPaperSubmission{
		Fields: validFields(),
		Images: []dto.FileUpload{imageFile("a.png")},
	}, nil)

	assert.ErrorIs(t, err, appErrors.ErrInternal)
	assert.Equal(t, []string{"past-questions-images/a.png"}, assets.deletes)
}

func TestExamPaperCreateWithPDF(t *testing.T) {
	repo := newExamPaperRepoStub()
	svc := newExamPaperServiceForTest(repo, newAssetStoreStub(), nil)

	paper, err := svc.Create(context.Background(), ExamPaperSubmission{
		Fields: validFields(),
		PDF:    &dto.FileUpload{Filename: "paper.pdf", ContentType: "application/pdf", Data: []byte("not really a pdf")},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.test/past-questions/paper.pdf", paper.PDFURL)
	assert.Equal(t, "past-questions/paper.pdf", paper.StorageKey)
	assert.Equal(t, int64(16), paper.FileSize)
	assert.Equal(t, 0, paper.PageCount)
}

func TestExamPaperGetIncrementsDownloadCount(t *testing.T) {
	repo := newExamPaperRepoStub()
	repo.papers["p1"] = &models.ExamPaper{ID: "p1", Title: "Optics", DownloadCount: 4}
	counter := &downloadCounterStub{}
	svc := newExamPaperServiceForTest(repo, newAssetStoreStub(), counter)

	paper, err := svc.Get(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(4), paper.DownloadCount)
	assert.Equal(t, []string{"p1"}, repo.increments)
	assert.Equal(t, int64(5), repo.papers["p1"].DownloadCount)
	assert.Equal(t, 1, counter.n)

	_, err = svc.Find(context.Background(), "p1")
	require.NoError(t, err)
	assert.Len(t, repo.increments, 1)
}

func TestExamPaperGetIgnoresCounterFailure(t *testing.T) {
	repo := newExamPaperRepoStub()
	repo.papers["p1"] = &models.ExamPaper{ID: "p1"}
	repo.incrementErr = errors.New("timeout")
	counter := &downloadCounterStub{}
	svc := newExamPaperServiceForTest(repo, newAssetStoreStub(), counter)

	_, err := svc.Get(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, 0, counter.n)
}

func TestExamPaperGetNotFound(t *testing.T) {
	repo := newExamPaperRepoStub()
	svc := newExamPaperServiceForTest(repo, newAssetStoreStub(), nil)

	_, err := svc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
	assert.Empty(t, repo.increments)
}

type spyRemote struct {
	deletes []string
	err     error
}

func (s *spyRemote) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	return "https://cdn.test/" + key, nil
}

func (s *spyRemote) Delete(ctx context.Context, key string) error {
	s.deletes = append(s.deletes, key)
	return s.err
}

type spyLocal struct {
	deletes []string
}

func (s *spyLocal) Save(filename string, data []byte) (string, error) { return filename, nil }
func (s *spyLocal) Delete(filename string) error {
	s.deletes = append(s.deletes, filename)
	return nil
}
func (s *spyLocal) URL(filename string) string { return "http://localhost/uploads/" + filename }

func TestExamPaperDeleteLocalKeyUsesFilesystemOnly(t *testing.T) {
	repo := newExamPaperRepoStub()
	repo.papers["p1"] = &models.ExamPaper{ID: "p1", StorageKey: "local-past-questions/1700000000000-paper.pdf"}
	remote, local := &spyRemote{}, &spyLocal{}
	svc := newExamPaperServiceForTest(repo, storage.NewBlobStore(remote, local, storage.Options{}), nil)

	require.NoError(t, svc.Delete(context.Background(), "p1"))
	assert.Equal(t, []string{"past-questions/1700000000000-paper.pdf"}, local.deletes)
	assert.Empty(t, remote.deletes)
	assert.Equal(t, []string{"p1"}, repo.deleted)
}

func TestExamPaperDeleteRemoteKeyUsesRemoteOnly(t *testing.T) {
	repo := newExamPaperRepoStub()
	repo.papers["p1"] = &models.ExamPaper{
		ID:         "p1",
		StorageKey: "past-questions/abc-paper.pdf",
		Images:     models.ImageList{{URL: "https://cdn.test/i.png", StorageKey: "past-questions-images/i.png"}},
		Questions:  models.QuestionList{{Number: "1", Content: "x", Images: []models.ImageAsset{{URL: "https://cdn.test/i.png", StorageKey: "past-questions-images/i.png"}}}},
	}
	remote, local := &spyRemote{}, &spyLocal{}
	svc := newExamPaperServiceForTest(repo, storage.NewBlobStore(remote, local, storage.Options{}), nil)

	require.NoError(t, svc.Delete(context.Background(), "p1"))
	assert.Equal(t, []string{"past-questions/abc-paper.pdf", "past-questions-images/i.png"}, remote.deletes)
	assert.Empty(t, local.deletes)
}

func TestExamPaperDeleteToleratesAssetFailure(t *testing.T) {
	repo := newExamPaperRepoStub()
	repo.papers["p1"] = &models.ExamPaper{
		ID:         "p1",
		StorageKey: "past-questions/a.pdf",
		Images:     models.ImageList{{URL: "u", StorageKey: "local-past-questions-images/b.png"}},
	}
	remote, local := &spyRemote{err: errors.New("provider down")}, &spyLocal{}
	svc := newExamPaperServiceForTest(repo, storage.NewBlobStore(remote, local, storage.Options{}), nil)

	require.NoError(t, svc.Delete(context.Background(), "p1"))
	assert.Len(t, remote.deletes, 1)
	assert.Len(t, local.deletes, 1)
	assert.Equal(t, []string{"p1"}, repo.deleted)
}

func TestExamPaperDeleteNotFound(t *testing.T) {
	svc := newExamPaperServiceForTest(newExamPaperRepoStub(), newAssetStoreStub(), nil)
	assert.ErrorIs(t, svc.Delete(context.Background(), "missing"), appErrors.ErrNotFound)
}

func TestExamPaperUpdatePartialFields(t *testing.T) {
	repo := newExamPaperRepoStub()
	repo.papers["p1"] = &models.ExamPaper{
		ID:              "p1",
		Title:           "Old",
		SubjectCode:     "PHY101",
		YearSlug:        models.YearFirst,
		ExamYear:        "2022",
		ExamType:        models.ExamTypeFinal,
		QuestionContent: "1 Old question",
		Questions:       models.QuestionList{{Number: "1", Content: "Old question"}},
		Published:       true,
	}
	svc := newExamPaperServiceForTest(repo, newAssetStoreStub(), nil)

	paper, err := svc.Update(context.Background(), "p1", ExamPaperSubmission{Fields: dto.ExamPaperRequest{
		SubjectCode: strPtr("phy201"),
		Title:       strPtr("New"),
	}})
	require.NoError(t, err)
	assert.Equal(t, "New", paper.Title)
	assert.Equal(t, "PHY201", paper.SubjectCode)
	assert.Equal(t, "2022", paper.ExamYear)
	assert.Equal(t, "Old question", paper.Questions[0].Content)
	assert.True(t, paper.Published)
}

func TestExamPaperUpdateReplacesQuestionsAndPDF(t *testing.T) {
	repo := newExamPaperRepoStub()
	repo.papers["p1"] = &models.ExamPaper{
		ID:         "p1",
		Title:      "Paper",
		Questions:  models.QuestionList{{Number: "1", Content: "Old"}},
		Images:     models.ImageList{{URL: "https://cdn.test/old.png", StorageKey: "old.png"}},
		StorageKey: "local-past-questions/old.pdf",
	}
	assets := newAssetStoreStub()
	svc := newExamPaperServiceForTest(repo, assets, nil)

	paper, err := svc.Update(context.Background(), "p1", ExamPaperSubmission{
		Fields: dto.ExamPaperRequest{QuestionContent: strPtr("1 A\n2 B")},
		PDF:    &dto.FileUpload{Filename: "new.pdf", Data: []byte("pdf")},
		Images: []dto.FileUpload{imageFile("x.png"), imageFile("y.png"), imageFile("z.png")},
	})
	require.NoError(t, err)

	require.Len(t, paper.Questions, 2)
	assert.Len(t, paper.Questions[0].Images, 1)
	assert.Len(t, paper.Questions[1].Images, 2)
	assert.Len(t, paper.Images, 4)
	assert.Equal(t, "past-questions/new.pdf", paper.StorageKey)
	assert.Equal(t, []string{"local-past-questions/old.pdf"}, assets.deletes)
}

func TestExamPaperUpdateRejectsEmptyingContent(t *testing.T) {
	repo := newExamPaperRepoStub()
	repo.papers["p1"] = &models.ExamPaper{ID: "p1", Questions: models.QuestionList{{Number: "1", Content: "x"}}}
	svc := newExamPaperServiceForTest(repo, newAssetStoreStub(), nil)

	_, err := svc.Update(context.Background(), "p1", ExamPaperSubmission{Fields: dto.ExamPaperRequest{
		QuestionContent: strPtr(""),
		Questions:       strPtr("[]"),
	}})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
	assert.Equal(t, 0, repo.updateCalls)
}

func TestExamPaperUpdateRejectsNumberedLinesWithoutContent(t *testing.T) {
	repo := newExamPaperRepoStub()
	repo.papers["p1"] = &models.ExamPaper{ID: "p1", QuestionContent: "1 x", Questions: models.QuestionList{{Number: "1", Content: "x"}}}
	assets := newAssetStoreStub()
	svc := newExamPaperServiceForTest(repo, assets, nil)

	_, err := svc.Update(context.Background(), "p1", ExamPaperSubmission{
		Fields: dto.ExamPaperRequest{QuestionContent: strPtr("1 What is force?\n2")},
		Images: []dto.FileUpload{imageFile("a.png")},
	})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
	assert.Equal(t, 0, repo.updateCalls)
	assert.Empty(t, assets.uploads)
	assert.Equal(t, "x", repo.papers["p1"].Questions[0].Content)
}

func TestExamPaperUpdateFailureKeepsOldAssets(t *testing.T) {
	repo := newExamPaperRepoStub()
	repo.papers["p1"] = &models.ExamPaper{ID: "p1", QuestionContent: "1 x", StorageKey: "past-questions/old.pdf"}
	repo.updateErr = errors.New("db down")
	assets := newAssetStoreStub()
	svc := newExamPaperServiceForTest(repo, assets, nil)

	_, err := svc.Update(context.Background(), "p1", ExamPaperSubmission{
		PDF: &dto.FileUpload{Filename: "new.pdf", Data: []byte("pdf")},
	})
	assert.ErrorIs(t, err, appErrors.ErrInternal)
	assert.Equal(t, []string{"past-questions/new.pdf"}, assets.deletes)
}

func TestExamPaperListPublishedOnly(t *testing.T) {
	repo := newExamPaperRepoStub()
	repo.papers["a"] = &models.ExamPaper{ID: "a", Published: true}
	repo.papers["b"] = &models.ExamPaper{ID: "b", Published: false}
	svc := newExamPaperServiceForTest(repo, newAssetStoreStub(), nil)

	papers, pagination, err := svc.ListPublished(context.Background(), dto.ExamPaperQuery{})
	require.NoError(t, err)
	require.Len(t, papers, 1)
	assert.Equal(t, "a", papers[0].ID)
	assert.Equal(t, 20, pagination.PageSize)

	all, err := svc.ListBySubjectYear(context.Background(), "", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
