package service

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/StudyBeacon/physics-learn/internal/models"
	appErrors "github.com/StudyBeacon/physics-learn/pkg/errors"
	"github.com/StudyBeacon/physics-learn/pkg/export"
)

type paperReaderStub struct {
	papers []models.ExamPaper
}

func (p paperReaderStub) ListAll(ctx context.Context) ([]models.ExamPaper, error) {
	return p.papers, nil
}

func (p paperReaderStub) GetByID(ctx context.Context, id string) (*models.ExamPaper, error) {
	for i := range p.papers {
		if p.papers[i].ID == id {
			return &p.papers[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

type sheetSpy struct {
	got export.Sheet
}

func (s *sheetSpy) Render(sheet export.Sheet) ([]byte, error) {
	s.got = sheet
	return []byte("%PDF-stub"), nil
}

func samplePaper() models.ExamPaper {
	return models.ExamPaper{
		ID:          "p1",
		Title:       "Mechanics Final",
		SubjectCode: "PHY101",
		YearSlug:    models.YearFirst,
		ExamYear:    "2023",
		ExamType:    models.ExamTypeFinal,
		Questions: models.QuestionList{
			{Number: "1", Content: "What is force?", Images: []models.ImageAsset{{URL: "https://cdn.test/a.png"}}},
			{Number: "2", Content: "Define energy.", Images: []models.ImageAsset{}},
		},
		Images:        models.ImageList{{URL: "https://cdn.test/general.png"}},
		DownloadCount: 4,
		Published:     true,
		CreatedAt:     time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestExportServicePaperCatalog(t *testing.T) {
	svc := NewExportService(paperReaderStub{papers: []models.ExamPaper{samplePaper()}}, zap.NewNop(), nil, nil)
	svc.now = func() time.Time { return time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC) }

	file, err := svc.PaperCatalog(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "past-questions_20240506_070809.csv", file.Filename)
	assert.Equal(t, "text/csv", file.ContentType)

	records, err := csv.NewReader(bytes.NewReader(file.Data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, catalogHeaders, records[0])
	assert.Equal(t, "PHY101", records[1][2])
	assert.Equal(t, "2", records[1][6])
	assert.Equal(t, "2", records[1][7])
	assert.Equal(t, "4", records[1][9])
	assert.Equal(t, "2024-01-02T03:04:05Z", records[1][12])
}

func TestExportServicePrintSheet(t *testing.T) {
	spy := &sheetSpy{}
	svc := NewExportService(paperReaderStub{papers: []models.ExamPaper{samplePaper()}}, nil, nil, spy)

	file, err := svc.PrintSheet(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "phy101_2023_final.pdf", file.Filename)
	assert.Equal(t, "application/pdf", file.ContentType)

	require.Len(t, spy.got.Items, 3)
	assert.Equal(t, "1", spy.got.Items[0].Number)
	assert.Equal(t, []string{"https://cdn.test/a.png"}, spy.got.Items[0].Figures)
	assert.Equal(t, []string{"https://cdn.test/general.png"}, spy.got.Items[2].Figures)

	_, err = svc.PrintSheet(context.Background(), "missing")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestExportServicePrintSheetRendersPDF(t *testing.T) {
	svc := NewExportService(paperReaderStub{papers: []models.ExamPaper{samplePaper()}}, nil, nil, nil)

	file, err := svc.PrintSheet(context.Background(), "p1")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(file.Data, []byte("%PDF-")))
}
