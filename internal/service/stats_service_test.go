package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/StudyBeacon/physics-learn/internal/models"
	appErrors "github.com/StudyBeacon/physics-learn/pkg/errors"
)

type statsRepoStub struct {
	stats *models.AdminStats
	err   error
}

func (s statsRepoStub) Counts(ctx context.Context) (*models.AdminStats, error) {
	return s.stats, s.err
}

func TestStatsServiceSummary(t *testing.T) {
	metrics := NewMetricsService()
	metrics.ObserveUpload("remote", true)
	metrics.ObserveUpload("local", true)
	metrics.ObserveUpload("remote", false)
	metrics.RecordCacheOperation(true, time.Millisecond)
	metrics.RecordCacheOperation(false, time.Millisecond)

	svc := NewStatsService(statsRepoStub{stats: &models.AdminStats{Users: 3, Posts: 1, Materials: 4, ExamPapers: 12, Chapters: 7, ChapterNotes: 5}}, metrics, nil)
	stats, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, stats.ExamPapers)
	assert.Equal(t, 1, stats.Posts)
	assert.Equal(t, 4, stats.Materials)
	require.NotNil(t, stats.Runtime)
	assert.Equal(t, uint64(1), stats.Runtime.RemoteUploads)
	assert.Equal(t, uint64(1), stats.Runtime.LocalUploads)
	assert.Equal(t, uint64(1), stats.Runtime.FailedUploads)
	assert.InDelta(t, 0.5, stats.Runtime.CacheHitRatio, 0.0001)
}

func TestStatsServiceWithoutMetrics(t *testing.T) {
	svc := NewStatsService(statsRepoStub{stats: &models.AdminStats{}}, nil, nil)
	stats, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Nil(t, stats.Runtime)

	svc = NewStatsService(statsRepoStub{err: errors.New("db down")}, nil, nil)
	_, err = svc.Summary(context.Background())
	assert.ErrorIs(t, err, appErrors.ErrInternal)
}

func TestMetricsServiceCountersAndHandler(t *testing.T) {
	metrics := NewMetricsService()
	metrics.ObserveHTTPRequest("GET", "/api/past-questions", 200, 20*time.Millisecond)
	metrics.ObserveAssetDelete("local", false)
	metrics.ObserveDownload()
	metrics.ObserveDownload()

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.downloads))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.assetDeletes.WithLabelValues("local", "failure")))

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "http_requests_total"))

	var nilMetrics *MetricsService
	nilMetrics.ObserveDownload()
	assert.Equal(t, models.RuntimeMetrics{}, nilMetrics.Snapshot())
}
