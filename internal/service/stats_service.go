package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/StudyBeacon/physics-learn/internal/models"
	appErrors "github.com/StudyBeacon/physics-learn/pkg/errors"
)

type statsRepository interface {
	Counts(ctx context.Context) (*models.AdminStats, error)
}

// StatsService aggregates the admin dashboard figures.
type StatsService struct {
	repo    statsRepository
	metrics *MetricsService
	logger  *zap.Logger
}

// NewStatsService constructs the service. metrics may be nil.
func NewStatsService(repo statsRepository, metrics *MetricsService, logger *zap.Logger) *StatsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatsService{repo: repo, metrics: metrics, logger: logger}
}

// Summary returns entity counts plus a runtime snapshot when metrics are enabled.
func (s *StatsService) Summary(ctx context.Context) (*models.AdminStats, error) {
	stats, err := s.repo.Counts(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load stats")
	}
	if s.metrics != nil {
		snapshot := s.metrics.Snapshot()
		stats.Runtime = &snapshot
	}
	return stats, nil
}
