package service

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/fixora/helpdesk/internal/persistence"
	"github.com/fixora/helpdesk/internal/repository"
	apperrors "github.com/fixora/helpdesk/pkg/util"
)

const dashboardCacheKey = "helpdesk:dashboard:stats"

// DashboardService serves aggregate ticket statistics, cached in redis so
// the aggregate queries do not run on every request.
type DashboardService struct {
	metrics  repository.MetricsRepository
	cache    *persistence.Redis
	cacheTTL time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

// NewDashboardService constructs the service.
func NewDashboardService(metrics repository.MetricsRepository, cache *persistence.Redis, cacheTTL time.Duration, logger *zap.Logger) *DashboardService {
	return &DashboardService{
		metrics:  metrics,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
		now:      time.Now,
	}
}

// Stats returns dashboard statistics, served from cache when fresh. Cache
// failures degrade to a direct query.
func (s *DashboardService) Stats(ctx context.Context) (*repository.DashboardStats, error) {
	if cached, err := s.cache.GetString(ctx, dashboardCacheKey); err != nil {
		s.logger.Warn("dashboard cache read failed", zap.Error(err))
	} else if cached != "" {
		var stats repository.DashboardStats
		if err := json.Unmarshal([]byte(cached), &stats); err == nil {
			return &stats, nil
		}
	}

	stats, err := s.metrics.DashboardStats(ctx, s.now())
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	if encoded, err := json.Marshal(stats); err == nil {
		if err := s.cache.SetString(ctx, dashboardCacheKey, string(encoded), s.cacheTTL); err != nil {
			s.logger.Warn("dashboard cache write failed", zap.Error(err))
		}
	}
	return stats, nil
}

// TicketsByCategory returns ticket counts grouped by category.
func (s *DashboardService) TicketsByCategory(ctx context.Context) ([]repository.CategoryCount, error) {
	counts, err := s.metrics.TicketsByCategory(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return counts, nil
}

// TicketsByStatus returns ticket counts grouped by status.
func (s *DashboardService) TicketsByStatus(ctx context.Context) ([]repository.StatusCount, error) {
	counts, err := s.metrics.TicketsByStatus(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return counts, nil
}

// TicketsByPriority returns ticket counts grouped by priority.
func (s *DashboardService) TicketsByPriority(ctx context.Context) ([]repository.PriorityCount, error) {
	counts, err := s.metrics.TicketsByPriority(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return counts, nil
}
