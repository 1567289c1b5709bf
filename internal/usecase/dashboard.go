package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Velroxe/Khatri-College/internal/core/domain"
	"github.com/Velroxe/Khatri-College/internal/core/port"
	"github.com/Velroxe/Khatri-College/internal/repository"
)

const dashboardCacheKey = "dashboard:stats"

// DashboardService serves the admin dashboard aggregates, cache-aside over
// Redis. The cache is optional; without it every call hits the database.
type DashboardService struct {
	stats  port.DashboardRepository
	cache  port.Cache
	ttl    time.Duration
	logger *zap.Logger
}

// NewDashboardService constructs the dashboard service. Pass a nil cache to
// disable caching.
func NewDashboardService(stats port.DashboardRepository, cache port.Cache, ttl time.Duration, log *zap.Logger) *DashboardService {
	if ttl <= 0 {
		ttl = time.Minute
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &DashboardService{stats: stats, cache: cache, ttl: ttl, logger: log}
}

// Stats returns the dashboard aggregates, preferring the cached snapshot.
// Cache failures degrade to a database read rather than failing the request.
func (s *DashboardService) Stats(ctx context.Context) (*domain.DashboardStats, error) {
	if s.cache != nil {
		payload, err := s.cache.Get(ctx, dashboardCacheKey)
		switch {
		case err == nil:
			var cached domain.DashboardStats
			if err := json.Unmarshal(payload, &cached); err == nil {
				return &cached, nil
			}
			s.logger.Warn("dashboard cache payload unreadable, refetching", zap.Error(err))
		case errors.Is(err, repository.ErrNotFound):
		default:
			s.logger.Warn("dashboard cache read failed", zap.Error(err))
		}
	}

	stats, err := s.stats.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("load dashboard stats: %w", err)
	}

	if s.cache != nil {
		if payload, err := json.Marshal(stats); err == nil {
			if err := s.cache.Set(ctx, dashboardCacheKey, payload, s.ttl); err != nil {
				s.logger.Warn("dashboard cache write failed", zap.Error(err))
			}
		}
	}

	return stats, nil
}
