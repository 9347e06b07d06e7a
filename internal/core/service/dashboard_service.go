package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ardenlim/stockpoint/internal/core/domain"
	"github.com/ardenlim/stockpoint/internal/port"
)

const statsCacheTTL = 30 * time.Second

// DashboardService serves the aggregate stats read, cached briefly since
// the numbers drive a dashboard, not accounting.
type DashboardService struct {
	stats             port.StatsRepository
	cache             port.StatsCache
	lowStockThreshold int
	log               *zap.Logger
}

func NewDashboardService(stats port.StatsRepository, cache port.StatsCache, lowStockThreshold int, log *zap.Logger) *DashboardService {
	return &DashboardService{
		stats:             stats,
		cache:             cache,
		lowStockThreshold: lowStockThreshold,
		log:               log,
	}
}

func (s *DashboardService) Stats(ctx context.Context) (*domain.DashboardStats, error) {
	cached, err := s.cache.GetDashboardStats(ctx)
	if err != nil {
		s.log.Warn("stats cache read failed", zap.Error(err))
	} else if cached != nil {
		return cached, nil
	}

	stats, err := s.stats.DashboardStats(ctx, s.lowStockThreshold)
	if err != nil {
		return nil, fmt.Errorf("dashboard stats: %w", err)
	}

	if err := s.cache.SetDashboardStats(ctx, stats, statsCacheTTL); err != nil {
		s.log.Warn("stats cache write failed", zap.Error(err))
	}
	return stats, nil
}
