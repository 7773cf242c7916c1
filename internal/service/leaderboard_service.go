package service

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/jpeggirl/gacha-dashboard/internal/config"
	"github.com/jpeggirl/gacha-dashboard/internal/domain/entity"
	"github.com/jpeggirl/gacha-dashboard/internal/port"
)

// leaderboardServiceImpl caches the two leaderboard variants with a short
// TTL; concurrent misses for the same variant collapse into one upstream
// call.
type leaderboardServiceImpl struct {
	api    port.LeaderboardAPI
	logger *zap.Logger
	boards *cache.Cache
	group  singleflight.Group
}

// NewLeaderboardService creates a cached leaderboard service.
func NewLeaderboardService(api port.LeaderboardAPI, cfg *config.Config, logger *zap.Logger) port.LeaderboardService {
	ttl := time.Duration(cfg.LeaderboardAPI.CacheTTLSeconds) * time.Second
	cleanup := time.Duration(cfg.Cache.CleanupIntervalMinutes) * time.Minute
	return &leaderboardServiceImpl{
		api:    api,
		logger: logger.Named("LeaderboardService"),
		boards: cache.New(ttl, cleanup),
	}
}

// Leaderboard implements port.LeaderboardService.
func (s *leaderboardServiceImpl) Leaderboard(ctx context.Context, leaderboardType string) ([]entity.LeaderboardEntry, error) {
	if cached, ok := s.boards.Get(leaderboardType); ok {
		return cached.([]entity.LeaderboardEntry), nil
	}

	v, err, _ := s.group.Do(leaderboardType, func() (interface{}, error) {
		entries, err := s.api.FetchLeaderboard(ctx, leaderboardType)
		if err != nil {
			return nil, err
		}
		s.boards.Set(leaderboardType, entries, cache.DefaultExpiration)
		return entries, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]entity.LeaderboardEntry), nil
}
