package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/jpeggirl/gacha-dashboard/internal/config"
	"github.com/jpeggirl/gacha-dashboard/internal/domain/entity"
	"github.com/jpeggirl/gacha-dashboard/internal/port"
	"github.com/jpeggirl/gacha-dashboard/pkg/metrics"
)

// walletServiceImpl implements port.WalletService: fetch, fall back to
// mock data, filter by time frame, aggregate. Overlapping identical
// searches are coalesced through singleflight, so a slow fetch resolving
// after a newer identical one cannot produce divergent snapshots.
type walletServiceImpl struct {
	purchase     port.PurchaseAPI
	leaderboard  port.LeaderboardService
	cfg          *config.Config
	logger       *zap.Logger
	snapshots    *cache.Cache
	group        singleflight.Group
	mockFallback bool
}

// NewWalletService creates a wallet search service. leaderboard may be nil
// when rank lookups are not wanted.
func NewWalletService(purchase port.PurchaseAPI, leaderboard port.LeaderboardService, cfg *config.Config, logger *zap.Logger) port.WalletService {
	snapshotTTL := time.Duration(cfg.WalletService.SnapshotTTLSeconds) * time.Second
	cleanup := time.Duration(cfg.Cache.CleanupIntervalMinutes) * time.Minute
	mockFallback := cfg.WalletService.MockFallbackEnabled == nil || *cfg.WalletService.MockFallbackEnabled
	return &walletServiceImpl{
		purchase:     purchase,
		leaderboard:  leaderboard,
		cfg:          cfg,
		logger:       logger.Named("WalletService"),
		snapshots:    cache.New(snapshotTTL, cleanup),
		mockFallback: mockFallback,
	}
}

// Search implements port.WalletService.
func (s *walletServiceImpl) Search(ctx context.Context, identifier string, q entity.PurchaseQuery) (*entity.WalletSearchResult, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, fmt.Errorf("identifier is required")
	}
	if !entity.ValidTimeFrame(q.TimeFrame) {
		return nil, fmt.Errorf("unknown time frame %q", q.TimeFrame)
	}

	key := snapshotKey(identifier, q)
	if cached, ok := s.snapshots.Get(key); ok {
		metrics.SnapshotCacheHitsTotal.Inc()
		return cached.(*entity.WalletSearchResult), nil
	}

	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		return s.search(ctx, identifier, q, key)
	})
	if err != nil {
		return nil, err
	}
	return v.(*entity.WalletSearchResult), nil
}

func (s *walletServiceImpl) search(ctx context.Context, identifier string, q entity.PurchaseQuery, key string) (*entity.WalletSearchResult, error) {
	var (
		payload *entity.RawWalletPayload
		board   []entity.LeaderboardEntry
	)

	// The purchase fetch and the leaderboard rank lookup are independent.
	eg, childCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		p, err := s.purchase.FetchPackPurchases(childCtx, identifier, q)
		if err != nil {
			return err
		}
		payload = p
		return nil
	})
	if s.leaderboard != nil {
		eg.Go(func() error {
			b, err := s.leaderboard.Leaderboard(childCtx, entity.LeaderboardTotal)
			if err != nil {
				// Rank is decoration; a failed leaderboard never fails the search.
				s.logger.Warn("Failed to fetch leaderboard for rank lookup", zap.Error(err))
				return nil
			}
			board = b
			return nil
		})
	}

	dataSource := entity.DataSourceAPI
	if err := eg.Wait(); err != nil {
		if !s.mockFallback {
			return nil, err
		}
		s.logger.Warn("Purchase API failed, using mock fallback",
			zap.String("identifier", identifier),
			zap.Error(err))
		metrics.MockFallbacksTotal.Inc()
		payload = GenerateMockData(identifier)
		dataSource = entity.DataSourceMock
	}

	// Tier classification always uses the unfiltered lifetime total.
	lifetimeTotalSpent := payload.TotalSpent
	filtered := FilterTimeFrame(payload, q.TimeFrame)
	stats := Aggregate(filtered, &lifetimeTotalSpent)

	result := &entity.WalletSearchResult{
		Stats:           stats,
		DataSource:      dataSource,
		LeaderboardRank: rankFor(board, identifier, payload.Wallet),
	}

	// Mock results are not cached so a recovered API gets retried on the
	// next search.
	if dataSource == entity.DataSourceAPI {
		s.snapshots.Set(key, result, cache.DefaultExpiration)
	}
	return result, nil
}

func rankFor(board []entity.LeaderboardEntry, identifier, wallet string) int {
	for _, e := range board {
		if strings.EqualFold(e.Wallet, identifier) || (wallet != "" && strings.EqualFold(e.Wallet, wallet)) {
			return e.Rank
		}
		if e.Username != "" && strings.EqualFold(e.Username, identifier) {
			return e.Rank
		}
	}
	return 0
}

func snapshotKey(identifier string, q entity.PurchaseQuery) string {
	frame := q.TimeFrame
	if frame == "" {
		frame = entity.TimeFrameAll
	}
	return fmt.Sprintf("%s|%d|%d|%d|%d|%s",
		strings.ToLower(identifier),
		q.TransactionsPage, q.TransactionsLimit,
		q.InventoryPage, q.InventoryLimit,
		frame)
}
