package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/jpeggirl/gacha-dashboard/internal/config"
	"github.com/jpeggirl/gacha-dashboard/internal/port"
)

const reportCacheKey = "report"

// reportServiceImpl caches the (slow, opaque) report document.
type reportServiceImpl struct {
	api     port.ReportAPI
	logger  *zap.Logger
	reports *cache.Cache
	group   singleflight.Group
}

// NewReportService creates a cached report service.
func NewReportService(api port.ReportAPI, cfg *config.Config, logger *zap.Logger) port.ReportService {
	ttl := time.Duration(cfg.ReportAPI.CacheTTLSeconds) * time.Second
	cleanup := time.Duration(cfg.Cache.CleanupIntervalMinutes) * time.Minute
	return &reportServiceImpl{
		api:     api,
		logger:  logger.Named("ReportService"),
		reports: cache.New(ttl, cleanup),
	}
}

// Report implements port.ReportService.
func (s *reportServiceImpl) Report(ctx context.Context) (json.RawMessage, error) {
	if cached, ok := s.reports.Get(reportCacheKey); ok {
		return cached.(json.RawMessage), nil
	}

	v, err, _ := s.group.Do(reportCacheKey, func() (interface{}, error) {
		report, err := s.api.FetchReport(ctx)
		if err != nil {
			return nil, err
		}
		s.reports.Set(reportCacheKey, report, cache.DefaultExpiration)
		return report, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(json.RawMessage), nil
}
