package client

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/jpeggirl/gacha-dashboard/internal/domain/entity"
	"github.com/jpeggirl/gacha-dashboard/internal/port"
	"github.com/jpeggirl/gacha-dashboard/pkg/metrics"
)

const leaderboardTopN = 50

// leaderboardClientImpl talks to the public leaderboard endpoint.
type leaderboardClientImpl struct {
	client        *fasthttp.Client
	baseURL       string
	adminPassword string
	timeout       time.Duration
	logger        *zap.Logger
}

// NewLeaderboardClient creates a leaderboard API client.
func NewLeaderboardClient(baseURL, adminPassword string, timeout time.Duration, logger *zap.Logger) port.LeaderboardAPI {
	return &leaderboardClientImpl{
		client:        &fasthttp.Client{},
		baseURL:       strings.TrimRight(baseURL, "/"),
		adminPassword: adminPassword,
		timeout:       timeout,
		logger:        logger.Named("LeaderboardClient"),
	}
}

// FetchLeaderboard implements port.LeaderboardAPI.
func (c *leaderboardClientImpl) FetchLeaderboard(ctx context.Context, leaderboardType string) ([]entity.LeaderboardEntry, error) {
	if leaderboardType != entity.LeaderboardTotal && leaderboardType != entity.LeaderboardWeekly {
		return nil, fmt.Errorf("leaderboard type must be %q or %q, got %q", entity.LeaderboardTotal, entity.LeaderboardWeekly, leaderboardType)
	}

	requestURL := fmt.Sprintf("%s/leaderboard/%s", c.baseURL, leaderboardType)
	c.logger.Debug("Requesting leaderboard", zap.String("url", requestURL))

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(requestURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.SetContentType("application/json")
	if c.adminPassword != "" {
		req.Header.Set(adminPasswordHeader, c.adminPassword)
	}

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	var err error
	if deadline, ok := ctx.Deadline(); ok {
		err = c.client.DoDeadline(req, resp, deadline)
	} else {
		err = c.client.DoTimeout(req, resp, c.timeout)
	}
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues("leaderboard", metrics.OutcomeError).Inc()
		c.logger.Error("Failed to execute leaderboard request", zap.String("url", requestURL), zap.Error(err))
		return nil, fmt.Errorf("failed to execute request to %s: %w", requestURL, err)
	}

	body := resp.Body()
	if resp.StatusCode() != fasthttp.StatusOK {
		metrics.UpstreamRequestsTotal.WithLabelValues("leaderboard", metrics.OutcomeError).Inc()
		c.logger.Error("Leaderboard API request failed",
			zap.String("url", requestURL),
			zap.Int("statusCode", resp.StatusCode()),
			zap.ByteString("responseBody", body),
		)
		return nil, fmt.Errorf("leaderboard request to %s failed with status %d: %s", requestURL, resp.StatusCode(), string(body))
	}

	entries := DecodeLeaderboard(body)
	metrics.UpstreamRequestsTotal.WithLabelValues("leaderboard", metrics.OutcomeSuccess).Inc()
	c.logger.Debug("Decoded leaderboard response",
		zap.String("type", leaderboardType),
		zap.Int("entries", len(entries)))
	return entries, nil
}

// leaderboardWrapper covers the wrapped response generations; the bare
// array generation is tried first.
type leaderboardWrapper struct {
	TopRankers  []entity.LeaderboardEntry `json:"topRankers"`
	Data        []entity.LeaderboardEntry `json:"data"`
	Leaderboard []entity.LeaderboardEntry `json:"leaderboard"`
}

// DecodeLeaderboard normalizes the leaderboard response, which has shipped
// as a bare array and as objects keyed topRankers/data/leaderboard. Output
// is capped at the top 50, entries without a wallet dropped, ranks
// backfilled from position when absent. An unrecognized shape decodes to
// an empty board rather than an error.
func DecodeLeaderboard(body []byte) []entity.LeaderboardEntry {
	var raw []entity.LeaderboardEntry
	if err := json.Unmarshal(body, &raw); err != nil || raw == nil {
		var wrapper leaderboardWrapper
		if err := json.Unmarshal(body, &wrapper); err == nil {
			switch {
			case wrapper.TopRankers != nil:
				raw = wrapper.TopRankers
			case wrapper.Data != nil:
				raw = wrapper.Data
			case wrapper.Leaderboard != nil:
				raw = wrapper.Leaderboard
			}
		}
	}

	entries := make([]entity.LeaderboardEntry, 0, leaderboardTopN)
	for _, e := range raw {
		if e.Wallet == "" {
			continue
		}
		if e.Rank == 0 {
			e.Rank = len(entries) + 1
		}
		entries = append(entries, e)
		if len(entries) == leaderboardTopN {
			break
		}
	}
	return entries
}
