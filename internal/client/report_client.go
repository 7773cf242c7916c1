package client

import (
	"context"
	stdjson "encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/jpeggirl/gacha-dashboard/internal/port"
	"github.com/jpeggirl/gacha-dashboard/pkg/metrics"
)

// reportClientImpl talks to the report endpoint, which is slow enough to
// warrant its own timeout and a retry.
type reportClientImpl struct {
	client        *fasthttp.Client
	baseURL       string
	reportID      string
	adminPassword string
	timeout       time.Duration
	retryAttempts int
	retryDelay    time.Duration
	logger        *zap.Logger
}

// NewReportClient creates a report API client for a fixed report ID.
// A non-UUID report ID is accepted but logged, since the upstream has only
// ever issued UUIDs.
func NewReportClient(baseURL, reportID, adminPassword string, timeout time.Duration, retryAttempts int, retryDelay time.Duration, logger *zap.Logger) port.ReportAPI {
	log := logger.Named("ReportClient")
	if _, err := uuid.Parse(reportID); err != nil && reportID != "" {
		log.Warn("Configured report ID is not a UUID", zap.String("reportID", reportID))
	}
	return &reportClientImpl{
		client:        &fasthttp.Client{},
		baseURL:       strings.TrimRight(baseURL, "/"),
		reportID:      reportID,
		adminPassword: adminPassword,
		timeout:       timeout,
		retryAttempts: retryAttempts,
		retryDelay:    retryDelay,
		logger:        log,
	}
}

// FetchReport implements port.ReportAPI. Timeouts are retried once (or as
// configured) after a short pause; other failures are returned directly.
func (c *reportClientImpl) FetchReport(ctx context.Context) (stdjson.RawMessage, error) {
	if c.reportID == "" {
		return nil, fmt.Errorf("report ID is not configured")
	}

	requestURL := fmt.Sprintf("%s/report/%s", c.baseURL, c.reportID)

	var lastErr error
	for attempt := 0; attempt <= c.retryAttempts; attempt++ {
		if attempt > 0 {
			c.logger.Info("Report request timed out, retrying",
				zap.Int("attempt", attempt),
				zap.Duration("delay", c.retryDelay))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.retryDelay):
			}
		}

		body, err := c.doRequest(ctx, requestURL)
		if err == nil {
			metrics.UpstreamRequestsTotal.WithLabelValues("report", metrics.OutcomeSuccess).Inc()
			return body, nil
		}
		lastErr = err
		if !isTimeout(err) {
			metrics.UpstreamRequestsTotal.WithLabelValues("report", metrics.OutcomeError).Inc()
			return nil, err
		}
		metrics.UpstreamRequestsTotal.WithLabelValues("report", metrics.OutcomeTimeout).Inc()
	}

	return nil, fmt.Errorf("report request timed out after %s: %w", c.timeout, lastErr)
}

func (c *reportClientImpl) doRequest(ctx context.Context, requestURL string) (stdjson.RawMessage, error) {
	c.logger.Debug("Requesting report", zap.String("url", requestURL))
	started := time.Now()

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
		c.logger.Error("Failed to execute report request", zap.String("url", requestURL), zap.Error(err))
		return nil, fmt.Errorf("failed to execute request to %s: %w", requestURL, err)
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		c.logger.Error("Report API request failed",
			zap.String("url", requestURL),
			zap.Int("statusCode", resp.StatusCode()),
			zap.ByteString("responseBody", resp.Body()),
		)
		return nil, fmt.Errorf("report request to %s failed with status %d: %s", requestURL, resp.StatusCode(), string(resp.Body()))
	}

	c.logger.Debug("Report request completed",
		zap.Duration("elapsed", time.Since(started)),
		zap.Int("bodyBytes", len(resp.Body())))

	// Body buffer is reused after release; copy before returning.
	body := make(stdjson.RawMessage, len(resp.Body()))
	copy(body, resp.Body())
	return body, nil
}

func isTimeout(err error) bool {
	for err != nil {
		if err == fasthttp.ErrTimeout {
			return true
		}
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = unwrapper.Unwrap()
	}
	return false
}
