package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/jpeggirl/gacha-dashboard/internal/domain/entity"
	"github.com/jpeggirl/gacha-dashboard/internal/port"
	"github.com/jpeggirl/gacha-dashboard/pkg/metrics"
)

const adminPasswordHeader = "x-admin-password"

// purchaseClientImpl talks to the admin pack-purchases endpoint.
type purchaseClientImpl struct {
	client        *fasthttp.Client
	baseURL       string
	adminPassword string
	timeout       time.Duration
	limiter       *rate.Limiter
	logger        *zap.Logger
}

// NewPurchaseClient creates a pack-purchases API client. ratePerSecond and
// burst bound outbound request rate against the admin API; a non-positive
// rate disables limiting.
func NewPurchaseClient(baseURL, adminPassword string, timeout time.Duration, ratePerSecond float64, burst int, logger *zap.Logger) port.PurchaseAPI {
	limiter := rate.NewLimiter(rate.Inf, 0)
	if ratePerSecond > 0 {
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(ratePerSecond), burst)
	}
	return &purchaseClientImpl{
		client:        &fasthttp.Client{},
		baseURL:       strings.TrimRight(baseURL, "/"),
		adminPassword: adminPassword,
		timeout:       timeout,
		limiter:       limiter,
		logger:        logger.Named("PurchaseClient"),
	}
}

// FetchPackPurchases implements port.PurchaseAPI.
func (c *purchaseClientImpl) FetchPackPurchases(ctx context.Context, identifier string, q entity.PurchaseQuery) (*entity.RawWalletPayload, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, fmt.Errorf("identifier is required")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait interrupted: %w", err)
	}

	requestURL := fmt.Sprintf("%s/pack-purchases/%s", c.baseURL, url.PathEscape(identifier))
	if params := encodeQuery(q); params != "" {
		requestURL += "?" + params
	}

	c.logger.Debug("Requesting pack purchases", zap.String("url", requestURL))

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
		outcome := metrics.OutcomeError
		if err == fasthttp.ErrTimeout {
			outcome = metrics.OutcomeTimeout
		}
		metrics.UpstreamRequestsTotal.WithLabelValues("purchase", outcome).Inc()
		c.logger.Error("Failed to execute pack-purchases request", zap.String("url", requestURL), zap.Error(err))
		return nil, fmt.Errorf("failed to execute request to %s: %w", requestURL, err)
	}

	// The payload keeps raw JSON sub-slices, and fasthttp reuses the
	// response buffer after release; copy first.
	body := append([]byte(nil), resp.Body()...)
	if resp.StatusCode() != fasthttp.StatusOK {
		metrics.UpstreamRequestsTotal.WithLabelValues("purchase", metrics.OutcomeError).Inc()
		c.logger.Error("Pack-purchases API request failed",
			zap.String("url", requestURL),
			zap.Int("statusCode", resp.StatusCode()),
			zap.ByteString("responseBody", body),
		)
		return nil, fmt.Errorf("pack-purchases request to %s failed with status %d: %s", requestURL, resp.StatusCode(), string(body))
	}

	payload, generation, err := DecodeWalletPayload(body)
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues("purchase", metrics.OutcomeError).Inc()
		return nil, err
	}

	metrics.UpstreamRequestsTotal.WithLabelValues("purchase", metrics.OutcomeSuccess).Inc()
	c.logger.Debug("Decoded pack-purchases response",
		zap.String("identifier", identifier),
		zap.String("schemaGeneration", generation.String()))
	return payload, nil
}

func encodeQuery(q entity.PurchaseQuery) string {
	params := url.Values{}
	if q.TransactionsPage > 0 {
		params.Set("transactionsPage", strconv.Itoa(q.TransactionsPage))
	}
	if q.TransactionsLimit > 0 {
		params.Set("transactionsLimit", strconv.Itoa(q.TransactionsLimit))
	}
	if q.InventoryPage > 0 {
		params.Set("inventoryPage", strconv.Itoa(q.InventoryPage))
	}
	if q.InventoryLimit > 0 {
		params.Set("inventoryLimit", strconv.Itoa(q.InventoryLimit))
	}
	return params.Encode()
}
