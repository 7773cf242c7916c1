package restapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jpeggirl/gacha-dashboard/internal/config"
	"github.com/jpeggirl/gacha-dashboard/internal/domain/entity"
	"github.com/jpeggirl/gacha-dashboard/internal/port"
)

// APIWalletResponse is the wallet search response body.
type APIWalletResponse struct {
	Data            *entity.WalletStats `json:"data"`
	DataSource      string              `json:"dataSource"`
	LeaderboardRank int                 `json:"leaderboardRank,omitempty"`
	StatusMessage   string              `json:"statusMessage"`
}

// APIErrorResponse is the error body for 4xx/5xx answers.
type APIErrorResponse struct {
	Error string `json:"error"`
}

// DashboardHandler handles wallet, leaderboard and report requests.
type DashboardHandler struct {
	wallets     port.WalletService
	leaderboard port.LeaderboardService
	report      port.ReportService
	cfg         *config.Config
	logger      *zap.Logger
}

// NewDashboardHandler creates the dashboard handler set.
func NewDashboardHandler(wallets port.WalletService, leaderboard port.LeaderboardService, report port.ReportService, cfg *config.Config, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		wallets:     wallets,
		leaderboard: leaderboard,
		report:      report,
		cfg:         cfg,
		logger:      logger.Named("DashboardHandler"),
	}
}

// GetWalletHandler handles GET /api/v1/wallets/:identifier.
// Query: transactionsPage, transactionsLimit, inventoryPage,
// inventoryLimit, timeFrame (7d|30d|all).
func (h *DashboardHandler) GetWalletHandler(c *gin.Context) {
	identifier := strings.TrimSpace(c.Param("identifier"))
	if identifier == "" {
		c.JSON(http.StatusBadRequest, APIErrorResponse{Error: "identifier is required"})
		return
	}
	// Anything 0x-prefixed has to be a well-formed address; other
	// identifiers pass through as username/email.
	if strings.HasPrefix(strings.ToLower(identifier), "0x") && !common.IsHexAddress(identifier) {
		c.JSON(http.StatusBadRequest, APIErrorResponse{Error: "invalid wallet address"})
		return
	}

	q := entity.PurchaseQuery{
		TransactionsPage:  queryInt(c, "transactionsPage"),
		TransactionsLimit: queryInt(c, "transactionsLimit"),
		InventoryPage:     queryInt(c, "inventoryPage"),
		InventoryLimit:    queryInt(c, "inventoryLimit"),
		TimeFrame:         c.Query("timeFrame"),
	}
	if !entity.ValidTimeFrame(q.TimeFrame) {
		c.JSON(http.StatusBadRequest, APIErrorResponse{Error: "timeFrame must be 7d, 30d or all"})
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	result, err := h.wallets.Search(ctx, identifier, q)
	if err != nil {
		h.logger.Error("Wallet search failed", zap.String("identifier", identifier), zap.Error(err))
		c.JSON(http.StatusBadGateway, APIErrorResponse{Error: err.Error()})
		return
	}

	response := APIWalletResponse{
		Data:            result.Stats,
		DataSource:      result.DataSource,
		LeaderboardRank: result.LeaderboardRank,
	}
	switch {
	case result.DataSource == entity.DataSourceMock:
		response.StatusMessage = "Purchase API unreachable; showing generated mock data."
	case result.Stats != nil && result.Stats.TotalPacks == 0:
		response.StatusMessage = "No purchase data found for this identifier."
	default:
		response.StatusMessage = "Wallet data retrieved successfully."
	}
	c.JSON(http.StatusOK, response)
}

// GetLeaderboardHandler handles GET /api/v1/leaderboard/:type.
func (h *DashboardHandler) GetLeaderboardHandler(c *gin.Context) {
	leaderboardType := c.Param("type")
	if leaderboardType != entity.LeaderboardTotal && leaderboardType != entity.LeaderboardWeekly {
		c.JSON(http.StatusBadRequest, APIErrorResponse{Error: "leaderboard type must be total or weekly"})
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	entries, err := h.leaderboard.Leaderboard(ctx, leaderboardType)
	if err != nil {
		h.logger.Error("Leaderboard fetch failed", zap.String("type", leaderboardType), zap.Error(err))
		c.JSON(http.StatusBadGateway, APIErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": entries})
}

// GetReportHandler handles GET /api/v1/report, passing the upstream
// document through untouched.
func (h *DashboardHandler) GetReportHandler(c *gin.Context) {
	timeout := time.Duration(h.cfg.ReportAPI.RequestTimeoutMillis) * time.Millisecond
	// Leave headroom for the retry pause.
	retries := time.Duration(h.cfg.ReportAPI.RetryAttempts) * (timeout + time.Duration(h.cfg.ReportAPI.RetryDelayMillis)*time.Millisecond)
	ctx, cancel := contextWithTimeout(c, timeout+retries)
	defer cancel()

	report, err := h.report.Report(ctx)
	if err != nil {
		h.logger.Error("Report fetch failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, APIErrorResponse{Error: err.Error()})
		return
	}
	c.Data(http.StatusOK, "application/json", report)
}

// HealthHandler handles GET /health.
func (h *DashboardHandler) HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *DashboardHandler) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	timeout := time.Duration(h.cfg.PurchaseAPI.RequestTimeoutMillis) * time.Millisecond
	return contextWithTimeout(c, timeout)
}
