package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"

	"github.com/jpeggirl/gacha-dashboard/internal/client"
	"github.com/jpeggirl/gacha-dashboard/internal/config"
	"github.com/jpeggirl/gacha-dashboard/internal/infrastructure/restapi"
	"github.com/jpeggirl/gacha-dashboard/internal/pkg/logger"
	"github.com/jpeggirl/gacha-dashboard/internal/pkg/utils"
	"github.com/jpeggirl/gacha-dashboard/internal/service"
	"github.com/jpeggirl/gacha-dashboard/internal/store"
	"github.com/jpeggirl/gacha-dashboard/pkg/metrics"
)

func main() {
	// logrus handles the bootstrap phase (config loading logs through it);
	// everything after that uses zap.
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)

	cfgPath := utils.GetEnv("CONFIG_PATH", "config/config.yaml")
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	zapLogger, err := logger.NewLogger(cfg.Logging)
	if err != nil {
		logrus.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	// Route slog callers (including library code) through zap.
	slogHandler := zapslog.NewHandler(zapLogger.Core())
	slog.SetDefault(slog.New(slogHandler))

	zapLogger.Info("Configuration loaded", zap.String("path", cfgPath))

	metrics.MustRegisterMetrics()

	purchaseTimeout := time.Duration(cfg.PurchaseAPI.RequestTimeoutMillis) * time.Millisecond
	purchaseClient := client.NewPurchaseClient(
		cfg.PurchaseAPI.BaseURL,
		cfg.PurchaseAPI.AdminPassword,
		purchaseTimeout,
		cfg.PurchaseAPI.RateLimitPerSecond,
		cfg.PurchaseAPI.RateLimitBurst,
		zapLogger,
	)
	zapLogger.Info("Purchase API client initialized")

	leaderboardTimeout := time.Duration(cfg.LeaderboardAPI.RequestTimeoutMillis) * time.Millisecond
	leaderboardClient := client.NewLeaderboardClient(
		cfg.LeaderboardAPI.BaseURL,
		cfg.PurchaseAPI.AdminPassword,
		leaderboardTimeout,
		zapLogger,
	)

	reportTimeout := time.Duration(cfg.ReportAPI.RequestTimeoutMillis) * time.Millisecond
	reportDelay := time.Duration(cfg.ReportAPI.RetryDelayMillis) * time.Millisecond
	reportClient := client.NewReportClient(
		cfg.ReportAPI.BaseURL,
		cfg.ReportAPI.ReportID,
		cfg.PurchaseAPI.AdminPassword,
		reportTimeout,
		cfg.ReportAPI.RetryAttempts,
		reportDelay,
		zapLogger,
	)

	storeTimeout := time.Duration(cfg.ProfileStore.RequestTimeoutMillis) * time.Millisecond
	profileStore := store.NewProfileStore(cfg.ProfileStore.URL, cfg.ProfileStore.AnonKey, storeTimeout, zapLogger)

	leaderboardSvc := service.NewLeaderboardService(leaderboardClient, cfg, zapLogger)
	reportSvc := service.NewReportService(reportClient, cfg, zapLogger)
	walletSvc := service.NewWalletService(purchaseClient, leaderboardSvc, cfg, zapLogger)
	zapLogger.Info("Services initialized")

	dashboardHandler := restapi.NewDashboardHandler(walletSvc, leaderboardSvc, reportSvc, cfg, zapLogger)
	profileHandler := restapi.NewProfileHandler(profileStore, cfg, zapLogger)
	router := restapi.SetupRouter(dashboardHandler, profileHandler, zapLogger)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		zapLogger.Info("Server starting", zap.String("addr", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	zapLogger.Info("Server exited")
}
