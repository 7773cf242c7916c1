package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config holds the overall configuration for the dashboard service.
type Config struct {
	Server         ServerConfig         `yaml:"server"`
	PurchaseAPI    PurchaseAPIConfig    `yaml:"purchaseApi"`
	LeaderboardAPI LeaderboardAPIConfig `yaml:"leaderboardApi"`
	ReportAPI      ReportAPIConfig      `yaml:"reportApi"`
	ProfileStore   ProfileStoreConfig   `yaml:"profileStore"`
	WalletService  WalletServiceConfig  `yaml:"walletService"`
	Cache          CacheConfig          `yaml:"cache"`
	Logging        LoggingConfig        `yaml:"logging"`
}

// ServerConfig holds the HTTP server configuration.
type ServerConfig struct {
	Port         string `yaml:"port"`
	ReadTimeout  int    `yaml:"readTimeout"`
	WriteTimeout int    `yaml:"writeTimeout"`
	IdleTimeout  int    `yaml:"idleTimeout"`
}

// PurchaseAPIConfig holds the admin pack-purchases API configuration. The
// admin password comes from the environment, never from the YAML file.
type PurchaseAPIConfig struct {
	BaseURL              string  `yaml:"baseURL"`
	RequestTimeoutMillis int64   `yaml:"requestTimeoutMillis"`
	RateLimitPerSecond   float64 `yaml:"rateLimitPerSecond"`
	RateLimitBurst       int     `yaml:"rateLimitBurst"`
	AdminPassword        string  `yaml:"-"`
}

// LeaderboardAPIConfig holds the leaderboard API configuration.
type LeaderboardAPIConfig struct {
	BaseURL              string `yaml:"baseURL"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
	CacheTTLSeconds      int    `yaml:"cacheTTLSeconds"`
}

// ReportAPIConfig holds the report API configuration. The report endpoint
// is slow, hence the longer timeout and the retry.
type ReportAPIConfig struct {
	BaseURL              string `yaml:"baseURL"`
	ReportID             string `yaml:"reportID"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
	RetryAttempts        int    `yaml:"retryAttempts"`
	RetryDelayMillis     int64  `yaml:"retryDelayMillis"`
	CacheTTLSeconds      int    `yaml:"cacheTTLSeconds"`
}

// ProfileStoreConfig holds the hosted tag/comment store configuration.
// URL and key come from the environment.
type ProfileStoreConfig struct {
	URL                  string `yaml:"-"`
	AnonKey              string `yaml:"-"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
}

// WalletServiceConfig holds configuration for the wallet search service.
type WalletServiceConfig struct {
	SnapshotTTLSeconds  int   `yaml:"snapshotTTLSeconds"`
	MockFallbackEnabled *bool `yaml:"mockFallbackEnabled"`
}

// CacheConfig holds shared cache housekeeping configuration.
type CacheConfig struct {
	CleanupIntervalMinutes int `yaml:"cleanupIntervalMinutes"`
}

// LoggingConfig holds the logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"` // "debug", "info", "warn", "error"
	File  string `yaml:"file"`
}

// LoadConfig loads configuration from a YAML file, then overlays secrets
// from the environment (.env is honored when present).
func LoadConfig(path string) (*Config, error) {
	// Missing .env is fine; environment variables may be set directly.
	if err := godotenv.Load(); err == nil {
		logrus.Info("Loaded environment overrides from .env")
	}

	logrus.Infof("Loading configuration from path: %s", path)
	data, err := os.ReadFile(path)
	if err != nil {
		logrus.Errorf("Failed to read config file %s: %v", path, err)
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		logrus.Errorf("Failed to unmarshal config data from %s: %v", path, err)
		return nil, fmt.Errorf("failed to unmarshal config data from %s: %w", path, err)
	}

	cfg.PurchaseAPI.AdminPassword = os.Getenv("ADMIN_PASSWORD")
	if cfg.PurchaseAPI.AdminPassword == "" {
		logrus.Warn("ADMIN_PASSWORD is not set; purchase API calls will likely be rejected")
	}
	cfg.ProfileStore.URL = os.Getenv("SUPABASE_URL")
	cfg.ProfileStore.AnonKey = os.Getenv("SUPABASE_ANON_KEY")

	applyDefaults(&cfg)
	logrus.Info("Configuration loaded successfully.")
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = ":8080"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 45
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = 60
	}

	if cfg.PurchaseAPI.BaseURL == "" {
		cfg.PurchaseAPI.BaseURL = "https://api-pull.gacha.game/api/admin"
		logrus.Infof("PurchaseAPI.BaseURL not set, defaulting to %s", cfg.PurchaseAPI.BaseURL)
	}
	if cfg.PurchaseAPI.RequestTimeoutMillis == 0 {
		cfg.PurchaseAPI.RequestTimeoutMillis = 10000 // 10 seconds
		logrus.Infof("PurchaseAPI.RequestTimeoutMillis not set, defaulting to %d ms", cfg.PurchaseAPI.RequestTimeoutMillis)
	}
	if cfg.PurchaseAPI.RateLimitBurst == 0 {
		cfg.PurchaseAPI.RateLimitBurst = 5
	}

	if cfg.LeaderboardAPI.BaseURL == "" {
		cfg.LeaderboardAPI.BaseURL = "https://api-pull.gacha.game/api"
		logrus.Infof("LeaderboardAPI.BaseURL not set, defaulting to %s", cfg.LeaderboardAPI.BaseURL)
	}
	if cfg.LeaderboardAPI.RequestTimeoutMillis == 0 {
		cfg.LeaderboardAPI.RequestTimeoutMillis = 10000
	}
	if cfg.LeaderboardAPI.CacheTTLSeconds == 0 {
		cfg.LeaderboardAPI.CacheTTLSeconds = 60
	}

	if cfg.ReportAPI.BaseURL == "" {
		cfg.ReportAPI.BaseURL = cfg.LeaderboardAPI.BaseURL
	}
	if cfg.ReportAPI.RequestTimeoutMillis == 0 {
		cfg.ReportAPI.RequestTimeoutMillis = 30000 // the report endpoint is slow
		logrus.Infof("ReportAPI.RequestTimeoutMillis not set, defaulting to %d ms", cfg.ReportAPI.RequestTimeoutMillis)
	}
	if cfg.ReportAPI.RetryAttempts == 0 {
		cfg.ReportAPI.RetryAttempts = 1
	}
	if cfg.ReportAPI.RetryDelayMillis == 0 {
		cfg.ReportAPI.RetryDelayMillis = 2000
	}
	if cfg.ReportAPI.CacheTTLSeconds == 0 {
		cfg.ReportAPI.CacheTTLSeconds = 300
	}

	if cfg.ProfileStore.RequestTimeoutMillis == 0 {
		cfg.ProfileStore.RequestTimeoutMillis = 10000
	}

	if cfg.WalletService.SnapshotTTLSeconds == 0 {
		cfg.WalletService.SnapshotTTLSeconds = 30
	}
	if cfg.WalletService.MockFallbackEnabled == nil {
		enabled := true
		cfg.WalletService.MockFallbackEnabled = &enabled
	}

	if cfg.Cache.CleanupIntervalMinutes == 0 {
		cfg.Cache.CleanupIntervalMinutes = 10
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}
