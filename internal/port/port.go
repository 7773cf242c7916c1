package port

import (
	"context"
	"encoding/json"

	"github.com/jpeggirl/gacha-dashboard/internal/domain/entity"
)

// PurchaseAPI defines the interface for the remote pack-purchases endpoint.
type PurchaseAPI interface {
	// FetchPackPurchases fetches the raw wallet payload for an identifier
	// (wallet address, username or email).
	FetchPackPurchases(ctx context.Context, identifier string, q entity.PurchaseQuery) (*entity.RawWalletPayload, error)
}

// LeaderboardAPI defines the interface for the leaderboard endpoint.
type LeaderboardAPI interface {
	// FetchLeaderboard fetches the "total" or "weekly" leaderboard, already
	// normalized to at most the top 50 entries with ranks filled in.
	FetchLeaderboard(ctx context.Context, leaderboardType string) ([]entity.LeaderboardEntry, error)
}

// ReportAPI defines the interface for the report endpoint. The report body
// is an opaque upstream document and is passed through untouched.
type ReportAPI interface {
	FetchReport(ctx context.Context) (json.RawMessage, error)
}

// ProfileStore defines the interface for the external tag/comment store.
// Implementations must degrade, not fail: reads on an unconfigured store
// return empty data, writes return a descriptive error.
type ProfileStore interface {
	GetUserProfile(ctx context.Context, wallet string) (*entity.UserProfile, error)
	GetUserTags(ctx context.Context, wallet string) ([]string, error)
	AddUserTag(ctx context.Context, wallet, tag, author string) (*entity.UserProfile, error)
	RemoveUserTag(ctx context.Context, wallet, tag string) (*entity.UserProfile, error)
	AllTags(ctx context.Context) ([]string, error)

	ListComments(ctx context.Context, wallet string) ([]entity.ProfileComment, error)
	AddComment(ctx context.Context, wallet, comment, author string) (*entity.ProfileComment, error)
	DeleteComment(ctx context.Context, commentID int64) error
	AnnouncementsFeed(ctx context.Context) ([]entity.ProfileComment, error)
}

// WalletService drives one search: fetch, fall back to mock data if the
// API is unreachable, filter by time frame, aggregate.
type WalletService interface {
	Search(ctx context.Context, identifier string, q entity.PurchaseQuery) (*entity.WalletSearchResult, error)
}

// LeaderboardService serves cached leaderboards.
type LeaderboardService interface {
	Leaderboard(ctx context.Context, leaderboardType string) ([]entity.LeaderboardEntry, error)
}

// ReportService serves the cached report document.
type ReportService interface {
	Report(ctx context.Context) (json.RawMessage, error)
}
