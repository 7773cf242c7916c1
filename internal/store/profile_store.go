package store

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/jpeggirl/gacha-dashboard/internal/domain/entity"
	"github.com/jpeggirl/gacha-dashboard/internal/port"
	"github.com/jpeggirl/gacha-dashboard/pkg/metrics"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrStoreNotConfigured is returned by write operations when the profile
// store credentials are missing. Reads degrade to empty data instead.
var ErrStoreNotConfigured = errors.New("profile store is not configured: set SUPABASE_URL and SUPABASE_ANON_KEY")

const (
	profilesTable = "user_profiles"
	commentsTable = "profile_comments"
	feedLimit     = 100
)

// profileStoreImpl is a PostgREST client for the hosted tag/comment store.
// Misconfiguration is non-fatal: the store warns once (explicit one-shot
// state on the struct, not a package global) and then short-circuits.
type profileStoreImpl struct {
	client     *fasthttp.Client
	baseURL    string
	anonKey    string
	timeout    time.Duration
	configured bool
	warned     atomic.Bool
	logger     *zap.Logger
}

// NewProfileStore creates a profile store client. Placeholder credentials
// left over from a template count as unconfigured.
func NewProfileStore(baseURL, anonKey string, timeout time.Duration, logger *zap.Logger) port.ProfileStore {
	return &profileStoreImpl{
		client:     &fasthttp.Client{},
		baseURL:    strings.TrimRight(baseURL, "/"),
		anonKey:    anonKey,
		timeout:    timeout,
		configured: credentialsUsable(baseURL, anonKey),
		logger:     logger.Named("ProfileStore"),
	}
}

func credentialsUsable(baseURL, anonKey string) bool {
	if baseURL == "" || anonKey == "" {
		return false
	}
	if strings.Contains(baseURL, "placeholder") || strings.Contains(anonKey, "placeholder") {
		return false
	}
	return true
}

// ready reports whether the store can be used, warning exactly once when
// it cannot.
func (s *profileStoreImpl) ready() bool {
	if s.configured {
		return true
	}
	if s.warned.CompareAndSwap(false, true) {
		s.logger.Warn("Profile store not configured; tags and comments are disabled")
	}
	return false
}

// GetUserProfile implements port.ProfileStore.
func (s *profileStoreImpl) GetUserProfile(ctx context.Context, wallet string) (*entity.UserProfile, error) {
	if !s.ready() {
		return nil, nil
	}
	query := fmt.Sprintf("select=*&wallet_address=eq.%s", url.QueryEscape(wallet))
	body, err := s.do(ctx, fasthttp.MethodGet, profilesTable, query, nil, "")
	if err != nil {
		return nil, err
	}
	var profiles []entity.UserProfile
	if err := json.Unmarshal(body, &profiles); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user profile: %w", err)
	}
	if len(profiles) == 0 {
		return nil, nil
	}
	return &profiles[0], nil
}

// GetUserTags implements port.ProfileStore.
func (s *profileStoreImpl) GetUserTags(ctx context.Context, wallet string) ([]string, error) {
	profile, err := s.GetUserProfile(ctx, wallet)
	if err != nil {
		return nil, err
	}
	if profile == nil || profile.Tags == nil {
		return []string{}, nil
	}
	return profile.Tags, nil
}

// AddUserTag implements port.ProfileStore. Adding a tag the wallet already
// carries is a no-op returning the existing profile.
func (s *profileStoreImpl) AddUserTag(ctx context.Context, wallet, tag, author string) (*entity.UserProfile, error) {
	if !s.ready() {
		return nil, ErrStoreNotConfigured
	}

	existing, err := s.GetUserProfile(ctx, wallet)
	if err != nil {
		return nil, err
	}

	tags := []string{}
	if existing != nil && existing.Tags != nil {
		tags = append(tags, existing.Tags...)
	}
	for _, t := range tags {
		if t == tag {
			return existing, nil
		}
	}
	tags = append(tags, tag)

	return s.upsertProfile(ctx, entity.UserProfile{
		WalletAddress: wallet,
		Tags:          tags,
		CreatedBy:     author,
		UpdatedAt:     time.Now().UTC().Format(time.RFC3339),
	})
}

// RemoveUserTag implements port.ProfileStore.
func (s *profileStoreImpl) RemoveUserTag(ctx context.Context, wallet, tag string) (*entity.UserProfile, error) {
	if !s.ready() {
		return nil, ErrStoreNotConfigured
	}

	existing, err := s.GetUserProfile(ctx, wallet)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}

	tags := make([]string, 0, len(existing.Tags))
	for _, t := range existing.Tags {
		if t != tag {
			tags = append(tags, t)
		}
	}

	return s.upsertProfile(ctx, entity.UserProfile{
		WalletAddress: wallet,
		Tags:          tags,
		CreatedBy:     existing.CreatedBy,
		UpdatedAt:     time.Now().UTC().Format(time.RFC3339),
	})
}

// AllTags implements port.ProfileStore: every distinct tag across all
// profiles, sorted.
func (s *profileStoreImpl) AllTags(ctx context.Context) ([]string, error) {
	if !s.ready() {
		return []string{}, nil
	}
	body, err := s.do(ctx, fasthttp.MethodGet, profilesTable, "select=tags", nil, "")
	if err != nil {
		return nil, err
	}
	var rows []struct {
		Tags []string `json:"tags"`
	}
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tag rows: %w", err)
	}

	seen := make(map[string]struct{})
	for _, row := range rows {
		for _, t := range row.Tags {
			seen[t] = struct{}{}
		}
	}
	tags := make([]string, 0, len(seen))
	for t := range seen {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags, nil
}

// ListComments implements port.ProfileStore, newest first.
func (s *profileStoreImpl) ListComments(ctx context.Context, wallet string) ([]entity.ProfileComment, error) {
	if !s.ready() {
		return []entity.ProfileComment{}, nil
	}
	query := fmt.Sprintf("select=*&wallet_address=eq.%s&order=created_at.desc", url.QueryEscape(wallet))
	return s.fetchComments(ctx, query)
}

// AnnouncementsFeed implements port.ProfileStore: the most recent comments
// across all wallets.
func (s *profileStoreImpl) AnnouncementsFeed(ctx context.Context) ([]entity.ProfileComment, error) {
	if !s.ready() {
		return []entity.ProfileComment{}, nil
	}
	query := fmt.Sprintf("select=*&order=created_at.desc&limit=%d", feedLimit)
	return s.fetchComments(ctx, query)
}

// AddComment implements port.ProfileStore.
func (s *profileStoreImpl) AddComment(ctx context.Context, wallet, comment, author string) (*entity.ProfileComment, error) {
	if !s.ready() {
		return nil, ErrStoreNotConfigured
	}

	payload, err := json.Marshal([]entity.ProfileComment{{
		WalletAddress: wallet,
		Comment:       comment,
		Author:        author,
		CreatedAt:     time.Now().UTC().Format(time.RFC3339),
	}})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal comment: %w", err)
	}

	body, err := s.do(ctx, fasthttp.MethodPost, commentsTable, "", payload, "return=representation")
	if err != nil {
		return nil, err
	}
	var inserted []entity.ProfileComment
	if err := json.Unmarshal(body, &inserted); err != nil {
		return nil, fmt.Errorf("failed to unmarshal inserted comment: %w", err)
	}
	if len(inserted) == 0 {
		return nil, fmt.Errorf("profile store returned no representation for inserted comment")
	}
	return &inserted[0], nil
}

// DeleteComment implements port.ProfileStore.
func (s *profileStoreImpl) DeleteComment(ctx context.Context, commentID int64) error {
	if !s.ready() {
		return ErrStoreNotConfigured
	}
	query := "id=eq." + strconv.FormatInt(commentID, 10)
	_, err := s.do(ctx, fasthttp.MethodDelete, commentsTable, query, nil, "")
	return err
}

func (s *profileStoreImpl) fetchComments(ctx context.Context, query string) ([]entity.ProfileComment, error) {
	body, err := s.do(ctx, fasthttp.MethodGet, commentsTable, query, nil, "")
	if err != nil {
		return nil, err
	}
	var comments []entity.ProfileComment
	if err := json.Unmarshal(body, &comments); err != nil {
		return nil, fmt.Errorf("failed to unmarshal comments: %w", err)
	}
	if comments == nil {
		comments = []entity.ProfileComment{}
	}
	return comments, nil
}

func (s *profileStoreImpl) upsertProfile(ctx context.Context, profile entity.UserProfile) (*entity.UserProfile, error) {
	payload, err := json.Marshal([]entity.UserProfile{profile})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal profile: %w", err)
	}

	body, err := s.do(ctx, fasthttp.MethodPost, profilesTable,
		"on_conflict=wallet_address", payload,
		"resolution=merge-duplicates,return=representation")
	if err != nil {
		return nil, err
	}
	var profiles []entity.UserProfile
	if err := json.Unmarshal(body, &profiles); err != nil {
		return nil, fmt.Errorf("failed to unmarshal upserted profile: %w", err)
	}
	if len(profiles) == 0 {
		return nil, fmt.Errorf("profile store returned no representation for upserted profile")
	}
	return &profiles[0], nil
}

// do executes one PostgREST request and returns a copy of the body.
func (s *profileStoreImpl) do(ctx context.Context, method, table, query string, payload []byte, prefer string) ([]byte, error) {
	requestURL := fmt.Sprintf("%s/rest/v1/%s", s.baseURL, table)
	if query != "" {
		requestURL += "?" + query
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(requestURL)
	req.Header.SetMethod(method)
	req.Header.SetContentType("application/json")
	req.Header.Set("apikey", s.anonKey)
	req.Header.Set("Authorization", "Bearer "+s.anonKey)
	if prefer != "" {
		req.Header.Set("Prefer", prefer)
	}
	if payload != nil {
		req.SetBody(payload)
	}

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	var err error
	if deadline, ok := ctx.Deadline(); ok {
		err = s.client.DoDeadline(req, resp, deadline)
	} else {
		err = s.client.DoTimeout(req, resp, s.timeout)
	}
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues("profile_store", metrics.OutcomeError).Inc()
		s.logger.Error("Profile store request failed", zap.String("url", requestURL), zap.Error(err))
		return nil, fmt.Errorf("profile store request to %s failed: %w", requestURL, err)
	}

	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		metrics.UpstreamRequestsTotal.WithLabelValues("profile_store", metrics.OutcomeError).Inc()
		s.logger.Error("Profile store returned an error",
			zap.String("url", requestURL),
			zap.Int("statusCode", resp.StatusCode()),
			zap.ByteString("responseBody", resp.Body()),
		)
		return nil, fmt.Errorf("profile store request to %s failed with status %d: %s", requestURL, resp.StatusCode(), string(resp.Body()))
	}

	metrics.UpstreamRequestsTotal.WithLabelValues("profile_store", metrics.OutcomeSuccess).Inc()
	body := append([]byte(nil), resp.Body()...)
	return body, nil
}
