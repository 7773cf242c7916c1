package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestProfileStore_UnconfiguredDegrades(t *testing.T) {
	cases := []struct {
		name    string
		baseURL string
		anonKey string
	}{
		{"empty", "", ""},
		{"placeholderURL", "https://placeholder.supabase.co", "key"},
		{"placeholderKey", "https://real.supabase.co", "placeholder-anon-key"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := NewProfileStore(tc.baseURL, tc.anonKey, time.Second, zap.NewNop())
			ctx := context.Background()

			// Reads degrade to empty data.
			if profile, err := s.GetUserProfile(ctx, "0xabc"); err != nil || profile != nil {
				t.Errorf("GetUserProfile = %v, %v; want nil, nil", profile, err)
			}
			if tags, err := s.GetUserTags(ctx, "0xabc"); err != nil || len(tags) != 0 {
				t.Errorf("GetUserTags = %v, %v; want empty, nil", tags, err)
			}
			if tags, err := s.AllTags(ctx); err != nil || len(tags) != 0 {
				t.Errorf("AllTags = %v, %v; want empty, nil", tags, err)
			}
			if comments, err := s.ListComments(ctx, "0xabc"); err != nil || len(comments) != 0 {
				t.Errorf("ListComments = %v, %v; want empty, nil", comments, err)
			}
			if feed, err := s.AnnouncementsFeed(ctx); err != nil || len(feed) != 0 {
				t.Errorf("AnnouncementsFeed = %v, %v; want empty, nil", feed, err)
			}

			// Writes fail loudly.
			if _, err := s.AddUserTag(ctx, "0xabc", "collectors", "admin"); !errors.Is(err, ErrStoreNotConfigured) {
				t.Errorf("AddUserTag err = %v, want ErrStoreNotConfigured", err)
			}
			if _, err := s.RemoveUserTag(ctx, "0xabc", "collectors"); !errors.Is(err, ErrStoreNotConfigured) {
				t.Errorf("RemoveUserTag err = %v, want ErrStoreNotConfigured", err)
			}
			if _, err := s.AddComment(ctx, "0xabc", "note", "admin"); !errors.Is(err, ErrStoreNotConfigured) {
				t.Errorf("AddComment err = %v, want ErrStoreNotConfigured", err)
			}
			if err := s.DeleteComment(ctx, 7); !errors.Is(err, ErrStoreNotConfigured) {
				t.Errorf("DeleteComment err = %v, want ErrStoreNotConfigured", err)
			}
		})
	}
}

func TestProfileStore_GetUserProfile(t *testing.T) {
	var gotPath, gotQuery, gotKey, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotKey = r.Header.Get("apikey")
		gotAuth = r.Header.Get("Authorization")
		fmt.Fprint(w, `[{"wallet_address":"0xabc","tags":["collectors"],"created_by":"admin"}]`)
	}))
	defer srv.Close()

	s := NewProfileStore(srv.URL, "anon-key", time.Second, zap.NewNop())
	profile, err := s.GetUserProfile(context.Background(), "0xabc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/rest/v1/user_profiles" {
		t.Errorf("path = %q", gotPath)
	}
	if gotQuery != "select=*&wallet_address=eq.0xabc" {
		t.Errorf("query = %q", gotQuery)
	}
	if gotKey != "anon-key" || gotAuth != "Bearer anon-key" {
		t.Errorf("auth headers = %q / %q", gotKey, gotAuth)
	}
	if profile == nil || profile.WalletAddress != "0xabc" || len(profile.Tags) != 1 {
		t.Errorf("profile = %+v", profile)
	}
}

func TestProfileStore_GetUserProfile_NoRows(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	}))
	defer srv.Close()

	s := NewProfileStore(srv.URL, "anon-key", time.Second, zap.NewNop())
	profile, err := s.GetUserProfile(context.Background(), "0xabc")
	if err != nil || profile != nil {
		t.Errorf("expected nil, nil for an unknown wallet, got %v, %v", profile, err)
	}
}

func TestProfileStore_AddUserTag(t *testing.T) {
	var upsertBody []byte
	var gotPrefer string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			fmt.Fprint(w, `[{"wallet_address":"0xabc","tags":["collectors"]}]`)
			return
		}
		upsertBody, _ = io.ReadAll(r.Body)
		gotPrefer = r.Header.Get("Prefer")
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `[{"wallet_address":"0xabc","tags":["collectors","rip packs"]}]`)
	}))
	defer srv.Close()

	s := NewProfileStore(srv.URL, "anon-key", time.Second, zap.NewNop())
	profile, err := s.AddUserTag(context.Background(), "0xabc", "rip packs", "admin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPrefer != "resolution=merge-duplicates,return=representation" {
		t.Errorf("Prefer header = %q", gotPrefer)
	}
	if len(upsertBody) == 0 {
		t.Fatal("expected an upsert body")
	}
	if len(profile.Tags) != 2 {
		t.Errorf("profile = %+v", profile)
	}
}

func TestProfileStore_AddUserTag_DuplicateIsNoOp(t *testing.T) {
	var posts int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			posts++
		}
		fmt.Fprint(w, `[{"wallet_address":"0xabc","tags":["collectors"]}]`)
	}))
	defer srv.Close()

	s := NewProfileStore(srv.URL, "anon-key", time.Second, zap.NewNop())
	profile, err := s.AddUserTag(context.Background(), "0xabc", "collectors", "admin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if posts != 0 {
		t.Errorf("duplicate tag should not upsert, got %d posts", posts)
	}
	if profile == nil || len(profile.Tags) != 1 {
		t.Errorf("profile = %+v", profile)
	}
}

func TestProfileStore_DeleteComment(t *testing.T) {
	var gotMethod, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotQuery = r.URL.RawQuery
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	s := NewProfileStore(srv.URL, "anon-key", time.Second, zap.NewNop())
	if err := s.DeleteComment(context.Background(), 42); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotMethod != http.MethodDelete || gotQuery != "id=eq.42" {
		t.Errorf("request = %s %q", gotMethod, gotQuery)
	}
}

func TestProfileStore_AnnouncementsFeed(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		fmt.Fprint(w, `[{"id":1,"wallet_address":"0xabc","comment":"whale alert","author":"admin"}]`)
	}))
	defer srv.Close()

	s := NewProfileStore(srv.URL, "anon-key", time.Second, zap.NewNop())
	feed, err := s.AnnouncementsFeed(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotQuery != "select=*&order=created_at.desc&limit=100" {
		t.Errorf("query = %q", gotQuery)
	}
	if len(feed) != 1 || feed[0].Comment != "whale alert" {
		t.Errorf("feed = %+v", feed)
	}
}

func TestProfileStore_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"permission denied"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	s := NewProfileStore(srv.URL, "anon-key", time.Second, zap.NewNop())
	if _, err := s.GetUserProfile(context.Background(), "0xabc"); err == nil {
		t.Error("expected error for 401 response")
	}
}
