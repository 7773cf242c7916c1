package client

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

const testReportID = "2d7a3f60-8c1e-4b5a-9f42-6d8e1c0a7b39"

func TestFetchReport_Passthrough(t *testing.T) {
	const doc = `{"generated":"2025-06-01","rows":[{"pack":"Starter Pack","sold":12}]}`
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, doc)
	}))
	defer srv.Close()

	c := NewReportClient(srv.URL, testReportID, "secret", time.Second, 1, time.Millisecond, zap.NewNop())
	body, err := c.FetchReport(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/report/"+testReportID {
		t.Errorf("path = %q", gotPath)
	}
	if string(body) != doc {
		t.Errorf("report body altered: %q", body)
	}
}

func TestFetchReport_RetriesOnTimeout(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			time.Sleep(300 * time.Millisecond) // outlive the client timeout
		}
		fmt.Fprint(w, `{"ok":true}`)
	}))
	defer srv.Close()

	c := NewReportClient(srv.URL, testReportID, "", 50*time.Millisecond, 1, 10*time.Millisecond, zap.NewNop())
	body, err := c.FetchReport(context.Background())
	if err != nil {
		t.Fatalf("expected the retry to succeed, got %v", err)
	}
	if string(body) != `{"ok":true}` {
		t.Errorf("body = %q", body)
	}
	if calls.Load() != 2 {
		t.Errorf("expected 2 upstream calls, got %d", calls.Load())
	}
}

func TestFetchReport_NoRetryOnHardError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewReportClient(srv.URL, testReportID, "", time.Second, 3, time.Millisecond, zap.NewNop())
	if _, err := c.FetchReport(context.Background()); err == nil {
		t.Fatal("expected error for 500 response")
	}
	if calls.Load() != 1 {
		t.Errorf("hard errors must not be retried, got %d calls", calls.Load())
	}
}

func TestFetchReport_MissingReportID(t *testing.T) {
	c := NewReportClient("http://127.0.0.1:0", "", "", time.Second, 1, time.Millisecond, zap.NewNop())
	if _, err := c.FetchReport(context.Background()); err == nil {
		t.Error("expected error when report ID is not configured")
	}
}

func TestIsTimeout(t *testing.T) {
	if !isTimeout(fasthttp.ErrTimeout) {
		t.Error("bare fasthttp.ErrTimeout should be a timeout")
	}
	if !isTimeout(fmt.Errorf("request failed: %w", fasthttp.ErrTimeout)) {
		t.Error("wrapped fasthttp.ErrTimeout should be a timeout")
	}
	if isTimeout(fmt.Errorf("connection refused")) {
		t.Error("unrelated error misreported as timeout")
	}
	if isTimeout(nil) {
		t.Error("nil error misreported as timeout")
	}
}
