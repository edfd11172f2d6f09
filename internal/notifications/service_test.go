package notifications_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"bluecarbon/internal/notifications"
	"bluecarbon/internal/testsupport"
)

type recordedRequest struct {
	Title    string
	Tags     string
	Priority string
	Body     string
}

func newNtfyServer(t *testing.T) (*httptest.Server, func() []recordedRequest) {
	t.Helper()
	var mu sync.Mutex
	var requests []recordedRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		requests = append(requests, recordedRequest{
			Title:    r.Header.Get("Title"),
			Tags:     r.Header.Get("Tags"),
			Priority: r.Header.Get("Priority"),
			Body:     string(body),
		})
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)

	return server, func() []recordedRequest {
		mu.Lock()
		defer mu.Unlock()
		return append([]recordedRequest(nil), requests...)
	}
}

func TestNoopWhenTopicUnset(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	service := notifications.NewService(cfg)
	if err := service.NotifySubmissionRecorded(context.Background(), "Asha", "p1"); err != nil {
		t.Fatalf("noop notify failed: %v", err)
	}
	if err := service.TestNotification(context.Background()); err != nil {
		t.Fatalf("noop test notification failed: %v", err)
	}
}

func TestSubmissionNotificationHeaders(t *testing.T) {
	server, recorded := newNtfyServer(t)
	cfg := testsupport.NewConfig(t)
	cfg.Notifications.NtfyTopic = server.URL
	service := notifications.NewService(cfg)

	if err := service.NotifySubmissionRecorded(context.Background(), "Asha", "0bf7a2c4-1111-2222-3333-444455556666"); err != nil {
		t.Fatalf("notify failed: %v", err)
	}

	requests := recorded()
	if len(requests) != 1 {
		t.Fatalf("received %d requests, want 1", len(requests))
	}
	got := requests[0]
	if got.Title != "Blue Carbon - Project Submitted" {
		t.Errorf("Title = %q", got.Title)
	}
	if !strings.Contains(got.Tags, "submission") {
		t.Errorf("Tags = %q, want submission tag", got.Tags)
	}
	if !strings.Contains(got.Body, "Asha") || !strings.Contains(got.Body, "0bf7a2c4") {
		t.Errorf("body should carry farmer and short id: %q", got.Body)
	}
}

func TestUploadFailureIsHighPriority(t *testing.T) {
	server, recorded := newNtfyServer(t)
	cfg := testsupport.NewConfig(t)
	cfg.Notifications.NtfyTopic = server.URL
	service := notifications.NewService(cfg)

	cause := errors.New("connection reset")
	if err := service.NotifyUploadFailed(context.Background(), "p1", cause); err != nil {
		t.Fatalf("notify failed: %v", err)
	}

	requests := recorded()
	if len(requests) != 1 {
		t.Fatalf("received %d requests, want 1", len(requests))
	}
	if requests[0].Priority != "high" {
		t.Errorf("Priority = %q, want high", requests[0].Priority)
	}
	if !strings.Contains(requests[0].Body, "connection reset") {
		t.Errorf("body should carry the cause: %q", requests[0].Body)
	}
}

func TestCategoryTogglesSuppressSends(t *testing.T) {
	server, recorded := newNtfyServer(t)
	cfg := testsupport.NewConfig(t)
	cfg.Notifications.NtfyTopic = server.URL
	cfg.Notifications.Submissions = false
	cfg.Notifications.Decisions = false
	cfg.Notifications.Errors = false
	service := notifications.NewService(cfg)

	ctx := context.Background()
	_ = service.NotifySubmissionRecorded(ctx, "Asha", "p1")
	_ = service.NotifyAnalysisScored(ctx, "p1", 10)
	_ = service.NotifyDecisionRecorded(ctx, "p1", "Asha", "approve")
	_ = service.NotifyError(ctx, errors.New("boom"), "test")

	if got := len(recorded()); got != 0 {
		t.Errorf("received %d requests, want 0 with all categories off", got)
	}

	// The explicit test notification ignores category toggles.
	if err := service.TestNotification(ctx); err != nil {
		t.Fatalf("test notification failed: %v", err)
	}
	if got := len(recorded()); got != 1 {
		t.Errorf("received %d requests after test notification, want 1", got)
	}
}

func TestServerErrorSurfaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "topic quota exceeded", http.StatusTooManyRequests)
	}))
	t.Cleanup(server.Close)

	cfg := testsupport.NewConfig(t)
	cfg.Notifications.NtfyTopic = server.URL
	service := notifications.NewService(cfg)

	err := service.TestNotification(context.Background())
	if err == nil || !strings.Contains(err.Error(), "429") {
		t.Errorf("error = %v, want 429 detail", err)
	}
}
