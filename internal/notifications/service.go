package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"bluecarbon/internal/config"
)

const userAgent = "bluecarbon/0.1.0"

// Service defines the notification surface exposed to submission and review
// components.
type Service interface {
	NotifySubmissionRecorded(ctx context.Context, farmerName, projectID string) error
	NotifyAnalysisScored(ctx context.Context, projectID string, credits float64) error
	NotifyUploadFailed(ctx context.Context, projectID string, cause error) error
	NotifyDecisionRecorded(ctx context.Context, projectID, farmerName, action string) error
	NotifyError(ctx context.Context, err error, contextLabel string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint:    topic,
		client:      &http.Client{Timeout: timeout},
		submissions: cfg.Notifications.Submissions,
		decisions:   cfg.Notifications.Decisions,
		errors:      cfg.Notifications.Errors,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint    string
	client      *http.Client
	submissions bool
	decisions   bool
	errors      bool
}

func (n *ntfyService) NotifySubmissionRecorded(ctx context.Context, farmerName, projectID string) error {
	if !n.submissions {
		return nil
	}
	data := payload{
		title:   "Blue Carbon - Project Submitted",
		message: fmt.Sprintf("🌱 Project submitted for %s (%s)", strings.TrimSpace(farmerName), shortID(projectID)),
		tags:    []string{"bluecarbon", "submission", "created"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyAnalysisScored(ctx context.Context, projectID string, credits float64) error {
	if !n.submissions {
		return nil
	}
	data := payload{
		title:   "Blue Carbon - Analysis Complete",
		message: fmt.Sprintf("🛰️ Analysis complete for %s: %.1f credits", shortID(projectID), credits),
		tags:    []string{"bluecarbon", "analysis", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyUploadFailed(ctx context.Context, projectID string, cause error) error {
	if !n.errors {
		return nil
	}
	detail := "unknown cause"
	if cause != nil {
		detail = cause.Error()
	}
	data := payload{
		title:    "Blue Carbon - Upload Failed",
		message:  fmt.Sprintf("Upload failed for %s: %s\nThe project was created; retry the upload separately.", shortID(projectID), detail),
		tags:     []string{"bluecarbon", "upload", "failed"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyDecisionRecorded(ctx context.Context, projectID, farmerName, action string) error {
	if !n.decisions {
		return nil
	}
	data := payload{
		title:   "Blue Carbon - Decision Recorded",
		message: fmt.Sprintf("✅ %s: %s (%s)", strings.TrimSpace(action), strings.TrimSpace(farmerName), shortID(projectID)),
		tags:    []string{"bluecarbon", "review", strings.TrimSpace(action)},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyError(ctx context.Context, err error, contextLabel string) error {
	if !n.errors {
		return nil
	}
	detail := "unknown error"
	if err != nil {
		detail = err.Error()
	}
	contextLabel = strings.TrimSpace(contextLabel)
	message := fmt.Sprintf("❌ Error: %s", detail)
	if contextLabel != "" {
		message = fmt.Sprintf("❌ Error (%s): %s", contextLabel, detail)
	}
	data := payload{
		title:    "Blue Carbon - Error",
		message:  message,
		tags:     []string{"bluecarbon", "error"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:   "Blue Carbon - Test",
		message: "Test notification from bluecarbon",
		tags:    []string{"bluecarbon", "test"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func shortID(id string) string {
	id = strings.TrimSpace(id)
	if len(id) > 8 {
		return id[:8]
	}
	if id == "" {
		return "unknown"
	}
	return id
}

type noopService struct{}

func (noopService) NotifySubmissionRecorded(context.Context, string, string) error       { return nil }
func (noopService) NotifyAnalysisScored(context.Context, string, float64) error          { return nil }
func (noopService) NotifyUploadFailed(context.Context, string, error) error              { return nil }
func (noopService) NotifyDecisionRecorded(context.Context, string, string, string) error { return nil }
func (noopService) NotifyError(context.Context, error, string) error                     { return nil }
func (noopService) TestNotification(context.Context) error                               { return nil }
