package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"bluecarbon/internal/project"
	"bluecarbon/internal/services"
)

const (
	userAgent          = "bluecarbon/0.1.0"
	defaultHTTPTimeout = 30 * time.Second
)

// Config captures the runtime settings required to talk to the registry.
type Config struct {
	BaseURL        string
	APIToken       string
	TimeoutSeconds int
}

// Client wraps the registry REST API.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient constructs a registry client using the supplied configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg: Config{
			BaseURL:        strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
			APIToken:       strings.TrimSpace(cfg.APIToken),
			TimeoutSeconds: cfg.TimeoutSeconds,
		},
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return client
}

// DecisionAction is the verdict a verifier sends with a review decision.
type DecisionAction string

const (
	ActionApprove DecisionAction = "approve"
	ActionReject  DecisionAction = "reject"
)

// ParseDecisionAction matches a value against the known actions, ignoring case.
func ParseDecisionAction(value string) (DecisionAction, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case string(ActionApprove):
		return ActionApprove, true
	case string(ActionReject):
		return ActionReject, true
	default:
		return "", false
	}
}

type httpStatusError struct {
	StatusCode int
	Body       string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("registry request: http %d: %s", e.StatusCode, strings.TrimSpace(e.Body))
}

// Ping verifies the registry is reachable.
func (c *Client) Ping(ctx context.Context) error {
	var payload struct {
		Message string `json:"message"`
	}
	if err := c.getJSON(ctx, "/", &payload); err != nil {
		return services.Wrap(services.ErrRegistry, "registry", "ping", "", err)
	}
	return nil
}

type createProjectRequest struct {
	FarmerName string                    `json:"farmer_name"`
	Details    project.PlantationDetails `json:"details"`
}

// CreateProject registers a new project and returns the server-assigned
// record. The returned id is authoritative.
func (c *Client) CreateProject(ctx context.Context, farmerName string, details project.PlantationDetails) (*project.Project, error) {
	var created project.Project
	body := createProjectRequest{FarmerName: farmerName, Details: details}
	if err := c.postJSON(ctx, "/projects", body, &created); err != nil {
		return nil, services.Wrap(services.ErrRegistry, "registry", "create project", "", err)
	}
	return &created, nil
}

// GetProject fetches one project by id.
func (c *Client) GetProject(ctx context.Context, projectID string) (*project.Project, error) {
	projectID = strings.TrimSpace(projectID)
	if projectID == "" {
		return nil, services.Wrap(services.ErrValidation, "registry", "get project", "project id required", nil)
	}
	var record project.Project
	if err := c.getJSON(ctx, "/projects/"+url.PathEscape(projectID), &record); err != nil {
		return nil, classifyLookup(err, "get project")
	}
	return &record, nil
}

// RequestAnalysis asks the analysis service to score a project and returns
// the post-analysis record.
func (c *Client) RequestAnalysis(ctx context.Context, projectID string) (*project.Project, error) {
	projectID = strings.TrimSpace(projectID)
	if projectID == "" {
		return nil, services.Wrap(services.ErrValidation, "registry", "request analysis", "project id required", nil)
	}
	var scored project.Project
	endpoint := "/projects/" + url.PathEscape(projectID) + "/analyze"
	if err := c.postJSON(ctx, endpoint, nil, &scored); err != nil {
		return nil, classifyLookup(err, "request analysis")
	}
	return &scored, nil
}

// ListProjects fetches all projects, optionally filtered by status on the
// server side. An empty status returns everything.
func (c *Client) ListProjects(ctx context.Context, status project.Status) ([]project.Project, error) {
	endpoint := "/projects"
	if status != "" {
		endpoint += "?status=" + url.QueryEscape(string(status))
	}
	var records []project.Project
	if err := c.getJSON(ctx, endpoint, &records); err != nil {
		return nil, services.Wrap(services.ErrRegistry, "registry", "list projects", "", err)
	}
	return records, nil
}

// ListReviewable fetches the projects a verifier can currently act on
// (submitted and under_review).
func (c *Client) ListReviewable(ctx context.Context) ([]project.Project, error) {
	var records []project.Project
	if err := c.getJSON(ctx, "/verifier/projects", &records); err != nil {
		return nil, services.Wrap(services.ErrRegistry, "registry", "list reviewable", "", err)
	}
	return records, nil
}

type reviewRequest struct {
	ProjectID string `json:"project_id"`
	Action    string `json:"action"`
	Comments  string `json:"comments,omitempty"`
}

// SubmitDecision sends an approve/reject verdict with an optional comment and
// returns the post-decision record. Callers must re-fetch the queue rather
// than trusting local state; status stays registry-owned.
func (c *Client) SubmitDecision(ctx context.Context, projectID string, action DecisionAction, comment string) (*project.Project, error) {
	projectID = strings.TrimSpace(projectID)
	if projectID == "" {
		return nil, services.Wrap(services.ErrValidation, "registry", "submit decision", "project id required", nil)
	}
	if action != ActionApprove && action != ActionReject {
		return nil, services.Wrap(services.ErrValidation, "registry", "submit decision", fmt.Sprintf("unknown action %q", action), nil)
	}
	var updated project.Project
	body := reviewRequest{ProjectID: projectID, Action: string(action), Comments: strings.TrimSpace(comment)}
	if err := c.postJSON(ctx, "/verifier/review", body, &updated); err != nil {
		return nil, classifyLookup(err, "submit decision")
	}
	return &updated, nil
}

// GetSettings fetches the marketplace settings.
func (c *Client) GetSettings(ctx context.Context) (project.Settings, error) {
	settings := project.DefaultSettings()
	if err := c.getJSON(ctx, "/admin/settings", &settings); err != nil {
		return project.Settings{}, services.Wrap(services.ErrRegistry, "registry", "get settings", "", err)
	}
	return settings, nil
}

// SaveSettings persists the marketplace settings.
func (c *Client) SaveSettings(ctx context.Context, settings project.Settings) error {
	if settings.TokenPriceUSD <= 0 {
		return services.Wrap(services.ErrValidation, "registry", "save settings", "token price must be positive", nil)
	}
	var saved project.Settings
	if err := c.postJSON(ctx, "/admin/settings", settings, &saved); err != nil {
		return services.Wrap(services.ErrRegistry, "registry", "save settings", "", err)
	}
	return nil
}

// GetReport fetches the structured MRV report for a project.
func (c *Client) GetReport(ctx context.Context, projectID string) (*project.Report, error) {
	projectID = strings.TrimSpace(projectID)
	if projectID == "" {
		return nil, services.Wrap(services.ErrValidation, "registry", "get report", "project id required", nil)
	}
	var report project.Report
	if err := c.getJSON(ctx, "/projects/"+url.PathEscape(projectID)+"/report", &report); err != nil {
		return nil, classifyLookup(err, "get report")
	}
	return &report, nil
}

// GetSpatialCatalogEntry fetches the spatial catalog record for a project.
func (c *Client) GetSpatialCatalogEntry(ctx context.Context, projectID string) (*project.CatalogEntry, error) {
	projectID = strings.TrimSpace(projectID)
	if projectID == "" {
		return nil, services.Wrap(services.ErrValidation, "registry", "get catalog entry", "project id required", nil)
	}
	var entry project.CatalogEntry
	if err := c.getJSON(ctx, "/projects/"+url.PathEscape(projectID)+"/catalog", &entry); err != nil {
		return nil, classifyLookup(err, "get catalog entry")
	}
	return &entry, nil
}

func classifyLookup(err error, operation string) error {
	var statusErr *httpStatusError
	if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
		return services.Wrap(services.ErrNotFound, "registry", operation, "", err)
	}
	return services.Wrap(services.ErrRegistry, "registry", operation, "", err)
}

func (c *Client) getJSON(ctx context.Context, endpoint string, target any) error {
	return c.doJSON(ctx, http.MethodGet, endpoint, nil, target)
}

func (c *Client) postJSON(ctx context.Context, endpoint string, body, target any) error {
	return c.doJSON(ctx, http.MethodPost, endpoint, body, target)
}

func (c *Client) doJSON(ctx context.Context, method, endpoint string, body, target any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.cfg.APIToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http error: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return &httpStatusError{StatusCode: resp.StatusCode, Body: snippet(payload)}
	}
	if target == nil {
		return nil
	}
	if err := json.Unmarshal(payload, target); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func snippet(body []byte) string {
	const limit = 512
	trimmed := strings.TrimSpace(string(body))
	if len(trimmed) > limit {
		return trimmed[:limit] + "..."
	}
	return trimmed
}
