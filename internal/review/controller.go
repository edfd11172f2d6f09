package review

import (
	"context"
	"iter"
	"log/slog"
	"strings"
	"sync"

	"bluecarbon/internal/logging"
	"bluecarbon/internal/notifications"
	"bluecarbon/internal/project"
	"bluecarbon/internal/services"
	"bluecarbon/internal/services/registry"
)

// FilterAll matches every status when passed to Filter.
const FilterAll = "all"

// Registry is the subset of the registry client the controller needs.
type Registry interface {
	ListReviewable(ctx context.Context) ([]project.Project, error)
	SubmitDecision(ctx context.Context, projectID string, action registry.DecisionAction, comment string) (*project.Project, error)
}

// Controller holds the verifier's working queue plus draft comments. Loading
// replaces the queue wholesale so it always reflects the registry's latest
// reviewable set.
type Controller struct {
	registry Registry
	store    *Store
	notifier notifications.Service
	logger   *slog.Logger

	mu       sync.Mutex
	queue    []project.Project
	comments map[string]string
}

// NewController constructs a controller. The store may be nil, in which case
// draft comments live only in memory for the session.
func NewController(reg Registry, store *Store, notifier notifications.Service, logger *slog.Logger) *Controller {
	return &Controller{
		registry: reg,
		store:    store,
		notifier: notifier,
		logger:   logging.NewComponentLogger(logger, "review"),
		comments: make(map[string]string),
	}
}

// LoadQueue fetches the reviewable projects and replaces the working queue.
// Persisted draft comments are loaded alongside on the first call.
func (c *Controller) LoadQueue(ctx context.Context) error {
	projects, err := c.registry.ListReviewable(ctx)
	if err != nil {
		return err
	}

	var drafts map[string]string
	if c.store != nil {
		drafts, err = c.store.Comments(ctx)
		if err != nil {
			c.logger.Warn("loading draft comments failed", logging.Error(err))
			drafts = nil
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.queue = projects
	for id, comment := range drafts {
		if _, exists := c.comments[id]; !exists {
			c.comments[id] = comment
		}
	}
	c.logger.Info("review queue loaded", logging.Int("count", len(projects)))
	return nil
}

// Queue returns a snapshot of the loaded queue.
func (c *Controller) Queue() []project.Project {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]project.Project, len(c.queue))
	copy(out, c.queue)
	return out
}

// Project returns the queued project with the given id.
func (c *Controller) Project(id string) (project.Project, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range c.queue {
		if p.ID == id {
			return p, true
		}
	}
	return project.Project{}, false
}

// Filter yields queued projects matching a status filter and a free-text
// search. The status filter matches exactly unless it is FilterAll or empty.
// The search matches case-insensitively against the farmer name or the
// project id; an empty search matches everything. The queue itself is never
// mutated.
func (c *Controller) Filter(statusFilter, searchText string) iter.Seq[project.Project] {
	snapshot := c.Queue()
	needle := strings.ToLower(strings.TrimSpace(searchText))
	return func(yield func(project.Project) bool) {
		for _, p := range snapshot {
			if statusFilter != "" && statusFilter != FilterAll && string(p.Status) != statusFilter {
				continue
			}
			if needle != "" &&
				!strings.Contains(strings.ToLower(p.FarmerName), needle) &&
				!strings.Contains(strings.ToLower(p.ID), needle) {
				continue
			}
			if !yield(p) {
				return
			}
		}
	}
}

// SetComment stores the draft comment for a project. The draft survives
// queue reloads and, when a store is attached, process restarts.
func (c *Controller) SetComment(ctx context.Context, projectID, comment string) error {
	c.mu.Lock()
	if comment == "" {
		delete(c.comments, projectID)
	} else {
		c.comments[projectID] = comment
	}
	c.mu.Unlock()

	if c.store == nil {
		return nil
	}
	return c.store.SaveComment(ctx, projectID, comment)
}

// Comment returns the draft comment for a project.
func (c *Controller) Comment(projectID string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.comments[projectID]
}

// Decide submits an approve or reject decision using the project's draft
// comment. On success the draft is discarded and the queue reloaded so the
// decided project drops out. On failure the queue and the draft are left
// untouched for retry.
func (c *Controller) Decide(ctx context.Context, projectID string, action registry.DecisionAction) (*project.Project, error) {
	ctx = services.WithProjectID(ctx, projectID)
	comment := c.Comment(projectID)
	target, known := c.Project(projectID)

	decided, err := c.registry.SubmitDecision(ctx, projectID, action, comment)
	if err != nil {
		wrapped := services.Wrap(services.ErrDecisionFailed, "review", "submit decision", string(action), err)
		logging.WithContext(ctx, c.logger).Warn("decision failed",
			logging.String("action", string(action)),
			logging.Error(err),
		)
		c.notifyError(ctx, wrapped)
		return nil, wrapped
	}

	if err := c.clearComment(ctx, projectID); err != nil {
		c.logger.Warn("clearing draft comment failed", logging.Error(err))
	}

	log := logging.WithContext(ctx, c.logger)
	log.Info("decision recorded",
		logging.String("action", string(action)),
		logging.String(logging.FieldEventType, "decision_recorded"),
	)
	farmerName := decided.FarmerName
	if farmerName == "" && known {
		farmerName = target.FarmerName
	}
	if nerr := c.notifier.NotifyDecisionRecorded(ctx, projectID, farmerName, string(action)); nerr != nil {
		log.Debug("decision notification failed", logging.Error(nerr))
	}

	if err := c.LoadQueue(ctx); err != nil {
		log.Warn("queue reload after decision failed", logging.Error(err))
	}
	return decided, nil
}

func (c *Controller) clearComment(ctx context.Context, projectID string) error {
	c.mu.Lock()
	delete(c.comments, projectID)
	c.mu.Unlock()
	if c.store == nil {
		return nil
	}
	return c.store.DeleteComment(ctx, projectID)
}

func (c *Controller) notifyError(ctx context.Context, err error) {
	if c.notifier == nil {
		return
	}
	if nerr := c.notifier.NotifyError(ctx, err, "review decision"); nerr != nil {
		c.logger.Debug("error notification failed", logging.Error(nerr))
	}
}
