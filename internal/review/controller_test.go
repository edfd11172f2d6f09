package review_test

import (
	"context"
	"errors"
	"testing"

	"bluecarbon/internal/logging"
	"bluecarbon/internal/notifications"
	"bluecarbon/internal/project"
	"bluecarbon/internal/review"
	"bluecarbon/internal/services"
	"bluecarbon/internal/services/registry"
	"bluecarbon/internal/testsupport"
)

type fakeVerifierRegistry struct {
	queue       []project.Project
	decisionErr error
	decided     []string
}

func (f *fakeVerifierRegistry) ListReviewable(ctx context.Context) ([]project.Project, error) {
	out := make([]project.Project, len(f.queue))
	copy(out, f.queue)
	return out, nil
}

func (f *fakeVerifierRegistry) SubmitDecision(ctx context.Context, projectID string, action registry.DecisionAction, comment string) (*project.Project, error) {
	if f.decisionErr != nil {
		return nil, f.decisionErr
	}
	f.decided = append(f.decided, projectID)
	status := project.StatusApproved
	if action == registry.ActionReject {
		status = project.StatusRejected
	}
	for i, p := range f.queue {
		if p.ID == projectID {
			f.queue = append(f.queue[:i], f.queue[i+1:]...)
			break
		}
	}
	return &project.Project{ID: projectID, Status: status, QualityNotes: comment}, nil
}

func reviewQueue() []project.Project {
	return []project.Project{
		{ID: "p1", FarmerName: "Asha Patel", Status: project.StatusSubmitted},
		{ID: "p2", FarmerName: "Binod Rai", Status: project.StatusUnderReview},
		{ID: "p3", FarmerName: "Carla Mendes", Status: project.StatusSubmitted},
	}
}

func newController(t *testing.T, reg review.Registry) *review.Controller {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	store, err := review.OpenStore(cfg)
	if err != nil {
		t.Fatalf("OpenStore failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return review.NewController(reg, store, notifications.NewService(cfg), logging.NewNop())
}

func TestLoadQueueReplacesState(t *testing.T) {
	reg := &fakeVerifierRegistry{queue: reviewQueue()}
	controller := newController(t, reg)
	ctx := context.Background()

	if err := controller.LoadQueue(ctx); err != nil {
		t.Fatalf("LoadQueue failed: %v", err)
	}
	if got := len(controller.Queue()); got != 3 {
		t.Fatalf("queue length = %d, want 3", got)
	}

	reg.queue = reg.queue[:1]
	if err := controller.LoadQueue(ctx); err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if got := len(controller.Queue()); got != 1 {
		t.Errorf("queue length after reload = %d, want 1", got)
	}
}

func TestFilterMatchesStatusAndSearch(t *testing.T) {
	controller := newController(t, &fakeVerifierRegistry{queue: reviewQueue()})
	if err := controller.LoadQueue(context.Background()); err != nil {
		t.Fatalf("LoadQueue failed: %v", err)
	}

	collect := func(status, search string) []string {
		var ids []string
		for p := range controller.Filter(status, search) {
			ids = append(ids, p.ID)
		}
		return ids
	}

	cases := []struct {
		name   string
		status string
		search string
		want   []string
	}{
		{"all", review.FilterAll, "", []string{"p1", "p2", "p3"}},
		{"empty status means all", "", "", []string{"p1", "p2", "p3"}},
		{"by status", "submitted", "", []string{"p1", "p3"}},
		{"by name fragment", review.FilterAll, "asha", []string{"p1"}},
		{"case insensitive", review.FilterAll, "MENDES", []string{"p3"}},
		{"by id", review.FilterAll, "p2", []string{"p2"}},
		{"status and search", "submitted", "carla", []string{"p3"}},
		{"no match", "under_review", "carla", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := collect(tc.status, tc.search)
			if len(got) != len(tc.want) {
				t.Fatalf("ids = %v, want %v", got, tc.want)
			}
			for i := range tc.want {
				if got[i] != tc.want[i] {
					t.Fatalf("ids = %v, want %v", got, tc.want)
				}
			}
		})
	}

	// Filtering never mutates the loaded queue.
	if got := len(controller.Queue()); got != 3 {
		t.Errorf("queue length after filtering = %d, want 3", got)
	}
}

func TestDecideClearsCommentAndReloadsQueue(t *testing.T) {
	reg := &fakeVerifierRegistry{queue: reviewQueue()}
	controller := newController(t, reg)
	ctx := context.Background()

	if err := controller.LoadQueue(ctx); err != nil {
		t.Fatalf("LoadQueue failed: %v", err)
	}
	if err := controller.SetComment(ctx, "p1", "healthy canopy"); err != nil {
		t.Fatalf("SetComment failed: %v", err)
	}

	decided, err := controller.Decide(ctx, "p1", registry.ActionApprove)
	if err != nil {
		t.Fatalf("Decide failed: %v", err)
	}
	if decided.Status != project.StatusApproved {
		t.Errorf("status = %s, want approved", decided.Status)
	}
	if decided.QualityNotes != "healthy canopy" {
		t.Errorf("draft comment should accompany the decision, got %q", decided.QualityNotes)
	}
	if controller.Comment("p1") != "" {
		t.Error("draft comment should be cleared after a successful decision")
	}
	if got := len(controller.Queue()); got != 2 {
		t.Errorf("queue length after decision = %d, want 2", got)
	}
}

func TestFailedDecisionPreservesEverything(t *testing.T) {
	reg := &fakeVerifierRegistry{
		queue:       reviewQueue(),
		decisionErr: errors.New("registry timeout"),
	}
	controller := newController(t, reg)
	ctx := context.Background()

	if err := controller.LoadQueue(ctx); err != nil {
		t.Fatalf("LoadQueue failed: %v", err)
	}
	if err := controller.SetComment(ctx, "p2", "needs more imagery"); err != nil {
		t.Fatalf("SetComment failed: %v", err)
	}

	_, err := controller.Decide(ctx, "p2", registry.ActionReject)
	if !errors.Is(err, services.ErrDecisionFailed) {
		t.Fatalf("error = %v, want decision failure", err)
	}
	if controller.Comment("p2") != "needs more imagery" {
		t.Error("draft comment must survive a failed decision")
	}
	if got := len(controller.Queue()); got != 3 {
		t.Errorf("queue length after failed decision = %d, want 3", got)
	}
}
