package registry_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"bluecarbon/internal/project"
	"bluecarbon/internal/services"
	"bluecarbon/internal/services/registry"
	"bluecarbon/internal/testsupport"
)

func newClient(t *testing.T, fake *testsupport.FakeRegistry) *registry.Client {
	t.Helper()
	return registry.NewClient(registry.Config{BaseURL: fake.BaseURL(), APIToken: "test-token"})
}

func TestCreateProjectReturnsServerRecord(t *testing.T) {
	fake := testsupport.NewFakeRegistry(t)
	client := newClient(t, fake)

	details := project.PlantationDetails{
		AreaHectares:   5.5,
		NumPlants:      200,
		PlantationType: project.PlantationMangrove,
		Location:       "Pichavaram",
	}
	created, err := client.CreateProject(context.Background(), "Asha", details)
	if err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}
	if created.ID == "" {
		t.Error("server assigned id expected")
	}
	if created.Status != project.StatusSubmitted {
		t.Errorf("status = %s, want submitted", created.Status)
	}
	if created.FarmerName != "Asha" || created.Details.Location != "Pichavaram" {
		t.Errorf("record did not round trip: %+v", created)
	}
	if created.CreatedAt.IsZero() {
		t.Error("created_at should be set by the server")
	}
}

func TestGetProjectNotFound(t *testing.T) {
	fake := testsupport.NewFakeRegistry(t)
	client := newClient(t, fake)

	_, err := client.GetProject(context.Background(), "missing-id")
	if !errors.Is(err, services.ErrNotFound) {
		t.Errorf("error = %v, want not found", err)
	}
}

func TestRequestAnalysisScoresProject(t *testing.T) {
	fake := testsupport.NewFakeRegistry(t)
	client := newClient(t, fake)
	seeded := fake.AddProject(project.Project{FarmerName: "Binod"})

	scored, err := client.RequestAnalysis(context.Background(), seeded.ID)
	if err != nil {
		t.Fatalf("RequestAnalysis failed: %v", err)
	}
	if scored.Status != project.StatusUnderReview {
		t.Errorf("status = %s, want under_review", scored.Status)
	}
	if !scored.Scored() {
		t.Error("analysis should populate score fields")
	}
}

func TestListProjectsFiltersByStatus(t *testing.T) {
	fake := testsupport.NewFakeRegistry(t)
	client := newClient(t, fake)
	fake.AddProject(project.Project{FarmerName: "A", Status: project.StatusSubmitted})
	fake.AddProject(project.Project{FarmerName: "B", Status: project.StatusApproved})

	all, err := client.ListProjects(context.Background(), "")
	if err != nil {
		t.Fatalf("ListProjects failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("unfiltered list = %d, want 2", len(all))
	}

	approved, err := client.ListProjects(context.Background(), project.StatusApproved)
	if err != nil {
		t.Fatalf("filtered ListProjects failed: %v", err)
	}
	if len(approved) != 1 || approved[0].FarmerName != "B" {
		t.Errorf("filtered list = %+v, want just B", approved)
	}
}

func TestListReviewableExcludesDecided(t *testing.T) {
	fake := testsupport.NewFakeRegistry(t)
	client := newClient(t, fake)
	fake.AddProject(project.Project{Status: project.StatusSubmitted})
	fake.AddProject(project.Project{Status: project.StatusUnderReview})
	fake.AddProject(project.Project{Status: project.StatusApproved})
	fake.AddProject(project.Project{Status: project.StatusRejected})

	reviewable, err := client.ListReviewable(context.Background())
	if err != nil {
		t.Fatalf("ListReviewable failed: %v", err)
	}
	if len(reviewable) != 2 {
		t.Errorf("reviewable = %d, want 2", len(reviewable))
	}
}

func TestSubmitDecision(t *testing.T) {
	fake := testsupport.NewFakeRegistry(t)
	client := newClient(t, fake)
	seeded := fake.AddProject(project.Project{Status: project.StatusUnderReview})

	decided, err := client.SubmitDecision(context.Background(), seeded.ID, registry.ActionReject, "cloud cover too heavy")
	if err != nil {
		t.Fatalf("SubmitDecision failed: %v", err)
	}
	if decided.Status != project.StatusRejected {
		t.Errorf("status = %s, want rejected", decided.Status)
	}
	if decided.QualityNotes != "cloud cover too heavy" {
		t.Errorf("comment did not round trip: %q", decided.QualityNotes)
	}

	if _, err := client.SubmitDecision(context.Background(), seeded.ID, "escalate", ""); !errors.Is(err, services.ErrValidation) {
		t.Errorf("unknown action error = %v, want validation", err)
	}
}

func TestUploadAssets(t *testing.T) {
	fake := testsupport.NewFakeRegistry(t)
	client := newClient(t, fake)
	seeded := fake.AddProject(project.Project{FarmerName: "Asha"})

	assets := []registry.Asset{
		{Name: "north.jpg", MIME: "image/jpeg", Data: testsupport.JPEGBytes(t, 8, 8)},
		{Name: "south.png", MIME: "image/png", Data: testsupport.JPEGBytes(t, 8, 8)},
	}
	urls, err := client.UploadAssets(context.Background(), seeded.ID, assets)
	if err != nil {
		t.Fatalf("UploadAssets failed: %v", err)
	}
	if len(urls) != 2 {
		t.Errorf("uploaded urls = %v, want 2 entries", urls)
	}
	names := fake.Uploads(seeded.ID)
	if len(names) != 2 || names[0] != "north.jpg" || names[1] != "south.png" {
		t.Errorf("server received %v", names)
	}
}

func TestUploadAssetsFailureIsTagged(t *testing.T) {
	fake := testsupport.NewFakeRegistry(t)
	fake.FailUpload = true
	client := newClient(t, fake)
	seeded := fake.AddProject(project.Project{})

	_, err := client.UploadAssets(context.Background(), seeded.ID, []registry.Asset{
		{Name: "a.jpg", MIME: "image/jpeg", Data: []byte{1}},
	})
	if !errors.Is(err, services.ErrUploadFailed) {
		t.Errorf("error = %v, want upload failure", err)
	}

	if _, err := client.UploadAssets(context.Background(), seeded.ID, nil); !errors.Is(err, services.ErrValidation) {
		t.Errorf("empty batch error = %v, want validation", err)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	fake := testsupport.NewFakeRegistry(t)
	client := newClient(t, fake)
	ctx := context.Background()

	settings, err := client.GetSettings(ctx)
	if err != nil {
		t.Fatalf("GetSettings failed: %v", err)
	}
	if settings.TokenPriceUSD != 10 || !settings.MarketplaceEnabled {
		t.Errorf("defaults = %+v", settings)
	}

	settings.TokenPriceUSD = 12.5
	settings.MarketplaceEnabled = false
	if err := client.SaveSettings(ctx, settings); err != nil {
		t.Fatalf("SaveSettings failed: %v", err)
	}
	saved, err := client.GetSettings(ctx)
	if err != nil {
		t.Fatalf("GetSettings after save failed: %v", err)
	}
	if saved.TokenPriceUSD != 12.5 || saved.MarketplaceEnabled {
		t.Errorf("saved settings = %+v", saved)
	}

	if err := client.SaveSettings(ctx, project.Settings{TokenPriceUSD: -1}); !errors.Is(err, services.ErrValidation) {
		t.Errorf("negative price error = %v, want validation", err)
	}
}

func TestClientSendsBearerToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"ok"}`))
	}))
	t.Cleanup(server.Close)

	client := registry.NewClient(registry.Config{BaseURL: server.URL, APIToken: "secret"})
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("Authorization = %q, want bearer token", gotAuth)
	}
}
