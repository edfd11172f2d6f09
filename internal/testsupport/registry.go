package testsupport

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"bluecarbon/internal/project"
)

// FakeRegistry emulates the registry REST API in-memory for tests. Failure
// toggles make individual endpoints return 500 so callers can exercise error
// paths deterministically.
type FakeRegistry struct {
	t      testing.TB
	server *httptest.Server

	mu       sync.Mutex
	projects map[string]project.Project
	uploads  map[string][]string
	settings project.Settings

	FailCreate  bool
	FailUpload  bool
	FailAnalyze bool
	FailReview  bool
	FailList    bool

	CreateCalls  int
	UploadCalls  int
	AnalyzeCalls int
	ReviewCalls  int
}

// NewFakeRegistry starts the fake server and registers cleanup with t.
func NewFakeRegistry(t testing.TB) *FakeRegistry {
	t.Helper()

	f := &FakeRegistry{
		t:        t,
		projects: make(map[string]project.Project),
		uploads:  make(map[string][]string),
		settings: project.DefaultSettings(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"message": "ok"})
	})
	mux.HandleFunc("POST /api/projects", f.handleCreate)
	mux.HandleFunc("GET /api/projects", f.handleList)
	mux.HandleFunc("GET /api/projects/{id}", f.handleGet)
	mux.HandleFunc("POST /api/projects/{id}/upload", f.handleUpload)
	mux.HandleFunc("POST /api/projects/{id}/analyze", f.handleAnalyze)
	mux.HandleFunc("GET /api/verifier/projects", f.handleReviewable)
	mux.HandleFunc("POST /api/verifier/review", f.handleReview)
	mux.HandleFunc("GET /api/admin/settings", f.handleGetSettings)
	mux.HandleFunc("POST /api/admin/settings", f.handleSaveSettings)

	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

// BaseURL returns the API base URL suitable for the registry client config.
func (f *FakeRegistry) BaseURL() string {
	return f.server.URL + "/api"
}

// AddProject seeds a stored project, filling in id and timestamps when blank.
func (f *FakeRegistry) AddProject(p project.Project) project.Project {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Status == "" {
		p.Status = project.StatusSubmitted
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = p.CreatedAt
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.projects[p.ID] = p
	return p
}

// Project returns a stored project by id.
func (f *FakeRegistry) Project(id string) (project.Project, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.projects[id]
	return p, ok
}

// Uploads returns the asset names received for a project.
func (f *FakeRegistry) Uploads(id string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.uploads[id]...)
}

func (f *FakeRegistry) handleCreate(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.CreateCalls++
	fail := f.FailCreate
	f.mu.Unlock()
	if fail {
		http.Error(w, "create unavailable", http.StatusInternalServerError)
		return
	}

	var body struct {
		FarmerName string                    `json:"farmer_name"`
		Details    project.PlantationDetails `json:"details"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	now := time.Now().UTC()
	p := project.Project{
		ID:         uuid.NewString(),
		FarmerName: body.FarmerName,
		Details:    body.Details,
		Status:     project.StatusSubmitted,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	f.mu.Lock()
	f.projects[p.ID] = p
	f.mu.Unlock()
	writeJSON(w, p)
}

func (f *FakeRegistry) handleList(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	fail := f.FailList
	f.mu.Unlock()
	if fail {
		http.Error(w, "list unavailable", http.StatusInternalServerError)
		return
	}

	status := strings.TrimSpace(r.URL.Query().Get("status"))
	writeJSON(w, f.collect(func(p project.Project) bool {
		return status == "" || string(p.Status) == status
	}))
}

func (f *FakeRegistry) handleGet(w http.ResponseWriter, r *http.Request) {
	p, ok := f.Project(r.PathValue("id"))
	if !ok {
		http.Error(w, "project not found", http.StatusNotFound)
		return
	}
	writeJSON(w, p)
}

func (f *FakeRegistry) handleUpload(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.UploadCalls++
	fail := f.FailUpload
	f.mu.Unlock()
	if fail {
		http.Error(w, "upload unavailable", http.StatusInternalServerError)
		return
	}

	id := r.PathValue("id")
	if _, ok := f.Project(id); !ok {
		http.Error(w, "project not found", http.StatusNotFound)
		return
	}

	reader, err := r.MultipartReader()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var names []string
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if part.FormName() != "files" {
			continue
		}
		if _, err := io.Copy(io.Discard, part); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		names = append(names, part.FileName())
	}

	f.mu.Lock()
	f.uploads[id] = append(f.uploads[id], names...)
	urls := make([]string, 0, len(f.uploads[id]))
	for _, name := range f.uploads[id] {
		urls = append(urls, "/uploads/"+id+"/"+name)
	}
	if p, ok := f.projects[id]; ok {
		p.ImageURLs = urls
		p.UpdatedAt = time.Now().UTC()
		f.projects[id] = p
	}
	f.mu.Unlock()
	writeJSON(w, map[string][]string{"uploaded": urls})
}

func (f *FakeRegistry) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.AnalyzeCalls++
	fail := f.FailAnalyze
	f.mu.Unlock()
	if fail {
		http.Error(w, "analysis unavailable", http.StatusInternalServerError)
		return
	}

	id := r.PathValue("id")
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.projects[id]
	if !ok {
		http.Error(w, "project not found", http.StatusNotFound)
		return
	}

	growth := 12.5
	ndvi := 0.71
	co2 := 42.0
	credits := 42.0
	revenue := credits * f.settings.TokenPriceUSD
	p.Status = project.StatusUnderReview
	p.GrowthPercent = &growth
	p.NDVIScore = &ndvi
	p.CO2Tonnes = &co2
	p.CarbonCredits = &credits
	p.PotentialRevenue = &revenue
	p.UpdatedAt = time.Now().UTC()
	f.projects[id] = p
	writeJSON(w, p)
}

func (f *FakeRegistry) handleReviewable(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	fail := f.FailList
	f.mu.Unlock()
	if fail {
		http.Error(w, "list unavailable", http.StatusInternalServerError)
		return
	}

	writeJSON(w, f.collect(func(p project.Project) bool {
		return p.Status.IsReviewable()
	}))
}

func (f *FakeRegistry) handleReview(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.ReviewCalls++
	fail := f.FailReview
	f.mu.Unlock()
	if fail {
		http.Error(w, "review unavailable", http.StatusInternalServerError)
		return
	}

	var body struct {
		ProjectID string `json:"project_id"`
		Action    string `json:"action"`
		Comments  string `json:"comments"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.projects[body.ProjectID]
	if !ok {
		http.Error(w, "project not found", http.StatusNotFound)
		return
	}
	switch body.Action {
	case "approve":
		p.Status = project.StatusApproved
	case "reject":
		p.Status = project.StatusRejected
	default:
		http.Error(w, "unknown action", http.StatusBadRequest)
		return
	}
	if body.Comments != "" {
		p.QualityNotes = body.Comments
	}
	p.UpdatedAt = time.Now().UTC()
	f.projects[body.ProjectID] = p
	writeJSON(w, p)
}

func (f *FakeRegistry) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	writeJSON(w, f.settings)
}

func (f *FakeRegistry) handleSaveSettings(w http.ResponseWriter, r *http.Request) {
	var settings project.Settings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	f.mu.Lock()
	f.settings = settings
	f.mu.Unlock()
	writeJSON(w, settings)
}

func (f *FakeRegistry) collect(keep func(project.Project) bool) []project.Project {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]project.Project, 0, len(f.projects))
	for _, p := range f.projects {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}
