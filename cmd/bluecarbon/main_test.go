package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"bluecarbon/internal/project"
	"bluecarbon/internal/testsupport"
)

type cliTestEnv struct {
	registry   *testsupport.FakeRegistry
	configPath string
	stagingDir string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	fake := testsupport.NewFakeRegistry(t)

	stagingDir := filepath.Join(base, "staging")
	configPath := filepath.Join(base, "config.toml")
	content := fmt.Sprintf(`[registry]
base_url = %q
api_token = "test-token"

[paths]
staging_dir = %q
data_dir = %q
log_dir = %q
`, fake.BaseURL(), stagingDir, filepath.Join(base, "data"), filepath.Join(base, "logs"))
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	return &cliTestEnv{registry: fake, configPath: configPath, stagingDir: stagingDir}
}

func runCLI(t *testing.T, env *cliTestEnv, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stdout)
	cmd.SetArgs(append([]string{"--config", env.configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), err
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)
	target := filepath.Join(t.TempDir(), "fresh.toml")

	out, err := runCLI(t, env, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init failed: %v\n%s", err, out)
	}
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("sample config not written: %v", err)
	}

	if _, err := runCLI(t, env, "config", "init", "--path", target); err == nil {
		t.Error("second init without --overwrite should fail")
	}

	out, err = runCLI(t, env, "config", "validate")
	if err != nil {
		t.Fatalf("config validate failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Configuration valid") {
		t.Errorf("unexpected validate output: %s", out)
	}
}

func TestStageLifecycle(t *testing.T) {
	env := setupCLITestEnv(t)
	image := filepath.Join(t.TempDir(), "north.jpg")
	testsupport.WriteJPEG(t, image, 8, 8)

	out, err := runCLI(t, env, "stage", "add", image)
	if err != nil {
		t.Fatalf("stage add failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "1 file(s) staged") {
		t.Errorf("unexpected add output: %s", out)
	}

	// Staged files survive across invocations via previews on disk.
	out, err = runCLI(t, env, "stage", "list")
	if err != nil {
		t.Fatalf("stage list failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "north.jpg") {
		t.Errorf("list should show the staged file: %s", out)
	}

	out, err = runCLI(t, env, "stage", "remove", "1")
	if err != nil {
		t.Fatalf("stage remove failed: %v\n%s", err, out)
	}

	out, err = runCLI(t, env, "stage", "list")
	if err != nil {
		t.Fatalf("stage list failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "No files staged") {
		t.Errorf("list after remove should be empty: %s", out)
	}
}

func TestSubmitEndToEnd(t *testing.T) {
	env := setupCLITestEnv(t)
	image := filepath.Join(t.TempDir(), "site.jpg")
	testsupport.WriteJPEG(t, image, 8, 8)

	if out, err := runCLI(t, env, "stage", "add", image); err != nil {
		t.Fatalf("stage add failed: %v\n%s", err, out)
	}

	out, err := runCLI(t, env, "submit",
		"--farmer", "Asha",
		"--area", "4.5",
		"--plants", "300",
		"--location", "Pichavaram",
		"--type", "mangrove",
	)
	if err != nil {
		t.Fatalf("submit failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "created for Asha") {
		t.Errorf("unexpected submit output: %s", out)
	}
	if !strings.Contains(out, "Uploaded 1 file(s)") {
		t.Errorf("upload should be reported: %s", out)
	}
	if !strings.Contains(out, "under_review") {
		t.Errorf("analysis status should be reported: %s", out)
	}

	// Successful upload clears the staging area.
	out, err = runCLI(t, env, "stage", "list")
	if err != nil {
		t.Fatalf("stage list failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "No files staged") {
		t.Errorf("staging area should be empty after submit: %s", out)
	}
}

func TestSubmitRequiresFields(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, err := runCLI(t, env, "submit", "--farmer", "Asha"); err == nil {
		t.Error("submit without required fields should fail")
	}
	if _, err := runCLI(t, env, "submit",
		"--farmer", "Asha", "--area", "4.5", "--plants", "300",
		"--location", "x", "--type", "kelp",
	); err == nil {
		t.Error("unknown plantation type should fail")
	}
}

func TestVerifyQueueAndDecision(t *testing.T) {
	env := setupCLITestEnv(t)
	seeded := env.registry.AddProject(project.Project{
		FarmerName: "Binod Rai",
		Status:     project.StatusUnderReview,
	})

	out, err := runCLI(t, env, "verify", "queue")
	if err != nil {
		t.Fatalf("verify queue failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Binod Rai") {
		t.Errorf("queue should list the project: %s", out)
	}

	out, err = runCLI(t, env, "verify", "comment", seeded.ID, "dense", "regrowth")
	if err != nil {
		t.Fatalf("verify comment failed: %v\n%s", err, out)
	}

	out, err = runCLI(t, env, "verify", "approve", seeded.ID)
	if err != nil {
		t.Fatalf("verify approve failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "approved") {
		t.Errorf("approval should be reported: %s", out)
	}

	stored, ok := env.registry.Project(seeded.ID)
	if !ok || stored.Status != project.StatusApproved {
		t.Errorf("registry project = %+v, want approved", stored)
	}
	if stored.QualityNotes != "dense regrowth" {
		t.Errorf("draft comment should reach the registry, got %q", stored.QualityNotes)
	}
}

func TestDashboardJSON(t *testing.T) {
	env := setupCLITestEnv(t)
	credits := 30.0
	env.registry.AddProject(project.Project{Status: project.StatusApproved, CarbonCredits: &credits})
	env.registry.AddProject(project.Project{Status: project.StatusSubmitted})

	out, err := runCLI(t, env, "dashboard", "--json")
	if err != nil {
		t.Fatalf("dashboard failed: %v\n%s", err, out)
	}
	for _, fragment := range []string{`"total": 2`, `"approved": 1`, `"approval_rate": 50`, `"total_credits": 30`} {
		if !strings.Contains(out, fragment) {
			t.Errorf("dashboard JSON missing %s:\n%s", fragment, out)
		}
	}
}

func TestProjectsListFiltersByStatus(t *testing.T) {
	env := setupCLITestEnv(t)
	env.registry.AddProject(project.Project{FarmerName: "A", Status: project.StatusSubmitted})
	env.registry.AddProject(project.Project{FarmerName: "B", Status: project.StatusApproved})

	out, err := runCLI(t, env, "projects", "list", "--status", "approved")
	if err != nil {
		t.Fatalf("projects list failed: %v\n%s", err, out)
	}
	if strings.Contains(out, "A") && strings.Contains(out, "submitted") {
		t.Errorf("filtered list should not include submitted rows: %s", out)
	}
	if !strings.Contains(out, "B") {
		t.Errorf("approved project missing: %s", out)
	}

	if _, err := runCLI(t, env, "projects", "list", "--status", "bogus"); err == nil {
		t.Error("unknown status should fail")
	}
}

func TestSettingsShowAndSet(t *testing.T) {
	env := setupCLITestEnv(t)

	out, err := runCLI(t, env, "settings", "show")
	if err != nil {
		t.Fatalf("settings show failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "10.00 USD") {
		t.Errorf("default token price missing: %s", out)
	}

	if _, err := runCLI(t, env, "settings", "set"); err == nil {
		t.Error("settings set without flags should fail")
	}

	out, err = runCLI(t, env, "settings", "set", "--price", "12.5")
	if err != nil {
		t.Fatalf("settings set failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "12.50 USD") {
		t.Errorf("updated price missing: %s", out)
	}
}

func TestPing(t *testing.T) {
	env := setupCLITestEnv(t)
	out, err := runCLI(t, env, "ping")
	if err != nil {
		t.Fatalf("ping failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "reachable") {
		t.Errorf("unexpected ping output: %s", out)
	}
}
