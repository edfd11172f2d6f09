package submission

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/gofrs/flock"

	"bluecarbon/internal/logging"
	"bluecarbon/internal/notifications"
	"bluecarbon/internal/project"
	"bluecarbon/internal/services"
	"bluecarbon/internal/services/registry"
	"bluecarbon/internal/stager"
)

// ErrInFlight is returned when a submission is already running for this
// staging area.
var ErrInFlight = errors.New("submission already in flight")

// Registry is the subset of the registry client the orchestrator needs.
type Registry interface {
	CreateProject(ctx context.Context, farmerName string, details project.PlantationDetails) (*project.Project, error)
	UploadAssets(ctx context.Context, projectID string, assets []registry.Asset) ([]string, error)
	RequestAnalysis(ctx context.Context, projectID string) (*project.Project, error)
}

// Result reports the outcome of one submit sequence. Project is always the
// most recent authoritative record: the scored record on full success, or the
// freshly created one when analysis deferred or failed. UploadErr and
// AnalysisErr carry step failures that did not abort the sequence.
type Result struct {
	Project     *project.Project
	Uploaded    []string
	UploadErr   error
	AnalysisErr error
}

// Orchestrator drives the create, upload, analyze sequence for one project.
type Orchestrator struct {
	registry Registry
	stager   *stager.Stager
	notifier notifications.Service
	lockPath string
	logger   *slog.Logger
}

// New constructs an orchestrator. The lock file guarding re-entry lives in
// the stager's directory, alongside the previews it protects.
func New(reg Registry, st *stager.Stager, notifier notifications.Service, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		registry: reg,
		stager:   st,
		notifier: notifier,
		lockPath: filepath.Join(st.Dir(), "submission.lock"),
		logger:   logging.NewComponentLogger(logger, "submission"),
	}
}

// Submit runs the full sequence for a validated form:
//
//  1. create the project (at most once; the returned id is authoritative)
//  2. upload staged assets, skipped when nothing is staged
//  3. request analysis, which runs whenever create succeeded, even after a
//     failed upload
//
// Submit returns an error only when no project was created (validation
// failure, concurrent submission, create failure). Upload and analysis
// failures are reported through the Result so the created project is never
// lost to the caller.
func (o *Orchestrator) Submit(ctx context.Context, form Form) (*Result, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}

	gate := flock.New(o.lockPath)
	locked, err := gate.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire submission lock: %w", err)
	}
	if !locked {
		return nil, ErrInFlight
	}
	defer func() {
		_ = gate.Unlock()
	}()

	created, err := o.registry.CreateProject(ctx, form.FarmerName, form.Details())
	if err != nil {
		o.notifyError(ctx, err, "create project")
		return nil, err
	}

	ctx = services.WithProjectID(ctx, created.ID)
	log := logging.WithContext(ctx, o.logger)
	log.Info("project created",
		logging.String("farmer", form.FarmerName),
		logging.String(logging.FieldEventType, "project_created"),
	)
	if err := o.notifier.NotifySubmissionRecorded(ctx, form.FarmerName, created.ID); err != nil {
		log.Debug("submission notification failed", logging.Error(err))
	}

	result := &Result{Project: created}

	if files := o.stager.Files(); len(files) > 0 {
		assets := make([]registry.Asset, 0, len(files))
		for _, file := range files {
			assets = append(assets, registry.Asset{Name: file.Name, MIME: file.MIME, Data: file.Data})
		}
		uploaded, err := o.registry.UploadAssets(ctx, created.ID, assets)
		if err != nil {
			// The created project persists; analysis still runs.
			result.UploadErr = err
			log.Warn("asset upload failed",
				logging.Error(err),
				logging.Int("staged", len(files)),
				logging.String(logging.FieldEventType, "upload_failed"),
			)
			if nerr := o.notifier.NotifyUploadFailed(ctx, created.ID, err); nerr != nil {
				log.Debug("upload notification failed", logging.Error(nerr))
			}
		} else {
			result.Uploaded = uploaded
			o.stager.Clear()
			log.Info("assets uploaded",
				logging.Int("count", len(uploaded)),
				logging.String(logging.FieldEventType, "assets_uploaded"),
			)
		}
	}

	scored, err := o.registry.RequestAnalysis(ctx, created.ID)
	if err != nil {
		result.AnalysisErr = services.Wrap(services.ErrAnalysisFailed, "submission", "request analysis", "", err)
		log.Warn("analysis request failed",
			logging.Error(err),
			logging.String(logging.FieldEventType, "analysis_failed"),
		)
		o.notifyError(ctx, result.AnalysisErr, "request analysis")
		return result, nil
	}

	result.Project = scored
	log.Info("analysis complete",
		logging.String("status", string(scored.Status)),
		logging.String(logging.FieldEventType, "analysis_complete"),
	)
	if scored.CarbonCredits != nil {
		if err := o.notifier.NotifyAnalysisScored(ctx, scored.ID, *scored.CarbonCredits); err != nil {
			log.Debug("analysis notification failed", logging.Error(err))
		}
	}
	return result, nil
}

func (o *Orchestrator) notifyError(ctx context.Context, err error, label string) {
	if nerr := o.notifier.NotifyError(ctx, err, label); nerr != nil {
		o.logger.Debug("error notification failed", logging.Error(nerr))
	}
}
