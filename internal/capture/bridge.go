package capture

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"bluecarbon/internal/logging"
	"bluecarbon/internal/services"
	"bluecarbon/internal/stager"
)

// State identifies where the capture session is in its lifecycle.
type State string

const (
	StateIdle      State = "idle"
	StateAcquiring State = "acquiring"
	StateStreaming State = "streaming"
	StateError     State = "error"
)

// Options tunes snapshot encoding.
type Options struct {
	// JPEGQuality is the encoder quality setting, 1 to 100.
	JPEGQuality int
	// DefaultWidth and DefaultHeight are used when the source reports no
	// resolution.
	DefaultWidth  int
	DefaultHeight int
}

func (o Options) withDefaults() Options {
	if o.JPEGQuality <= 0 || o.JPEGQuality > 100 {
		o.JPEGQuality = 85
	}
	if o.DefaultWidth <= 0 {
		o.DefaultWidth = 1280
	}
	if o.DefaultHeight <= 0 {
		o.DefaultHeight = 720
	}
	return o
}

// Bridge owns one camera capture session and feeds snapshots into the
// asset stager.
type Bridge struct {
	source FrameSource
	stager *stager.Stager
	opts   Options
	logger *slog.Logger

	mu    sync.Mutex
	state State
}

// NewBridge constructs a bridge around a frame source. The stager receives
// every captured snapshot.
func NewBridge(source FrameSource, st *stager.Stager, opts Options, logger *slog.Logger) *Bridge {
	return &Bridge{
		source: source,
		stager: st,
		opts:   opts.withDefaults(),
		logger: logging.NewComponentLogger(logger, "capture"),
		state:  StateIdle,
	}
}

// State reports the current session state.
func (b *Bridge) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Open acquires the camera stream. Valid only from idle. A failed acquisition
// leaves the bridge in the error state; form submission is unaffected.
func (b *Bridge) Open(ctx context.Context) error {
	b.mu.Lock()
	if b.state != StateIdle {
		state := b.state
		b.mu.Unlock()
		return services.Wrap(services.ErrCaptureUnavailable, "capture", "open", fmt.Sprintf("session already %s", state), nil)
	}
	b.state = StateAcquiring
	b.mu.Unlock()

	if err := b.source.Start(ctx); err != nil {
		b.mu.Lock()
		b.state = StateError
		b.mu.Unlock()
		b.logger.Warn("camera acquisition failed",
			logging.Error(err),
			logging.String(logging.FieldEventType, "capture_unavailable"),
		)
		return services.Wrap(services.ErrCaptureUnavailable, "capture", "open", "", err)
	}

	b.mu.Lock()
	b.state = StateStreaming
	b.mu.Unlock()
	b.logger.Info("camera streaming", logging.String(logging.FieldEventType, "capture_streaming"))
	return nil
}

// Capture snapshots the current frame into a JPEG staged file. Valid only
// while streaming. The generated name carries the capture timestamp so
// repeated captures never collide.
func (b *Bridge) Capture(ctx context.Context) (stager.StagedFile, error) {
	if state := b.State(); state != StateStreaming {
		return stager.StagedFile{}, services.Wrap(services.ErrCaptureUnavailable, "capture", "snapshot", fmt.Sprintf("no live stream (state %s)", state), nil)
	}

	frame, err := b.source.Frame(ctx)
	if err != nil {
		return stager.StagedFile{}, services.Wrap(services.ErrCaptureUnavailable, "capture", "snapshot", "read frame", err)
	}

	encoded, width, height, err := encodeJPEG(frame, b.opts)
	if err != nil {
		return stager.StagedFile{}, services.Wrap(services.ErrCaptureUnavailable, "capture", "snapshot", "encode frame", err)
	}

	name := captureName(frame.Timestamp)
	entry, err := b.stager.Add(name, "image/jpeg", encoded)
	if err != nil {
		return stager.StagedFile{}, fmt.Errorf("stage snapshot: %w", err)
	}

	b.logger.Info("frame captured",
		logging.String("name", name),
		logging.Int("width", width),
		logging.Int("height", height),
		logging.Int("bytes", len(encoded)),
	)
	return entry, nil
}

// Close ends the capture session. It is idempotent, always leaves the bridge
// idle, and unconditionally stops the underlying stream from both the
// streaming and error states so the device is never held open.
func (b *Bridge) Close() {
	b.mu.Lock()
	state := b.state
	b.state = StateIdle
	b.mu.Unlock()

	if state == StateIdle {
		return
	}

	if err := b.source.Stop(); err != nil {
		b.logger.Warn("camera stop failed",
			logging.Error(err),
			logging.String(logging.FieldEventType, "capture_stop_failed"),
		)
	}
	b.logger.Debug("capture session closed", logging.String("previous_state", string(state)))
}

func captureName(ts time.Time) string {
	if ts.IsZero() {
		ts = time.Now()
	}
	stamp := ts.UTC().Format("20060102T150405")
	short := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return fmt.Sprintf("capture_%s_%s.jpg", stamp, short)
}
