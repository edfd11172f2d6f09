package capture

import (
	"context"
	"time"
)

// Frame is a single video frame in packed RGB format, 3 bytes per pixel.
// Width and Height may be zero when the source does not report a resolution;
// the bridge falls back to its configured default dimensions.
type Frame struct {
	Width     int
	Height    int
	Data      []byte
	Timestamp time.Time
}

// FrameSource acquires a live video stream and serves frames from it.
//
// Implementations must guarantee:
//   - Start acquires the device; a failed Start holds no resources.
//   - Frame is valid only between a successful Start and Stop.
//   - Stop is idempotent and releases the device unconditionally.
type FrameSource interface {
	Start(ctx context.Context) error
	Frame(ctx context.Context) (Frame, error)
	Stop() error
}
