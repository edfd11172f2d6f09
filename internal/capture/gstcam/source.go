package gstcam

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/tinyzimmer/go-gst/gst"
	"github.com/tinyzimmer/go-gst/gst/app"

	"bluecarbon/internal/capture"
)

// Config describes the camera pipeline.
type Config struct {
	// Device is the video4linux node, e.g. /dev/video0.
	Device string
	// Width and Height fix the negotiated output resolution.
	Width  int
	Height int
}

// Source is a capture.FrameSource backed by a GStreamer v4l2 pipeline:
//
//	v4l2src → videoconvert → videoscale → capsfilter(RGB) → appsink
//
// The appsink keeps only the most recent frame so Frame always observes the
// live picture rather than a backlog.
type Source struct {
	cfg Config

	mu       sync.Mutex
	pipeline *gst.Pipeline
	sink     *app.Sink
	running  bool
}

// New constructs a source for the given camera configuration.
func New(cfg Config) *Source {
	if cfg.Width <= 0 {
		cfg.Width = 1280
	}
	if cfg.Height <= 0 {
		cfg.Height = 720
	}
	return &Source{cfg: cfg}
}

// Start builds and starts the pipeline. A failure leaves no resources held.
func (s *Source) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	device := strings.TrimSpace(s.cfg.Device)
	if device == "" {
		return errors.New("gstcam: camera device required")
	}

	// Safe to call repeatedly.
	gst.Init(nil)

	pipeline, err := gst.NewPipeline("")
	if err != nil {
		return fmt.Errorf("gstcam: create pipeline: %w", err)
	}

	src, err := gst.NewElement("v4l2src")
	if err != nil {
		return fmt.Errorf("gstcam: create v4l2src: %w", err)
	}
	if err := src.SetProperty("device", device); err != nil {
		return fmt.Errorf("gstcam: set v4l2 device: %w", err)
	}

	converter, err := gst.NewElement("videoconvert")
	if err != nil {
		return fmt.Errorf("gstcam: create videoconvert: %w", err)
	}

	scaler, err := gst.NewElement("videoscale")
	if err != nil {
		return fmt.Errorf("gstcam: create videoscale: %w", err)
	}

	capsfilter, err := gst.NewElement("capsfilter")
	if err != nil {
		return fmt.Errorf("gstcam: create capsfilter: %w", err)
	}
	capsStr := fmt.Sprintf("video/x-raw,format=RGB,width=%d,height=%d", s.cfg.Width, s.cfg.Height)
	if err := capsfilter.SetProperty("caps", gst.NewCapsFromString(capsStr)); err != nil {
		return fmt.Errorf("gstcam: set output caps: %w", err)
	}

	appsink, err := app.NewAppSink()
	if err != nil {
		return fmt.Errorf("gstcam: create appsink: %w", err)
	}
	_ = appsink.SetProperty("sync", false)
	_ = appsink.SetProperty("max-buffers", 1)
	_ = appsink.SetProperty("drop", true)

	if err := pipeline.AddMany(src, converter, scaler, capsfilter, appsink.Element); err != nil {
		return fmt.Errorf("gstcam: add pipeline elements: %w", err)
	}
	if err := gst.ElementLinkMany(src, converter, scaler, capsfilter, appsink.Element); err != nil {
		return fmt.Errorf("gstcam: link pipeline elements: %w", err)
	}

	if err := pipeline.SetState(gst.StatePlaying); err != nil {
		_ = pipeline.SetState(gst.StateNull)
		return fmt.Errorf("gstcam: start pipeline: %w", err)
	}

	s.pipeline = pipeline
	s.sink = appsink
	s.running = true
	return nil
}

// Frame pulls the most recent frame from the appsink.
func (s *Source) Frame(ctx context.Context) (capture.Frame, error) {
	s.mu.Lock()
	sink := s.sink
	running := s.running
	s.mu.Unlock()

	if !running || sink == nil {
		return capture.Frame{}, errors.New("gstcam: source not started")
	}
	if err := ctx.Err(); err != nil {
		return capture.Frame{}, err
	}

	sample := sink.PullSample()
	if sample == nil {
		return capture.Frame{}, errors.New("gstcam: no sample available (stream ended)")
	}
	buffer := sample.GetBuffer()
	if buffer == nil {
		return capture.Frame{}, errors.New("gstcam: sample has no buffer")
	}

	mapInfo := buffer.Map(gst.MapRead)
	data := mapInfo.Bytes()
	if len(data) == 0 {
		buffer.Unmap()
		return capture.Frame{}, errors.New("gstcam: empty buffer")
	}
	// GStreamer reuses the buffer after Unmap.
	frameData := make([]byte, len(data))
	copy(frameData, data)
	buffer.Unmap()

	return capture.Frame{
		Width:     s.cfg.Width,
		Height:    s.cfg.Height,
		Data:      frameData,
		Timestamp: time.Now(),
	}, nil
}

// Stop tears the pipeline down. Idempotent; releases the device
// unconditionally.
func (s *Source) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}
	s.running = false
	s.sink = nil

	if s.pipeline != nil {
		err := s.pipeline.SetState(gst.StateNull)
		s.pipeline = nil
		if err != nil {
			return fmt.Errorf("gstcam: stop pipeline: %w", err)
		}
	}
	return nil
}
