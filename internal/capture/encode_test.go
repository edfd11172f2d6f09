package capture

import (
	"bytes"
	"image/jpeg"
	"strings"
	"testing"
	"time"
)

func TestEncodeJPEGRoundTrip(t *testing.T) {
	frame := Frame{Width: 6, Height: 4, Data: make([]byte, 6*4*3)}
	for i := range frame.Data {
		frame.Data[i] = byte(i)
	}

	encoded, width, height, err := encodeJPEG(frame, Options{JPEGQuality: 85})
	if err != nil {
		t.Fatalf("encodeJPEG failed: %v", err)
	}
	if width != 6 || height != 4 {
		t.Errorf("dimensions = %dx%d, want 6x4", width, height)
	}

	img, err := jpeg.Decode(bytes.NewReader(encoded))
	if err != nil {
		t.Fatalf("output is not a decodable JPEG: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() != 6 || bounds.Dy() != 4 {
		t.Errorf("decoded dimensions = %dx%d, want 6x4", bounds.Dx(), bounds.Dy())
	}
}

func TestEncodeJPEGUsesFallbackDimensions(t *testing.T) {
	opts := Options{DefaultWidth: 4, DefaultHeight: 2, JPEGQuality: 85}
	frame := Frame{Data: make([]byte, 4*2*3)}

	_, width, height, err := encodeJPEG(frame, opts)
	if err != nil {
		t.Fatalf("encodeJPEG failed: %v", err)
	}
	if width != 4 || height != 2 {
		t.Errorf("fallback dimensions = %dx%d, want 4x2", width, height)
	}
}

func TestEncodeJPEGRejectsShortData(t *testing.T) {
	frame := Frame{Width: 8, Height: 8, Data: make([]byte, 10)}
	if _, _, _, err := encodeJPEG(frame, Options{JPEGQuality: 85}); err == nil {
		t.Error("short frame data should be rejected")
	}
}

func TestCaptureNameFormat(t *testing.T) {
	ts := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	a := captureName(ts)
	b := captureName(ts)
	if a == b {
		t.Error("names should be unique even for identical timestamps")
	}
	if !strings.Contains(a, "20260314T092653") {
		t.Errorf("name %q should embed the capture timestamp", a)
	}
}
