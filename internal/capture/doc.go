// Package capture drives the camera session used to photograph restoration
// evidence. A Bridge owns the acquisition state machine (idle, acquiring,
// streaming, error), snapshots live frames into JPEG staged files, and
// guarantees the underlying stream is released on every exit path. The
// FrameSource contract isolates hardware access; the gstcam subpackage
// provides the GStreamer-backed implementation and a udev monitor reports
// camera hotplug events.
package capture
