// Package gstcam implements capture.FrameSource on top of GStreamer,
// reading packed RGB frames from a video4linux camera through a
// v4l2src pipeline.
package gstcam
