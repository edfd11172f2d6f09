package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"bluecarbon/internal/capture"
	"bluecarbon/internal/capture/gstcam"
)

func newCaptureCommand(ctx *commandContext) *cobra.Command {
	var (
		count       int
		interval    time.Duration
		waitDevice  bool
		waitTimeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "capture",
		Short: "Capture camera snapshots into the staging area",
		Long: `Capture opens the configured camera, grabs one or more snapshots,
and stages each as a JPEG for the next submission. With --wait-device the
command waits for the camera to be plugged in before opening it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			st, err := ctx.openStager()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if waitDevice {
				if err := waitForDevice(cmd.Context(), ctx, waitTimeout); err != nil {
					return err
				}
				fmt.Fprintf(out, "Camera %s detected\n", cfg.Capture.Device)
			}

			source := gstcam.New(gstcam.Config{
				Device: cfg.Capture.Device,
				Width:  cfg.Capture.DefaultWidth,
				Height: cfg.Capture.DefaultHeight,
			})
			bridge := capture.NewBridge(source, st, capture.Options{
				JPEGQuality:   cfg.Capture.JPEGQuality,
				DefaultWidth:  cfg.Capture.DefaultWidth,
				DefaultHeight: cfg.Capture.DefaultHeight,
			}, logger)

			if err := bridge.Open(cmd.Context()); err != nil {
				return err
			}
			defer bridge.Close()

			for i := 0; i < count; i++ {
				if i > 0 && interval > 0 {
					select {
					case <-cmd.Context().Done():
						return cmd.Context().Err()
					case <-time.After(interval):
					}
				}
				entry, err := bridge.Capture(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Captured %s (%d bytes)\n", entry.Name, len(entry.Data))
			}
			fmt.Fprintf(out, "%d file(s) staged\n", st.Len())
			return nil
		},
	}

	cmd.Flags().IntVar(&count, "count", 1, "Number of snapshots to capture")
	cmd.Flags().DurationVar(&interval, "interval", time.Second, "Delay between snapshots")
	cmd.Flags().BoolVar(&waitDevice, "wait-device", false, "Wait for the camera to appear before capturing")
	cmd.Flags().DurationVar(&waitTimeout, "wait-timeout", 2*time.Minute, "How long to wait for the camera")

	return cmd
}

// waitForDevice blocks until the configured camera hotplugs in, the timeout
// elapses, or the command is interrupted.
func waitForDevice(parent context.Context, ctx *commandContext, timeout time.Duration) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := ctx.ensureLogger()
	if err != nil {
		return err
	}

	waitCtx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	arrived := make(chan struct{}, 1)
	monitor := capture.NewMonitor(cfg.Capture.Device, func(event capture.DeviceEvent) {
		if event.Present {
			select {
			case arrived <- struct{}{}:
			default:
			}
		}
	}, logger)
	if err := monitor.Start(waitCtx); err != nil {
		return err
	}
	defer monitor.Stop()

	select {
	case <-arrived:
		return nil
	case <-waitCtx.Done():
		if parent.Err() != nil {
			return parent.Err()
		}
		return fmt.Errorf("camera %s did not appear within %s", cfg.Capture.Device, timeout)
	}
}
