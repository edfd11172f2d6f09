package config

const (
	defaultRegistryBaseURL = "http://127.0.0.1:8001/api"
	defaultRegistryTimeout = 30

	defaultStagingDir = "~/.local/share/bluecarbon/staging"
	defaultDataDir    = "~/.local/share/bluecarbon/data"
	defaultLogDir     = "~/.local/share/bluecarbon/logs"

	defaultCaptureDevice = "/dev/video0"
	defaultJPEGQuality   = 85
	defaultCaptureWidth  = 1280
	defaultCaptureHeight = 720

	// Mirrors the registry-side per-file upload cap.
	defaultMaxFileBytes    = 25 << 20
	defaultPreviewMaxAgeHr = 24

	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Registry: Registry{
			BaseURL:        defaultRegistryBaseURL,
			TimeoutSeconds: defaultRegistryTimeout,
		},
		Paths: Paths{
			StagingDir: defaultStagingDir,
			DataDir:    defaultDataDir,
			LogDir:     defaultLogDir,
		},
		Capture: Capture{
			Device:        defaultCaptureDevice,
			JPEGQuality:   defaultJPEGQuality,
			DefaultWidth:  defaultCaptureWidth,
			DefaultHeight: defaultCaptureHeight,
		},
		Stager: Stager{
			MaxFileBytes:    defaultMaxFileBytes,
			PreviewMaxAgeHr: defaultPreviewMaxAgeHr,
		},
		Notifications: Notifications{
			RequestTimeout: 10,
			Submissions:    true,
			Decisions:      true,
			Errors:         true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
