package stager

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"bluecarbon/internal/logging"
)

// CleanStaleResult contains the outcome of a stale preview cleanup sweep.
type CleanStaleResult struct {
	Removed []string
	Errors  []CleanupError
}

// CleanupError pairs a preview path with its cleanup error.
type CleanupError struct {
	Path  string
	Error error
}

// CleanStale removes preview files older than maxAge. Previews are owned by a
// single client session; anything left behind by a crashed run is stale once
// it outlives maxAge.
func CleanStale(stagingDir string, maxAge time.Duration, logger *slog.Logger) CleanStaleResult {
	result := CleanStaleResult{}
	log := logging.NewComponentLogger(logger, "stager")

	stagingDir = strings.TrimSpace(stagingDir)
	if stagingDir == "" {
		return result
	}

	entries, err := os.ReadDir(stagingDir)
	if err != nil {
		if !os.IsNotExist(err) {
			result.Errors = append(result.Errors, CleanupError{Path: stagingDir, Error: err})
		}
		return result
	}

	cutoff := time.Now().Add(-maxAge)

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, _, ok := splitPreviewName(entry.Name()); !ok {
			continue
		}
		path := filepath.Join(stagingDir, entry.Name())
		info, err := entry.Info()
		if err != nil {
			result.Errors = append(result.Errors, CleanupError{Path: path, Error: err})
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(path); err != nil {
				result.Errors = append(result.Errors, CleanupError{Path: path, Error: err})
				continue
			}
			result.Removed = append(result.Removed, path)
		}
	}

	if len(result.Removed) > 0 {
		log.Info("stale previews removed", logging.Int("count", len(result.Removed)))
	}
	return result
}
