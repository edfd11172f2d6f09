package stager

import (
	"fmt"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"bluecarbon/internal/logging"
)

// allowedMIME mirrors the registry's accepted upload types.
var allowedMIME = map[string]struct{}{
	"image/jpeg": {},
	"image/jpg":  {},
	"image/png":  {},
}

// StagedFile is an asset attached to an in-progress submission: the payload,
// its original name and MIME kind, and the preview file derived from it.
type StagedFile struct {
	ID          string
	Name        string
	MIME        string
	Data        []byte
	PreviewPath string
	StagedAt    time.Time
}

// Stager owns the ordered set of staged files for one in-progress submission.
type Stager struct {
	dir          string
	maxFileBytes int64
	logger       *slog.Logger

	mu    sync.Mutex
	files []StagedFile
}

// New constructs a stager writing previews under dir. maxFileBytes caps each
// payload; zero or negative disables the cap.
func New(dir string, maxFileBytes int64, logger *slog.Logger) (*Stager, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, fmt.Errorf("stager: staging directory required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("stager: create staging directory: %w", err)
	}
	return &Stager{
		dir:          dir,
		maxFileBytes: maxFileBytes,
		logger:       logging.NewComponentLogger(logger, "stager"),
	}, nil
}

// Add appends a file to the staged set, materializing its preview. Insertion
// order is preserved.
func (s *Stager) Add(name, mime string, data []byte) (StagedFile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return StagedFile{}, fmt.Errorf("stager: file name required")
	}
	mime = strings.ToLower(strings.TrimSpace(mime))
	if _, ok := allowedMIME[mime]; !ok {
		return StagedFile{}, fmt.Errorf("stager: unsupported type %q (jpeg or png required)", mime)
	}
	if len(data) == 0 {
		return StagedFile{}, fmt.Errorf("stager: empty payload for %q", name)
	}
	if s.maxFileBytes > 0 && int64(len(data)) > s.maxFileBytes {
		return StagedFile{}, fmt.Errorf("stager: %q exceeds the %d byte limit", name, s.maxFileBytes)
	}

	id := uuid.NewString()
	previewPath := filepath.Join(s.dir, id+"_"+filepath.Base(name))
	if err := os.WriteFile(previewPath, data, 0o644); err != nil {
		return StagedFile{}, fmt.Errorf("stager: write preview: %w", err)
	}

	entry := StagedFile{
		ID:          id,
		Name:        name,
		MIME:        mime,
		Data:        data,
		PreviewPath: previewPath,
		StagedAt:    time.Now().UTC(),
	}

	s.mu.Lock()
	s.files = append(s.files, entry)
	count := len(s.files)
	s.mu.Unlock()

	s.logger.Debug("file staged",
		logging.String("name", name),
		logging.String("mime", mime),
		logging.Int("staged_count", count),
	)
	return entry, nil
}

// AddFromPath reads a file from disk and stages it, inferring the MIME kind
// from the extension.
func (s *Stager) AddFromPath(path string) (StagedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return StagedFile{}, fmt.Errorf("stager: read %q: %w", path, err)
	}
	return s.Add(filepath.Base(path), MIMEForPath(path), data)
}

// MIMEForPath derives the MIME kind from a file extension.
func MIMEForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	default:
		return ""
	}
}

// Remove deletes the entry at index, shifting later entries down, and
// releases its preview file.
func (s *Stager) Remove(index int) error {
	s.mu.Lock()
	if index < 0 || index >= len(s.files) {
		s.mu.Unlock()
		return fmt.Errorf("stager: index %d out of range", index)
	}
	entry := s.files[index]
	s.files = append(s.files[:index], s.files[index+1:]...)
	s.mu.Unlock()

	s.releasePreview(entry)
	return nil
}

// Clear empties the staged set and releases every preview file.
func (s *Stager) Clear() {
	s.mu.Lock()
	entries := s.files
	s.files = nil
	s.mu.Unlock()

	for _, entry := range entries {
		s.releasePreview(entry)
	}
	if len(entries) > 0 {
		s.logger.Debug("stager cleared", logging.Int("released", len(entries)))
	}
}

// List returns a lazy, restartable view over the currently staged entries in
// insertion order. Each restart observes the state at that moment.
func (s *Stager) List() iter.Seq[StagedFile] {
	return func(yield func(StagedFile) bool) {
		for _, entry := range s.snapshot() {
			if !yield(entry) {
				return
			}
		}
	}
}

// Files returns a copy of the staged entries in insertion order.
func (s *Stager) Files() []StagedFile {
	return s.snapshot()
}

// Len reports the number of currently staged entries.
func (s *Stager) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.files)
}

// Dir returns the preview directory.
func (s *Stager) Dir() string {
	return s.dir
}

func (s *Stager) snapshot() []StagedFile {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]StagedFile, len(s.files))
	copy(cp, s.files)
	return cp
}

func (s *Stager) releasePreview(entry StagedFile) {
	if entry.PreviewPath == "" {
		return
	}
	if err := os.Remove(entry.PreviewPath); err != nil && !os.IsNotExist(err) {
		s.logger.Warn("release preview failed",
			logging.String("path", entry.PreviewPath),
			logging.Error(err),
		)
	}
}
