package stager

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"bluecarbon/internal/logging"
)

// Restore rebuilds the staged set from preview files left in the staging
// directory by an earlier process. Entries load in modification time order so
// insertion order survives restarts. Files that do not look like previews or
// no longer parse as one are left alone.
func (s *Stager) Restore() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("stager: read staging directory: %w", err)
	}

	type candidate struct {
		file    StagedFile
		modTime time.Time
	}
	var found []candidate
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		id, name, ok := splitPreviewName(entry.Name())
		if !ok {
			continue
		}
		path := filepath.Join(s.dir, entry.Name())
		info, err := entry.Info()
		if err != nil {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			s.logger.Warn("restore preview failed",
				logging.String("path", path),
				logging.Error(err),
			)
			continue
		}
		mime := MIMEForPath(name)
		if _, allowed := allowedMIME[mime]; !allowed || len(data) == 0 {
			continue
		}
		found = append(found, candidate{
			file: StagedFile{
				ID:          id,
				Name:        name,
				MIME:        mime,
				Data:        data,
				PreviewPath: path,
				StagedAt:    info.ModTime().UTC(),
			},
			modTime: info.ModTime(),
		})
	}

	sort.Slice(found, func(i, j int) bool {
		return found[i].modTime.Before(found[j].modTime)
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	s.files = s.files[:0]
	for _, c := range found {
		s.files = append(s.files, c.file)
	}
	if len(s.files) > 0 {
		s.logger.Debug("staged files restored", logging.Int("count", len(s.files)))
	}
	return nil
}

// splitPreviewName parses the <uuid>_<original-name> preview naming scheme.
func splitPreviewName(name string) (id, original string, ok bool) {
	idx := strings.IndexByte(name, '_')
	if idx <= 0 || idx == len(name)-1 {
		return "", "", false
	}
	id = name[:idx]
	if _, err := uuid.Parse(id); err != nil {
		return "", "", false
	}
	return id, name[idx+1:], true
}
