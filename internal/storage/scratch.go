package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// Scratch is the local transient space for one processing attempt: one
// directory for raw downloads, one for converted outputs. Files are keyed by
// their storage object names, so requests for different assets never collide.
type Scratch struct {
	RawDir       string
	ProcessedDir string
}

func NewScratch(rawDir, processedDir string) Scratch {
	return Scratch{RawDir: rawDir, ProcessedDir: processedDir}
}

// Setup creates both scratch directories. Idempotent, called once at startup.
func (s Scratch) Setup() error {
	if err := os.MkdirAll(s.RawDir, 0o755); err != nil {
		return fmt.Errorf("creating raw scratch dir: %w", err)
	}
	if err := os.MkdirAll(s.ProcessedDir, 0o755); err != nil {
		return fmt.Errorf("creating processed scratch dir: %w", err)
	}
	return nil
}

func (s Scratch) RawPath(name string) string {
	return filepath.Join(s.RawDir, name)
}

func (s Scratch) ProcessedPath(name string) string {
	return filepath.Join(s.ProcessedDir, name)
}

// Cleanup deletes each path if it exists. Absence is a no-op and a deletion
// failure is logged but never aborts the caller's error handling; best-effort
// compensation must not mask the error that triggered it.
func (s Scratch) Cleanup(paths ...string) {
	log := zap.S().Named("scratch")
	for _, path := range paths {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			log.Debugf("no file at %s, skipping delete", path)
			continue
		}
		if err := os.Remove(path); err != nil {
			log.Errorw("failed to delete scratch file", "path", path, "error", err)
			continue
		}
		log.Infof("deleted scratch file %s", path)
	}
}
