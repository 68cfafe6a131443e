package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"reelscribe/internal/services"
	"reelscribe/internal/staging"
)

// workspace holds the per-job files. It belongs to the goroutine running the
// job.
type workspace struct {
	dir            string
	rawPath        string
	audioPath      string
	transcriptPath string
	modelPath      string
}

func newWorkspace(tempDir, jobID string) (*workspace, error) {
	dir := staging.WorkspaceDir(tempDir, jobID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrFilesystem, "prepare", "workspace", dir, err)
	}
	return &workspace{
		dir:            dir,
		rawPath:        filepath.Join(dir, jobID+".webm"),
		audioPath:      filepath.Join(dir, jobID+".wav"),
		transcriptPath: staging.TranscriptPath(tempDir, jobID),
	}, nil
}

// discard removes everything the job produced.
func (w *workspace) discard() error {
	if err := os.RemoveAll(w.dir); err != nil {
		return fmt.Errorf("remove workspace %s: %w", w.dir, err)
	}
	return nil
}

// trim drops the intermediate download, keeping the results.
func (w *workspace) trim() error {
	if err := os.Remove(w.rawPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove download %s: %w", w.rawPath, err)
	}
	return nil
}
