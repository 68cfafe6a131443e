package staging

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Prefix starts the name of every directory reelscribe creates in temp_dir.
const Prefix = "reelscribe-"

// WorkspaceDir returns the workspace directory for jobID.
func WorkspaceDir(tempDir, jobID string) string {
	return filepath.Join(tempDir, Prefix+jobID)
}

// TranscriptPath returns where jobID's transcript is written.
func TranscriptPath(tempDir, jobID string) string {
	return filepath.Join(WorkspaceDir(tempDir, jobID), jobID+".txt")
}

// Workspace describes a job workspace found on disk.
type Workspace struct {
	JobID    string
	Path     string
	ModTime  time.Time
	Size     int64
	Complete bool
}

// List returns the job workspaces in tempDir, newest first. Directories that
// carry the prefix without a job id are ignored.
func List(tempDir string) ([]Workspace, error) {
	tempDir = strings.TrimSpace(tempDir)
	if tempDir == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(tempDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var out []Workspace
	for _, entry := range entries {
		jobID, ok := jobIDFromName(entry)
		if !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		dir := filepath.Join(tempDir, entry.Name())
		size, _ := dirSize(dir)
		out = append(out, Workspace{
			JobID:    jobID,
			Path:     dir,
			ModTime:  info.ModTime(),
			Size:     size,
			Complete: fileExists(TranscriptPath(tempDir, jobID)),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ModTime.After(out[j].ModTime) })
	return out, nil
}

func jobIDFromName(entry os.DirEntry) (string, bool) {
	if !entry.IsDir() || !strings.HasPrefix(entry.Name(), Prefix) {
		return "", false
	}
	id := strings.TrimPrefix(entry.Name(), Prefix)
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func dirSize(path string) (int64, error) {
	var size int64
	err := filepath.WalkDir(path, func(_ string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.Type().IsRegular() {
			if info, err := d.Info(); err == nil {
				size += info.Size()
			}
		}
		return nil
	})
	return size, err
}
