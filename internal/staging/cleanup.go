package staging

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"reelscribe/internal/logging"
)

// CleanResult contains the outcome of a sweep.
type CleanResult struct {
	Removed []string
	Errors  []CleanupError
}

// CleanupError pairs a directory path with its cleanup error.
type CleanupError struct {
	Path  string
	Error error
}

// CleanInterrupted removes every prefixed directory in tempDir that is not a
// complete workspace: jobs killed mid-run and stray inference scratch
// directories. It must only run while no jobs are in flight.
func CleanInterrupted(ctx context.Context, tempDir string, logger *slog.Logger) CleanResult {
	result := CleanResult{}
	if logger == nil {
		logger = logging.NewNop()
	}

	tempDir = strings.TrimSpace(tempDir)
	if tempDir == "" {
		return result
	}
	entries, err := os.ReadDir(tempDir)
	if err != nil {
		if !os.IsNotExist(err) {
			result.Errors = append(result.Errors, CleanupError{Path: tempDir, Error: err})
		}
		return result
	}

	for _, entry := range entries {
		if ctx.Err() != nil {
			return result
		}
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), Prefix) {
			continue
		}
		if jobID, ok := jobIDFromName(entry); ok && fileExists(TranscriptPath(tempDir, jobID)) {
			continue
		}

		dirPath := filepath.Join(tempDir, entry.Name())
		if err := os.RemoveAll(dirPath); err != nil {
			result.Errors = append(result.Errors, CleanupError{Path: dirPath, Error: err})
			logger.Warn("failed to remove interrupted workspace",
				logging.String("path", dirPath),
				logging.Error(err),
				logging.String(logging.FieldEventType, "workspace_cleanup_failed"),
				logging.String(logging.FieldErrorHint, "check temp_dir permissions"),
				logging.String(logging.FieldImpact, "disk space not reclaimed"),
			)
			continue
		}
		result.Removed = append(result.Removed, dirPath)
		logger.Info("removed interrupted workspace",
			logging.String("path", dirPath),
			logging.String(logging.FieldEventType, "workspace_cleanup"),
		)
	}
	return result
}
