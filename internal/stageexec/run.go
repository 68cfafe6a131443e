// Package stageexec runs one pipeline stage with uniform logging.
package stageexec

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"reelscribe/internal/logging"
	"reelscribe/internal/services"
)

// Options describes a single stage execution.
type Options struct {
	Logger    *slog.Logger
	StageName string
	// Execute performs the stage. The context carries the stage name.
	Execute func(context.Context) error
}

// Run executes a stage, logging its start, completion, or failure. The
// stage's own error is returned unchanged.
func Run(ctx context.Context, opts Options) error {
	if opts.Execute == nil {
		return fmt.Errorf("stage handler unavailable: %s", opts.StageName)
	}

	stageCtx := services.WithStage(ctx, opts.StageName)
	stageLogger := logging.WithContext(stageCtx, opts.Logger)
	stageLogger.Info("stage started", logging.String(logging.FieldEventType, "stage_start"))

	started := time.Now()
	if err := opts.Execute(stageCtx); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			logging.WarnWithContext(stageLogger, "stage interrupted", "stage_interrupted",
				logging.String(logging.FieldErrorHint, "daemon is shutting down"),
				logging.String(logging.FieldImpact, "job will be marked failed"),
				logging.Error(err),
			)
			return err
		}
		logging.ErrorWithContext(stageLogger, "stage failed", "stage_failure",
			logging.String("error_category", services.Category(err)),
			logging.String(logging.FieldErrorHint, hintFor(err)),
			logging.Duration("elapsed", time.Since(started)),
			logging.Error(err),
		)
		return err
	}

	stageLogger.Info("stage completed",
		logging.String(logging.FieldEventType, "stage_complete"),
		logging.Duration("elapsed", time.Since(started)),
	)
	return nil
}

func hintFor(err error) string {
	switch {
	case errors.Is(err, services.ErrProcessLaunch):
		return "check the tool binary path with `reelscribe deps`"
	case errors.Is(err, services.ErrProcessExit):
		return "inspect the tool output quoted in the error"
	case errors.Is(err, services.ErrNetwork):
		return "check network access to the model URL"
	case errors.Is(err, services.ErrFilesystem):
		return "check free space and permissions of the data and temp directories"
	case errors.Is(err, services.ErrEmptyInput):
		return "the source produced no audio"
	case errors.Is(err, services.ErrInference):
		return "verify the model file and whisper binary"
	default:
		return "check logs for details"
	}
}
