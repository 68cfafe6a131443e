package stageexec_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"reelscribe/internal/services"
	"reelscribe/internal/stageexec"
)

func TestRunLogsLifecycleAndPropagatesStage(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	var seenStage string
	err := stageexec.Run(context.Background(), stageexec.Options{
		Logger:    logger,
		StageName: "converting",
		Execute: func(ctx context.Context) error {
			seenStage, _ = services.StageFromContext(ctx)
			return nil
		},
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if seenStage != "converting" {
		t.Fatalf("expected stage in context, got %q", seenStage)
	}
	out := buf.String()
	for _, want := range []string{"event_type=stage_start", "event_type=stage_complete", "stage=converting"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in log output:\n%s", want, out)
		}
	}
}

func TestRunReturnsStageErrorWithHint(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	stageErr := services.Wrap(services.ErrProcessLaunch, "download", "yt-dlp", "", errors.New("not found"))
	err := stageexec.Run(context.Background(), stageexec.Options{
		Logger:    logger,
		StageName: "downloading",
		Execute:   func(context.Context) error { return stageErr },
	})
	if !errors.Is(err, stageErr) {
		t.Fatalf("expected stage error returned unchanged, got %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "event_type=stage_failure") || !strings.Contains(out, "error_category=process_launch") {
		t.Fatalf("expected failure log, got:\n%s", out)
	}
}

func TestRunRequiresHandler(t *testing.T) {
	if err := stageexec.Run(context.Background(), stageexec.Options{StageName: "x"}); err == nil {
		t.Fatal("expected error without handler")
	}
}
