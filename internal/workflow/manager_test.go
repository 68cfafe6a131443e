package workflow_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"reelscribe/internal/jobs"
	"reelscribe/internal/pipeline"
	"reelscribe/internal/services"
	"reelscribe/internal/workflow"
)

type stubRunner struct {
	events []pipeline.ProgressEvent
	err    error
	block  bool

	mu   sync.Mutex
	urls []string
}

func (s *stubRunner) Run(ctx context.Context, req pipeline.Request, events chan<- pipeline.ProgressEvent) (pipeline.Result, error) {
	s.mu.Lock()
	s.urls = append(s.urls, req.URL)
	s.mu.Unlock()
	for _, event := range s.events {
		events <- event
	}
	if s.block {
		<-ctx.Done()
		return pipeline.Result{}, ctx.Err()
	}
	if s.err != nil {
		return pipeline.Result{}, s.err
	}
	return pipeline.Result{AudioPath: "/tmp/" + req.JobID + ".wav", TranscriptPath: "/tmp/" + req.JobID + ".txt", Segments: 3}, nil
}

func startManager(t *testing.T, runner workflow.Runner) (*workflow.Manager, *jobs.Registry) {
	t.Helper()
	registry := jobs.NewRegistry()
	mgr := workflow.NewManager(registry, runner, nil)
	if err := mgr.Start(context.Background()); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	t.Cleanup(mgr.Stop)
	return mgr, registry
}

func waitTerminal(t *testing.T, registry *jobs.Registry, id string) jobs.Job {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if job, ok := registry.Get(id); ok && job.Terminal() {
			return job
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("job %s did not reach a terminal status", id)
	return jobs.Job{}
}

func TestSubmitRunsJobToCompletion(t *testing.T) {
	runner := &stubRunner{events: []pipeline.ProgressEvent{
		{Stage: pipeline.StageDownload, Percent: 45},
		{Stage: pipeline.StageConvert, Percent: 100},
		{Stage: pipeline.StageCheckModel, Percent: pipeline.PercentUnknown},
		{Stage: pipeline.StageTranscribe, Percent: 100},
	}}
	mgr, registry := startManager(t, runner)

	job, err := mgr.Submit(context.Background(), "http://example/video")
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if job.Status != jobs.StatusQueued {
		t.Fatalf("expected queued snapshot, got %q", job.Status)
	}

	final := waitTerminal(t, registry, job.ID)
	if final.Status != jobs.StatusCompleted {
		t.Fatalf("expected completed, got %q", final.Status)
	}
	if final.ResultPath != "/tmp/"+job.ID+".wav" || final.TranscriptPath != "/tmp/"+job.ID+".txt" {
		t.Fatalf("unexpected result paths: %+v", final)
	}
}

func TestSubmitRecordsFailure(t *testing.T) {
	runner := &stubRunner{
		events: []pipeline.ProgressEvent{{Stage: pipeline.StageDownload, Percent: 10}},
		err:    &services.ExitError{Binary: "yt-dlp", Code: 1, Tail: "ERROR: Unsupported URL"},
	}
	mgr, registry := startManager(t, runner)

	job, err := mgr.Submit(context.Background(), "http://example/bad")
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	final := waitTerminal(t, registry, job.ID)
	if final.Status != "failed: yt-dlp exited with status 1: ERROR: Unsupported URL" {
		t.Fatalf("unexpected failed status: %q", final.Status)
	}
	if final.ResultPath != "" {
		t.Fatalf("failed job must not carry a result: %+v", final)
	}
}

func TestTerminalStatusWrittenAfterProgress(t *testing.T) {
	events := make([]pipeline.ProgressEvent, 0, 101)
	for p := 0; p <= 100; p++ {
		events = append(events, pipeline.ProgressEvent{Stage: pipeline.StageTranscribe, Percent: p})
	}
	mgr, registry := startManager(t, &stubRunner{events: events})

	for i := 0; i < 20; i++ {
		job, err := mgr.Submit(context.Background(), fmt.Sprintf("http://example/%d", i))
		if err != nil {
			t.Fatalf("Submit returned error: %v", err)
		}
		final := waitTerminal(t, registry, job.ID)
		time.Sleep(time.Millisecond)
		if again, _ := registry.Get(job.ID); again.Status != jobs.StatusCompleted || final.Status != jobs.StatusCompleted {
			t.Fatalf("terminal status overwritten: %q then %q", final.Status, again.Status)
		}
	}
}

func TestStopFailsInFlightJobs(t *testing.T) {
	registry := jobs.NewRegistry()
	mgr := workflow.NewManager(registry, &stubRunner{block: true}, nil)
	if err := mgr.Start(context.Background()); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	job, err := mgr.Submit(context.Background(), "http://example/slow")
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}

	mgr.Stop()

	final, _ := registry.Get(job.ID)
	if !jobs.IsFailed(final.Status) {
		t.Fatalf("expected in-flight job failed on stop, got %q", final.Status)
	}
	if _, err := mgr.Submit(context.Background(), "http://example/late"); !errors.Is(err, workflow.ErrNotRunning) {
		t.Fatalf("expected ErrNotRunning after stop, got %v", err)
	}
}

func TestSubmitValidatesURL(t *testing.T) {
	mgr, registry := startManager(t, &stubRunner{})
	if _, err := mgr.Submit(context.Background(), "   "); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(registry.List()) != 0 {
		t.Fatal("rejected submission must not create a job")
	}
}

func TestSubmitKeepsURLAsGiven(t *testing.T) {
	runner := &stubRunner{}
	mgr, registry := startManager(t, runner)

	const raw = "  http://example/video\n"
	job, err := mgr.Submit(context.Background(), raw)
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if job.URL != raw {
		t.Fatalf("queued snapshot url = %q, want %q", job.URL, raw)
	}
	final := waitTerminal(t, registry, job.ID)
	if final.URL != raw {
		t.Fatalf("stored url = %q, want %q", final.URL, raw)
	}

	runner.mu.Lock()
	defer runner.mu.Unlock()
	if len(runner.urls) != 1 || runner.urls[0] != "http://example/video" {
		t.Fatalf("runner received %q, want trimmed url", runner.urls)
	}
}

func TestStatusCountsJobs(t *testing.T) {
	mgr, registry := startManager(t, &stubRunner{})
	job, err := mgr.Submit(context.Background(), "http://example/video")
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	waitTerminal(t, registry, job.ID)

	status := mgr.Status()
	if !status.Running || status.Completed != 1 || status.Active != 0 || status.Failed != 0 {
		t.Fatalf("unexpected status: %+v", status)
	}
}

func TestStartTwiceFails(t *testing.T) {
	mgr, _ := startManager(t, &stubRunner{})
	if err := mgr.Start(context.Background()); err == nil {
		t.Fatal("expected error on second Start")
	}
}
