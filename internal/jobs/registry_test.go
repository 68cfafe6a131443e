package jobs_test

import (
	"fmt"
	"sync"
	"testing"

	"reelscribe/internal/jobs"
)

func TestCreateAssignsUniqueQueuedJobs(t *testing.T) {
	registry := jobs.NewRegistry()
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		job := registry.Create(fmt.Sprintf("http://example/%d", i))
		if job.Status != jobs.StatusQueued {
			t.Fatalf("expected queued status, got %q", job.Status)
		}
		if _, dup := seen[job.ID]; dup {
			t.Fatalf("duplicate id %s", job.ID)
		}
		seen[job.ID] = struct{}{}
	}

	list := registry.List()
	if len(list) != 100 {
		t.Fatalf("expected 100 jobs, got %d", len(list))
	}
	if list[0].URL != "http://example/0" || list[99].URL != "http://example/99" {
		t.Fatal("expected jobs listed oldest first")
	}
}

func TestListReturnsCopies(t *testing.T) {
	registry := jobs.NewRegistry()
	job := registry.Create("http://example/video")

	list := registry.List()
	list[0].Status = "tampered"

	got, ok := registry.Get(job.ID)
	if !ok || got.Status != jobs.StatusQueued {
		t.Fatalf("registry state mutated through snapshot: %+v", got)
	}
}

func TestUpdatesIgnoreUnknownIDs(t *testing.T) {
	registry := jobs.NewRegistry()
	if registry.UpdateStatus("missing", "downloading 5%") {
		t.Fatal("expected no-op for unknown id")
	}
	if registry.SetResult("missing", "/tmp/x.wav", "") {
		t.Fatal("expected no-op for unknown id")
	}
	if registry.SetFailed("missing", "boom") {
		t.Fatal("expected no-op for unknown id")
	}
	if _, ok := registry.Get("missing"); ok {
		t.Fatal("expected unknown id to be absent")
	}
}

func TestTerminalStatusIsFinal(t *testing.T) {
	registry := jobs.NewRegistry()

	done := registry.Create("http://example/a")
	registry.UpdateStatus(done.ID, "transcribing 90%")
	if !registry.SetResult(done.ID, "/tmp/a.wav", "/tmp/a.wav.txt") {
		t.Fatal("expected SetResult to apply")
	}
	if registry.UpdateStatus(done.ID, "transcribing 95%") || registry.SetFailed(done.ID, "late") || registry.SetResult(done.ID, "/other", "") {
		t.Fatal("completed job must ignore further updates")
	}
	got, _ := registry.Get(done.ID)
	if got.Status != jobs.StatusCompleted || got.ResultPath != "/tmp/a.wav" || got.TranscriptPath != "/tmp/a.wav.txt" {
		t.Fatalf("unexpected completed job: %+v", got)
	}

	failed := registry.Create("http://example/b")
	if !registry.SetFailed(failed.ID, "yt-dlp exited with status 1") {
		t.Fatal("expected SetFailed to apply")
	}
	if registry.SetResult(failed.ID, "/tmp/b.wav", "") {
		t.Fatal("failed job must not complete")
	}
	got, _ = registry.Get(failed.ID)
	if got.Status != "failed: yt-dlp exited with status 1" || got.ResultPath != "" {
		t.Fatalf("unexpected failed job: %+v", got)
	}
}

func TestConcurrentUpdates(t *testing.T) {
	registry := jobs.NewRegistry()
	const workers = 16

	var wg sync.WaitGroup
	ids := make(chan string, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			job := registry.Create(fmt.Sprintf("http://example/%d", n))
			for p := 0; p <= 100; p += 10 {
				registry.UpdateStatus(job.ID, fmt.Sprintf("downloading %d%%", p))
				_ = registry.List()
			}
			if n%2 == 0 {
				registry.SetResult(job.ID, "/tmp/out.wav", "")
			} else {
				registry.SetFailed(job.ID, "boom")
			}
			ids <- job.ID
		}(i)
	}
	wg.Wait()
	close(ids)

	for id := range ids {
		job, ok := registry.Get(id)
		if !ok || !job.Terminal() {
			t.Fatalf("expected terminal job %s, got %+v", id, job)
		}
		if job.Status == jobs.StatusCompleted && job.ResultPath == "" {
			t.Fatalf("completed job without result path: %+v", job)
		}
	}
	active, completed, failed := registry.Counts()
	if active != 0 || completed != workers/2 || failed != workers/2 {
		t.Fatalf("unexpected counts: active=%d completed=%d failed=%d", active, completed, failed)
	}
}

func TestStatusHelpers(t *testing.T) {
	if jobs.FailedStatus("  ") != "failed: unknown error" {
		t.Fatal("expected placeholder failure message")
	}
	if !jobs.IsTerminal("failed: x") || !jobs.IsTerminal("completed") || jobs.IsTerminal("converting 10%") {
		t.Fatal("unexpected terminal classification")
	}
}
