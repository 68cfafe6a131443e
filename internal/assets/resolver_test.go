package assets_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"reelscribe/internal/assets"
	"reelscribe/internal/services"
)

func newModelServer(t *testing.T, status int, body string, delay time.Duration) (*httptest.Server, *int32) {
	t.Helper()
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		if delay > 0 {
			time.Sleep(delay)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server, &hits
}

func TestEnsurePresentDownloadsOnce(t *testing.T) {
	server, hits := newModelServer(t, http.StatusOK, "ggml-model-bytes", 0)
	dir := filepath.Join(t.TempDir(), "models")
	resolver, err := assets.NewResolver(dir, "ggml-tiny.bin", server.URL+"/ggml-tiny.bin", assets.WithHTTPClient(server.Client()))
	if err != nil {
		t.Fatalf("NewResolver returned error: %v", err)
	}
	if resolver.Present() {
		t.Fatal("expected empty cache")
	}

	for i := 0; i < 2; i++ {
		path, err := resolver.EnsurePresent(context.Background())
		if err != nil {
			t.Fatalf("EnsurePresent #%d returned error: %v", i+1, err)
		}
		if path != filepath.Join(dir, "ggml-tiny.bin") {
			t.Fatalf("unexpected path: %q", path)
		}
	}
	if got := atomic.LoadInt32(hits); got != 1 {
		t.Fatalf("expected exactly one download, got %d", got)
	}
	data, err := os.ReadFile(resolver.Path())
	if err != nil || string(data) != "ggml-model-bytes" {
		t.Fatalf("unexpected cached content %q: %v", data, err)
	}
	if _, err := os.Stat(resolver.Path() + ".part"); !os.IsNotExist(err) {
		t.Fatalf("expected no partial file, stat err = %v", err)
	}
}

func TestEnsurePresentCollapsesConcurrentDownloads(t *testing.T) {
	server, hits := newModelServer(t, http.StatusOK, "model", 50*time.Millisecond)
	resolver, err := assets.NewResolver(t.TempDir(), "model.bin", server.URL, assets.WithHTTPClient(server.Client()))
	if err != nil {
		t.Fatalf("NewResolver returned error: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := resolver.EnsurePresent(context.Background()); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("EnsurePresent returned error: %v", err)
	}
	if got := atomic.LoadInt32(hits); got != 1 {
		t.Fatalf("expected one download for concurrent callers, got %d", got)
	}
}

func TestEnsurePresentCacheHitSkipsNetwork(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "model.bin"), []byte("cached"), 0o644); err != nil {
		t.Fatalf("seed cache: %v", err)
	}
	resolver, err := assets.NewResolver(dir, "model.bin", "http://127.0.0.1:1/unreachable")
	if err != nil {
		t.Fatalf("NewResolver returned error: %v", err)
	}
	if !resolver.Present() {
		t.Fatal("expected seeded model to be present")
	}
	if _, err := resolver.EnsurePresent(context.Background()); err != nil {
		t.Fatalf("expected cache hit, got %v", err)
	}
}

func TestEnsurePresentBadStatus(t *testing.T) {
	server, _ := newModelServer(t, http.StatusNotFound, "missing", 0)
	resolver, err := assets.NewResolver(t.TempDir(), "model.bin", server.URL, assets.WithHTTPClient(server.Client()))
	if err != nil {
		t.Fatalf("NewResolver returned error: %v", err)
	}
	_, err = resolver.EnsurePresent(context.Background())
	if !errors.Is(err, assets.ErrAssetUnavailable) || !errors.Is(err, services.ErrNetwork) {
		t.Fatalf("expected asset unavailable network error, got %v", err)
	}
	if resolver.Present() {
		t.Fatal("failed download must not leave a valid asset")
	}
	if _, err := os.Stat(resolver.Path() + ".part"); !os.IsNotExist(err) {
		t.Fatalf("expected partial file removed, stat err = %v", err)
	}
}

func TestEnsurePresentCacheDirFailure(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("write blocker: %v", err)
	}
	resolver, err := assets.NewResolver(filepath.Join(blocker, "models"), "model.bin", "http://127.0.0.1:1/")
	if err != nil {
		t.Fatalf("NewResolver returned error: %v", err)
	}
	_, err = resolver.EnsurePresent(context.Background())
	if !errors.Is(err, assets.ErrAssetUnavailable) || !errors.Is(err, services.ErrFilesystem) {
		t.Fatalf("expected asset unavailable filesystem error, got %v", err)
	}
}

func TestNewResolverValidatesInput(t *testing.T) {
	if _, err := assets.NewResolver("", "model.bin", "http://x"); err == nil {
		t.Fatal("expected error for empty dir")
	}
}
