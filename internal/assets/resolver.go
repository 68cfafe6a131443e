package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gofrs/flock"
	"golang.org/x/sync/singleflight"

	"reelscribe/internal/logging"
	"reelscribe/internal/services"
)

// ErrAssetUnavailable marks every failure to produce the cached model.
var ErrAssetUnavailable = errors.New("asset unavailable")

const (
	stageName          = "checking-model"
	defaultHTTPTimeout = 10 * time.Minute
	lockRetryDelay     = 250 * time.Millisecond
)

// Option configures a Resolver.
type Option func(*Resolver)

// WithHTTPClient overrides the HTTP client used for downloads.
func WithHTTPClient(client *http.Client) Option {
	return func(r *Resolver) {
		if client != nil {
			r.http = client
		}
	}
}

// WithLogger sets the resolver logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logging.NewComponentLogger(logger, "assets")
	}
}

// Resolver ensures a single model file exists under a cache directory.
type Resolver struct {
	dir      string
	fileName string
	url      string
	http     *http.Client
	logger   *slog.Logger
	group    singleflight.Group
}

// NewResolver builds a resolver for url cached as dir/fileName.
func NewResolver(dir, fileName, url string, opts ...Option) (*Resolver, error) {
	dir = strings.TrimSpace(dir)
	fileName = strings.TrimSpace(fileName)
	url = strings.TrimSpace(url)
	if dir == "" || fileName == "" || url == "" {
		return nil, errors.New("assets: cache dir, file name, and url are required")
	}
	r := &Resolver{
		dir:      dir,
		fileName: fileName,
		url:      url,
		http:     &http.Client{Timeout: defaultHTTPTimeout},
		logger:   logging.NewComponentLogger(nil, "assets"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Path returns the fixed location of the cached model.
func (r *Resolver) Path() string {
	return filepath.Join(r.dir, r.fileName)
}

// Present reports whether the model is already cached.
func (r *Resolver) Present() bool {
	info, err := os.Stat(r.Path())
	return err == nil && info.Mode().IsRegular() && info.Size() > 0
}

// EnsurePresent returns the cached model path, downloading it first if needed.
func (r *Resolver) EnsurePresent(ctx context.Context) (string, error) {
	if r.Present() {
		return r.Path(), nil
	}
	result, err, _ := r.group.Do(r.Path(), func() (any, error) {
		return r.download(ctx)
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

func (r *Resolver) download(ctx context.Context) (string, error) {
	target := r.Path()
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return "", unavailable(services.ErrFilesystem, "create cache dir", r.dir, err)
	}

	lock := flock.New(target + ".lock")
	locked, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil || !locked {
		if err == nil {
			err = errors.New("lock not acquired")
		}
		return "", unavailable(services.ErrFilesystem, "lock", target, err)
	}
	defer func() {
		_ = lock.Unlock()
	}()

	// Another process may have finished while we waited for the lock.
	if r.Present() {
		return target, nil
	}

	logger := logging.WithContext(ctx, r.logger)
	logger.Info("downloading model", logging.String("url", r.url), logging.String("path", target))
	started := time.Now()

	partial := target + ".part"
	written, err := r.fetch(ctx, partial)
	if err != nil {
		_ = os.Remove(partial)
		return "", err
	}
	if err := os.Rename(partial, target); err != nil {
		_ = os.Remove(partial)
		return "", unavailable(services.ErrFilesystem, "finalize", target, err)
	}

	logger.Info("model cached",
		logging.String("size", humanize.Bytes(uint64(written))),
		logging.Duration("elapsed", time.Since(started)),
	)
	return target, nil
}

func (r *Resolver) fetch(ctx context.Context, partial string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.url, nil)
	if err != nil {
		return 0, unavailable(services.ErrNetwork, "build request", r.url, err)
	}
	resp, err := r.http.Do(req)
	if err != nil {
		return 0, unavailable(services.ErrNetwork, "request", r.url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, unavailable(services.ErrNetwork, "request", fmt.Sprintf("unexpected status %s", resp.Status), nil)
	}

	file, err := os.OpenFile(partial, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return 0, unavailable(services.ErrFilesystem, "create", partial, err)
	}
	written, copyErr := io.Copy(file, resp.Body)
	closeErr := file.Close()
	if copyErr != nil {
		return 0, unavailable(services.ErrNetwork, "transfer", humanize.Bytes(uint64(written))+" received", copyErr)
	}
	if closeErr != nil {
		return 0, unavailable(services.ErrFilesystem, "write", partial, closeErr)
	}
	if resp.ContentLength > 0 && written != resp.ContentLength {
		return 0, unavailable(services.ErrNetwork, "transfer",
			fmt.Sprintf("short body: %s of %s", humanize.Bytes(uint64(written)), humanize.Bytes(uint64(resp.ContentLength))), nil)
	}
	if written == 0 {
		return 0, unavailable(services.ErrNetwork, "transfer", "empty body", nil)
	}
	return written, nil
}

func unavailable(marker error, operation, message string, err error) error {
	return fmt.Errorf("%w: %w", ErrAssetUnavailable, services.Wrap(marker, stageName, operation, message, err))
}
