package workflow

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"reelscribe/internal/jobs"
	"reelscribe/internal/logging"
	"reelscribe/internal/pipeline"
	"reelscribe/internal/services"
)

// ErrNotRunning is returned by Submit before Start or after Stop.
var ErrNotRunning = errors.New("workflow not running")

// Runner executes one job. *pipeline.Executor satisfies it.
type Runner interface {
	Run(ctx context.Context, req pipeline.Request, events chan<- pipeline.ProgressEvent) (pipeline.Result, error)
}

// Manager coordinates job execution.
type Manager struct {
	registry *jobs.Registry
	runner   Runner
	logger   *slog.Logger

	mu      sync.Mutex
	running bool
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewManager constructs a workflow manager.
func NewManager(registry *jobs.Registry, runner Runner, logger *slog.Logger) *Manager {
	return &Manager{
		registry: registry,
		runner:   runner,
		logger:   logging.NewComponentLogger(logger, "workflow"),
	}
}

// Start enables job submission. Jobs inherit ctx.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return errors.New("workflow already running")
	}
	if m.registry == nil || m.runner == nil {
		return errors.New("workflow not configured")
	}
	m.ctx, m.cancel = context.WithCancel(ctx)
	m.running = true
	return nil
}

// Stop cancels in-flight jobs and waits for them to record a terminal status.
func (m *Manager) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	cancel := m.cancel
	m.running = false
	m.cancel = nil
	m.mu.Unlock()

	cancel()
	m.wg.Wait()
}

// Running reports whether the manager accepts submissions.
func (m *Manager) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// Submit queues sourceURL and starts processing it in the background. The
// returned job is the queued snapshot. The job records sourceURL as given;
// surrounding whitespace is dropped only for the download.
func (m *Manager) Submit(ctx context.Context, sourceURL string) (jobs.Job, error) {
	fetchURL := strings.TrimSpace(sourceURL)
	if fetchURL == "" {
		return jobs.Job{}, services.Wrap(services.ErrValidation, "submit", "", "url is required", nil)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.running {
		return jobs.Job{}, ErrNotRunning
	}
	job := m.registry.Create(sourceURL)
	m.wg.Add(1)
	go m.runJob(m.ctx, job, fetchURL)

	logger := logging.WithContext(ctx, m.logger)
	logger.Info("job queued",
		logging.String(logging.FieldJobID, job.ID),
		logging.String(logging.FieldEventType, "job_queued"),
		logging.String("url", sourceURL),
	)
	return job, nil
}
