package jobs

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Registry is a goroutine-safe collection of jobs.
type Registry struct {
	mu    sync.RWMutex
	jobs  map[string]*Job
	order []string
	now   func() time.Time
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		jobs: make(map[string]*Job),
		now:  time.Now,
	}
}

// Create registers url as a new queued job and returns its snapshot.
func (r *Registry) Create(url string) Job {
	now := r.now().UTC()
	job := &Job{
		ID:        uuid.NewString(),
		URL:       url,
		Status:    StatusQueued,
		CreatedAt: now,
		UpdatedAt: now,
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[job.ID] = job
	r.order = append(r.order, job.ID)
	return *job
}

// List returns copies of every job, oldest first.
func (r *Registry) List() []Job {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Job, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.jobs[id])
	}
	return out
}

// Get returns a copy of the job with id.
func (r *Registry) Get(id string) (Job, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	job, ok := r.jobs[id]
	if !ok {
		return Job{}, false
	}
	return *job, true
}

// UpdateStatus replaces the status of a running job. Unknown ids and
// finished jobs are left untouched; the return value reports whether the
// update applied.
func (r *Registry) UpdateStatus(id, status string) bool {
	return r.mutate(id, func(job *Job) {
		job.Status = status
	})
}

// SetResult completes the job with its output artifacts.
func (r *Registry) SetResult(id, resultPath, transcriptPath string) bool {
	return r.mutate(id, func(job *Job) {
		job.Status = StatusCompleted
		job.ResultPath = resultPath
		job.TranscriptPath = transcriptPath
	})
}

// SetFailed ends the job with a "failed: <message>" status.
func (r *Registry) SetFailed(id, message string) bool {
	return r.mutate(id, func(job *Job) {
		job.Status = FailedStatus(message)
	})
}

// Counts tallies jobs by lifecycle bucket.
func (r *Registry) Counts() (active, completed, failed int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, job := range r.jobs {
		switch {
		case job.Status == StatusCompleted:
			completed++
		case IsFailed(job.Status):
			failed++
		default:
			active++
		}
	}
	return active, completed, failed
}

func (r *Registry) mutate(id string, apply func(*Job)) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok || job.Terminal() {
		return false
	}
	apply(job)
	job.UpdatedAt = r.now().UTC()
	return true
}
