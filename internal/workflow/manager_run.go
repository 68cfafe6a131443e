package workflow

import (
	"context"
	"log/slog"
	"time"

	"reelscribe/internal/jobs"
	"reelscribe/internal/logging"
	"reelscribe/internal/pipeline"
	"reelscribe/internal/services"
)

const progressBuffer = 16

func (m *Manager) runJob(ctx context.Context, job jobs.Job, fetchURL string) {
	defer m.wg.Done()
	ctx = services.WithJobID(ctx, job.ID)
	logger := logging.WithContext(ctx, m.logger)
	started := time.Now()

	events := make(chan pipeline.ProgressEvent, progressBuffer)
	consumed := make(chan struct{})
	go func() {
		defer close(consumed)
		m.consume(job.ID, events, logger)
	}()

	result, err := m.runner.Run(ctx, pipeline.Request{JobID: job.ID, URL: fetchURL}, events)
	close(events)
	<-consumed

	if err != nil {
		message := services.Details(err)
		if ctx.Err() != nil {
			message = "interrupted: daemon shutting down"
		}
		m.registry.SetFailed(job.ID, message)
		logging.ErrorWithContext(logger, "job failed", "job_failed",
			logging.String("error_category", services.Category(err)),
			logging.Duration("elapsed", time.Since(started)),
			logging.Error(err),
		)
		return
	}

	m.registry.SetResult(job.ID, result.AudioPath, result.TranscriptPath)
	logger.Info("job completed",
		logging.String(logging.FieldEventType, "job_completed"),
		logging.String("result_path", result.AudioPath),
		logging.Int("segments", result.Segments),
		logging.Duration("elapsed", time.Since(started)),
	)
}

// consume writes every progress event into the registry until events closes.
func (m *Manager) consume(jobID string, events <-chan pipeline.ProgressEvent, logger *slog.Logger) {
	sampler := logging.NewProgressSampler(25)
	for event := range events {
		status := event.Status()
		m.registry.UpdateStatus(jobID, status)
		if sampler.ShouldLog(string(event.Stage), float64(event.Percent)) {
			logger.Debug("job progress", logging.String("status", status))
		}
	}
}
