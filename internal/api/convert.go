package api

import "reelscribe/internal/jobs"

// FromJob converts a registry snapshot to its API representation. The result
// path is null until the job completes.
func FromJob(job jobs.Job) Job {
	dto := Job{
		ID:             job.ID,
		URL:            job.URL,
		Status:         job.Status,
		TranscriptPath: job.TranscriptPath,
	}
	if job.ResultPath != "" {
		path := job.ResultPath
		dto.ResultPath = &path
	}
	if !job.CreatedAt.IsZero() {
		dto.CreatedAt = job.CreatedAt.UTC().Format(dateTimeFormat)
	}
	if !job.UpdatedAt.IsZero() {
		dto.UpdatedAt = job.UpdatedAt.UTC().Format(dateTimeFormat)
	}
	return dto
}

// FromJobs converts registry snapshots, always returning a non-nil slice so
// an empty registry encodes as [].
func FromJobs(list []jobs.Job) []Job {
	out := make([]Job, 0, len(list))
	for _, job := range list {
		out = append(out, FromJob(job))
	}
	return out
}
