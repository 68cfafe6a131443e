package jobs

import (
	"strings"
	"time"
)

const (
	StatusQueued    = "queued"
	StatusCompleted = "completed"

	failedPrefix = "failed: "
)

// Job is a snapshot of one submitted URL.
type Job struct {
	ID             string
	URL            string
	Status         string
	ResultPath     string
	TranscriptPath string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// FailedStatus renders the terminal failure status for message.
func FailedStatus(message string) string {
	message = strings.TrimSpace(message)
	if message == "" {
		message = "unknown error"
	}
	return failedPrefix + message
}

// IsFailed reports whether status is a failure status.
func IsFailed(status string) bool {
	return strings.HasPrefix(status, failedPrefix)
}

// IsTerminal reports whether status ends the job's lifecycle.
func IsTerminal(status string) bool {
	return status == StatusCompleted || IsFailed(status)
}

// Terminal reports whether the job has finished.
func (j Job) Terminal() bool {
	return IsTerminal(j.Status)
}
