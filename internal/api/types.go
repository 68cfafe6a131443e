package api

// Version is reported by /health. Release builds override it with -ldflags.
var Version = "1.0.0"

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// Job describes a transcription job in a transport-friendly format.
type Job struct {
	ID             string  `json:"id"`
	URL            string  `json:"url"`
	Status         string  `json:"status"`
	ResultPath     *string `json:"result_path"`
	TranscriptPath string  `json:"transcript_path,omitempty"`
	CreatedAt      string  `json:"created_at,omitempty"`
	UpdatedAt      string  `json:"updated_at,omitempty"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status       string `json:"status"`
	Version      string `json:"version"`
	ModelsLoaded bool   `json:"models_loaded"`
}

// TranscribeRequest is the POST /api/transcribe body.
type TranscribeRequest struct {
	URL string `json:"url"`
}

// TranscribeResponse acknowledges a queued job.
type TranscribeResponse struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}

// ErrorResponse carries a client-facing error message.
type ErrorResponse struct {
	Error string `json:"error"`
}
