package transcription

import "context"

// Params controls one inference run.
type Params struct {
	Language string
	Threads  int
	// BeamSize and BestOf are always 1: greedy, single-candidate decoding.
	BeamSize int
	BestOf   int
}

// Engine loads inference models.
type Engine interface {
	Load(ctx context.Context, modelPath string) (Model, error)
}

// Model is a loaded inference context. progress, when non-nil, receives
// percentages in increasing order.
type Model interface {
	Transcribe(ctx context.Context, samples []float32, params Params, progress func(int)) ([]Segment, error)
	Close() error
}
