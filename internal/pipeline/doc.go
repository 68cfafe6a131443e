// Package pipeline executes one transcription job end to end.
//
// Executor.Run drives four strictly sequential stages: download the source
// audio, convert it to mono 16 kHz WAV, make sure the model is cached, and
// transcribe. Each stage's progress is published on a channel as
// ProgressEvents; the first failing stage aborts the rest and nothing is
// retried. The per-job workspace is removed when the job fails and trimmed to
// the converted audio and transcript when it succeeds.
package pipeline
