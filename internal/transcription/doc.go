// Package transcription runs speech-to-text inference over decoded audio.
//
// The Adapter loads the model through an Engine once per call, runs it with
// greedy single-candidate decoding on a dedicated Worker pool, and returns
// Segments in the order the engine produced them. It also owns the helpers
// shared by every engine: WAV decoding into normalized samples, WAV encoding,
// and transcript rendering with M:SS timestamps.
package transcription
