// Package whisper implements transcription.Engine on top of the whisper.cpp
// command line tool.
//
// Each Transcribe call writes the samples to a scratch WAV file, runs the CLI
// with greedy decoding and JSON output, streams its "progress = NN%" lines,
// and converts the millisecond offsets in the JSON result into centisecond
// segments.
package whisper
