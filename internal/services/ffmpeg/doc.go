// Package ffmpeg wraps the ffmpeg CLI that converts downloaded audio into the
// mono 16 kHz PCM WAV the inference engines expect.
//
// Progress comes from ffmpeg's stderr: the "Duration:" banner establishes the
// total length and each "time=" status line is reported as a percentage of it.
package ffmpeg
