package progress

import (
	"strconv"
	"strings"
)

const (
	durationMarker = "Duration:"
	timeMarker     = "time="
)

// TranscodeParser tracks one ffmpeg run. The total duration is learned from
// the input banner and later "time=" progress lines are reported relative to
// it. A parser must not be shared between runs.
type TranscodeParser struct {
	totalSeconds float64
}

// NewTranscodeParser returns a parser with no known duration.
func NewTranscodeParser() *TranscodeParser {
	return &TranscodeParser{}
}

// Duration returns the total input duration in seconds, or 0 when unknown.
func (p *TranscodeParser) Duration() float64 {
	return p.totalSeconds
}

// Parse consumes one diagnostic line. Duration lines update state and yield
// no event; time lines yield a percentage once a positive duration is known.
func (p *TranscodeParser) Parse(line string) (int, bool) {
	if value, ok := valueAfter(line, durationMarker); ok {
		if seconds := ParseDuration(value); seconds > 0 {
			p.totalSeconds = seconds
		}
		return 0, false
	}
	value, ok := valueAfter(line, timeMarker)
	if !ok || p.totalSeconds <= 0 {
		return 0, false
	}
	current := ParseDuration(value)
	return clampPercent(current / p.totalSeconds * 100), true
}

// valueAfter returns the token following marker, trimmed of the trailing
// comma ffmpeg places after the duration.
func valueAfter(line, marker string) (string, bool) {
	idx := strings.Index(line, marker)
	if idx < 0 {
		return "", false
	}
	fields := strings.Fields(line[idx+len(marker):])
	if len(fields) == 0 {
		return "", false
	}
	return strings.TrimRight(fields[0], ","), true
}

// ParseDuration converts "HH:MM:SS.fraction" into seconds. Anything that does
// not match the format yields 0 so a missing duration only suppresses
// percentage reporting.
func ParseDuration(value string) float64 {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) != 3 {
		return 0
	}
	hours, err := strconv.ParseUint(parts[0], 10, 32)
	if err != nil {
		return 0
	}
	minutes, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil {
		return 0
	}
	seconds, err := strconv.ParseFloat(parts[2], 64)
	if err != nil || seconds < 0 || strings.ContainsAny(parts[2], "eE+-") {
		return 0
	}
	return float64(hours)*3600 + float64(minutes)*60 + seconds
}
