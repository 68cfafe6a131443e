package progress

import (
	"strconv"
	"strings"
)

// ParseInferenceLine extracts the percentage from whisper.cpp progress output,
// e.g. "whisper_print_progress_callback: progress =  45%".
func ParseInferenceLine(line string) (int, bool) {
	idx := strings.Index(line, "progress =")
	if idx < 0 {
		return 0, false
	}
	rest := strings.TrimSpace(line[idx+len("progress ="):])
	fields := strings.Fields(rest)
	if len(fields) == 0 || !strings.HasSuffix(fields[0], "%") {
		return 0, false
	}
	value, err := strconv.Atoi(strings.TrimSuffix(fields[0], "%"))
	if err != nil || value < 0 {
		return 0, false
	}
	return clampPercent(float64(value)), true
}
