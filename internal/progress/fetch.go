package progress

import (
	"strconv"
	"strings"
)

const fetchMarker = "[download]"

// ParseFetchLine extracts the download percentage from a yt-dlp progress line
// such as "[download]  45.6% of 10.00MiB at 1.2MiB/s ETA 00:07". The percent is
// truncated toward zero.
func ParseFetchLine(line string) (int, bool) {
	idx := strings.Index(line, fetchMarker)
	if idx < 0 {
		return 0, false
	}
	for _, field := range strings.Fields(line[idx+len(fetchMarker):]) {
		if !strings.HasSuffix(field, "%") {
			continue
		}
		value, err := strconv.ParseFloat(strings.TrimSuffix(field, "%"), 64)
		if err != nil || value < 0 {
			return 0, false
		}
		return clampPercent(value), true
	}
	return 0, false
}

func clampPercent(value float64) int {
	switch {
	case value <= 0:
		return 0
	case value >= 100:
		return 100
	default:
		return int(value)
	}
}
