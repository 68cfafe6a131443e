package transcription

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Segment is one span of recognized speech. Offsets are in centiseconds from
// the start of the audio.
type Segment struct {
	StartCentis int64  `json:"start_centis"`
	EndCentis   int64  `json:"end_centis"`
	Text        string `json:"text"`
}

// FormatTimestamp renders centiseconds as M:SS with unpadded minutes.
// Negative input is treated as zero.
func FormatTimestamp(centis int64) string {
	if centis < 0 {
		centis = 0
	}
	totalSeconds := centis / 100
	return fmt.Sprintf("%d:%02d", totalSeconds/60, totalSeconds%60)
}

// Render joins segments into transcript text, one "[M:SS -> M:SS] text" line
// per non-empty segment. Text is NFC-normalized so composed and decomposed
// diacritics from different engines render identically.
func Render(segments []Segment) string {
	var b strings.Builder
	for _, seg := range segments {
		text := strings.TrimSpace(norm.NFC.String(seg.Text))
		if text == "" {
			continue
		}
		fmt.Fprintf(&b, "[%s -> %s] %s\n", FormatTimestamp(seg.StartCentis), FormatTimestamp(seg.EndCentis), text)
	}
	return b.String()
}
