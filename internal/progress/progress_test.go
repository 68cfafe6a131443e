package progress_test

import (
	"testing"

	"reelscribe/internal/progress"
)

func TestParseFetchLine(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		want   int
		wantOK bool
	}{
		{"typical", "[download]  45.6% of 10.00MiB", 45, true},
		{"with rate and eta", "[download]  12.0% of ~ 3.20MiB at  1.05MiB/s ETA 00:02 (frag 1/4)", 12, true},
		{"complete", "[download] 100% of 10.00MiB in 00:00:03", 100, true},
		{"no percent", "[download] Destination: /tmp/x.webm", 0, false},
		{"no marker", "[info] 45.6% done", 0, false},
		{"malformed percent", "[download]  abc% of 10MiB", 0, false},
		{"empty", "", 0, false},
		{"partial line", "[downl", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := progress.ParseFetchLine(tt.line)
			if ok != tt.wantOK || got != tt.want {
				t.Fatalf("ParseFetchLine(%q) = %d, %v; want %d, %v", tt.line, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"00:01:30.50", 90.5},
		{"01:00:00.00", 3600},
		{"00:00:07", 7},
		{"bogus", 0},
		{"", 0},
		{"00:01", 0},
		{"aa:01:02.00", 0},
		{"00:-1:02.00", 0},
		{"N/A", 0},
	}
	for _, tt := range tests {
		if got := progress.ParseDuration(tt.in); got != tt.want {
			t.Fatalf("ParseDuration(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestTranscodeParserComputesPercent(t *testing.T) {
	p := progress.NewTranscodeParser()

	if _, ok := p.Parse("size=     256kB time=00:00:10.00 bitrate= 209.7kbits/s speed=20x"); ok {
		t.Fatal("time line before duration must not yield an event")
	}
	if _, ok := p.Parse("  Duration: 00:01:00.00, start: 0.000000, bitrate: 129 kb/s"); ok {
		t.Fatal("duration line must not yield an event")
	}
	if p.Duration() != 60 {
		t.Fatalf("expected 60s duration, got %v", p.Duration())
	}
	got, ok := p.Parse("size=    1024kB time=00:00:30.00 bitrate= 279.6kbits/s speed=41.2x")
	if !ok || got != 50 {
		t.Fatalf("expected 50%%, got %d %v", got, ok)
	}
	got, ok = p.Parse("size=    2048kB time=00:00:59.99 bitrate= 279.6kbits/s")
	if !ok || got != 99 {
		t.Fatalf("expected truncated 99%%, got %d %v", got, ok)
	}
	if _, ok := p.Parse("Stream #0:0: Audio: opus, 48000 Hz, stereo"); ok {
		t.Fatal("unrelated line must not yield an event")
	}
}

func TestTranscodeParserIgnoresUnknownDuration(t *testing.T) {
	p := progress.NewTranscodeParser()
	p.Parse("  Duration: N/A, bitrate: N/A")
	if _, ok := p.Parse("size=N/A time=00:00:05.00 bitrate=N/A"); ok {
		t.Fatal("zero duration must not yield an event")
	}
}

func TestTranscodeParserClampsOvershoot(t *testing.T) {
	p := progress.NewTranscodeParser()
	p.Parse("Duration: 00:00:10.00,")
	if got, ok := p.Parse("time=00:00:10.50"); !ok || got != 100 {
		t.Fatalf("expected clamp to 100, got %d %v", got, ok)
	}
}

func TestParseInferenceLine(t *testing.T) {
	tests := []struct {
		line   string
		want   int
		wantOK bool
	}{
		{"whisper_print_progress_callback: progress =  45%", 45, true},
		{"whisper_print_progress_callback: progress = 100%", 100, true},
		{"progress = abc%", 0, false},
		{"whisper_init_from_file: loading model", 0, false},
	}
	for _, tt := range tests {
		got, ok := progress.ParseInferenceLine(tt.line)
		if ok != tt.wantOK || got != tt.want {
			t.Fatalf("ParseInferenceLine(%q) = %d, %v; want %d, %v", tt.line, got, ok, tt.want, tt.wantOK)
		}
	}
}
