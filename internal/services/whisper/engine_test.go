package whisper

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"testing"

	"reelscribe/internal/services"
	"reelscribe/internal/transcription"
)

type stubExecutor struct {
	lines  []string
	result string
	err    error
	args   []string
}

func (s *stubExecutor) Run(ctx context.Context, binary string, args []string, onLine func(string)) error {
	s.args = append([]string(nil), args...)
	for _, line := range s.lines {
		onLine(line)
	}
	if s.err != nil {
		return s.err
	}
	idx := slices.Index(args, "-of")
	return os.WriteFile(args[idx+1]+".json", []byte(s.result), 0o644)
}

func writeModel(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ggml-tiny.bin")
	if err := os.WriteFile(path, []byte("ggml"), 0o644); err != nil {
		t.Fatalf("write model: %v", err)
	}
	return path
}

func TestTranscribeParsesSegments(t *testing.T) {
	exec := &stubExecutor{
		lines: []string{
			"whisper_init_from_file_with_params_no_state: loading model from 'ggml-tiny.bin'",
			"whisper_print_progress_callback: progress =  50%",
			"whisper_print_progress_callback: progress = 100%",
		},
		result: `{"result":{"language":"vi"},"transcription":[
			{"timestamps":{"from":"00:00:00,000","to":"00:00:02,500"},"offsets":{"from":0,"to":2500},"text":" xin chào"},
			{"timestamps":{"from":"00:00:02,500","to":"00:01:00,050"},"offsets":{"from":2500,"to":60050},"text":" các bạn"}
		]}`,
	}
	engine, err := New("whisper-cli", WithExecutor(exec), WithScratchDir(t.TempDir()))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	modelPath := writeModel(t)
	model, err := engine.Load(context.Background(), modelPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	var seen []int
	params := transcription.Params{Language: "vi", Threads: 4, BeamSize: 1, BestOf: 1}
	segments, err := model.Transcribe(context.Background(), []float32{0, 0.25, -0.25}, params, func(p int) { seen = append(seen, p) })
	if err != nil {
		t.Fatalf("Transcribe returned error: %v", err)
	}

	want := []transcription.Segment{
		{StartCentis: 0, EndCentis: 250, Text: "xin chào"},
		{StartCentis: 250, EndCentis: 6005, Text: "các bạn"},
	}
	if !reflect.DeepEqual(segments, want) {
		t.Fatalf("unexpected segments: %+v", segments)
	}
	if !reflect.DeepEqual(seen, []int{50, 100}) {
		t.Fatalf("unexpected progress: %v", seen)
	}
	for _, pair := range [][2]string{{"-m", modelPath}, {"-l", "vi"}, {"-bs", "1"}, {"-bo", "1"}, {"-t", "4"}} {
		idx := slices.Index(exec.args, pair[0])
		if idx < 0 || exec.args[idx+1] != pair[1] {
			t.Fatalf("expected %s %s in args %v", pair[0], pair[1], exec.args)
		}
	}
	if !slices.Contains(exec.args, "-oj") || !slices.Contains(exec.args, "-pp") {
		t.Fatalf("expected json output and progress flags: %v", exec.args)
	}
}

func TestTranscribeRemovesScratch(t *testing.T) {
	scratch := t.TempDir()
	engine, _ := New("whisper-cli", WithExecutor(&stubExecutor{result: `{"transcription":[]}`}), WithScratchDir(scratch))
	model, err := engine.Load(context.Background(), writeModel(t))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if _, err := model.Transcribe(context.Background(), []float32{0.1}, transcription.Params{}, nil); err != nil {
		t.Fatalf("Transcribe returned error: %v", err)
	}
	entries, err := os.ReadDir(scratch)
	if err != nil {
		t.Fatalf("read scratch: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected scratch dir cleaned, found %d entries", len(entries))
	}
}

func TestLoadRejectsMissingModel(t *testing.T) {
	engine, _ := New("whisper-cli")
	_, err := engine.Load(context.Background(), filepath.Join(t.TempDir(), "missing.bin"))
	if !errors.Is(err, services.ErrInference) {
		t.Fatalf("expected inference error, got %v", err)
	}
}

func TestTranscribeWrapsCLIFailure(t *testing.T) {
	exec := &stubExecutor{err: &services.ExitError{Binary: "whisper-cli", Code: 1, Tail: "failed to initialize whisper context"}}
	engine, _ := New("whisper-cli", WithExecutor(exec), WithScratchDir(t.TempDir()))
	model, err := engine.Load(context.Background(), writeModel(t))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	_, err = model.Transcribe(context.Background(), []float32{0.1}, transcription.Params{}, nil)
	if !errors.Is(err, services.ErrInference) || !errors.Is(err, services.ErrProcessExit) {
		t.Fatalf("expected inference error wrapping exit error, got %v", err)
	}
}

func TestBuildArgsDefaults(t *testing.T) {
	args := buildArgs("/m.bin", "/in.wav", "/out", transcription.Params{})
	idx := slices.Index(args, "-l")
	if args[idx+1] != "auto" {
		t.Fatalf("expected auto language, got %v", args)
	}
	if slices.Contains(args, "-t") {
		t.Fatalf("threads flag must be omitted when unset: %v", args)
	}
}

func TestParseResultRejectsGarbage(t *testing.T) {
	if _, err := parseResult([]byte("not json")); !errors.Is(err, services.ErrInference) {
		t.Fatalf("expected inference error, got %v", err)
	}
}
