package whisper

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"reelscribe/internal/progress"
	"reelscribe/internal/services"
	"reelscribe/internal/staging"
	"reelscribe/internal/transcription"
)

const stageName = "transcribe"

// Option configures the engine.
type Option func(*Engine)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec services.Executor) Option {
	return func(e *Engine) {
		if exec != nil {
			e.exec = exec
		}
	}
}

// WithScratchDir sets where per-run scratch directories are created.
func WithScratchDir(dir string) Option {
	return func(e *Engine) {
		e.scratchDir = strings.TrimSpace(dir)
	}
}

// Engine drives whisper-cli.
type Engine struct {
	binary     string
	scratchDir string
	exec       services.Executor
}

// New constructs an engine for the given whisper-cli binary.
func New(binary string, opts ...Option) (*Engine, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("whisper binary required")
	}
	engine := &Engine{binary: binary, exec: services.CommandExecutor{}}
	for _, opt := range opts {
		opt(engine)
	}
	return engine, nil
}

// Load validates the model file. The CLI maps the model itself on every run.
func (e *Engine) Load(_ context.Context, modelPath string) (transcription.Model, error) {
	info, err := os.Stat(modelPath)
	if err != nil {
		return nil, services.Wrap(services.ErrInference, stageName, "load model", "", err)
	}
	if !info.Mode().IsRegular() || info.Size() == 0 {
		return nil, services.Wrap(services.ErrInference, stageName, "load model", "model file is empty or not a regular file", nil)
	}
	return &model{engine: e, path: modelPath}, nil
}

type model struct {
	engine *Engine
	path   string
}

func (m *model) Close() error { return nil }

func (m *model) Transcribe(ctx context.Context, samples []float32, params transcription.Params, onProgress func(int)) ([]transcription.Segment, error) {
	scratch, err := os.MkdirTemp(m.engine.scratchDir, staging.Prefix+"whisper-")
	if err != nil {
		return nil, services.Wrap(services.ErrFilesystem, stageName, "scratch dir", "", err)
	}
	defer os.RemoveAll(scratch)

	input := filepath.Join(scratch, "input.wav")
	if err := transcription.WriteWAV(input, samples); err != nil {
		return nil, err
	}
	prefix := filepath.Join(scratch, "output")

	err = m.engine.exec.Run(ctx, m.engine.binary, buildArgs(m.path, input, prefix, params), func(line string) {
		if percent, ok := progress.ParseInferenceLine(line); ok && onProgress != nil {
			onProgress(percent)
		}
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		return nil, services.Wrap(services.ErrInference, stageName, "whisper-cli", "", err)
	}

	data, err := os.ReadFile(prefix + ".json")
	if err != nil {
		return nil, services.Wrap(services.ErrInference, stageName, "read result", "", err)
	}
	return parseResult(data)
}

func buildArgs(modelPath, input, prefix string, params transcription.Params) []string {
	language := strings.TrimSpace(params.Language)
	if language == "" {
		language = "auto"
	}
	args := []string{
		"-m", modelPath,
		"-f", input,
		"-l", language,
		"-bs", strconv.Itoa(max(params.BeamSize, 1)),
		"-bo", strconv.Itoa(max(params.BestOf, 1)),
		"-oj",
		"-of", prefix,
		"-pp",
	}
	if params.Threads > 0 {
		args = append(args, "-t", strconv.Itoa(params.Threads))
	}
	return args
}

type cliResult struct {
	Transcription []struct {
		Offsets struct {
			From int64 `json:"from"`
			To   int64 `json:"to"`
		} `json:"offsets"`
		Text string `json:"text"`
	} `json:"transcription"`
}

// parseResult converts whisper-cli JSON (millisecond offsets) into segments.
func parseResult(data []byte) ([]transcription.Segment, error) {
	var result cliResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, services.Wrap(services.ErrInference, stageName, "parse result", "", err)
	}
	segments := make([]transcription.Segment, 0, len(result.Transcription))
	for _, entry := range result.Transcription {
		segments = append(segments, transcription.Segment{
			StartCentis: entry.Offsets.From / 10,
			EndCentis:   entry.Offsets.To / 10,
			Text:        strings.TrimSpace(entry.Text),
		})
	}
	return segments, nil
}
