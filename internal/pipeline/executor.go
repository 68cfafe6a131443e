package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"

	"github.com/dustin/go-humanize"

	"reelscribe/internal/logging"
	"reelscribe/internal/services"
	"reelscribe/internal/stageexec"
	"reelscribe/internal/transcription"
)

// Fetcher downloads source audio.
type Fetcher interface {
	Fetch(ctx context.Context, sourceURL, output string, onProgress func(int)) error
}

// Converter transcodes audio into mono 16 kHz WAV.
type Converter interface {
	Convert(ctx context.Context, input, output string, onProgress func(int)) error
}

// AssetResolver ensures the inference model is cached locally.
type AssetResolver interface {
	EnsurePresent(ctx context.Context) (string, error)
}

// Transcriber runs inference over a WAV file.
type Transcriber interface {
	TranscribeFile(ctx context.Context, wavPath, modelPath string, progress func(int)) ([]transcription.Segment, error)
}

// Dependencies bundles the stage collaborators.
type Dependencies struct {
	Fetcher     Fetcher
	Converter   Converter
	Assets      AssetResolver
	Transcriber Transcriber
}

// Request identifies the job to run.
type Request struct {
	JobID string
	URL   string
}

// Result describes a successful run.
type Result struct {
	// AudioPath is the converted audio file, the job's result.
	AudioPath      string
	TranscriptPath string
	Segments       int
}

// Executor runs jobs through the stage sequence.
type Executor struct {
	deps    Dependencies
	tempDir string
	logger  *slog.Logger
}

// NewExecutor builds an executor writing job files under tempDir.
func NewExecutor(deps Dependencies, tempDir string, logger *slog.Logger) (*Executor, error) {
	if deps.Fetcher == nil || deps.Converter == nil || deps.Assets == nil || deps.Transcriber == nil {
		return nil, errors.New("pipeline: all stage dependencies are required")
	}
	if strings.TrimSpace(tempDir) == "" {
		tempDir = os.TempDir()
	}
	return &Executor{
		deps:    deps,
		tempDir: tempDir,
		logger:  logging.NewComponentLogger(logger, "pipeline"),
	}, nil
}

// Run executes every stage for req in order, publishing progress on events.
// Run never closes events. Sends block until received or ctx ends.
func (e *Executor) Run(ctx context.Context, req Request, events chan<- ProgressEvent) (_ Result, err error) {
	ctx = services.WithJobID(ctx, req.JobID)
	logger := logging.WithContext(ctx, e.logger)

	ws, err := newWorkspace(e.tempDir, req.JobID)
	if err != nil {
		return Result{}, err
	}
	defer func() {
		cleanup := ws.trim
		if err != nil {
			cleanup = ws.discard
		}
		if cerr := cleanup(); cerr != nil {
			logging.WarnWithContext(logger, "workspace cleanup failed", "workspace_cleanup",
				logging.String(logging.FieldImpact, "intermediate files left on disk"),
				logging.Error(cerr),
			)
		}
	}()

	pub := &publisher{ctx: ctx, events: events}
	var (
		segments   []transcription.Segment
		transcript string
	)

	stages := []struct {
		stage Stage
		run   func(context.Context) error
	}{
		{StageDownload, func(ctx context.Context) error {
			return e.deps.Fetcher.Fetch(ctx, req.URL, ws.rawPath, pub.percentFor(StageDownload))
		}},
		{StageConvert, func(ctx context.Context) error {
			if info, err := os.Stat(ws.rawPath); err == nil {
				logger.Debug("converting download", logging.String("size", humanize.Bytes(uint64(info.Size()))))
			}
			return e.deps.Converter.Convert(ctx, ws.rawPath, ws.audioPath, pub.percentFor(StageConvert))
		}},
		{StageCheckModel, func(ctx context.Context) error {
			path, err := e.deps.Assets.EnsurePresent(ctx)
			if err != nil {
				return err
			}
			ws.modelPath = path
			return nil
		}},
		{StageTranscribe, func(ctx context.Context) error {
			segs, err := e.deps.Transcriber.TranscribeFile(ctx, ws.audioPath, ws.modelPath, pub.percentFor(StageTranscribe))
			if err != nil {
				return err
			}
			segments = segs
			transcript = transcription.Render(segs)
			return writeTranscript(ws.transcriptPath, transcript)
		}},
	}

	for _, s := range stages {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		initial := 0
		if s.stage == StageCheckModel {
			initial = PercentUnknown
		}
		pub.publish(ProgressEvent{Stage: s.stage, Percent: initial})
		if err := stageexec.Run(ctx, stageexec.Options{Logger: e.logger, StageName: string(s.stage), Execute: s.run}); err != nil {
			return Result{}, err
		}
	}

	logger.Info("transcript ready",
		logging.String(logging.FieldEventType, "transcript_ready"),
		logging.Int("segments", len(segments)),
		logging.String("transcript_path", ws.transcriptPath),
		logging.String("preview", preview(transcript)),
	)
	logger.Debug("transcript", logging.String("text", transcript))

	return Result{
		AudioPath:      ws.audioPath,
		TranscriptPath: ws.transcriptPath,
		Segments:       len(segments),
	}, nil
}

func writeTranscript(path, transcript string) error {
	if err := os.WriteFile(path, []byte(transcript), 0o644); err != nil {
		return services.Wrap(services.ErrFilesystem, "transcribe", "write transcript", path, err)
	}
	return nil
}

func preview(text string) string {
	const limit = 120
	line := strings.Join(strings.Fields(text), " ")
	if runes := []rune(line); len(runes) > limit {
		return string(runes[:limit]) + "..."
	}
	return line
}

// publisher forwards progress for one job, dropping exact repeats.
type publisher struct {
	ctx    context.Context
	events chan<- ProgressEvent
	last   ProgressEvent
	sent   bool
}

func (p *publisher) percentFor(stage Stage) func(int) {
	return func(percent int) {
		p.publish(ProgressEvent{Stage: stage, Percent: percent})
	}
}

func (p *publisher) publish(event ProgressEvent) {
	if p.events == nil || (p.sent && event == p.last) {
		return
	}
	select {
	case p.events <- event:
		p.last, p.sent = event, true
	case <-p.ctx.Done():
	}
}
