package transcription

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"reelscribe/internal/logging"
	"reelscribe/internal/services"
)

const stageName = "transcribe"

// Adapter runs an Engine on the shared inference Worker.
type Adapter struct {
	engine   Engine
	worker   *Worker
	language string
	threads  int
	logger   *slog.Logger
}

// NewAdapter wires an engine to a worker pool.
func NewAdapter(engine Engine, worker *Worker, language string, threads int, logger *slog.Logger) *Adapter {
	return &Adapter{
		engine:   engine,
		worker:   worker,
		language: language,
		threads:  threads,
		logger:   logging.NewComponentLogger(logger, "transcription"),
	}
}

// Transcribe loads modelPath and runs inference over mono 16 kHz samples in
// [-1, 1]. An empty buffer fails with services.ErrEmptyInput before any model
// is loaded.
func (a *Adapter) Transcribe(ctx context.Context, samples []float32, modelPath string, progress func(int)) ([]Segment, error) {
	if len(samples) == 0 {
		return nil, services.Wrap(services.ErrEmptyInput, stageName, "validate", "no audio samples", nil)
	}
	if a.engine == nil || a.worker == nil {
		return nil, services.Wrap(services.ErrInference, stageName, "setup", "inference engine not configured", nil)
	}

	params := Params{
		Language: a.language,
		Threads:  a.threads,
		BeamSize: 1,
		BestOf:   1,
	}
	logger := logging.WithContext(ctx, a.logger)

	var segments []Segment
	err := a.worker.Do(ctx, func(ctx context.Context) error {
		started := time.Now()
		model, err := a.engine.Load(ctx, modelPath)
		if err != nil {
			return services.Wrap(services.ErrInference, stageName, "load model", modelPath, err)
		}
		defer func() {
			if cerr := model.Close(); cerr != nil {
				logger.Debug("model close failed", logging.Error(cerr))
			}
		}()

		segments, err = model.Transcribe(ctx, samples, params, progress)
		if err != nil {
			if errors.Is(err, services.ErrInference) || ctx.Err() != nil {
				return err
			}
			return services.Wrap(services.ErrInference, stageName, "decode", "", err)
		}
		logger.Info("inference complete",
			logging.Int("segments", len(segments)),
			logging.Duration("audio", time.Duration(len(samples))*time.Second/SampleRate),
			logging.Duration("elapsed", time.Since(started)),
		)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return segments, nil
}

// TranscribeFile decodes a mono 16 kHz PCM WAV file and transcribes it.
func (a *Adapter) TranscribeFile(ctx context.Context, wavPath, modelPath string, progress func(int)) ([]Segment, error) {
	samples, err := ReadWAV(wavPath)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", wavPath, err)
	}
	return a.Transcribe(ctx, samples, modelPath, progress)
}
