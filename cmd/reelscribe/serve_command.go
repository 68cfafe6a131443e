package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"reelscribe/internal/assets"
	"reelscribe/internal/config"
	"reelscribe/internal/daemon"
	"reelscribe/internal/deps"
	"reelscribe/internal/jobs"
	"reelscribe/internal/logging"
	"reelscribe/internal/pipeline"
	"reelscribe/internal/services/ffmpeg"
	"reelscribe/internal/services/whisper"
	"reelscribe/internal/services/ytdlp"
	"reelscribe/internal/transcription"
	"reelscribe/internal/workflow"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the transcription daemon in the foreground",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemonProcess(cmd.Context(), ctx)
		},
	}
}

func runDaemonProcess(cmdCtx context.Context, ctx *commandContext) error {
	if cmdCtx == nil {
		cmdCtx = context.Background()
	}
	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := ctx.ensureConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	checks := append(deps.CheckBinaries(deps.Requirements(cfg)), deps.CheckDirectories(cfg)...)
	for _, status := range deps.Missing(checks) {
		logging.WarnWithContext(logger, "dependency missing", "dependency_missing",
			logging.String("dependency", status.Name),
			logging.String("command", status.Command),
			logging.String(logging.FieldImpact, "jobs will fail at the stage that needs it"),
			logging.String(logging.FieldErrorHint, status.Detail),
		)
	}

	d, release, err := buildDaemon(cfg, logger)
	if err != nil {
		return err
	}
	defer release()
	defer d.Close()

	if err := d.Start(signalCtx); err != nil {
		return fmt.Errorf("start daemon: %w", err)
	}

	pidPath := cfg.PIDPath()
	if err := writePIDFile(pidPath); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	defer os.Remove(pidPath)

	<-signalCtx.Done()
	logger.Info("reelscribe daemon shutting down")
	return nil
}

// buildDaemon wires the pipeline stages, the inference worker, and the daemon.
// The returned release func must run after the daemon stops.
func buildDaemon(cfg *config.Config, logger *slog.Logger) (*daemon.Daemon, func(), error) {
	fetcher, err := ytdlp.New(cfg.Tools.YtDlpBinary, cfg.Tools.YtDlpFormat)
	if err != nil {
		return nil, nil, fmt.Errorf("yt-dlp client: %w", err)
	}
	converter, err := ffmpeg.New(cfg.Tools.FFmpegBinary)
	if err != nil {
		return nil, nil, fmt.Errorf("ffmpeg client: %w", err)
	}
	engine, err := whisper.New(cfg.Tools.WhisperBinary, whisper.WithScratchDir(cfg.Paths.TempDir))
	if err != nil {
		return nil, nil, fmt.Errorf("whisper engine: %w", err)
	}
	resolver, err := assets.NewResolver(cfg.ModelsDir(), cfg.Model.FileName, cfg.Model.URL,
		assets.WithHTTPClient(&http.Client{Timeout: cfg.ModelDownloadTimeout()}),
		assets.WithLogger(logger),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("asset resolver: %w", err)
	}

	worker := transcription.NewWorker(cfg.Transcription.Workers)
	adapter := transcription.NewAdapter(engine, worker, cfg.Transcription.Language, cfg.Transcription.Threads, logger)

	executor, err := pipeline.NewExecutor(pipeline.Dependencies{
		Fetcher:     fetcher,
		Converter:   converter,
		Assets:      resolver,
		Transcriber: adapter,
	}, cfg.Paths.TempDir, logger)
	if err != nil {
		worker.Close()
		return nil, nil, err
	}

	registry := jobs.NewRegistry()
	manager := workflow.NewManager(registry, executor, logger)
	d, err := daemon.New(cfg, registry, manager, resolver, logger)
	if err != nil {
		worker.Close()
		return nil, nil, fmt.Errorf("create daemon: %w", err)
	}
	return d, worker.Close, nil
}

func writePIDFile(path string) error {
	if path == "" {
		return nil
	}
	value := strconv.Itoa(os.Getpid()) + "\n"
	return os.WriteFile(path, []byte(value), 0o644)
}
