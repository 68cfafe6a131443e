package ffmpeg

import (
	"context"
	"errors"
	"os"
	"strconv"
	"strings"

	"reelscribe/internal/progress"
	"reelscribe/internal/services"
	"reelscribe/internal/transcription"
)

const stageName = "convert"

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec services.Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// Client wraps ffmpeg CLI interactions.
type Client struct {
	binary string
	exec   services.Executor
}

// New constructs an ffmpeg client.
func New(binary string, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("ffmpeg binary required")
	}
	client := &Client{binary: binary, exec: services.CommandExecutor{}}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Convert transcodes input into a mono 16 kHz 16-bit PCM WAV at output.
func (c *Client) Convert(ctx context.Context, input, output string, onProgress func(int)) error {
	parser := progress.NewTranscodeParser()
	err := c.exec.Run(ctx, c.binary, buildArgs(input, output), func(line string) {
		if percent, ok := parser.Parse(line); ok && onProgress != nil {
			onProgress(percent)
		}
	})
	if err != nil {
		if ctx.Err() != nil {
			return err
		}
		marker := services.ErrProcessExit
		if errors.Is(err, services.ErrProcessLaunch) {
			marker = services.ErrProcessLaunch
		}
		return services.Wrap(marker, stageName, "ffmpeg", "", err)
	}
	if _, err := os.Stat(output); err != nil {
		return services.Wrap(services.ErrFilesystem, stageName, "ffmpeg", "expected output missing", err)
	}
	return nil
}

func buildArgs(input, output string) []string {
	return []string{
		"-hide_banner",
		"-nostdin",
		"-y",
		"-i", input,
		"-ar", strconv.Itoa(transcription.SampleRate),
		"-ac", "1",
		"-c:a", "pcm_s16le",
		output,
	}
}
