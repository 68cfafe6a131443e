package ytdlp

import (
	"context"
	"errors"
	"os"
	"strings"

	"reelscribe/internal/progress"
	"reelscribe/internal/services"
)

const stageName = "download"

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

// Client wraps yt-dlp CLI interactions.
type Client struct {
	binary string
	format string
	exec   services.Executor
}

// New constructs a yt-dlp client. format is the -f selector.
func New(binary, format string, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("yt-dlp binary required")
	}
	client := &Client{
		binary: binary,
		format: strings.TrimSpace(format),
		exec:   services.CommandExecutor{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Fetch downloads the audio of sourceURL to output, reporting each parsed
// percentage to onProgress.
func (c *Client) Fetch(ctx context.Context, sourceURL, output string, onProgress func(int)) error {
	err := c.exec.Run(ctx, c.binary, c.buildArgs(sourceURL, output), func(line string) {
		if percent, ok := progress.ParseFetchLine(line); ok && onProgress != nil {
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
		return services.Wrap(marker, stageName, "yt-dlp", "", err)
	}
	info, err := os.Stat(output)
	if err != nil {
		return services.Wrap(services.ErrFilesystem, stageName, "yt-dlp", "expected output missing", err)
	}
	if info.Size() == 0 {
		return services.Wrap(services.ErrFilesystem, stageName, "yt-dlp", "downloaded file is empty", nil)
	}
	return nil
}

func (c *Client) buildArgs(sourceURL, output string) []string {
	args := make([]string, 0, 7)
	if c.format != "" {
		args = append(args, "-f", c.format)
	}
	return append(args, "-o", output, "--newline", "--no-playlist", sourceURL)
}
