package services

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Executor abstracts command execution for testability. onLine receives every
// line the process writes to stdout or stderr; calls are serialized.
type Executor interface {
	Run(ctx context.Context, binary string, args []string, onLine func(string)) error
}

// ExitError reports a process that ran but exited unsuccessfully.
type ExitError struct {
	Binary string
	Code   int
	// Tail is the last non-empty output line, usually the tool's own error.
	Tail string
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("%s exited with status %d", e.Binary, e.Code)
	if e.Tail != "" {
		msg += ": " + e.Tail
	}
	return msg
}

func (e *ExitError) Is(target error) bool {
	return target == ErrProcessExit
}

// CommandExecutor runs binaries through os/exec. Cancelling the context kills
// the whole process group so helper processes spawned by the tool go too.
type CommandExecutor struct{}

func (CommandExecutor) Run(ctx context.Context, binary string, args []string, onLine func(string)) error {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	configureProcessGroup(cmd)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("%w: stdout pipe: %w", ErrProcessLaunch, err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("%w: stderr pipe: %w", ErrProcessLaunch, err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%w: start %s: %w", ErrProcessLaunch, binary, err)
	}

	var (
		mu   sync.Mutex
		tail string
	)
	forward := func(line string) {
		mu.Lock()
		defer mu.Unlock()
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			tail = trimmed
		}
		if onLine != nil {
			onLine(line)
		}
	}

	var group errgroup.Group
	group.Go(func() error { return scanLines(stdout, forward) })
	group.Go(func() error { return scanLines(stderr, forward) })
	scanErr := group.Wait()

	waitErr := cmd.Wait()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%s interrupted: %w", binary, ctxErr)
	}
	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			return &ExitError{Binary: binary, Code: exitErr.ExitCode(), Tail: tail}
		}
		return fmt.Errorf("%w: wait %s: %w", ErrProcessExit, binary, waitErr)
	}
	if scanErr != nil {
		return fmt.Errorf("%w: read %s output: %w", ErrProcessExit, binary, scanErr)
	}
	return nil
}

// maxLineLength caps a forwarded line. Longer output is forwarded in
// maxLineLength pieces so the scanner never fails with bufio.ErrTooLong.
const maxLineLength = 64 * 1024

// scanLines splits on both \n and \r so carriage-return progress redraws
// arrive as separate lines.
func scanLines(r io.Reader, forward func(string)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, maxLineLength), 4*maxLineLength)
	scanner.Split(splitLinesOrCR)
	for scanner.Scan() {
		forward(scanner.Text())
	}
	err := scanner.Err()
	if err != nil {
		// Keep draining so the child never blocks on a full pipe.
		_, _ = io.Copy(io.Discard, r)
	}
	return err
}

func splitLinesOrCR(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	for i, b := range data[:min(len(data), maxLineLength)] {
		if b == '\n' || b == '\r' {
			return i + 1, data[:i], nil
		}
	}
	if len(data) >= maxLineLength {
		return maxLineLength, data[:maxLineLength], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
