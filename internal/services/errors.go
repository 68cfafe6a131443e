package services

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

var (
	ErrProcessLaunch = errors.New("process launch error")
	ErrProcessExit   = errors.New("process exit error")
	ErrNetwork       = errors.New("network error")
	ErrFilesystem    = errors.New("filesystem error")
	ErrInference     = errors.New("inference error")
	ErrEmptyInput    = errors.New("empty input")
	ErrValidation    = errors.New("validation error")
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrProcessExit
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

const maxDetailLength = 400

// Details renders err as a single line suitable for a job's failed status.
func Details(err error) string {
	if err == nil {
		return "unknown error"
	}
	msg := strings.Join(strings.Fields(err.Error()), " ")
	if len(msg) > maxDetailLength {
		cut := maxDetailLength - 3
		for cut > 0 && !utf8.RuneStart(msg[cut]) {
			cut--
		}
		msg = msg[:cut] + "..."
	}
	return msg
}

// Category returns a short machine-friendly label for the marker carried by err.
func Category(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrProcessLaunch):
		return "process_launch"
	case errors.Is(err, ErrProcessExit):
		return "process_exit"
	case errors.Is(err, ErrNetwork):
		return "network"
	case errors.Is(err, ErrFilesystem):
		return "filesystem"
	case errors.Is(err, ErrEmptyInput):
		return "empty_input"
	case errors.Is(err, ErrInference):
		return "inference"
	case errors.Is(err, ErrValidation):
		return "validation"
	default:
		return "unknown"
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
