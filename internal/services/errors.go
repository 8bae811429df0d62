package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrClassification marks inputs that could not be recognized as a URL,
	// file, or folder.
	ErrClassification = errors.New("classification error")
	// ErrResolution marks failures while turning an input into a local media
	// file (download, extraction, or probing).
	ErrResolution = errors.New("resolution error")
	// ErrEngine marks transcription backend failures, including malformed
	// engine output.
	ErrEngine = errors.New("engine error")
	// ErrWrite marks failures while persisting transcript artifacts.
	ErrWrite = errors.New("write error")
	// ErrEnvironment marks missing tools or broken configuration. Unlike the
	// other markers it aborts the whole batch instead of a single item.
	ErrEnvironment = errors.New("environment error")
	// ErrTransient is the fallback marker for uncategorized failures.
	ErrTransient = errors.New("transient failure")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later failure classification. The marker should
// be one of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// FailureKind names the error category for reports and logs.
func FailureKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrClassification):
		return "classification"
	case errors.Is(err, ErrResolution):
		return "resolution"
	case errors.Is(err, ErrEngine):
		return "engine"
	case errors.Is(err, ErrWrite):
		return "write"
	case errors.Is(err, ErrEnvironment):
		return "environment"
	default:
		return "transient"
	}
}

// IsFatal reports whether err should abort the whole batch rather than fail a
// single item.
func IsFatal(err error) bool {
	return errors.Is(err, ErrEnvironment)
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
