// Package media drives ffmpeg to turn local video files into audio tracks
// the transcription engines can consume.
package media

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// Extractor demuxes and transcodes the audio stream of a video file.
type Extractor struct {
	ffmpegBinary  string
	commandRunner func(ctx context.Context, name string, args ...string) error
}

// NewExtractor returns an extractor that shells out to the given ffmpeg
// binary.
func NewExtractor(ffmpegBinary string) *Extractor {
	if ffmpegBinary == "" {
		ffmpegBinary = "ffmpeg"
	}
	return &Extractor{ffmpegBinary: ffmpegBinary}
}

// WithCommandRunner sets a custom command runner (for testing).
func (e *Extractor) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	e.commandRunner = runner
}

// AudioPath returns the extraction destination for a video file. The track
// lands alongside the original under a .v2t.wav suffix so it can never
// collide with a sibling audio file the scanner would pick up, and a stale
// leftover from an interrupted run is simply overwritten on the next one.
func AudioPath(source string) string {
	stem := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	return filepath.Join(filepath.Dir(source), stem+".v2t.wav")
}

// ExtractAudio writes the source's audio stream to dest as mono 16kHz PCM
// WAV, the input format both engines expect.
func (e *Extractor) ExtractAudio(ctx context.Context, source, dest string) error {
	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", source,
		"-vn",
		"-sn",
		"-dn",
		"-ac", "1",
		"-ar", "16000",
		"-c:a", "pcm_s16le",
		dest,
	}
	if e.commandRunner != nil {
		return e.commandRunner(ctx, e.ffmpegBinary, args...)
	}
	cmd := exec.CommandContext(ctx, e.ffmpegBinary, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg extract: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}
