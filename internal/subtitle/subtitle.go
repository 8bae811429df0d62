// Package subtitle renders transcription segments as transcript and
// subtitle files with collision-resistant names.
package subtitle

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"v2t/internal/asr"
	"v2t/internal/textutil"
)

// Format names accepted by WriteAll.
const (
	FormatTXT = "txt"
	FormatSRT = "srt"
)

// BaseName derives the output file stem from an asset's label and stable
// identifier. The identifier is appended only when the sanitized label does
// not already contain it, so two downloads sharing a title still get
// distinct transcripts.
func BaseName(label, stableID string) string {
	base := textutil.SanitizeFileName(label)
	if base == "" {
		base = "transcript"
	}
	if stableID != "" && !strings.Contains(base, stableID) {
		base = base + "_" + stableID
	}
	return base
}

// FormatTimestamp renders seconds as an SRT timestamp. Components truncate
// rather than round so a cue never starts ahead of its audio.
func FormatTimestamp(seconds float64) string {
	whole := int(seconds)
	hours := whole / 3600
	minutes := (whole % 3600) / 60
	secs := whole % 60
	millis := int((seconds - float64(whole)) * 1000)
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, millis)
}

// WriteTXT writes the plain transcript: each segment's text on its own
// line, without timestamps.
func WriteTXT(path string, segments []asr.Segment) error {
	var sb strings.Builder
	for _, seg := range segments {
		sb.WriteString(strings.TrimSpace(seg.Text))
		sb.WriteString("\n")
	}
	return writeAtomic(path, []byte(sb.String()))
}

// WriteSRT writes numbered subtitle cues with start and end timestamps.
func WriteSRT(path string, segments []asr.Segment) error {
	var sb strings.Builder
	for i, seg := range segments {
		sb.WriteString(fmt.Sprintf("%d\n", i+1))
		sb.WriteString(fmt.Sprintf("%s --> %s\n", FormatTimestamp(seg.Start), FormatTimestamp(seg.End)))
		sb.WriteString(strings.TrimSpace(seg.Text))
		sb.WriteString("\n\n")
	}
	return writeAtomic(path, []byte(sb.String()))
}

// WriteAll renders segments in every requested format under dir and returns
// the written paths in format order.
func WriteAll(dir, base string, formats []string, segments []asr.Segment) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure output dir: %w", err)
	}
	written := make([]string, 0, len(formats))
	for _, format := range formats {
		path := filepath.Join(dir, base+"."+format)
		var err error
		switch format {
		case FormatTXT:
			err = WriteTXT(path, segments)
		case FormatSRT:
			err = WriteSRT(path, segments)
		default:
			err = fmt.Errorf("unknown output format %q", format)
		}
		if err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

// writeAtomic publishes content via a temp file so readers never observe a
// partially written transcript.
func writeAtomic(path string, data []byte) error {
	tmpPath := path + ".tmp"
	defer os.Remove(tmpPath)

	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(tmpPath), err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("finalize %s: %w", filepath.Base(path), err)
	}
	return nil
}
