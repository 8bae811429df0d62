package asr

import (
	"context"
	"fmt"
	"math"
)

// Segment is one timed span of recognized speech. Text may be empty when
// the recognizer emits a span without usable words.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Options carries the per-batch transcription settings every engine
// understands. Engines map them onto their own tuning surface.
type Options struct {
	// Language is an ISO language code, or empty for auto detection.
	Language string
	// Task selects transcription or translation to English.
	Task string
	// Vocabulary biases recognition toward domain terms.
	Vocabulary []string
}

// Engine is a speech recognition backend.
type Engine interface {
	// Name identifies the engine for logging and report output.
	Name() string
	// Transcribe recognizes speech in the audio file at path. Returned
	// segments carry validated, non-decreasing timestamps.
	Transcribe(ctx context.Context, path string, opts Options) ([]Segment, error)
	// Close shuts down the worker process and releases the model.
	Close() error
}

// ValidateSegments rejects recognizer output whose timestamps cannot drive
// subtitle generation: non-finite or negative values, spans that end before
// they start, and start times that move backwards.
func ValidateSegments(segments []Segment) error {
	for i, seg := range segments {
		if !isFinite(seg.Start) || !isFinite(seg.End) {
			return fmt.Errorf("segment %d: non-numeric timestamp", i)
		}
		if seg.Start < 0 || seg.End < 0 {
			return fmt.Errorf("segment %d: negative timestamp", i)
		}
		if seg.End < seg.Start {
			return fmt.Errorf("segment %d: ends at %.3f before start %.3f", i, seg.End, seg.Start)
		}
		if i > 0 && seg.Start < segments[i-1].Start {
			return fmt.Errorf("segment %d: start %.3f regresses behind %.3f", i, seg.Start, segments[i-1].Start)
		}
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
