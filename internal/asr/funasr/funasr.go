// Package funasr runs the FunASR model family on a persistent worker.
//
// Three named variants are supported. sense-voice is the multilingual
// default and reports language, emotion, and event tags inline with the
// recognized text; paraformer is a high-precision Mandarin model; and
// paraformer-long is the Mandarin pipeline tuned for long recordings,
// which returns a punctuated sentence list instead of a character stream.
// Each variant's raw output is parsed on the Go side.
package funasr

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"v2t/internal/asr"
	"v2t/internal/language"
)

// Variant names accepted by New.
const (
	VariantSenseVoice     = "sense-voice"
	VariantParaformer     = "paraformer"
	VariantParaformerLong = "paraformer-long"
)

// Config tunes the recognizer.
type Config struct {
	// Variant selects the model family member.
	Variant string
	// Device selects the compute backend (cpu, cuda, auto).
	Device string
}

type variantSpec struct {
	model string
	// generate holds static keyword arguments for the model's generate call.
	generate map[string]any
	// hotwords reports whether the variant accepts vocabulary biasing.
	hotwords bool
}

var variants = map[string]variantSpec{
	VariantSenseVoice: {
		model: "iic/SenseVoiceSmall",
		generate: map[string]any{
			"use_itn":        true,
			"batch_size_s":   60,
			"merge_vad":      true,
			"merge_length_s": 15,
		},
	},
	VariantParaformer: {
		model: "iic/speech_paraformer-large_asr_nat-zh-cn-16k-common-vocab8404-pytorch",
		generate: map[string]any{
			"batch_size_s": 60,
		},
		hotwords: true,
	},
	VariantParaformerLong: {
		model: "iic/speech_paraformer-large-vad-punc_asr_nat-zh-cn-16k-common-vocab8404-pytorch",
		generate: map[string]any{
			"batch_size_s":       300,
			"sentence_timestamp": true,
		},
		hotwords: true,
	},
}

// Variants lists the accepted variant names.
func Variants() []string {
	return []string{VariantSenseVoice, VariantParaformer, VariantParaformerLong}
}

// Engine implements asr.Engine on a persistent FunASR worker.
type Engine struct {
	cfg      Config
	spec     variantSpec
	uvBinary string

	mu     sync.Mutex
	worker asr.Worker
	start  func(ctx context.Context) (asr.Worker, error)
}

// New builds a FunASR engine for the named variant. The worker is not
// started until the first transcription request.
func New(cfg Config, uvBinary string) (*Engine, error) {
	if cfg.Variant == "" {
		cfg.Variant = VariantSenseVoice
	}
	spec, ok := variants[cfg.Variant]
	if !ok {
		return nil, fmt.Errorf("funasr: unknown variant %q", cfg.Variant)
	}
	if cfg.Device == "" {
		cfg.Device = "cpu"
	}
	e := &Engine{cfg: cfg, spec: spec, uvBinary: uvBinary}
	e.start = e.startWorker
	return e, nil
}

// WithWorkerStarter overrides worker startup (for testing).
func (e *Engine) WithWorkerStarter(start func(ctx context.Context) (asr.Worker, error)) {
	if start != nil {
		e.start = start
	}
}

// Name implements asr.Engine.
func (e *Engine) Name() string { return "funasr/" + e.cfg.Variant }

type initConfig struct {
	Model    string         `json:"model"`
	Device   string         `json:"device"`
	Generate map[string]any `json:"generate"`
}

type transcribeRequest struct {
	Audio    string `json:"audio"`
	Language string `json:"language,omitempty"`
	Hotword  string `json:"hotword,omitempty"`
}

type rawSentence struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

type rawResult struct {
	Text         string        `json:"text"`
	Timestamp    [][]float64   `json:"timestamp"`
	SentenceInfo []rawSentence `json:"sentence_info"`
}

type transcribeResponse struct {
	Raw   *rawResult `json:"raw"`
	Error string     `json:"error"`
}

func (e *Engine) startWorker(ctx context.Context) (asr.Worker, error) {
	return asr.StartWorker(ctx, e.uvBinary, asr.WorkerSpec{
		Packages: []string{"funasr", "torch", "torchaudio"},
		Script:   workerScript,
		Init: initConfig{
			Model:    e.spec.model,
			Device:   e.cfg.Device,
			Generate: e.spec.generate,
		},
	})
}

func (e *Engine) ensureWorker(ctx context.Context) (asr.Worker, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.worker != nil {
		return e.worker, nil
	}
	worker, err := e.start(ctx)
	if err != nil {
		return nil, err
	}
	e.worker = worker
	return worker, nil
}

func (e *Engine) discardWorker() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.worker != nil {
		_ = e.worker.Close()
		e.worker = nil
	}
}

// Transcribe implements asr.Engine.
func (e *Engine) Transcribe(ctx context.Context, path string, opts asr.Options) ([]asr.Segment, error) {
	worker, err := e.ensureWorker(ctx)
	if err != nil {
		return nil, fmt.Errorf("funasr: start worker: %w", err)
	}

	req := transcribeRequest{Audio: path}
	if e.cfg.Variant == VariantSenseVoice {
		req.Language = language.SenseVoiceCode(opts.Language)
	}
	if e.spec.hotwords && len(opts.Vocabulary) > 0 {
		req.Hotword = strings.Join(opts.Vocabulary, " ")
	}

	var resp transcribeResponse
	if err := worker.Call(ctx, req, &resp); err != nil {
		e.discardWorker()
		return nil, fmt.Errorf("funasr: %w", err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("funasr: %s", resp.Error)
	}
	if resp.Raw == nil {
		return nil, fmt.Errorf("funasr: worker returned no result")
	}

	segments := e.parse(resp.Raw)
	if err := asr.ValidateSegments(segments); err != nil {
		return nil, fmt.Errorf("funasr: %w", err)
	}
	return segments, nil
}

// parse converts the variant's raw output into timed segments.
func (e *Engine) parse(raw *rawResult) []asr.Segment {
	if e.cfg.Variant == VariantSenseVoice {
		return parseSenseVoice(raw.Text)
	}
	if len(raw.SentenceInfo) > 0 {
		return parseSentences(raw.SentenceInfo)
	}
	return parseTokenTimestamps(raw.Text, raw.Timestamp)
}

// Close implements asr.Engine.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.worker == nil {
		return nil
	}
	err := e.worker.Close()
	e.worker = nil
	return err
}
