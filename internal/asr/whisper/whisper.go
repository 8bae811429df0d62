// Package whisper runs general-purpose multilingual speech recognition on a
// persistent faster-whisper worker.
package whisper

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"v2t/internal/asr"
	"v2t/internal/language"
)

// Config tunes the recognizer.
type Config struct {
	// Model is the size tier to load (tiny, base, small, medium, large-v3).
	Model string
	// Device selects the compute backend (cpu, cuda, auto).
	Device string
	// BeamSize widens the decoding search.
	BeamSize int
}

const (
	// DefaultModel balances accuracy and load time on CPU hosts.
	DefaultModel    = "small"
	DefaultBeamSize = 5

	workerPackage = "faster-whisper"
)

// Engine implements asr.Engine. The first Transcribe boots the worker and
// loads the model; later calls reuse it.
type Engine struct {
	cfg      Config
	uvBinary string

	mu     sync.Mutex
	worker asr.Worker
	start  func(ctx context.Context) (asr.Worker, error)
}

// New builds a whisper engine. The worker is not started until the first
// transcription request.
func New(cfg Config, uvBinary string) *Engine {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Device == "" {
		cfg.Device = "cpu"
	}
	if cfg.BeamSize <= 0 {
		cfg.BeamSize = DefaultBeamSize
	}
	e := &Engine{cfg: cfg, uvBinary: uvBinary}
	e.start = e.startWorker
	return e
}

// WithWorkerStarter overrides worker startup (for testing).
func (e *Engine) WithWorkerStarter(start func(ctx context.Context) (asr.Worker, error)) {
	if start != nil {
		e.start = start
	}
}

// Name implements asr.Engine.
func (e *Engine) Name() string { return "whisper" }

type initConfig struct {
	Model       string `json:"model"`
	Device      string `json:"device"`
	ComputeType string `json:"compute_type"`
	BeamSize    int    `json:"beam_size"`
}

type transcribeRequest struct {
	Audio         string `json:"audio"`
	Language      string `json:"language,omitempty"`
	Task          string `json:"task,omitempty"`
	InitialPrompt string `json:"initial_prompt,omitempty"`
}

type transcribeResponse struct {
	Segments []asr.Segment `json:"segments"`
	Error    string        `json:"error"`
}

func (e *Engine) startWorker(ctx context.Context) (asr.Worker, error) {
	return asr.StartWorker(ctx, e.uvBinary, asr.WorkerSpec{
		Packages: []string{workerPackage},
		Script:   workerScript,
		Init: initConfig{
			Model:       e.cfg.Model,
			Device:      e.cfg.Device,
			ComputeType: computeType(e.cfg.Device),
			BeamSize:    e.cfg.BeamSize,
		},
	})
}

// computeType picks the quantization faster-whisper should run with.
func computeType(device string) string {
	switch device {
	case "cuda":
		return "float16"
	case "cpu":
		return "int8"
	default:
		return "default"
	}
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
		return nil, fmt.Errorf("whisper: start worker: %w", err)
	}

	req := transcribeRequest{
		Audio:         path,
		Task:          opts.Task,
		InitialPrompt: strings.Join(opts.Vocabulary, ", "),
	}
	if !language.IsAuto(opts.Language) {
		req.Language = language.Normalize(opts.Language)
	}

	var resp transcribeResponse
	if err := worker.Call(ctx, req, &resp); err != nil {
		// A transport failure means the worker is gone; drop it so the next
		// item can start fresh.
		e.discardWorker()
		return nil, fmt.Errorf("whisper: %w", err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("whisper: %s", resp.Error)
	}
	if err := asr.ValidateSegments(resp.Segments); err != nil {
		return nil, fmt.Errorf("whisper: %w", err)
	}
	return resp.Segments, nil
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
