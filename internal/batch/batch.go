// Package batch runs the end-to-end transcription pipeline over a list of
// raw command line inputs.
//
// Items run strictly in input order, one at a time. A failing item never
// stops the batch; only a missing external tool or a cancelled context
// does. The engine is created lazily when the first item needs it and is
// closed when the run ends, so one model load serves the whole batch.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"v2t/internal/asr"
	"v2t/internal/inputs"
	"v2t/internal/logging"
	"v2t/internal/resolve"
	"v2t/internal/services"
	"v2t/internal/subtitle"
)

// Status is an item's final disposition.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	StatusSkipped   Status = "skipped"
)

// ItemResult records one item's outcome.
type ItemResult struct {
	// Input is the raw argument or expanded entry that produced the item.
	Input string
	// Kind is the item's classification.
	Kind inputs.Kind
	// Status is the final disposition.
	Status Status
	// Label is the resolved asset label, when resolution got that far.
	Label string
	// Outputs lists the transcript files written for a succeeded item.
	Outputs []string
	// Segments is the number of recognized segments.
	Segments int
	// Detail is a short human explanation for skipped items.
	Detail string
	// Err is the failure that stopped the item.
	Err error
	// Elapsed is the item's wall clock time.
	Elapsed time.Duration
}

// FailureKind names the failure category for failed items.
func (r ItemResult) FailureKind() string {
	return services.FailureKind(r.Err)
}

// Report summarizes one run.
type Report struct {
	Results  []ItemResult
	Started  time.Time
	Finished time.Time
}

// Counts tallies results by status.
func (r *Report) Counts() (succeeded, failed, skipped int) {
	for _, res := range r.Results {
		switch res.Status {
		case StatusSucceeded:
			succeeded++
		case StatusFailed:
			failed++
		case StatusSkipped:
			skipped++
		}
	}
	return succeeded, failed, skipped
}

// EngineFactory builds the transcription engine on first use.
type EngineFactory func(ctx context.Context) (asr.Engine, error)

// Runner wires the pipeline together.
type Runner struct {
	Resolver  *resolve.Resolver
	Scanner   *inputs.Scanner
	NewEngine EngineFactory
	// Preflight verifies external tools once the input mix is known.
	Preflight func(ctx context.Context, hasRemote bool) error
	// OutputDir receives transcript files.
	OutputDir string
	// Formats are the transcript formats to write.
	Formats []string
	// Options are passed to every transcription.
	Options asr.Options
	Logger  *slog.Logger
	// OnItemStart fires before an item runs; OnItem fires with its result.
	OnItemStart func(index, total int, input string)
	OnItem      func(index, total int, result ItemResult)
}

// planned is one expanded batch entry, or a pre-failed placeholder when
// classification rejected the argument.
type planned struct {
	input string
	kind  inputs.Kind
	err   error
}

// Run executes the batch and always returns a report; the error is non-nil
// only for batch-fatal conditions such as missing external tools.
func (r *Runner) Run(ctx context.Context, args []string) (*Report, error) {
	report := &Report{Started: time.Now()}
	defer func() { report.Finished = time.Now() }()

	logger := r.logger()
	items := r.expand(args, logger)
	if len(items) == 0 {
		logger.Info("no transcribable inputs found")
		return report, nil
	}

	hasRemote := false
	for _, item := range items {
		if item.err == nil && item.kind == inputs.KindRemote {
			hasRemote = true
			break
		}
	}
	if r.Preflight != nil {
		if err := r.Preflight(ctx, hasRemote); err != nil {
			return report, err
		}
	}

	var engine asr.Engine
	defer func() {
		if engine != nil {
			if err := engine.Close(); err != nil {
				logger.Warn("engine shutdown failed", logging.Error(err))
			}
		}
	}()

	total := len(items)
	logger.Info("batch started",
		logging.Int(logging.FieldItemCount, total),
		logging.Bool("remote_inputs", hasRemote),
	)

	for i, item := range items {
		if err := ctx.Err(); err != nil {
			for j, rest := range items[i:] {
				result := ItemResult{
					Input:  rest.input,
					Kind:   rest.kind,
					Status: StatusSkipped,
					Detail: "cancelled before item started",
				}
				report.Results = append(report.Results, result)
				r.notify(i+j, total, result)
			}
			logger.Warn("batch cancelled", logging.Int("items_remaining", total-i))
			break
		}

		if r.OnItemStart != nil {
			r.OnItemStart(i, total, item.input)
		}
		logger.Debug("item started",
			logging.Int(logging.FieldItemIndex, i+1),
			logging.String(logging.FieldItem, filepath.Base(item.input)),
		)
		result := r.runItem(ctx, item, &engine)
		report.Results = append(report.Results, result)
		r.notify(i, total, result)

		if result.Err != nil && services.IsFatal(result.Err) {
			logger.Error("batch aborted by environment failure", logging.Error(result.Err))
			return report, result.Err
		}
	}

	succeeded, failed, skipped := report.Counts()
	logger.Info("batch finished",
		logging.Int("succeeded", succeeded),
		logging.Int("failed", failed),
		logging.Int("skipped", skipped),
		logging.Duration("elapsed", time.Since(report.Started)),
	)
	return report, nil
}

func (r *Runner) notify(index, total int, result ItemResult) {
	if r.OnItem != nil {
		r.OnItem(index, total, result)
	}
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return logging.NewNop()
}

// expand classifies every argument and flattens folders and URL lists into
// concrete items, preserving input order throughout.
func (r *Runner) expand(args []string, logger *slog.Logger) []planned {
	var items []planned
	for _, raw := range args {
		switch inputs.Classify(raw) {
		case inputs.KindRemote:
			items = append(items, planned{input: raw, kind: inputs.KindRemote})
		case inputs.KindLocalFolder:
			files := r.Scanner.Scan(raw)
			if len(files) == 0 {
				logger.Info("folder contains no media", logging.String("path", raw))
				continue
			}
			logger.Info("folder expanded",
				logging.String("path", raw),
				logging.Int("media_files", len(files)),
			)
			for _, file := range files {
				items = append(items, planned{input: file, kind: inputs.KindLocalFile})
			}
		case inputs.KindLocalFile:
			if inputs.IsURLList(raw) {
				items = append(items, r.expandURLList(raw, logger)...)
				continue
			}
			items = append(items, planned{input: raw, kind: inputs.KindLocalFile})
		default:
			items = append(items, planned{
				input: raw,
				kind:  inputs.KindUnrecognized,
				err: services.Wrap(services.ErrClassification, "batch", "classify",
					fmt.Sprintf("input %q is neither an existing path nor a recognizable URL", raw), nil),
			})
		}
	}
	return items
}

// expandURLList reads a .txt list of URLs. Lines that do not parse as URLs
// become failed items rather than silently disappearing.
func (r *Runner) expandURLList(path string, logger *slog.Logger) []planned {
	urls, err := inputs.ReadURLList(path)
	if err != nil {
		return []planned{{
			input: path,
			kind:  inputs.KindLocalFile,
			err: services.Wrap(services.ErrResolution, "batch", "read url list",
				fmt.Sprintf("could not read URL list %s", filepath.Base(path)), err),
		}}
	}
	logger.Info("url list expanded",
		logging.String("path", path),
		logging.Int("urls", len(urls)),
	)
	items := make([]planned, 0, len(urls))
	for _, url := range urls {
		item := planned{input: url, kind: inputs.KindRemote}
		if inputs.Classify(url) != inputs.KindRemote {
			item.kind = inputs.KindUnrecognized
			item.err = services.Wrap(services.ErrClassification, "batch", "classify",
				fmt.Sprintf("list entry %q is not a URL", url), nil)
		}
		items = append(items, item)
	}
	return items
}

func (r *Runner) runItem(ctx context.Context, item planned, engine *asr.Engine) ItemResult {
	started := time.Now()
	result := ItemResult{Input: item.input, Kind: item.kind}
	defer func() { result.Elapsed = time.Since(started) }()

	itemCtx := services.WithItem(ctx, filepath.Base(item.input))
	logger := logging.WithContext(itemCtx, r.logger())

	fail := func(err error) ItemResult {
		result.Status = StatusFailed
		result.Err = err
		logger.Warn("item failed",
			logging.String("failure_kind", services.FailureKind(err)),
			logging.Error(err),
		)
		return result
	}

	if item.err != nil {
		return fail(item.err)
	}

	var asset *resolve.Asset
	var err error
	switch item.kind {
	case inputs.KindRemote:
		asset, err = r.Resolver.Remote(itemCtx, item.input)
	default:
		asset, err = r.Resolver.Local(itemCtx, item.input)
	}
	if err != nil {
		return fail(err)
	}
	result.Label = asset.Label

	// Intermediate audio is removed however the item ends. The original
	// media is never touched.
	defer func() {
		if !asset.Cleanup {
			return
		}
		if err := os.Remove(asset.AudioPath); err != nil && !os.IsNotExist(err) {
			logger.Warn("failed to remove intermediate audio",
				logging.String("path", asset.AudioPath),
				logging.Error(err),
			)
			return
		}
		logger.Debug("intermediate audio removed", logging.String("path", asset.AudioPath))
	}()

	if *engine == nil {
		created, err := r.NewEngine(itemCtx)
		if err != nil {
			return fail(services.Wrap(services.ErrEngine, "batch", "create engine",
				"engine startup failed", err))
		}
		*engine = created
		logger.Info("engine ready", logging.String(logging.FieldEngine, created.Name()))
	}

	segments, err := (*engine).Transcribe(itemCtx, asset.AudioPath, r.Options)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			result.Status = StatusSkipped
			result.Detail = "cancelled mid transcription"
			return result
		}
		return fail(services.Wrap(services.ErrEngine, "batch", "transcribe",
			fmt.Sprintf("transcription failed for %s", asset.Label), err))
	}
	result.Segments = len(segments)

	if len(segments) == 0 {
		result.Status = StatusSkipped
		result.Detail = "no speech recognized"
		logger.Info("no speech recognized; no output written")
		return result
	}

	base := subtitle.BaseName(asset.Label, asset.StableID)
	written, err := subtitle.WriteAll(r.OutputDir, base, r.Formats, segments)
	if err != nil {
		return fail(services.Wrap(services.ErrWrite, "batch", "write outputs",
			fmt.Sprintf("could not write transcripts for %s", asset.Label), err))
	}
	result.Outputs = written
	result.Status = StatusSucceeded
	logger.Info("item transcribed",
		logging.Int("segments", result.Segments),
		logging.Int("outputs", len(written)),
		logging.Duration("elapsed", time.Since(started)),
	)
	return result
}
