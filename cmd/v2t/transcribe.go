package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"v2t/internal/asr"
	"v2t/internal/asr/funasr"
	"v2t/internal/asr/whisper"
	"v2t/internal/batch"
	"v2t/internal/config"
	"v2t/internal/deps"
	"v2t/internal/inputs"
	"v2t/internal/logging"
	"v2t/internal/media"
	"v2t/internal/notifications"
	"v2t/internal/resolve"
	"v2t/internal/services"
	"v2t/internal/services/ytdlp"
	"v2t/internal/textutil"
	"v2t/internal/workspace"
)

func newTranscribeCommand(ctx *commandContext) *cobra.Command {
	var (
		engineFlag    string
		modelFlag     string
		variantFlag   string
		languageFlag  string
		taskFlag      string
		deviceFlag    string
		formatsFlag   []string
		outputFlag    string
		keepFlag      bool
		cookiesFlag   string
		recursiveFlag bool
		vocabFlag     []string
	)

	cmd := &cobra.Command{
		Use:   "transcribe <url|file|folder>...",
		Short: "Transcribe remote URLs, local media files, and folders",
		Long: `Transcribe downloads or extracts audio from each input and runs it through
the configured speech engine. Inputs are processed in order; a failing item
is reported and the batch moves on. Results land in the output directory as
text and subtitle files named after each item.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				return fmt.Errorf("provide at least one URL, media file, or folder. Example: v2t transcribe https://youtu.be/xyz lecture.mp4 ./talks\nRun v2t transcribe --help for more details")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}

			flags := cmd.Flags()
			if flags.Changed("engine") {
				cfg.Transcription.Engine = normalizeFlag(engineFlag)
			}
			if flags.Changed("model") {
				cfg.Whisper.Model = normalizeFlag(modelFlag)
			}
			if flags.Changed("variant") {
				cfg.FunASR.Variant = normalizeFlag(variantFlag)
			}
			if flags.Changed("language") {
				cfg.Transcription.Language = normalizeFlag(languageFlag)
			}
			if flags.Changed("task") {
				cfg.Transcription.Task = normalizeFlag(taskFlag)
			}
			if flags.Changed("device") {
				cfg.Transcription.Device = normalizeFlag(deviceFlag)
			}
			if flags.Changed("format") {
				cfg.Transcription.Formats = config.NormalizeFormats(formatsFlag)
			}
			if flags.Changed("keep-intermediates") {
				cfg.Transcription.KeepIntermediates = keepFlag
			}
			if flags.Changed("recursive") {
				cfg.Scan.Recursive = recursiveFlag
			}
			if flags.Changed("vocab") {
				cfg.Transcription.Vocabulary = vocabFlag
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			outDir := cfg.Paths.OutputDir
			if trimmed := strings.TrimSpace(outputFlag); trimmed != "" {
				outDir, err = config.ExpandPath(trimmed)
				if err != nil {
					return fmt.Errorf("resolve output directory: %w", err)
				}
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("ensure output directory: %w", err)
			}

			cookieFile := cfg.CookiePath()
			if flags.Changed("cookies") {
				cookieFile, err = config.ExpandPath(cookiesFlag)
				if err != nil {
					return fmt.Errorf("resolve cookie file: %w", err)
				}
			}

			interactive := isTerminal(os.Stderr)
			logger, logPath, err := ctx.newRunLogger(cfg, interactive)
			if err != nil {
				return err
			}

			run, err := workspace.Open(cfg.Paths.WorkDir, cfg.Transcription.KeepIntermediates, logger)
			if err != nil {
				return fmt.Errorf("open workspace: %w", err)
			}
			defer func() {
				if closeErr := run.Close(); closeErr != nil {
					logger.Warn("workspace close failed", logging.Error(closeErr))
				}
			}()

			downloader, err := ytdlp.New(cfg.YtDlpBinary())
			if err != nil {
				return fmt.Errorf("init yt-dlp client: %w", err)
			}
			extensions := inputs.NewExtensions(cfg.Scan.VideoExtensions, cfg.Scan.AudioExtensions)

			out := cmd.OutOrStdout()
			var bar *progressbar.ProgressBar

			runner := &batch.Runner{
				Resolver: &resolve.Resolver{
					Downloader:        downloader,
					Extractor:         media.NewExtractor(cfg.FFmpegBinary()),
					Extensions:        extensions,
					WorkDir:           run.Dir(),
					CookieFile:        cookieFile,
					KeepIntermediates: cfg.Transcription.KeepIntermediates,
				},
				Scanner:   &inputs.Scanner{Extensions: extensions, Recursive: cfg.Scan.Recursive},
				NewEngine: engineFactory(cfg),
				Preflight: preflightCheck(cfg),
				OutputDir: outDir,
				Formats:   cfg.Transcription.Formats,
				Options: asr.Options{
					Language:   cfg.Transcription.Language,
					Task:       cfg.Transcription.Task,
					Vocabulary: cfg.Transcription.Vocabulary,
				},
				Logger: logger,
				OnItemStart: func(index, total int, input string) {
					if interactive && bar == nil {
						bar = progressbar.NewOptions(total,
							progressbar.OptionSetWriter(os.Stderr),
							progressbar.OptionSetWidth(24),
							progressbar.OptionShowCount(),
							progressbar.OptionClearOnFinish(),
						)
					}
					name := displayName(input)
					if bar != nil {
						bar.Describe(fmt.Sprintf("[%d/%d] %s", index+1, total, name))
						return
					}
					fmt.Fprintf(out, "[%d/%d] %s\n", index+1, total, name)
				},
				OnItem: func(index, total int, result batch.ItemResult) {
					if bar != nil {
						_ = bar.Add(1)
						return
					}
					switch result.Status {
					case batch.StatusSucceeded:
						fmt.Fprintf(out, "  done: %s (%d segments)\n", strings.Join(outputNames(result.Outputs), ", "), result.Segments)
					case batch.StatusSkipped:
						fmt.Fprintf(out, "  skipped: %s\n", result.Detail)
					default:
						fmt.Fprintf(out, "  failed (%s): %v\n", result.FailureKind(), result.Err)
					}
				},
			}

			batchCtx, stop := signalContext(cmd.Context())
			defer stop()
			batchCtx = services.WithRunID(batchCtx, run.ID())

			report, runErr := runner.Run(batchCtx, args)
			if bar != nil {
				_ = bar.Finish()
			}

			renderReport(out, report)
			fmt.Fprintf(out, "Log: %s\n", logPath)

			notifier := notifications.NewService(cfg)
			succeeded, failed, skipped := report.Counts()
			elapsed := report.Finished.Sub(report.Started)

			if runErr != nil {
				if nerr := notifier.NotifyBatchAborted(context.Background(), runErr, len(report.Results)); nerr != nil {
					logger.Warn("notification failed", logging.Error(nerr))
				}
				return runErr
			}
			if nerr := notifier.NotifyBatchCompleted(context.Background(), succeeded, failed, skipped, elapsed); nerr != nil {
				logger.Warn("notification failed", logging.Error(nerr))
			}
			if err := batchCtx.Err(); err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d items failed", failed, len(report.Results))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&engineFlag, "engine", "", "Transcription engine (whisper or funasr)")
	cmd.Flags().StringVar(&modelFlag, "model", "", "Whisper model tier (tiny, base, small, medium, large-v3)")
	cmd.Flags().StringVar(&variantFlag, "variant", "", "FunASR variant (sense-voice, paraformer, paraformer-long)")
	cmd.Flags().StringVarP(&languageFlag, "language", "l", "", "Source language code, or auto")
	cmd.Flags().StringVar(&taskFlag, "task", "", "transcribe or translate (translate targets English)")
	cmd.Flags().StringVar(&deviceFlag, "device", "", "Compute device (cpu, cuda, auto)")
	cmd.Flags().StringSliceVarP(&formatsFlag, "format", "f", nil, "Output formats to write (txt, srt, or all)")
	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Output directory for transcripts (default: configured output_dir)")
	cmd.Flags().BoolVar(&keepFlag, "keep-intermediates", false, "Keep downloaded and extracted audio files")
	cmd.Flags().StringVar(&cookiesFlag, "cookies", "", "Netscape cookies.txt handed to yt-dlp")
	cmd.Flags().BoolVarP(&recursiveFlag, "recursive", "r", false, "Scan folders recursively")
	cmd.Flags().StringSliceVar(&vocabFlag, "vocab", nil, "Domain terms to bias recognition toward")

	return cmd
}

func engineFactory(cfg *config.Config) batch.EngineFactory {
	return func(ctx context.Context) (asr.Engine, error) {
		switch cfg.Transcription.Engine {
		case config.EngineFunASR:
			engine, err := funasr.New(funasr.Config{
				Variant: cfg.FunASR.Variant,
				Device:  cfg.Transcription.Device,
			}, cfg.UvBinary())
			if err != nil {
				return nil, err
			}
			return engine, nil
		default:
			return whisper.New(whisper.Config{
				Model:    cfg.Whisper.Model,
				Device:   cfg.Transcription.Device,
				BeamSize: cfg.Whisper.BeamSize,
			}, cfg.UvBinary()), nil
		}
	}
}

func preflightCheck(cfg *config.Config) func(ctx context.Context, hasRemote bool) error {
	return func(ctx context.Context, hasRemote bool) error {
		missing := deps.Missing(deps.CheckBinaries(deps.ForBatch(cfg, hasRemote)))
		if len(missing) == 0 {
			return nil
		}
		names := make([]string, 0, len(missing))
		for _, status := range missing {
			names = append(names, status.Command)
		}
		return services.Wrap(services.ErrEnvironment, "batch", "preflight",
			fmt.Sprintf("missing required tools: %s", strings.Join(names, ", ")), nil)
	}
}

func renderReport(out io.Writer, report *batch.Report) {
	if len(report.Results) == 0 {
		fmt.Fprintln(out, "Nothing to transcribe")
		return
	}

	rows := make([][]string, 0, len(report.Results))
	for i, res := range report.Results {
		var detail string
		switch res.Status {
		case batch.StatusSucceeded:
			detail = strings.Join(outputNames(res.Outputs), ", ")
		case batch.StatusSkipped:
			detail = res.Detail
		default:
			detail = fmt.Sprintf("%s: %s", res.FailureKind(), textutil.Truncate(errText(res.Err), 60))
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			textutil.Truncate(displayName(res.Input), 40),
			displayStatus(string(res.Status)),
			detail,
			res.Elapsed.Round(100 * time.Millisecond).String(),
		})
	}

	fmt.Fprintln(out, renderTable(
		[]string{"#", "Input", "Status", "Result", "Time"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight},
	))

	succeeded, failed, skipped := report.Counts()
	fmt.Fprintf(out, "%d succeeded, %d failed, %d skipped in %s\n",
		succeeded, failed, skipped, report.Finished.Sub(report.Started).Round(time.Second))
}

// displayName shortens an input for progress and table output. URLs stay
// whole; file paths reduce to their base name.
func displayName(input string) string {
	if strings.Contains(input, "://") {
		return textutil.Truncate(input, 60)
	}
	return filepath.Base(input)
}

func outputNames(paths []string) []string {
	names := make([]string, 0, len(paths))
	for _, p := range paths {
		names = append(names, filepath.Base(p))
	}
	return names
}

func errText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func normalizeFlag(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
