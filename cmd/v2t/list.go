package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"v2t/internal/config"
	"v2t/internal/listing"
	"v2t/internal/services/ytdlp"
	"v2t/internal/textutil"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	var (
		startFlag   string
		endFlag     string
		daysFlag    int
		maxFlag     int
		outputFlag  string
		cookiesFlag string
	)

	cmd := &cobra.Command{
		Use:   "list <channel-url>",
		Short: "List a channel's uploads and write them to CSV",
		Long: `List enumerates a channel's uploads without downloading any media and
writes the matching videos to a CSV file, newest first. Date filters apply
to the upload date reported by the platform.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}

			dateRange, err := listing.ParseDateRange(startFlag, endFlag, daysFlag, time.Now())
			if err != nil {
				return err
			}

			cookieFile := cfg.CookiePath()
			if cmd.Flags().Changed("cookies") {
				cookieFile, err = config.ExpandPath(cookiesFlag)
				if err != nil {
					return fmt.Errorf("resolve cookie file: %w", err)
				}
			}

			logger := quietLogger(cfg)
			downloader, err := ytdlp.New(cfg.YtDlpBinary())
			if err != nil {
				return fmt.Errorf("init yt-dlp client: %w", err)
			}
			lister := &listing.Lister{
				Uploads:  downloader,
				Bilibili: &listing.BilibiliClient{Logger: logger},
				Logger:   logger,
			}

			listCtx, stop := signalContext(cmd.Context())
			defer stop()

			entries, err := lister.List(listCtx, args[0], listing.Options{
				Range:      dateRange,
				MaxVideos:  maxFlag,
				CookieFile: cookieFile,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No uploads matched")
				return nil
			}

			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				rows = append(rows, []string{
					entry.UploadDate,
					textutil.Truncate(entry.Title, 50),
					textutil.Truncate(entry.Author, 20),
					entry.URL,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Upload Date", "Title", "Author", "URL"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
			))

			csvPath := listing.DefaultCSVPath(cfg.Paths.OutputDir, time.Now())
			if trimmed := strings.TrimSpace(outputFlag); trimmed != "" {
				csvPath, err = config.ExpandPath(trimmed)
				if err != nil {
					return fmt.Errorf("resolve csv path: %w", err)
				}
			}
			if err := os.MkdirAll(filepath.Dir(csvPath), 0o755); err != nil {
				return fmt.Errorf("ensure csv directory: %w", err)
			}
			if err := listing.WriteCSV(csvPath, entries); err != nil {
				return err
			}

			fmt.Fprintf(out, "Found %d uploads\n", len(entries))
			fmt.Fprintf(out, "Wrote %s\n", csvPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&startFlag, "start", "", "Earliest upload date to include (YYYY-MM-DD)")
	cmd.Flags().StringVar(&endFlag, "end", "", "Latest upload date to include (YYYY-MM-DD)")
	cmd.Flags().IntVar(&daysFlag, "days", 0, "Include uploads from the last N days (exclusive with --start/--end)")
	cmd.Flags().IntVarP(&maxFlag, "max", "n", 0, "Stop after this many videos (0 lists everything)")
	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "CSV path (default: video_list_<timestamp>.csv in output_dir)")
	cmd.Flags().StringVar(&cookiesFlag, "cookies", "", "Netscape cookies.txt for authenticated listing")

	return cmd
}
