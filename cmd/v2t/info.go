package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"v2t/internal/config"
	"v2t/internal/inputs"
	"v2t/internal/videoinfo"
)

type infoEntry struct {
	Platform   string `json:"platform"`
	VideoID    string `json:"video_id"`
	Author     string `json:"author"`
	UploadDate string `json:"upload_date"`
	Title      string `json:"title"`
	URL        string `json:"url"`
	Error      string `json:"error,omitempty"`
}

func newInfoCommand(ctx *commandContext) *cobra.Command {
	var (
		jsonFlag    bool
		cookiesFlag string
	)

	cmd := &cobra.Command{
		Use:   "info <url|urls.txt>...",
		Short: "Fetch video metadata without downloading",
		Long: `Info scrapes each video's public page for its title, author, and upload
date. Arguments may be video URLs or .txt files holding one URL per line.
Fields that cannot be extracted report as "unknown".`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}

			urls, err := expandURLArgs(args)
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

			getter := &videoinfo.Getter{
				CookieFile: cookieFile,
				Logger:     quietLogger(cfg),
			}

			lookupCtx, stop := signalContext(cmd.Context())
			defer stop()

			results := getter.LookupAll(lookupCtx, urls)

			out := cmd.OutOrStdout()
			failed := 0
			if jsonFlag {
				entries := make([]infoEntry, 0, len(results))
				for _, res := range results {
					entry := infoEntry{URL: res.URL}
					if res.Err != nil {
						entry.Error = res.Err.Error()
						failed++
					} else {
						entry.Platform = string(res.Info.Platform)
						entry.VideoID = res.Info.VideoID
						entry.Author = res.Info.Author
						entry.UploadDate = res.Info.UploadDate
						entry.Title = res.Info.Title
						entry.URL = res.Info.URL
					}
					entries = append(entries, entry)
				}
				if err := writeJSON(out, entries); err != nil {
					return err
				}
			} else {
				for i, res := range results {
					if i > 0 {
						fmt.Fprintln(out)
					}
					fmt.Fprintln(out, res.URL)
					if res.Err != nil {
						fmt.Fprintf(out, "  error: %v\n", res.Err)
						failed++
						continue
					}
					fmt.Fprintf(out, "  Platform:    %s\n", res.Info.Platform)
					fmt.Fprintf(out, "  Video ID:    %s\n", res.Info.VideoID)
					fmt.Fprintf(out, "  Title:       %s\n", res.Info.Title)
					fmt.Fprintf(out, "  Author:      %s\n", res.Info.Author)
					fmt.Fprintf(out, "  Upload date: %s\n", res.Info.UploadDate)
				}
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d lookups failed", failed, len(results))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Emit results as JSON")
	cmd.Flags().StringVar(&cookiesFlag, "cookies", "", "Netscape cookies.txt sent with page requests")

	return cmd
}

// expandURLArgs replaces any readable .txt argument with the URLs it lists.
// A .txt path that does not exist is passed through untouched so the lookup
// reports it instead of the expansion silently dropping it.
func expandURLArgs(args []string) ([]string, error) {
	urls := make([]string, 0, len(args))
	for _, arg := range args {
		if inputs.IsURLList(arg) {
			if st, err := os.Stat(arg); err == nil && st.Mode().IsRegular() {
				listed, err := inputs.ReadURLList(arg)
				if err != nil {
					return nil, err
				}
				urls = append(urls, listed...)
				continue
			}
		}
		urls = append(urls, arg)
	}
	return urls, nil
}
