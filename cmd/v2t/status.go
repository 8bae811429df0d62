package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"v2t/internal/config"
	"v2t/internal/deps"
)

type statusTool struct {
	Name      string `json:"name"`
	Command   string `json:"command"`
	Available bool   `json:"available"`
	Optional  bool   `json:"optional"`
	Detail    string `json:"detail,omitempty"`
}

type statusReport struct {
	ConfigFile   string       `json:"config_file"`
	ConfigExists bool         `json:"config_exists"`
	Engine       string       `json:"engine"`
	OutputDir    string       `json:"output_dir"`
	WorkDir      string       `json:"work_dir"`
	LogDir       string       `json:"log_dir"`
	CookieFile   string       `json:"cookie_file,omitempty"`
	Tools        []statusTool `json:"tools"`
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var jsonFlag bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show tool availability and the resolved configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}

			statuses := deps.CheckBinaries(deps.All(cfg))
			configFile, configExists := ctx.configSource()

			out := cmd.OutOrStdout()
			if jsonFlag {
				tools := make([]statusTool, 0, len(statuses))
				for _, status := range statuses {
					tools = append(tools, statusTool{
						Name:      status.Name,
						Command:   status.Command,
						Available: status.Available,
						Optional:  status.Optional,
						Detail:    status.Detail,
					})
				}
				return writeJSON(out, statusReport{
					ConfigFile:   configFile,
					ConfigExists: configExists,
					Engine:       engineSummary(cfg),
					OutputDir:    cfg.Paths.OutputDir,
					WorkDir:      cfg.Paths.WorkDir,
					LogDir:       cfg.Paths.LogDir,
					CookieFile:   cfg.CookiePath(),
					Tools:        tools,
				})
			}

			rows := make([][]string, 0, len(statuses))
			for _, status := range statuses {
				note := status.Detail
				if note == "" && status.Optional {
					note = "optional"
				}
				rows = append(rows, []string{status.Name, status.Command, yesNo(status.Available), note})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Tool", "Command", "Available", "Notes"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
			))

			configLine := configFile
			if !configExists {
				configLine = fmt.Sprintf("built-in defaults (no file at %s)", configFile)
			}
			cookieLine := cfg.CookiePath()
			if cookieLine == "" {
				cookieLine = "none"
			}
			fmt.Fprintf(out, "Config:  %s\n", configLine)
			fmt.Fprintf(out, "Engine:  %s\n", engineSummary(cfg))
			fmt.Fprintf(out, "Output:  %s\n", cfg.Paths.OutputDir)
			fmt.Fprintf(out, "Work:    %s\n", cfg.Paths.WorkDir)
			fmt.Fprintf(out, "Logs:    %s\n", cfg.Paths.LogDir)
			fmt.Fprintf(out, "Cookies: %s\n", cookieLine)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Emit status as JSON")

	return cmd
}

// engineSummary pairs the active engine with the knob that matters for it,
// the whisper model tier or the funasr variant.
func engineSummary(cfg *config.Config) string {
	switch cfg.Transcription.Engine {
	case config.EngineFunASR:
		return fmt.Sprintf("%s (%s)", config.EngineFunASR, cfg.FunASR.Variant)
	default:
		return fmt.Sprintf("%s (%s)", config.EngineWhisper, cfg.Whisper.Model)
	}
}
