package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"v2t/internal/config"
	"v2t/internal/logging"
)

type commandContext struct {
	configFlag *string

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
		c.configExists = exists
	})
	return c.config, c.configErr
}

// configSource reports which file the loaded configuration came from and
// whether that file existed. Valid only after ensureConfig.
func (c *commandContext) configSource() (string, bool) {
	return c.configPath, c.configExists
}

// newRunLogger builds the logger for a batch run. Logs always land in a
// timestamped file under the configured log directory; they mirror to
// stderr only when no progress bar owns the terminal.
func (c *commandContext) newRunLogger(cfg *config.Config, interactive bool) (*slog.Logger, string, error) {
	logPath := filepath.Join(cfg.Paths.LogDir, fmt.Sprintf("v2t-%s.log", time.Now().Format("20060102-150405")))
	outputs := []string{logPath}
	if !interactive {
		outputs = append(outputs, "stderr")
	}
	logger, err := logging.New(logging.Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPaths: outputs,
	})
	if err != nil {
		return nil, "", fmt.Errorf("init logger: %w", err)
	}
	logging.CleanupOldLogs(logger, cfg.Logging.RetentionDays, logging.RetentionTarget{
		Dir:     cfg.Paths.LogDir,
		Pattern: "v2t-*.log",
		Exclude: []string{logPath},
	})
	return logger, logPath, nil
}

// quietLogger routes logs to stderr for the metadata commands that do not
// keep log files around.
func quietLogger(cfg *config.Config) *slog.Logger {
	logger, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		return logging.NewNop()
	}
	return logger
}

// signalContext derives a context cancelled by SIGINT or SIGTERM so an
// interrupted batch can skip its remaining items instead of dying mid file.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
