package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and cookie file configuration.
type Paths struct {
	OutputDir  string `toml:"output_dir"`
	WorkDir    string `toml:"work_dir"`
	LogDir     string `toml:"log_dir"`
	CookieFile string `toml:"cookie_file"`
}

// Transcription contains settings shared by both transcription engines.
type Transcription struct {
	Engine            string   `toml:"engine"`
	Language          string   `toml:"language"`
	Task              string   `toml:"task"`
	Device            string   `toml:"device"`
	Formats           []string `toml:"formats"`
	KeepIntermediates bool     `toml:"keep_intermediates"`
	Vocabulary        []string `toml:"vocabulary"`
}

// Whisper contains settings specific to the faster-whisper engine.
type Whisper struct {
	Model    string `toml:"model"`
	BeamSize int    `toml:"beam_size"`
}

// FunASR contains settings specific to the FunASR engine.
type FunASR struct {
	Variant string `toml:"variant"`
}

// Scan contains folder scanning configuration.
type Scan struct {
	VideoExtensions []string `toml:"video_extensions"`
	AudioExtensions []string `toml:"audio_extensions"`
	Recursive       bool     `toml:"recursive"`
}

// Tools names the external executables the pipeline drives.
type Tools struct {
	FFmpeg string `toml:"ffmpeg"`
	YtDlp  string `toml:"ytdlp"`
	Uv     string `toml:"uv"`
}

// Notifications contains configuration for ntfy push notifications.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
}

// Config encapsulates all configuration values for v2t.
//
// Configuration sections by subsystem:
//   - Paths: output/work/log directories and the optional cookies.txt
//   - Transcription: engine selection and cross-engine transcription knobs
//   - Whisper: faster-whisper model tier and decoding settings
//   - FunASR: FunASR model variant selection
//   - Scan: folder scanning extension sets and recursion
//   - Tools: external executable names (ffmpeg, yt-dlp, uv)
//   - Notifications: ntfy batch completion notification settings
//   - Logging: log format, level, and retention
type Config struct {
	Paths         Paths         `toml:"paths"`
	Transcription Transcription `toml:"transcription"`
	Whisper       Whisper       `toml:"whisper"`
	FunASR        FunASR        `toml:"funasr"`
	Scan          Scan          `toml:"scan"`
	Tools         Tools         `toml:"tools"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/v2t/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath("~/.config/v2t/config.toml")
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("v2t.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories a batch run writes into.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.OutputDir, c.Paths.WorkDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// FFmpegBinary returns the ffmpeg executable name used for audio extraction.
func (c *Config) FFmpegBinary() string {
	if name := strings.TrimSpace(c.Tools.FFmpeg); name != "" {
		return name
	}
	return defaultFFmpegBinary
}

// YtDlpBinary returns the yt-dlp executable name used for downloads and
// playlist listings.
func (c *Config) YtDlpBinary() string {
	if name := strings.TrimSpace(c.Tools.YtDlp); name != "" {
		return name
	}
	return defaultYtDlpBinary
}

// UvBinary returns the uv executable name used to bootstrap engine workers.
func (c *Config) UvBinary() string {
	if name := strings.TrimSpace(c.Tools.Uv); name != "" {
		return name
	}
	return defaultUvBinary
}

// CookiePath returns the configured cookies.txt path, falling back to a
// project-local cookies.txt when present. Empty means no cookies.
func (c *Config) CookiePath() string {
	if path := strings.TrimSpace(c.Paths.CookieFile); path != "" {
		return path
	}
	if local, err := filepath.Abs("cookies.txt"); err == nil {
		if info, statErr := os.Stat(local); statErr == nil && !info.IsDir() {
			return local
		}
	}
	return ""
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	sample := sampleConfig

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
