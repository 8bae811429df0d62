package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTranscription()
	c.normalizeWhisper()
	c.normalizeFunASR()
	c.normalizeScan()
	c.normalizeTools()
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		c.Paths.WorkDir = defaultWorkDir
	}
	if c.Paths.WorkDir, err = expandPath(c.Paths.WorkDir); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	c.Paths.CookieFile = strings.TrimSpace(c.Paths.CookieFile)
	if c.Paths.CookieFile != "" {
		if c.Paths.CookieFile, err = expandPath(c.Paths.CookieFile); err != nil {
			return fmt.Errorf("paths.cookie_file: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeTranscription() {
	c.Transcription.Engine = strings.ToLower(strings.TrimSpace(c.Transcription.Engine))
	if c.Transcription.Engine == "" {
		c.Transcription.Engine = defaultEngine
	}
	c.Transcription.Task = strings.ToLower(strings.TrimSpace(c.Transcription.Task))
	if c.Transcription.Task == "" {
		c.Transcription.Task = defaultTask
	}
	c.Transcription.Device = strings.ToLower(strings.TrimSpace(c.Transcription.Device))
	if c.Transcription.Device == "" {
		c.Transcription.Device = defaultDevice
	}
	c.Transcription.Language = strings.ToLower(strings.TrimSpace(c.Transcription.Language))
	c.Transcription.Formats = NormalizeFormats(c.Transcription.Formats)

	vocab := make([]string, 0, len(c.Transcription.Vocabulary))
	seen := make(map[string]struct{}, len(c.Transcription.Vocabulary))
	for _, term := range c.Transcription.Vocabulary {
		trimmed := strings.TrimSpace(term)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		vocab = append(vocab, trimmed)
	}
	c.Transcription.Vocabulary = vocab
}

// NormalizeFormats lowercases and deduplicates output format names,
// expanding the "all" shorthand. An empty list falls back to the default
// formats.
func NormalizeFormats(formats []string) []string {
	if len(formats) == 0 {
		return defaultFormats()
	}
	out := make([]string, 0, 2)
	seen := make(map[string]struct{}, 2)
	add := func(format string) {
		if _, ok := seen[format]; ok {
			return
		}
		seen[format] = struct{}{}
		out = append(out, format)
	}
	for _, format := range formats {
		switch strings.ToLower(strings.TrimSpace(format)) {
		case "":
			continue
		case "all":
			add("txt")
			add("srt")
		default:
			add(strings.ToLower(strings.TrimSpace(format)))
		}
	}
	if len(out) == 0 {
		return defaultFormats()
	}
	return out
}

func (c *Config) normalizeWhisper() {
	c.Whisper.Model = strings.ToLower(strings.TrimSpace(c.Whisper.Model))
	if c.Whisper.Model == "" {
		c.Whisper.Model = defaultWhisperModel
	}
	if c.Whisper.BeamSize <= 0 {
		c.Whisper.BeamSize = defaultWhisperBeamSize
	}
}

func (c *Config) normalizeFunASR() {
	variant := strings.ToLower(strings.TrimSpace(c.FunASR.Variant))
	switch variant {
	case "":
		variant = defaultFunASRVariant
	case "sensevoice", "sense_voice":
		variant = "sense-voice"
	case "paraformer_long":
		variant = "paraformer-long"
	}
	c.FunASR.Variant = variant
}

func (c *Config) normalizeScan() {
	c.Scan.VideoExtensions = normalizeExtensions(c.Scan.VideoExtensions, defaultVideoExtensions())
	c.Scan.AudioExtensions = normalizeExtensions(c.Scan.AudioExtensions, defaultAudioExtensions())
}

func normalizeExtensions(values []string, fallback []string) []string {
	if len(values) == 0 {
		return fallback
	}
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		ext := strings.ToLower(strings.TrimSpace(value))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if _, ok := seen[ext]; ok {
			continue
		}
		seen[ext] = struct{}{}
		out = append(out, ext)
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

func (c *Config) normalizeTools() {
	c.Tools.FFmpeg = strings.TrimSpace(c.Tools.FFmpeg)
	if c.Tools.FFmpeg == "" {
		c.Tools.FFmpeg = defaultFFmpegBinary
	}
	c.Tools.YtDlp = strings.TrimSpace(c.Tools.YtDlp)
	if c.Tools.YtDlp == "" {
		c.Tools.YtDlp = defaultYtDlpBinary
	}
	c.Tools.Uv = strings.TrimSpace(c.Tools.Uv)
	if c.Tools.Uv == "" {
		c.Tools.Uv = defaultUvBinary
	}
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}
