package config

const (
	defaultOutputDir        = "output"
	defaultWorkDir          = "~/.local/share/v2t/work"
	defaultLogDir           = "~/.local/share/v2t/logs"
	defaultEngine           = "whisper"
	defaultTask             = "transcribe"
	defaultDevice           = "cpu"
	defaultWhisperModel     = "small"
	defaultWhisperBeamSize  = 5
	defaultFunASRVariant    = "sense-voice"
	defaultFFmpegBinary     = "ffmpeg"
	defaultYtDlpBinary      = "yt-dlp"
	defaultUvBinary         = "uv"
	defaultNotifyTimeout    = 10
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultLogRetentionDays = 30
)

func defaultFormats() []string {
	return []string{"txt"}
}

func defaultVideoExtensions() []string {
	return []string{".mp4", ".mkv", ".webm", ".mov", ".avi", ".flv", ".m4v", ".ts", ".wmv"}
}

func defaultAudioExtensions() []string {
	return []string{".mp3", ".wav", ".m4a", ".flac", ".aac", ".ogg", ".opus", ".wma"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir: defaultOutputDir,
			WorkDir:   defaultWorkDir,
			LogDir:    defaultLogDir,
		},
		Transcription: Transcription{
			Engine:  defaultEngine,
			Task:    defaultTask,
			Device:  defaultDevice,
			Formats: defaultFormats(),
		},
		Whisper: Whisper{
			Model:    defaultWhisperModel,
			BeamSize: defaultWhisperBeamSize,
		},
		FunASR: FunASR{
			Variant: defaultFunASRVariant,
		},
		Scan: Scan{
			VideoExtensions: defaultVideoExtensions(),
			AudioExtensions: defaultAudioExtensions(),
		},
		Tools: Tools{
			FFmpeg: defaultFFmpegBinary,
			YtDlp:  defaultYtDlpBinary,
			Uv:     defaultUvBinary,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
