package deps

import "v2t/internal/config"

// All returns every external tool v2t can use, for status reporting.
func All(cfg *config.Config) []Requirement {
	return []Requirement{
		ffmpegRequirement(cfg),
		ytdlpRequirement(cfg, true),
		uvRequirement(cfg),
	}
}

// ForBatch returns the tools a transcription batch needs. yt-dlp is only
// required when the batch contains remote inputs.
func ForBatch(cfg *config.Config, hasRemote bool) []Requirement {
	reqs := []Requirement{
		ffmpegRequirement(cfg),
		uvRequirement(cfg),
	}
	if hasRemote {
		reqs = append(reqs, ytdlpRequirement(cfg, false))
	}
	return reqs
}

func ffmpegRequirement(cfg *config.Config) Requirement {
	return Requirement{
		Name:        "FFmpeg",
		Command:     cfg.FFmpegBinary(),
		Description: "Audio extraction from local video and yt-dlp's audio conversion",
	}
}

func ytdlpRequirement(cfg *config.Config, optional bool) Requirement {
	return Requirement{
		Name:        "yt-dlp",
		Command:     cfg.YtDlpBinary(),
		Description: "Remote media download and channel listing",
		Optional:    optional,
	}
}

func uvRequirement(cfg *config.Config) Requirement {
	return Requirement{
		Name:        "uv",
		Command:     cfg.UvBinary(),
		Description: "Bootstraps the Python transcription worker",
	}
}
