package ytdlp

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DownloadResult describes a completed audio download.
type DownloadResult struct {
	// Path is the final location of the converted audio file.
	Path string
	// Title is the media title as reported by the platform.
	Title string
	// ID is the platform's stable video identifier.
	ID string
}

// outputTemplate keeps the title and video ID recoverable from the file name
// even when metadata printing is unavailable.
const outputTemplate = "%(title)s_%(id)s.%(ext)s"

// FetchAudio downloads the best audio stream for url into destDir, converted
// to mp3. The cookie file is passed through when non-empty; sites that do not
// require authentication work without one.
func (c *Client) FetchAudio(ctx context.Context, url, destDir, cookieFile string) (DownloadResult, error) {
	var result DownloadResult
	if strings.TrimSpace(url) == "" {
		return result, errors.New("download: url required")
	}
	if destDir == "" {
		return result, errors.New("download: destination directory required")
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return result, fmt.Errorf("download: ensure destination: %w", err)
	}

	args := buildDownloadArgs(url, destDir, cookieFile)
	var lines []string
	if err := c.exec.Run(ctx, c.binary, args, func(line string) {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}); err != nil {
		return result, fmt.Errorf("download %s: %w", url, err)
	}

	// --print emits title and id during extraction, then the final file path
	// after the audio conversion moves it into place.
	if len(lines) < 3 {
		return result, fmt.Errorf("download %s: unexpected yt-dlp output (%d lines)", url, len(lines))
	}
	result.Title = lines[0]
	result.ID = lines[1]
	result.Path = lines[len(lines)-1]

	if _, err := os.Stat(result.Path); err != nil {
		return result, fmt.Errorf("download %s: reported file missing: %w", url, err)
	}
	return result, nil
}

func buildDownloadArgs(url, destDir, cookieFile string) []string {
	args := []string{
		"-f", "bestaudio/best",
		"-x",
		"--audio-format", "mp3",
		"--audio-quality", "192",
		"--restrict-filenames",
		"--no-playlist",
		"--no-simulate",
		"--no-progress",
		"--no-warnings",
		"--print", "title",
		"--print", "id",
		"--print", "after_move:filepath",
		"-o", filepath.Join(destDir, outputTemplate),
	}
	if cookieFile != "" {
		args = append(args, "--cookies", cookieFile)
	}
	return append(args, url)
}
