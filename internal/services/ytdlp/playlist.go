package ytdlp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// PlaylistEntry is one upload from a flat playlist listing. Flat extraction
// skips per-video pages, so timestamp, upload date, and uploader are best
// effort and may be absent depending on the platform.
type PlaylistEntry struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	URL        string  `json:"url"`
	Uploader   string  `json:"uploader"`
	Duration   float64 `json:"duration"`
	Timestamp  int64   `json:"timestamp"`
	UploadDate string  `json:"upload_date"`
}

// Playlist is a flat channel or playlist listing.
type Playlist struct {
	Title    string          `json:"title"`
	Uploader string          `json:"uploader"`
	Channel  string          `json:"channel"`
	Entries  []PlaylistEntry `json:"entries"`
}

// ChannelName returns the best available name for the listing's owner.
func (p *Playlist) ChannelName() string {
	for _, name := range []string{p.Uploader, p.Channel, p.Title} {
		if strings.TrimSpace(name) != "" {
			return name
		}
	}
	return ""
}

// ListUploads enumerates a channel or playlist URL without downloading.
// A positive limit caps enumeration server-side.
func (c *Client) ListUploads(ctx context.Context, url, cookieFile string, limit int) (*Playlist, error) {
	if strings.TrimSpace(url) == "" {
		return nil, errors.New("list uploads: url required")
	}

	args := []string{
		"-J",
		"--flat-playlist",
		"--no-progress",
		"--no-warnings",
	}
	if limit > 0 {
		args = append(args, "--playlist-end", strconv.Itoa(limit))
	}
	if cookieFile != "" {
		args = append(args, "--cookies", cookieFile)
	}
	args = append(args, url)

	var raw strings.Builder
	if err := c.exec.Run(ctx, c.binary, args, func(line string) {
		raw.WriteString(line)
	}); err != nil {
		return nil, fmt.Errorf("list uploads %s: %w", url, err)
	}

	var payload Playlist
	if err := json.Unmarshal([]byte(raw.String()), &payload); err != nil {
		return nil, fmt.Errorf("list uploads %s: parse playlist json: %w", url, err)
	}
	return &payload, nil
}
