// Package ytdlp wraps the yt-dlp command line tool.
//
// This package handles:
//   - Audio download for remote media URLs (bestaudio, converted to mp3)
//   - Flat playlist listing for channel upload enumeration
//
// Downloads report the final file path, title, and platform video ID by
// parsing yt-dlp --print output, so no filesystem guessing is involved.
package ytdlp
