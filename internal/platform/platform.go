// Package platform identifies the video platforms v2t knows natively and
// extracts their stable video identifiers from URLs.
//
// Download and transcription work for any yt-dlp supported site; platform
// detection only refines metadata handling (listing APIs, page scraping,
// canonical URL forms) for YouTube and Bilibili.
package platform

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// Platform names a supported video site.
type Platform string

const (
	YouTube  Platform = "youtube"
	Bilibili Platform = "bilibili"
	Unknown  Platform = "unknown"
)

var bilibiliVideoPatterns = []*regexp.Regexp{
	regexp.MustCompile(`bilibili\.com/video/(BV\w+)`),
	regexp.MustCompile(`bilibili\.com/video/(av\d+)`),
	regexp.MustCompile(`b23\.tv/(\w+)`),
}

var youtubeVideoPatterns = []*regexp.Regexp{
	regexp.MustCompile(`youtube\.com/watch\?v=([\w-]+)`),
	regexp.MustCompile(`youtu\.be/([\w-]+)`),
	regexp.MustCompile(`youtube\.com/shorts/([\w-]+)`),
}

var (
	bilibiliSpacePattern    = regexp.MustCompile(`space\.bilibili\.com/(\d+)`)
	bilibiliSpaceAltPattern = regexp.MustCompile(`bilibili\.com/space/(\d+)`)
)

// Detect reports which platform hosts the given URL.
func Detect(rawURL string) Platform {
	lower := strings.ToLower(rawURL)
	switch {
	case strings.Contains(lower, "youtube.com"), strings.Contains(lower, "youtu.be"):
		return YouTube
	case strings.Contains(lower, "bilibili.com"), strings.Contains(lower, "b23.tv"):
		return Bilibili
	default:
		return Unknown
	}
}

// DetectVideo returns the platform and stable video identifier for a
// single-video URL. The identifier is empty when none can be extracted.
func DetectVideo(rawURL string) (Platform, string) {
	for _, pattern := range bilibiliVideoPatterns {
		if match := pattern.FindStringSubmatch(rawURL); match != nil {
			return Bilibili, match[1]
		}
	}
	for _, pattern := range youtubeVideoPatterns {
		if match := pattern.FindStringSubmatch(rawURL); match != nil {
			return YouTube, match[1]
		}
	}
	if parsed, err := url.Parse(rawURL); err == nil {
		if strings.Contains(strings.ToLower(parsed.Host), "youtube.com") {
			if id := parsed.Query().Get("v"); id != "" {
				return YouTube, id
			}
		}
	}
	return Detect(rawURL), ""
}

// IsRemote reports whether the string is an absolute http(s) URL. Any such URL
// is a candidate for download; yt-dlp covers far more sites than the two this
// package models explicitly.
func IsRemote(raw string) bool {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return false
	}
	return parsed.Host != ""
}

// NormalizeChannelURL canonicalizes a channel or author URL into the form
// whose page lists the uploads: YouTube channels gain a /videos suffix,
// Bilibili space URLs become space.bilibili.com/<uid>/video. Unrecognized
// URLs pass through unchanged.
func NormalizeChannelURL(rawURL string) string {
	trimmed := strings.TrimSpace(rawURL)
	switch Detect(trimmed) {
	case YouTube:
		if strings.Contains(trimmed, "/videos") {
			return trimmed
		}
		return strings.TrimRight(trimmed, "/") + "/videos"
	case Bilibili:
		if match := bilibiliSpacePattern.FindStringSubmatch(trimmed); match != nil {
			return fmt.Sprintf("https://space.bilibili.com/%s/video", match[1])
		}
		if match := bilibiliSpaceAltPattern.FindStringSubmatch(trimmed); match != nil {
			return fmt.Sprintf("https://space.bilibili.com/%s/video", match[1])
		}
		return trimmed
	default:
		return trimmed
	}
}

// BilibiliUID extracts the numeric space UID from a Bilibili author URL.
func BilibiliUID(rawURL string) (string, bool) {
	if match := bilibiliSpacePattern.FindStringSubmatch(rawURL); match != nil {
		return match[1], true
	}
	if match := bilibiliSpaceAltPattern.FindStringSubmatch(rawURL); match != nil {
		return match[1], true
	}
	return "", false
}

// VideoURL builds the canonical watch URL for a platform video ID.
func VideoURL(p Platform, videoID string) string {
	switch p {
	case YouTube:
		return "https://www.youtube.com/watch?v=" + videoID
	case Bilibili:
		return "https://www.bilibili.com/video/" + videoID
	default:
		return videoID
	}
}
