// Package videoinfo looks up video metadata (author, upload date, title)
// straight from YouTube and Bilibili watch pages.
//
// Watch pages embed the metadata several ways depending on rollout and
// region, so each field is resolved through a chain of page structures:
// meta tags first, then the JSON blobs the players ship, then rendered
// markup. A field that survives none of them reports "unknown" rather
// than failing the lookup.
package videoinfo

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"v2t/internal/logging"
	"v2t/internal/platform"
	"v2t/internal/services"
)

const (
	unknownField    = "unknown"
	dateLayout      = "2006-01-02"
	timestampLayout = "2006-01-02 15:04:05"
)

// Info is the metadata recovered for a single video.
type Info struct {
	Platform   platform.Platform `json:"platform"`
	VideoID    string            `json:"video_id"`
	Author     string            `json:"author"`
	UploadDate string            `json:"upload_date"`
	Title      string            `json:"title"`
	URL        string            `json:"url"`
}

// Result pairs one requested URL with its lookup outcome.
type Result struct {
	URL  string
	Info *Info
	Err  error
}

// Getter fetches watch pages and extracts metadata from them.
type Getter struct {
	// Client overrides the default HTTP client when set.
	Client *http.Client
	// CookieFile is an optional Netscape-format cookie jar attached to
	// every page request.
	CookieFile string
	Logger     *slog.Logger

	// videoURL rebuilds the canonical watch page for a detected video.
	// Overridable in tests.
	videoURL func(p platform.Platform, id string) string
}

// Lookup resolves metadata for a single video URL.
func (g *Getter) Lookup(ctx context.Context, rawURL string) (*Info, error) {
	p, id := platform.DetectVideo(rawURL)
	if p == platform.Unknown || id == "" {
		return nil, services.Wrap(services.ErrClassification, "videoinfo", "detect platform",
			fmt.Sprintf("unrecognized video url %q", rawURL), nil)
	}

	pageURL := g.pageURL(p, id)
	page, err := g.fetchPage(ctx, pageURL)
	if err != nil {
		return nil, services.Wrap(services.ErrResolution, "videoinfo", "fetch page",
			fmt.Sprintf("fetching %s", pageURL), err)
	}

	info := &Info{
		Platform:   p,
		VideoID:    id,
		Author:     unknownField,
		UploadDate: unknownField,
		URL:        pageURL,
	}
	switch p {
	case platform.Bilibili:
		extractBilibili(page, info)
	case platform.YouTube:
		extractYouTube(page, info)
	}
	if info.Title == "" {
		info.Title = unknownField
	}
	return info, nil
}

// LookupAll resolves every URL in order. One failed lookup never stops
// the others; the returned slice always has one Result per input.
func (g *Getter) LookupAll(ctx context.Context, urls []string) []Result {
	results := make([]Result, 0, len(urls))
	for _, raw := range urls {
		if err := ctx.Err(); err != nil {
			results = append(results, Result{URL: raw, Err: err})
			continue
		}
		info, err := g.Lookup(ctx, raw)
		if err != nil {
			g.logger().Warn("video info lookup failed",
				logging.String("url", raw),
				logging.Error(err))
		}
		results = append(results, Result{URL: raw, Info: info, Err: err})
	}
	return results
}

func (g *Getter) pageURL(p platform.Platform, id string) string {
	if g.videoURL != nil {
		return g.videoURL(p, id)
	}
	return platform.VideoURL(p, id)
}

func (g *Getter) logger() *slog.Logger {
	if g.Logger != nil {
		return g.Logger
	}
	return logging.NewNop()
}
