// Package resolve turns classified inputs into transcribable audio assets.
//
// Remote URLs are downloaded into the run workspace; local videos have
// their audio track extracted alongside the original; local audio passes
// through untouched. The returned asset records whether its audio file is
// an intermediate the batch must delete afterwards, which is never the
// case for a user's own file.
package resolve

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"v2t/internal/inputs"
	"v2t/internal/media"
	"v2t/internal/services"
	"v2t/internal/services/ytdlp"
)

// Asset is a ready-to-transcribe audio file plus naming metadata.
type Asset struct {
	// AudioPath is the file handed to the engine.
	AudioPath string
	// Label names the asset in output files and logs: the platform title
	// for remote inputs, the file stem for local ones.
	Label string
	// StableID is the platform video identifier for remote inputs.
	StableID string
	// SourcePath is the original local file, when there is one.
	SourcePath string
	// Cleanup reports whether AudioPath is an intermediate to delete once
	// the item finishes.
	Cleanup bool
}

// Downloader fetches remote audio. *ytdlp.Client satisfies it.
type Downloader interface {
	FetchAudio(ctx context.Context, url, destDir, cookieFile string) (ytdlp.DownloadResult, error)
}

// Extractor pulls the audio track out of a local video file.
type Extractor interface {
	ExtractAudio(ctx context.Context, source, dest string) error
}

// Resolver builds assets from classified inputs.
type Resolver struct {
	Downloader Downloader
	Extractor  Extractor
	Extensions *inputs.Extensions
	// WorkDir receives downloaded audio.
	WorkDir string
	// CookieFile is handed to the downloader when set.
	CookieFile string
	// KeepIntermediates disables deletion of downloaded and extracted audio.
	KeepIntermediates bool
}

// Remote downloads the URL's audio and labels the asset with the
// platform's title and stable video ID.
func (r *Resolver) Remote(ctx context.Context, url string) (*Asset, error) {
	result, err := r.Downloader.FetchAudio(ctx, url, r.WorkDir, r.CookieFile)
	if err != nil {
		return nil, services.Wrap(services.ErrResolution, "resolve", "download",
			fmt.Sprintf("download failed for %s", url), err)
	}
	label := strings.TrimSpace(result.Title)
	if label == "" {
		label = "Untitled"
	}
	return &Asset{
		AudioPath: result.Path,
		Label:     label,
		StableID:  result.ID,
		Cleanup:   !r.KeepIntermediates,
	}, nil
}

// Local turns an existing media file into an asset, extracting the audio
// track first when the file is a video.
func (r *Resolver) Local(ctx context.Context, path string) (*Asset, error) {
	switch r.Extensions.MediaType(path) {
	case inputs.MediaAudio:
		// The user's own file is never an intermediate.
		return &Asset{
			AudioPath:  path,
			Label:      stem(path),
			SourcePath: path,
			Cleanup:    false,
		}, nil
	case inputs.MediaVideo:
		dest := media.AudioPath(path)
		if err := r.Extractor.ExtractAudio(ctx, path, dest); err != nil {
			// Do not leave a half-written track next to the source.
			_ = os.Remove(dest)
			return nil, services.Wrap(services.ErrResolution, "resolve", "extract audio",
				fmt.Sprintf("audio extraction failed for %s", filepath.Base(path)), err)
		}
		return &Asset{
			AudioPath:  dest,
			Label:      stem(path),
			SourcePath: path,
			Cleanup:    !r.KeepIntermediates,
		}, nil
	default:
		return nil, services.Wrap(services.ErrResolution, "resolve", "inspect",
			fmt.Sprintf("unsupported media extension %q", filepath.Ext(path)), nil)
	}
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
