package inputs

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// MediaType distinguishes how a local file reaches the transcription engine.
type MediaType string

const (
	// MediaVideo needs its audio track extracted first.
	MediaVideo MediaType = "video"
	// MediaAudio passes through to the engine unchanged.
	MediaAudio MediaType = "audio"
	// MediaUnsupported cannot be transcribed.
	MediaUnsupported MediaType = "unsupported"
)

// Extensions holds the configured media extension sets. Lookup is
// case-insensitive and keyed on the full extension including the dot.
type Extensions struct {
	video map[string]struct{}
	audio map[string]struct{}
}

// NewExtensions builds the lookup sets from configured extension lists.
func NewExtensions(videoExts, audioExts []string) *Extensions {
	ext := &Extensions{
		video: make(map[string]struct{}, len(videoExts)),
		audio: make(map[string]struct{}, len(audioExts)),
	}
	for _, e := range videoExts {
		ext.video[normalizeExt(e)] = struct{}{}
	}
	for _, e := range audioExts {
		ext.audio[normalizeExt(e)] = struct{}{}
	}
	return ext
}

// MediaType classifies a path by its extension.
func (e *Extensions) MediaType(path string) MediaType {
	ext := strings.ToLower(filepath.Ext(path))
	if _, ok := e.video[ext]; ok {
		return MediaVideo
	}
	if _, ok := e.audio[ext]; ok {
		return MediaAudio
	}
	return MediaUnsupported
}

// Supported reports whether the path carries a known media extension.
func (e *Extensions) Supported(path string) bool {
	return e.MediaType(path) != MediaUnsupported
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// Scanner discovers media files beneath a folder.
type Scanner struct {
	Extensions *Extensions
	Recursive  bool
}

// Scan returns every supported media file under root in lexicographic path
// order. An empty or unreadable folder yields zero items rather than an
// error; unreadable subtrees are skipped.
func (s *Scanner) Scan(root string) []string {
	var files []string
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if !s.Recursive && path != root {
				return fs.SkipDir
			}
			return nil
		}
		if s.Extensions.Supported(path) {
			files = append(files, path)
		}
		return nil
	})
	sort.Strings(files)
	return files
}
