package inputs

import (
	"os"
	"path/filepath"
	"strings"

	"v2t/internal/platform"
)

// Kind is the classification of a raw batch argument.
type Kind string

const (
	// KindRemote is an absolute http(s) URL to hand to the downloader.
	KindRemote Kind = "remote"
	// KindLocalFile is an existing regular file.
	KindLocalFile Kind = "local-file"
	// KindLocalFolder is an existing directory to scan for media.
	KindLocalFolder Kind = "local-folder"
	// KindUnrecognized is anything else; the item fails classification.
	KindUnrecognized Kind = "unrecognized"
)

// Classify maps a raw argument to its kind. Existence checks run first so
// that a file whose name happens to parse as a URL is still a file.
func Classify(raw string) Kind {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return KindUnrecognized
	}
	if info, err := os.Stat(trimmed); err == nil {
		if info.IsDir() {
			return KindLocalFolder
		}
		if info.Mode().IsRegular() {
			return KindLocalFile
		}
	}
	if platform.IsRemote(trimmed) {
		return KindRemote
	}
	return KindUnrecognized
}

// IsURLList reports whether a local file should be read as a list of URLs
// rather than transcribed. Only plain .txt files qualify.
func IsURLList(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".txt")
}
