package textutil

import "strings"

// fileNameReplacer maps characters that are unsafe in filenames on at least
// one supported platform to underscores.
var fileNameReplacer = strings.NewReplacer(
	"\\", "_",
	"/", "_",
	"*", "_",
	"?", "_",
	":", "_",
	"\"", "_",
	"<", "_",
	">", "_",
	"|", "_",
)

// SanitizeFileName rewrites value so it is safe to use as a filename on the
// platforms we care about. Reserved punctuation becomes an underscore,
// control characters are dropped, and surrounding whitespace is trimmed.
func SanitizeFileName(value string) string {
	replaced := fileNameReplacer.Replace(value)
	var b strings.Builder
	b.Grow(len(replaced))
	for _, r := range replaced {
		if r < 0x20 {
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}

// Truncate shortens value to at most max runes, appending an ellipsis when
// truncation occurs. Values of max below 4 return the untruncated string.
func Truncate(value string, max int) string {
	if max < 4 {
		return value
	}
	runes := []rune(value)
	if len(runes) <= max {
		return value
	}
	return string(runes[:max-3]) + "..."
}
