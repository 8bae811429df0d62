package textutil

import "testing"

func TestSanitizeFileNameReplacesReservedCharacters(t *testing.T) {
	got := SanitizeFileName(`What? A/B: "quoted" <tag> | pipe\`)
	want := "What_ A_B_ _quoted_ _tag_ _ pipe_"
	if got != want {
		t.Fatalf("SanitizeFileName() = %q, want %q", got, want)
	}
}

func TestSanitizeFileNameDropsControlCharacters(t *testing.T) {
	got := SanitizeFileName("bell\x07 and\ttab\nnewline")
	want := "bell andtabnewline"
	if got != want {
		t.Fatalf("SanitizeFileName() = %q, want %q", got, want)
	}
}

func TestSanitizeFileNameTrimsWhitespace(t *testing.T) {
	if got := SanitizeFileName("  padded title  "); got != "padded title" {
		t.Fatalf("SanitizeFileName() = %q, want %q", got, "padded title")
	}
}

func TestSanitizeFileNamePreservesUnicode(t *testing.T) {
	in := "中文标题 émigré"
	if got := SanitizeFileName(in); got != in {
		t.Fatalf("SanitizeFileName() = %q, want %q", got, in)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		value string
		max   int
		want  string
	}{
		{"short value untouched", "brief", 10, "brief"},
		{"exact length untouched", "exact", 5, "exact"},
		{"long value truncated", "a very long channel title", 12, "a very lo..."},
		{"tiny max untouched", "anything", 3, "anything"},
		{"multibyte runes counted", "中文字符串超过限制", 6, "中文字..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.value, tt.max); got != tt.want {
				t.Fatalf("Truncate(%q, %d) = %q, want %q", tt.value, tt.max, got, tt.want)
			}
		})
	}
}
