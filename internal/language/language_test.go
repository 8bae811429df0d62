package language

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		code string
		want string
	}{
		{"empty is auto", "", ""},
		{"auto keyword", "auto", ""},
		{"two letter passthrough", "en", "en"},
		{"three letter mapped", "eng", "en"},
		{"alternate three letter", "chi", "zh"},
		{"word form", "Japanese", "ja"},
		{"cantonese has no two letter code", "yue", "yue"},
		{"cantonese word form", "cantonese", "yue"},
		{"unknown two letter passthrough", "xx", "xx"},
		{"unknown three letter passthrough", "xyz", "xyz"},
		{"garbage rejected", "not-a-language", ""},
		{"whitespace trimmed", "  ko  ", "ko"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.code); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.code, got, tt.want)
			}
		})
	}
}

func TestIsAuto(t *testing.T) {
	for _, code := range []string{"", "auto", "AUTO", "  auto  "} {
		if !IsAuto(code) {
			t.Errorf("IsAuto(%q) = false, want true", code)
		}
	}
	for _, code := range []string{"en", "zh", "yue"} {
		if IsAuto(code) {
			t.Errorf("IsAuto(%q) = true, want false", code)
		}
	}
}

func TestSenseVoiceCode(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"", "auto"},
		{"auto", "auto"},
		{"zh", "zh"},
		{"chinese", "zh"},
		{"yue", "yue"},
		{"en", "en"},
		{"ja", "ja"},
		{"ko", "ko"},
		{"fr", "auto"},
		{"german", "auto"},
	}
	for _, tt := range tests {
		if got := SenseVoiceCode(tt.code); got != tt.want {
			t.Errorf("SenseVoiceCode(%q) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"", "Auto-detect"},
		{"auto", "Auto-detect"},
		{"en", "English"},
		{"zho", "Chinese"},
		{"yue", "Cantonese"},
		{"xx", "XX"},
	}
	for _, tt := range tests {
		if got := DisplayName(tt.code); got != tt.want {
			t.Errorf("DisplayName(%q) = %q, want %q", tt.code, got, tt.want)
		}
	}
}
