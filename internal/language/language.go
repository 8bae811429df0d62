package language

import "strings"

type entry struct {
	code2   string   // ISO 639-1 (2-letter); empty when none exists
	code3   string   // ISO 639-2 primary (3-letter)
	alt3    string   // ISO 639-2 alternate (e.g. "fre" vs "fra")
	display string   // Human-readable name
	words   []string // Full word forms (e.g. "english")
}

var languages = []entry{
	{"en", "eng", "", "English", []string{"english"}},
	{"zh", "zho", "chi", "Chinese", []string{"chinese", "mandarin"}},
	{"", "yue", "", "Cantonese", []string{"cantonese"}},
	{"ja", "jpn", "", "Japanese", []string{"japanese"}},
	{"ko", "kor", "", "Korean", []string{"korean"}},
	{"es", "spa", "", "Spanish", []string{"spanish"}},
	{"fr", "fra", "fre", "French", []string{"french"}},
	{"de", "deu", "ger", "German", []string{"german"}},
	{"it", "ita", "", "Italian", []string{"italian"}},
	{"pt", "por", "", "Portuguese", []string{"portuguese"}},
	{"ru", "rus", "", "Russian", []string{"russian"}},
	{"ar", "ara", "", "Arabic", []string{"arabic"}},
	{"hi", "hin", "", "Hindi", []string{"hindi"}},
	{"nl", "nld", "dut", "Dutch", []string{"dutch"}},
	{"pl", "pol", "", "Polish", []string{"polish"}},
	{"sv", "swe", "", "Swedish", []string{"swedish"}},
	{"vi", "vie", "", "Vietnamese", []string{"vietnamese"}},
	{"th", "tha", "", "Thai", []string{"thai"}},
	{"id", "ind", "", "Indonesian", []string{"indonesian"}},
}

// Index maps built at init time.
var (
	byCode2 map[string]*entry
	byCode3 map[string]*entry
	byWord  map[string]*entry
)

func init() {
	byCode2 = make(map[string]*entry, len(languages))
	byCode3 = make(map[string]*entry, len(languages)*2)
	byWord = make(map[string]*entry, len(languages))
	for i := range languages {
		e := &languages[i]
		if e.code2 != "" {
			byCode2[e.code2] = e
		}
		byCode3[e.code3] = e
		if e.alt3 != "" {
			byCode3[e.alt3] = e
		}
		for _, w := range e.words {
			byWord[w] = e
		}
	}
}

func lookup(code string) *entry {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return nil
	}
	if e, ok := byCode2[code]; ok {
		return e
	}
	if e, ok := byCode3[code]; ok {
		return e
	}
	if e, ok := byWord[code]; ok {
		return e
	}
	return nil
}

// IsAuto reports whether code requests automatic language detection.
func IsAuto(code string) bool {
	code = strings.ToLower(strings.TrimSpace(code))
	return code == "" || code == "auto"
}

// Normalize converts any recognized language code or word to the canonical
// short form the transcription engines accept: the ISO 639-1 code when one
// exists, otherwise the ISO 639-2 code (e.g. "yue" for Cantonese).
// Unrecognized 2- and 3-letter codes pass through lowercased; anything else
// returns empty string. Auto-detection requests normalize to empty string.
func Normalize(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if IsAuto(code) {
		return ""
	}
	if e := lookup(code); e != nil {
		if e.code2 != "" {
			return e.code2
		}
		return e.code3
	}
	if len(code) == 2 || len(code) == 3 {
		return code
	}
	return ""
}

// senseVoiceCodes is the language set understood by the SenseVoice model
// family. Anything outside it falls back to automatic detection.
var senseVoiceCodes = map[string]struct{}{
	"zh":  {},
	"en":  {},
	"yue": {},
	"ja":  {},
	"ko":  {},
}

// SenseVoiceCode maps a language request onto the set SenseVoice accepts,
// returning "auto" for detection requests and unsupported languages.
func SenseVoiceCode(code string) string {
	if IsAuto(code) {
		return "auto"
	}
	normalized := Normalize(code)
	if _, ok := senseVoiceCodes[normalized]; ok {
		return normalized
	}
	return "auto"
}

// DisplayName returns a human-readable language name for any recognized code.
// Auto-detection requests render as "Auto-detect"; unrecognized codes are
// returned uppercased.
func DisplayName(code string) string {
	if IsAuto(code) {
		return "Auto-detect"
	}
	if e := lookup(code); e != nil {
		return e.display
	}
	return strings.ToUpper(strings.TrimSpace(code))
}
