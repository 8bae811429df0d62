package funasr

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"v2t/internal/asr"
)

var (
	alphaTagPattern    = regexp.MustCompile(`<\|[a-zA-Z]+\|>`)
	timeTagPattern     = regexp.MustCompile(`<\|(\d+\.\d+)\|>`)
	sentenceEndPattern = regexp.MustCompile(`[.!?。！？]$`)
)

// maxSegmentRunes caps how much text accumulates before a segment is forced
// to close even without sentence-ending punctuation.
const maxSegmentRunes = 80

type timedToken struct {
	time float64
	text string
}

// parseSenseVoice converts the model's inline-tagged character stream into
// segments. Alpha tags carry language, emotion, and event labels and are
// dropped; numeric tags like <|1.23|> are second offsets that apply to the
// text following them.
func parseSenseVoice(raw string) []asr.Segment {
	clean := alphaTagPattern.ReplaceAllString(raw, "")

	var tokens []timedToken
	current := 0.0
	last := 0
	for _, m := range timeTagPattern.FindAllStringSubmatchIndex(clean, -1) {
		if text := strings.TrimSpace(clean[last:m[0]]); text != "" {
			tokens = append(tokens, timedToken{time: current, text: text})
		}
		if value, err := strconv.ParseFloat(clean[m[2]:m[3]], 64); err == nil {
			current = value
		}
		last = m[1]
	}
	if text := strings.TrimSpace(clean[last:]); text != "" {
		tokens = append(tokens, timedToken{time: current, text: text})
	}

	return mergeTokens(tokens)
}

// mergeTokens folds timed tokens into segments, closing a segment at
// sentence-ending punctuation or when the accumulated text grows too long.
// A segment ends where the next token starts; the final token's duration is
// estimated from its length.
func mergeTokens(tokens []timedToken) []asr.Segment {
	if len(tokens) == 0 {
		return nil
	}

	var segments []asr.Segment
	var parts []string
	joined := 0
	segStart := tokens[0].time

	for i, tok := range tokens {
		parts = append(parts, tok.text)
		joined += utf8.RuneCountInString(tok.text)

		if !sentenceEndPattern.MatchString(tok.text) && joined <= maxSegmentRunes {
			continue
		}

		end := tok.time + math.Max(1.0, float64(utf8.RuneCountInString(tok.text))*0.2)
		if i+1 < len(tokens) {
			end = tokens[i+1].time
		}
		segments = append(segments, asr.Segment{
			Start: segStart,
			End:   end,
			Text:  strings.Join(parts, ""),
		})
		if i+1 < len(tokens) {
			segStart = tokens[i+1].time
		}
		parts = nil
		joined = 0
	}

	if len(parts) > 0 {
		segments = append(segments, asr.Segment{
			Start: segStart,
			End:   tokens[len(tokens)-1].time + 1.0,
			Text:  strings.Join(parts, ""),
		})
	}
	return segments
}

// parseSentences maps the long-form pipeline's punctuated sentence list,
// whose offsets are in milliseconds, onto segments.
func parseSentences(sentences []rawSentence) []asr.Segment {
	segments := make([]asr.Segment, 0, len(sentences))
	for _, s := range sentences {
		text := strings.TrimSpace(s.Text)
		if text == "" {
			continue
		}
		segments = append(segments, asr.Segment{
			Start: s.Start / 1000,
			End:   s.End / 1000,
			Text:  text,
		})
	}
	return segments
}

// parseTokenTimestamps aligns paraformer's per-character millisecond spans
// with the recognized text. When alignment is impossible the whole result
// becomes a single segment.
func parseTokenTimestamps(text string, stamps [][]float64) []asr.Segment {
	runes := []rune(strings.ReplaceAll(text, " ", ""))
	aligned := len(runes) > 0 && len(stamps) == len(runes)
	if aligned {
		for _, pair := range stamps {
			if len(pair) < 2 {
				aligned = false
				break
			}
		}
	}
	if !aligned {
		return singleSegment(text, stamps)
	}

	var segments []asr.Segment
	var b strings.Builder
	count := 0
	segStart := stamps[0][0] / 1000

	for i, r := range runes {
		b.WriteRune(r)
		count++
		last := i == len(runes)-1
		if !last && count <= maxSegmentRunes && !sentenceEndPattern.MatchString(string(r)) {
			continue
		}
		segments = append(segments, asr.Segment{
			Start: segStart,
			End:   stamps[i][1] / 1000,
			Text:  b.String(),
		})
		b.Reset()
		count = 0
		if !last {
			segStart = stamps[i+1][0] / 1000
		}
	}
	return segments
}

func singleSegment(text string, stamps [][]float64) []asr.Segment {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}
	end := math.Max(1.0, float64(utf8.RuneCountInString(trimmed))*0.2)
	if n := len(stamps); n > 0 && len(stamps[n-1]) >= 2 {
		end = stamps[n-1][1] / 1000
	}
	return []asr.Segment{{Start: 0, End: end, Text: trimmed}}
}
