// Package language provides unified language code normalization and mapping.
//
// All language-related conversions (ISO 639 codes, display names, engine
// specific language sets) are consolidated here to avoid duplication across
// the transcription engines and report output.
package language
