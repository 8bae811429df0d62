package config

import (
	"errors"
	"fmt"

	"v2t/internal/language"
)

// EngineWhisper and EngineFunASR are the recognized transcription engines.
const (
	EngineWhisper = "whisper"
	EngineFunASR  = "funasr"
)

// FunASR variant names selectable via funasr.variant.
const (
	VariantSenseVoice     = "sense-voice"
	VariantParaformer     = "paraformer"
	VariantParaformerLong = "paraformer-long"
)

var whisperModels = map[string]struct{}{
	"tiny":     {},
	"base":     {},
	"small":    {},
	"medium":   {},
	"large-v3": {},
}

var funasrVariants = map[string]struct{}{
	VariantSenseVoice:     {},
	VariantParaformer:     {},
	VariantParaformerLong: {},
}

var devices = map[string]struct{}{
	"cpu":  {},
	"cuda": {},
	"auto": {},
}

// WhisperModels lists the accepted whisper model tiers in size order.
func WhisperModels() []string {
	return []string{"tiny", "base", "small", "medium", "large-v3"}
}

// FunASRVariants lists the accepted FunASR variants.
func FunASRVariants() []string {
	return []string{VariantSenseVoice, VariantParaformer, VariantParaformerLong}
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTranscription(); err != nil {
		return err
	}
	if err := c.validateWhisper(); err != nil {
		return err
	}
	if err := c.validateFunASR(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateTranscription() error {
	switch c.Transcription.Engine {
	case EngineWhisper, EngineFunASR:
	default:
		return fmt.Errorf("transcription.engine must be %q or %q, got %q", EngineWhisper, EngineFunASR, c.Transcription.Engine)
	}
	switch c.Transcription.Task {
	case "transcribe", "translate":
	default:
		return fmt.Errorf("transcription.task must be \"transcribe\" or \"translate\", got %q", c.Transcription.Task)
	}
	if _, ok := devices[c.Transcription.Device]; !ok {
		return fmt.Errorf("transcription.device must be \"cpu\", \"cuda\", or \"auto\", got %q", c.Transcription.Device)
	}
	for _, format := range c.Transcription.Formats {
		switch format {
		case "txt", "srt":
		default:
			return fmt.Errorf("transcription.formats entries must be \"txt\" or \"srt\", got %q", format)
		}
	}
	if !language.IsAuto(c.Transcription.Language) && language.Normalize(c.Transcription.Language) == "" {
		return fmt.Errorf("transcription.language %q is not a recognized language code", c.Transcription.Language)
	}
	return nil
}

func (c *Config) validateWhisper() error {
	if _, ok := whisperModels[c.Whisper.Model]; !ok {
		return fmt.Errorf("whisper.model must be one of %v, got %q", WhisperModels(), c.Whisper.Model)
	}
	if c.Whisper.BeamSize <= 0 {
		return errors.New("whisper.beam_size must be positive")
	}
	return nil
}

func (c *Config) validateFunASR() error {
	if _, ok := funasrVariants[c.FunASR.Variant]; !ok {
		return fmt.Errorf("funasr.variant must be one of %v, got %q", FunASRVariants(), c.FunASR.Variant)
	}
	return nil
}

func (c *Config) validateNotifications() error {
	if c.Notifications.RequestTimeout <= 0 {
		return errors.New("notifications.request_timeout must be positive")
	}
	return nil
}
