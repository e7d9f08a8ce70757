package language

import (
	"github.com/abadojack/whatlanggo"

	"github.com/richxcame/chat-relay/pkg/config"
)

// Whatlang runs trigram-based detection and falls back to the heuristic when
// the classifier is not confident. Enabled with DETECTOR_MODE=auto.
type Whatlang struct {
	fallback *Heuristic
}

// NewWhatlang creates a trigram detector with a heuristic fallback.
func NewWhatlang() *Whatlang {
	return &Whatlang{fallback: NewHeuristic()}
}

// Detect returns the ISO 639-1 code of the detected language, or the
// heuristic result when detection is unreliable.
func (w *Whatlang) Detect(text string) string {
	if text == "" {
		return LangAuto
	}

	info := whatlanggo.Detect(text)
	if !info.IsReliable() {
		return w.fallback.Detect(text)
	}

	code := info.Lang.Iso6391()
	if code == "" {
		return w.fallback.Detect(text)
	}
	return code
}

// NewFromConfig picks the detector for the configured mode. Unknown modes
// fall back to the heuristic.
func NewFromConfig(cfg *config.DetectorConfig) Detector {
	if cfg != nil && cfg.Mode == "auto" {
		return NewWhatlang()
	}
	return NewHeuristic()
}
