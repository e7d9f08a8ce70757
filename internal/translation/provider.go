package translation

import (
	"time"

	"go.uber.org/zap"

	"github.com/richxcame/chat-relay/pkg/config"
)

// FromConfig builds the translator for the configured mode. Real backends
// are wrapped with the resilience layer; unknown modes fall back to the mock.
func FromConfig(cfg *config.TranslationConfig, logger *zap.Logger) Translator {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second

	switch cfg.Mode {
	case "libretranslate":
		backend := NewLibreTranslate(cfg.BaseURL, cfg.APIKey, timeout)
		return NewResilient(backend, timeout, logger)
	default:
		return NewMock()
	}
}
