package translation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/richxcame/chat-relay/pkg/httpclient"
)

type libreTranslateRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
	APIKey string `json:"api_key,omitempty"`
}

type libreTranslateResponse struct {
	TranslatedText string `json:"translatedText"`
}

// LibreTranslate calls a LibreTranslate-compatible HTTP backend.
type LibreTranslate struct {
	client *httpclient.Client
	apiKey string
}

// NewLibreTranslate creates a provider for the given base URL. The API key
// may be empty for self-hosted instances.
func NewLibreTranslate(baseURL, apiKey string, timeout time.Duration) *LibreTranslate {
	client := httpclient.NewClient(baseURL, timeout)
	httpclient.WithDefaultRetry()(client)

	return &LibreTranslate{
		client: client,
		apiKey: apiKey,
	}
}

// Translate posts the text to /translate. The no-op cases (empty text or
// target, matching languages) short-circuit without a network call.
func (l *LibreTranslate) Translate(ctx context.Context, text, source, target string) (string, error) {
	if text == "" || target == "" {
		return text, nil
	}
	if source == target {
		return text, nil
	}
	if source == "" {
		source = "auto"
	}

	req := libreTranslateRequest{
		Q:      text,
		Source: source,
		Target: target,
		Format: "text",
		APIKey: l.apiKey,
	}

	body, err := l.client.Post(ctx, "/translate", req, nil)
	if err != nil {
		return "", fmt.Errorf("translate request: %w", err)
	}

	var resp libreTranslateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("decode translate response: %w", err)
	}
	if resp.TranslatedText == "" {
		return "", fmt.Errorf("empty translation for %s->%s", source, target)
	}

	return resp.TranslatedText, nil
}
