package translation

import (
	"context"
	"fmt"
)

// Mock annotates text with a [source->target] marker instead of calling a
// real backend. Used for local development and demos.
type Mock struct{}

// NewMock creates the annotation translator.
func NewMock() *Mock {
	return &Mock{}
}

// Translate returns the text unchanged when it or the target language is
// empty, or when source and target match. Otherwise it prefixes the text
// with the language pair.
func (m *Mock) Translate(_ context.Context, text, source, target string) (string, error) {
	if text == "" || target == "" {
		return text, nil
	}
	if source == target {
		return text, nil
	}
	return fmt.Sprintf("[%s->%s] %s", source, target, text), nil
}
