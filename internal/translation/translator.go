package translation

import "context"

// Translator transforms message text from a source language to a target
// language. Implementations must be side-effect free: the relay renders
// per-recipient copies and never mutates the original message.
type Translator interface {
	Translate(ctx context.Context, text, source, target string) (string, error)
}
