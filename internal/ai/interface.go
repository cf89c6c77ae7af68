package ai

import (
	"context"
	"errors"
)

// ErrEmptyResponse is returned when the service answers without a usable text part
// (no candidates, no content, no parts, or a non-text first part).
var ErrEmptyResponse = errors.New("ai: response has no text part")

// TextGenerator is the generation service boundary: one prompt in, plain text out.
// Implementations make exactly one call per invocation and do not retry.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}
