// ABOUTME: Offline stand-ins used when a cognitive endpoint is not configured
// ABOUTME: Passthrough translation, an empty classifier and neutral sentiment

package cognitive

import (
	"context"

	"github.com/2389/picbot/internal/intent"
)

// PassthroughTranslator reports every message as English and never translates.
type PassthroughTranslator struct{}

func (PassthroughTranslator) Detect(ctx context.Context, text string) (string, error) {
	return "en", nil
}

func (PassthroughTranslator) Translate(ctx context.Context, text, from, to string) (string, error) {
	return text, nil
}

// EmptyClassifier never predicts an intent.
type EmptyClassifier struct{}

func (EmptyClassifier) Classify(ctx context.Context, text string) ([]intent.Prediction, error) {
	return nil, nil
}

// NeutralSentiment scores everything as neutral.
type NeutralSentiment struct{}

func (NeutralSentiment) Score(ctx context.Context, text string) (float64, error) {
	return NeutralScore, nil
}
