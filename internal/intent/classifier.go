// ABOUTME: Classifier contract and the transient Intent value produced per turn
// ABOUTME: The core only consumes ranked predictions; it never computes scores

package intent

import (
	"context"
	"fmt"
)

// NoneLabel is the classifier's explicit "no intent" label.
const NoneLabel = "None"

// Prediction is one ranked classifier result.
type Prediction struct {
	Label      string
	Confidence float64
}

// Classifier returns predictions ordered by confidence descending, possibly empty.
type Classifier interface {
	Classify(ctx context.Context, text string) ([]Prediction, error)
}

// ClassifierFunc adapts a function to Classifier.
type ClassifierFunc func(ctx context.Context, text string) ([]Prediction, error)

// Classify calls f.
func (f ClassifierFunc) Classify(ctx context.Context, text string) ([]Prediction, error) {
	return f(ctx, text)
}

// Source says which layer produced an Intent.
type Source string

const (
	SourceRule       Source = "rule"
	SourceClassifier Source = "classifier"
	SourceNone       Source = "none"
)

// Intent is the resolved intent for one turn. It is never persisted.
type Intent struct {
	Source     Source
	Label      string
	Confidence float64
}

func (i Intent) String() string {
	if i.Source == SourceNone {
		return "none"
	}
	return fmt.Sprintf("%s:%s(%.2f)", i.Source, i.Label, i.Confidence)
}
