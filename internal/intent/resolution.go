// ABOUTME: Per-turn memo of rule matching and the classifier call
// ABOUTME: Guarantees the classifier runs at most once per message and only on demand

package intent

import (
	"context"
	"sort"
)

// Resolution resolves the intent of one message. Not safe for concurrent use.
type Resolution struct {
	raw        string
	text       string
	rules      *RuleSet
	classifier Classifier

	ruleDone  bool
	ruleLabel string
	ruleOK    bool

	classified  bool
	predictions []Prediction
	classifyErr error
}

// NewResolution prepares a resolution for text. classifier may be nil.
func NewResolution(text string, rules *RuleSet, classifier Classifier) *Resolution {
	return NewTranslatedResolution(text, text, rules, classifier)
}

// NewTranslatedResolution matches rules against the raw message and sends the
// translated text to the classifier.
func NewTranslatedResolution(raw, translated string, rules *RuleSet, classifier Classifier) *Resolution {
	return &Resolution{raw: raw, text: translated, rules: rules, classifier: classifier}
}

// Raw returns the text rules are matched against.
func (r *Resolution) Raw() string {
	return r.raw
}

// Text returns the text the classifier sees.
func (r *Resolution) Text() string {
	return r.text
}

// Rule returns the matching rule label, if any.
func (r *Resolution) Rule() (string, bool) {
	if !r.ruleDone {
		r.ruleLabel, r.ruleOK = r.rules.Match(r.raw)
		r.ruleDone = true
	}
	return r.ruleLabel, r.ruleOK
}

// Predictions calls the classifier once and returns its ranked results.
// A failed call is remembered and returned again without retrying.
func (r *Resolution) Predictions(ctx context.Context) ([]Prediction, error) {
	if r.classified {
		return r.predictions, r.classifyErr
	}
	r.classified = true

	if r.classifier == nil {
		return nil, nil
	}

	preds, err := r.classifier.Classify(ctx, r.text)
	if err != nil {
		r.classifyErr = err
		return nil, err
	}

	r.predictions = append([]Prediction(nil), preds...)
	sort.SliceStable(r.predictions, func(i, j int) bool {
		return r.predictions[i].Confidence > r.predictions[j].Confidence
	})
	return r.predictions, nil
}

// Top returns the highest ranked prediction. ok is false for an empty result.
func (r *Resolution) Top(ctx context.Context) (Prediction, bool, error) {
	preds, err := r.Predictions(ctx)
	if err != nil || len(preds) == 0 {
		return Prediction{}, false, err
	}
	return preds[0], true, nil
}

// Classified reports whether the classifier has been consulted.
func (r *Resolution) Classified() bool {
	return r.classified
}

// Intent resolves rule first, then classifier, then none.
func (r *Resolution) Intent(ctx context.Context) (Intent, error) {
	if label, ok := r.Rule(); ok {
		return Intent{Source: SourceRule, Label: label, Confidence: 1}, nil
	}

	top, ok, err := r.Top(ctx)
	if err != nil {
		return Intent{Source: SourceNone}, err
	}
	if !ok {
		return Intent{Source: SourceNone}, nil
	}
	return Intent{Source: SourceClassifier, Label: top.Label, Confidence: top.Confidence}, nil
}
