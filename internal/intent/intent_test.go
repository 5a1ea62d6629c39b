// ABOUTME: Tests for rule matching, per-turn resolution and matchers
// ABOUTME: Uses a counting fake classifier to check the classifier is called at most once

package intent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingClassifier struct {
	calls int
	text  string
	preds []Prediction
	err   error
}

func (c *countingClassifier) Classify(ctx context.Context, text string) ([]Prediction, error) {
	c.calls++
	c.text = text
	return c.preds, c.err
}

func TestDefaultRules_Match(t *testing.T) {
	rs := MustRuleSet(DefaultRules()...)

	tests := []struct {
		text  string
		label string
		ok    bool
	}{
		{"search pictures of dogs", "search", true},
		{"Search Pics", "search", true},
		{"please share pictures with mom", "share", true},
		{"order prints", "order", true},
		{"help me", "help", true},
		{"HELP", "help", true},
		{"lang", "lang", true},
		{"I want pizza", "pizza", true},
		{"tell me about ai-102", "ai-102", true},
		{"show a thumbnail", "thumb", true},
		{"rich card please", "rich card", true},
		{"a card", "card", true},
		{"good morning", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			label, ok := rs.Match(tt.text)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.label, label)
		})
	}
}

func TestRuleSet_FirstMatchWins(t *testing.T) {
	rs := MustRuleSet(
		Rule{Label: "first", Pattern: "dog"},
		Rule{Label: "second", Pattern: "dogs"},
	)

	label, ok := rs.Match("dogs")
	require.True(t, ok)
	assert.Equal(t, "first", label)
	assert.Equal(t, []string{"first", "second"}, rs.Labels())
}

func TestNewRuleSet_Invalid(t *testing.T) {
	_, err := NewRuleSet(Rule{Label: "x", Pattern: "("})
	assert.Error(t, err)

	_, err = NewRuleSet(Rule{Label: "", Pattern: "x"})
	assert.Error(t, err)

	_, err = NewRuleSet(Rule{Label: "x"})
	assert.Error(t, err)
}

func TestResolution_RuleNeverCallsClassifier(t *testing.T) {
	c := &countingClassifier{preds: []Prediction{{Label: "OrderPic", Confidence: 0.99}}}
	res := NewResolution("help me", MustRuleSet(DefaultRules()...), c)

	in, err := res.Intent(t.Context())
	require.NoError(t, err)
	assert.Equal(t, Intent{Source: SourceRule, Label: "help", Confidence: 1}, in)

	for _, m := range []Matcher{ClassifierLabel("OrderPic"), ClassifierNone(), ClassifierAny()} {
		ok, err := m(t.Context(), res)
		require.NoError(t, err)
		assert.False(t, ok)
	}
	assert.Equal(t, 0, c.calls)
	assert.False(t, res.Classified())
}

func TestTranslatedResolution_RulesUseRawText(t *testing.T) {
	c := &countingClassifier{preds: []Prediction{{Label: "None", Confidence: 0.7}}}
	rules := MustRuleSet(DefaultRules()...)

	res := NewTranslatedResolution("search pictures de perros", "look for images of dogs", rules, c)
	in, err := res.Intent(t.Context())
	require.NoError(t, err)
	assert.Equal(t, Intent{Source: SourceRule, Label: "search", Confidence: 1}, in)
	assert.Equal(t, 0, c.calls)

	res = NewTranslatedResolution("quiero ayuda", "help me", rules, c)
	in, err = res.Intent(t.Context())
	require.NoError(t, err)
	assert.Equal(t, SourceClassifier, in.Source)
	assert.Equal(t, "help me", c.text)
	assert.Equal(t, "quiero ayuda", res.Raw())
}

func TestResolution_ClassifierCalledOnce(t *testing.T) {
	c := &countingClassifier{preds: []Prediction{
		{Label: "SharePic", Confidence: 0.2},
		{Label: "OrderPic", Confidence: 0.91},
	}}
	res := NewResolution("get me copies", MustRuleSet(DefaultRules()...), c)

	ok, err := ClassifierLabel("SharePic")(t.Context(), res)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = ClassifierLabel("OrderPic")(t.Context(), res)
	require.NoError(t, err)
	assert.True(t, ok)

	in, err := res.Intent(t.Context())
	require.NoError(t, err)
	assert.Equal(t, SourceClassifier, in.Source)
	assert.Equal(t, "OrderPic", in.Label)
	assert.InDelta(t, 0.91, in.Confidence, 1e-9)
	assert.Equal(t, 1, c.calls)
}

func TestClassifierNone_EmptyAndNoneAreEquivalent(t *testing.T) {
	rules := MustRuleSet(DefaultRules()...)

	for name, preds := range map[string][]Prediction{
		"empty": nil,
		"none":  {{Label: NoneLabel, Confidence: 0.7}},
	} {
		t.Run(name, func(t *testing.T) {
			res := NewResolution("blah", rules, &countingClassifier{preds: preds})
			ok, err := ClassifierNone()(t.Context(), res)
			require.NoError(t, err)
			assert.True(t, ok)
		})
	}
}

func TestResolution_ErrorIsRemembered(t *testing.T) {
	boom := errors.New("classifier unavailable")
	c := &countingClassifier{err: boom}
	res := NewResolution("blah", MustRuleSet(DefaultRules()...), c)

	_, err := ClassifierLabel("OrderPic")(t.Context(), res)
	assert.ErrorIs(t, err, boom)

	in, err := res.Intent(t.Context())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, SourceNone, in.Source)
	assert.Equal(t, 1, c.calls)
}

func TestResolution_NilClassifier(t *testing.T) {
	res := NewResolution("blah", MustRuleSet(DefaultRules()...), nil)

	in, err := res.Intent(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "none", in.String())
}

func TestAlways(t *testing.T) {
	ok, err := Always()(t.Context(), NewResolution("", nil, nil))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestClassifierFunc(t *testing.T) {
	var f Classifier = ClassifierFunc(func(ctx context.Context, text string) ([]Prediction, error) {
		return []Prediction{{Label: text}}, nil
	})
	preds, err := f.Classify(t.Context(), "Greeting")
	require.NoError(t, err)
	assert.Equal(t, "Greeting", preds[0].Label)
}
