// Package intent resolves what a user wants from a single message.
//
// Resolution is layered. Ordered regex rules run first; the statistical
// classifier is consulted only when no rule matched; when neither produces a
// label the intent is "none".
//
//	rules := intent.MustRuleSet(intent.DefaultRules()...)
//	res := intent.NewResolution(text, rules, classifier)
//	in, err := res.Intent(ctx)
//
// When the message was translated for routing, NewTranslatedResolution keeps
// rules on the raw text and hands only the translation to the classifier.
//
// A Resolution memoizes both layers for one turn, so the classifier is called
// at most once per message no matter how many matchers consult it.
//
// Matchers turn a Resolution into a yes/no decision and are paired with
// handlers in an ordered route table by the bot package. Classifier-backed
// matchers never fire when a rule already matched.
package intent
