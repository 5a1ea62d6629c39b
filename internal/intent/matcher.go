// ABOUTME: Matchers decide whether a route applies to a resolved message
// ABOUTME: Rule matchers are pure; classifier matchers trigger the memoized classifier call

package intent

import "context"

// Matcher reports whether a route applies.
type Matcher func(ctx context.Context, r *Resolution) (bool, error)

// RuleLabel matches when the first matching rule has label.
func RuleLabel(label string) Matcher {
	return func(ctx context.Context, r *Resolution) (bool, error) {
		got, ok := r.Rule()
		return ok && got == label, nil
	}
}

// ClassifierLabel matches when no rule matched and the top prediction is label.
func ClassifierLabel(label string) Matcher {
	return func(ctx context.Context, r *Resolution) (bool, error) {
		if _, ok := r.Rule(); ok {
			return false, nil
		}
		top, ok, err := r.Top(ctx)
		if err != nil {
			return false, err
		}
		return ok && top.Label == label, nil
	}
}

// ClassifierNone matches an empty classifier result and the None label alike.
func ClassifierNone() Matcher {
	return func(ctx context.Context, r *Resolution) (bool, error) {
		if _, ok := r.Rule(); ok {
			return false, nil
		}
		top, ok, err := r.Top(ctx)
		if err != nil {
			return false, err
		}
		return !ok || top.Label == NoneLabel, nil
	}
}

// ClassifierAny matches whenever no rule matched, after consulting the classifier.
func ClassifierAny() Matcher {
	return func(ctx context.Context, r *Resolution) (bool, error) {
		if _, ok := r.Rule(); ok {
			return false, nil
		}
		if _, err := r.Predictions(ctx); err != nil {
			return false, err
		}
		return true, nil
	}
}

// Always matches every message.
func Always() Matcher {
	return func(ctx context.Context, r *Resolution) (bool, error) {
		return true, nil
	}
}
