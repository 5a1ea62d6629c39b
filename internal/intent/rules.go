// ABOUTME: Ordered regex rules evaluated against raw message text
// ABOUTME: First matching rule wins; patterns are compiled case-insensitive

package intent

import (
	"fmt"
	"regexp"
	"strings"
)

// Rule maps a pattern to an intent label.
type Rule struct {
	Label   string
	Pattern string
}

type compiledRule struct {
	label string
	re    *regexp.Regexp
}

// RuleSet is an immutable, ordered list of compiled rules.
type RuleSet struct {
	rules []compiledRule
}

// NewRuleSet compiles rules in order. Patterns match case-insensitively.
func NewRuleSet(rules ...Rule) (*RuleSet, error) {
	rs := &RuleSet{rules: make([]compiledRule, 0, len(rules))}
	for i, r := range rules {
		if strings.TrimSpace(r.Label) == "" {
			return nil, fmt.Errorf("rule %d: label is required", i)
		}
		if r.Pattern == "" {
			return nil, fmt.Errorf("rule %q: pattern is required", r.Label)
		}
		re, err := regexp.Compile("(?i)" + r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("rule %q: compiling pattern: %w", r.Label, err)
		}
		rs.rules = append(rs.rules, compiledRule{label: r.Label, re: re})
	}
	return rs, nil
}

// MustRuleSet is NewRuleSet for rules known at compile time.
func MustRuleSet(rules ...Rule) *RuleSet {
	rs, err := NewRuleSet(rules...)
	if err != nil {
		panic(err)
	}
	return rs
}

// Match returns the label of the first rule whose pattern matches anywhere in text.
func (rs *RuleSet) Match(text string) (string, bool) {
	if rs == nil {
		return "", false
	}
	for _, r := range rs.rules {
		if r.re.MatchString(text) {
			return r.label, true
		}
	}
	return "", false
}

// Labels returns rule labels in evaluation order.
func (rs *RuleSet) Labels() []string {
	labels := make([]string, len(rs.rules))
	for i, r := range rs.rules {
		labels[i] = r.label
	}
	return labels
}

// Len returns the number of rules.
func (rs *RuleSet) Len() int {
	return len(rs.rules)
}

// DefaultRules are the PictureBot rules in evaluation order.
func DefaultRules() []Rule {
	return []Rule{
		{Label: "search", Pattern: `search pictures?(.*)|search pics?(.*)`},
		{Label: "share", Pattern: `share pictures?(.*)|share pics?(.*)`},
		{Label: "order", Pattern: `order pictures?(.*)|order prints?(.*)|order pics?(.*)`},
		{Label: "help", Pattern: `help(.*)`},
		{Label: "lang", Pattern: `^\s*lang(uage)?\s*$`},
		{Label: "pizza", Pattern: `pizza`},
		{Label: "ai-102", Pattern: `ai-102`},
		{Label: "thumb", Pattern: `thumb(nail)?`},
		{Label: "rich card", Pattern: `rich card`},
		{Label: "card", Pattern: `\bcard\b`},
	}
}
