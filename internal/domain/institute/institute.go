// Package institute derives a coarse institute type from free-text institute names.
package institute

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Type is the derived institute classification.
type Type string

// Institute type constants.
const (
	IIT  Type = "IIT"
	IIIT Type = "IIIT"
	NIT  Type = "NIT"
	// Other is the catch-all for names no rule matches.
	Other Type = "OTHER"
)

// Types returns every institute type in display order.
func Types() []Type {
	return []Type{IIT, NIT, IIIT, Other}
}

// IsValid checks if the type is one of the supported values.
func (t Type) IsValid() bool {
	return t == IIT || t == IIIT || t == NIT || t == Other
}

// ParseType parses a type name case-insensitively.
func ParseType(s string) (Type, bool) {
	t := Type(strings.ToUpper(strings.TrimSpace(s)))
	return t, t.IsValid()
}

// Rule maps a lowercase phrase to a type.
type Rule struct {
	Phrase string
	Type   Type
}

// DefaultRules are evaluated in order; the first rule whose phrase is
// contained in the name wins.
var DefaultRules = []Rule{
	{Phrase: "indian institute of technology", Type: IIT},
	{Phrase: "indian institute of information technology", Type: IIIT},
	{Phrase: "national institute of technology", Type: NIT},
}

// Classifier is an ordered first-match rule evaluator. Safe for concurrent use.
type Classifier struct {
	rules []Rule
}

// NewClassifier creates a Classifier over rules, preserving their order.
// With no rules it uses DefaultRules.
func NewClassifier(rules ...Rule) *Classifier {
	if len(rules) == 0 {
		rules = DefaultRules
	}
	rs := make([]Rule, 0, len(rules))
	for _, r := range rules {
		if r.Phrase == "" {
			continue
		}
		rs = append(rs, Rule{Phrase: lower(r.Phrase), Type: r.Type})
	}
	return &Classifier{rules: rs}
}

// Classify returns the type of the first matching rule, or Other.
func (c *Classifier) Classify(name string) Type {
	n := lower(name)
	for _, r := range c.rules {
		if strings.Contains(n, r.Phrase) {
			return r.Type
		}
	}
	return Other
}

var defaultClassifier = NewClassifier()

// Classify classifies name with DefaultRules.
func Classify(name string) Type {
	return defaultClassifier.Classify(name)
}

// lower builds a fresh Caser per call: cases.Caser is stateful and must not
// be shared between goroutines.
func lower(s string) string {
	return cases.Lower(language.Und).String(s)
}
