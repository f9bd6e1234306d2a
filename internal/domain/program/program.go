// Package program matches program names against the quick program filters.
package program

import (
	"fmt"
	"strings"
)

// QuickFilter selects a curated program family.
type QuickFilter string

// Quick filter constants.
const (
	QuickNone QuickFilter = "None"
	QuickCS   QuickFilter = "CS-programs"
	QuickAIML QuickFilter = "AIML-programs"
)

// QuickFilters returns every quick filter in display order.
func QuickFilters() []QuickFilter {
	return []QuickFilter{QuickNone, QuickCS, QuickAIML}
}

// IsValid checks if the quick filter is one of the supported values.
func (q QuickFilter) IsValid() bool {
	return q == QuickNone || q == QuickCS || q == QuickAIML
}

// ParseQuickFilter parses a quick filter case-insensitively. Empty means QuickNone.
func ParseQuickFilter(s string) (QuickFilter, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return QuickNone, true
	}
	for _, q := range QuickFilters() {
		if strings.EqualFold(s, string(q)) {
			return q, true
		}
	}
	return QuickFilter(s), false
}

// Strategy names a program-matching implementation.
type Strategy string

// Strategy constants.
const (
	// Exact keeps programs listed verbatim in the curated lists.
	Exact   Strategy = "exact"
	Keyword Strategy = "keyword"
)

// IsValid checks if the strategy is one of the supported values.
func (s Strategy) IsValid() bool {
	return s == Exact || s == Keyword
}

// Matcher decides whether a program belongs to a quick filter family.
// QuickNone matches every program.
type Matcher interface {
	Match(q QuickFilter, pgProgram string) bool
	Strategy() Strategy
}

// NewMatcher returns the matcher for strategy.
func NewMatcher(s Strategy) (Matcher, error) {
	switch s {
	case Exact:
		return NewExactList(CSPrograms, AIMLPrograms), nil
	case Keyword:
		return NewKeyword(), nil
	default:
		return nil, fmt.Errorf("unknown program match strategy %q", s)
	}
}

// ExactList matches by string equality against fixed program lists.
type ExactList struct {
	cs   map[string]struct{}
	aiml map[string]struct{}
}

// NewExactList builds an ExactList from the given CS and AI/ML lists.
func NewExactList(cs, aiml []string) *ExactList {
	return &ExactList{cs: toSet(cs), aiml: toSet(aiml)}
}

// Match implements Matcher.
func (m *ExactList) Match(q QuickFilter, pgProgram string) bool {
	switch q {
	case QuickCS:
		_, ok := m.cs[pgProgram]
		return ok
	case QuickAIML:
		_, ok := m.aiml[pgProgram]
		return ok
	default:
		return true
	}
}

// Strategy implements Matcher.
func (m *ExactList) Strategy() Strategy { return Exact }

// Keyword substrings per family, lowercase.
var (
	csKeywords   = []string{"computer"}
	aimlKeywords = []string{"data", "machine", "intelligence", "ai", "ml", "learning"}
)

// KeywordMatcher matches by case-insensitive substring containment.
type KeywordMatcher struct {
	cs   []string
	aiml []string
}

// NewKeyword creates a KeywordMatcher with the built-in keyword sets.
func NewKeyword() *KeywordMatcher {
	return &KeywordMatcher{cs: csKeywords, aiml: aimlKeywords}
}

// Match implements Matcher.
func (m *KeywordMatcher) Match(q QuickFilter, pgProgram string) bool {
	switch q {
	case QuickCS:
		return containsAny(strings.ToLower(pgProgram), m.cs)
	case QuickAIML:
		return containsAny(strings.ToLower(pgProgram), m.aiml)
	default:
		return true
	}
}

// Strategy implements Matcher.
func (m *KeywordMatcher) Strategy() Strategy { return Keyword }

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, it := range items {
		set[it] = struct{}{}
	}
	return set
}
