// Package selection holds the user's filter choices.
package selection

import (
	"fmt"
	"strings"

	"github.com/shivrajanand/CCMT-ProgramFinder2024Dataset/internal/domain"
	"github.com/shivrajanand/CCMT-ProgramFinder2024Dataset/internal/domain/institute"
	"github.com/shivrajanand/CCMT-ProgramFinder2024Dataset/internal/domain/program"
)

// Selection defaults and sentinels.
const (
	// AllInstitutes disables the institute-type stage.
	AllInstitutes = "ALL"
	// AllCategories disables the category stage.
	AllCategories  = "All"
	DefaultCeiling = 1000
)

// Selection is a validated, immutable set of filter choices.
type Selection struct {
	instituteType institute.Type // empty = all
	programs      []string
	quick         program.QuickFilter
	category      string // empty = all
	ceiling       int
}

// Default returns the selection that filters nothing but the score ceiling.
func Default() Selection {
	return Selection{quick: program.QuickNone, ceiling: DefaultCeiling}
}

// New validates and normalizes filter choices.
// Empty instituteType, quick and category select their "all" value.
func New(instituteType string, programs []string, quick, category string, ceiling int) (Selection, error) {
	var t institute.Type
	if it := strings.TrimSpace(instituteType); it != "" && !strings.EqualFold(it, AllInstitutes) {
		parsed, ok := institute.ParseType(it)
		if !ok {
			return Selection{}, fmt.Errorf("%w: unknown institute type %q", domain.ErrInvalidSelection, instituteType)
		}
		t = parsed
	}

	q, ok := program.ParseQuickFilter(quick)
	if !ok {
		return Selection{}, fmt.Errorf("%w: unknown quick filter %q", domain.ErrInvalidSelection, quick)
	}

	if ceiling < 0 {
		return Selection{}, fmt.Errorf("%w: score ceiling must be non-negative, got %d",
			domain.ErrInvalidSelection, ceiling)
	}

	cat := category
	if strings.TrimSpace(cat) == "" || cat == AllCategories {
		cat = ""
	}

	return Selection{
		instituteType: t,
		programs:      normalizePrograms(programs),
		quick:         q,
		category:      cat,
		ceiling:       ceiling,
	}, nil
}

// InstituteType returns the chosen type and false when all types are selected.
func (s Selection) InstituteType() (institute.Type, bool) {
	return s.instituteType, s.instituteType != ""
}

// InstituteChoice returns the wire value of the institute choice.
func (s Selection) InstituteChoice() string {
	if s.instituteType == "" {
		return AllInstitutes
	}
	return string(s.instituteType)
}

// Programs returns the explicitly chosen program names.
func (s Selection) Programs() []string { return s.programs }

// QuickFilter returns the quick program filter.
func (s Selection) QuickFilter() program.QuickFilter {
	if s.quick == "" {
		return program.QuickNone
	}
	return s.quick
}

// Category returns the chosen category and false when all categories are selected.
func (s Selection) Category() (string, bool) {
	return s.category, s.category != ""
}

// CategoryChoice returns the wire value of the category choice.
func (s Selection) CategoryChoice() string {
	if s.category == "" {
		return AllCategories
	}
	return s.category
}

// Ceiling returns the maximum accepted minimum score.
func (s Selection) Ceiling() int { return s.ceiling }

// normalizePrograms drops blank names and duplicates, keeping first-seen order.
func normalizePrograms(programs []string) []string {
	if len(programs) == 0 {
		return nil
	}
	out := make([]string, 0, len(programs))
	seen := make(map[string]struct{}, len(programs))
	for _, p := range programs {
		if strings.TrimSpace(p) == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
