// Package pipeline narrows the program table through the filter stages.
package pipeline

import (
	"sort"

	"github.com/shivrajanand/CCMT-ProgramFinder2024Dataset/internal/domain/program"
	"github.com/shivrajanand/CCMT-ProgramFinder2024Dataset/internal/domain/record"
	"github.com/shivrajanand/CCMT-ProgramFinder2024Dataset/internal/domain/selection"
)

// Stage names, in application order.
const (
	StageInstituteType = "institute_type"
	StageQuickFilter   = "quick_filter"
	StagePrograms      = "programs"
	StageCategory      = "category"
	StageScoreCeiling  = "score_ceiling"
)

// StageReport records how many rows entered and left a stage.
type StageReport struct {
	Name string
	In   int
	Out  int
}

// Result is the narrowed view produced by Run.
type Result struct {
	records []record.Record
	stages  []StageReport
}

// Records returns the rows that passed every stage.
func (r Result) Records() []record.Record { return r.records }

// Count returns the number of rows that passed every stage.
func (r Result) Count() int { return len(r.records) }

// Stages returns per-stage row counts in application order.
func (r Result) Stages() []StageReport { return r.stages }

// Facets are the choices a UI can offer for the current selection.
type Facets struct {
	Programs   []string
	Categories []string
}

// Pipeline applies the filter stages with a fixed program-matching strategy.
// Pipeline holds no mutable state and is safe for concurrent use.
type Pipeline struct {
	matcher program.Matcher
}

// New creates a Pipeline.
func New(m program.Matcher) *Pipeline {
	return &Pipeline{matcher: m}
}

// Strategy returns the program-matching strategy in use.
func (p *Pipeline) Strategy() program.Strategy { return p.matcher.Strategy() }

// Run narrows records through every stage of sel, in order.
func (p *Pipeline) Run(records []record.Record, sel selection.Selection) Result {
	stages := make([]StageReport, 0, 5)
	step := func(name string, in []record.Record, out []record.Record) []record.Record {
		stages = append(stages, StageReport{Name: name, In: len(in), Out: len(out)})
		return out
	}

	cur := records
	cur = step(StageInstituteType, cur, byInstitute(cur, sel))
	cur = step(StageQuickFilter, cur, ByQuickFilter(cur, p.matcher, sel.QuickFilter()))
	cur = step(StagePrograms, cur, ByPrograms(cur, sel.Programs()))
	cur = step(StageCategory, cur, byCategory(cur, sel))
	cur = step(StageScoreCeiling, cur, ByScoreCeiling(cur, sel.Ceiling()))

	return Result{records: cur, stages: stages}
}

// Facets derives the program and category choices for sel. Programs come from
// the rows left after the institute-type stage, in first-seen order. Categories
// come from the rows left after the program stages, sorted.
func (p *Pipeline) Facets(records []record.Record, sel selection.Selection) Facets {
	afterInst := byInstitute(records, sel)
	afterProg := ByPrograms(ByQuickFilter(afterInst, p.matcher, sel.QuickFilter()), sel.Programs())

	programs := uniqueInOrder(afterInst, record.Record.PGProgram)
	categories := uniqueInOrder(afterProg, record.Record.Category)
	sort.Strings(categories)

	return Facets{Programs: programs, Categories: categories}
}

func byInstitute(records []record.Record, sel selection.Selection) []record.Record {
	t, ok := sel.InstituteType()
	return ByInstituteType(records, t, ok)
}

func byCategory(records []record.Record, sel selection.Selection) []record.Record {
	c, ok := sel.Category()
	return ByCategory(records, c, ok)
}

func uniqueInOrder(records []record.Record, field func(record.Record) string) []string {
	out := make([]string, 0)
	seen := make(map[string]struct{})
	for _, r := range records {
		v := field(r)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
