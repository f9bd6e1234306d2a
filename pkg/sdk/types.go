package ccmtfinder

import (
	"github.com/shivrajanand/CCMT-ProgramFinder2024Dataset/internal/domain/institute"
	"github.com/shivrajanand/CCMT-ProgramFinder2024Dataset/internal/domain/pipeline"
	"github.com/shivrajanand/CCMT-ProgramFinder2024Dataset/internal/domain/program"
	"github.com/shivrajanand/CCMT-ProgramFinder2024Dataset/internal/domain/record"
	"github.com/shivrajanand/CCMT-ProgramFinder2024Dataset/internal/domain/selection"
	finderuc "github.com/shivrajanand/CCMT-ProgramFinder2024Dataset/internal/usecase/finder"
)

// Strategy controls how quick filters match program names.
type Strategy string

// Strategy constants.
const (
	StrategyExact   Strategy = Strategy(program.Exact)
	StrategyKeyword Strategy = Strategy(program.Keyword)
)

// Choice values that disable a stage.
const (
	AllInstitutes = selection.AllInstitutes
	AllCategories = selection.AllCategories
	NoQuickFilter = string(program.QuickNone)
)

// Selection is a set of filter choices.
// The zero value is not useful: MaxScore 0 excludes every scored row.
// Start from DefaultSelection.
type Selection struct {
	InstituteType string // "ALL", "IIT", "NIT", "IIIT" or "OTHER"
	Programs      []string
	QuickFilter   string // "None", "CS-programs" or "AIML-programs"
	Category      string // "All" or a category value
	MaxScore      int
}

// DefaultSelection returns the selection that filters nothing but the score ceiling.
func DefaultSelection() Selection {
	return Selection{
		InstituteType: AllInstitutes,
		QuickFilter:   NoQuickFilter,
		Category:      AllCategories,
		MaxScore:      selection.DefaultCeiling,
	}
}

// Program is one row of the dataset.
type Program struct {
	Institute     string
	InstituteType string
	PGProgram     string
	Category      string
	MinScore      string
	Extra         map[string]string // columns beyond the four core ones
}

// Stage reports how many rows entered and left one filter stage.
type Stage struct {
	Name string
	In   int
	Out  int
}

// Result is a filtered view of the dataset.
type Result struct {
	Count    int
	Programs []Program
	Stages   []Stage
}

// Options lists the choices valid under a selection.
type Options struct {
	InstituteTypes []string
	QuickFilters   []string
	Programs       []string
	Categories     []string
}

// Info describes the loaded dataset.
type Info struct {
	Rows       int
	Columns    []string
	Strategy   Strategy
	SourceNote string
}

// Session is a stored selection.
type Session struct {
	ID        string
	Selection Selection
}

func (s Selection) toDomain() (selection.Selection, error) {
	return selection.New(s.InstituteType, s.Programs, s.QuickFilter, s.Category, s.MaxScore)
}

func selectionFromDomain(sel selection.Selection) Selection {
	return Selection{
		InstituteType: sel.InstituteChoice(),
		Programs:      sel.Programs(),
		QuickFilter:   string(sel.QuickFilter()),
		Category:      sel.CategoryChoice(),
		MaxScore:      sel.Ceiling(),
	}
}

func sessionFromDomain(s finderuc.Session) Session {
	return Session{ID: s.ID, Selection: selectionFromDomain(s.Selection)}
}

func programFromRecord(r record.Record) Program {
	p := Program{
		Institute:     r.Institute(),
		InstituteType: string(r.InstituteType()),
		PGProgram:     r.PGProgram(),
		Category:      r.Category(),
		MinScore:      r.MinScore(),
	}
	if extra := r.Extra(); len(extra) > 0 {
		p.Extra = make(map[string]string, len(extra))
		for _, f := range extra {
			p.Extra[f.Name] = f.Value
		}
	}
	return p
}

func resultFromDomain(res pipeline.Result) Result {
	programs := make([]Program, 0, res.Count())
	for _, r := range res.Records() {
		programs = append(programs, programFromRecord(r))
	}
	stages := make([]Stage, 0, len(res.Stages()))
	for _, st := range res.Stages() {
		stages = append(stages, Stage(st))
	}
	return Result{Count: res.Count(), Programs: programs, Stages: stages}
}

func optionsFromFacets(f pipeline.Facets) Options {
	types := []string{AllInstitutes}
	for _, t := range institute.Types() {
		types = append(types, string(t))
	}
	quick := make([]string, 0, len(program.QuickFilters()))
	for _, q := range program.QuickFilters() {
		quick = append(quick, string(q))
	}
	return Options{
		InstituteTypes: types,
		QuickFilters:   quick,
		Programs:       f.Programs,
		Categories:     append([]string{AllCategories}, f.Categories...),
	}
}
