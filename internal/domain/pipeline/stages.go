package pipeline

import (
	"github.com/shivrajanand/CCMT-ProgramFinder2024Dataset/internal/domain/institute"
	"github.com/shivrajanand/CCMT-ProgramFinder2024Dataset/internal/domain/program"
	"github.com/shivrajanand/CCMT-ProgramFinder2024Dataset/internal/domain/record"
)

// Each stage returns a new slice and never modifies records.
// An inactive stage returns records unchanged.

// ByInstituteType keeps records of type t. ok=false (all types) is a no-op.
func ByInstituteType(records []record.Record, t institute.Type, ok bool) []record.Record {
	if !ok {
		return records
	}
	return keep(records, func(r record.Record) bool {
		return r.InstituteType() == t
	})
}

// ByQuickFilter keeps records whose program the matcher assigns to q.
// QuickNone is a no-op.
func ByQuickFilter(records []record.Record, m program.Matcher, q program.QuickFilter) []record.Record {
	if q == program.QuickNone || q == "" {
		return records
	}
	return keep(records, func(r record.Record) bool {
		return m.Match(q, r.PGProgram())
	})
}

// ByPrograms keeps records whose program is one of programs. Empty is a no-op.
func ByPrograms(records []record.Record, programs []string) []record.Record {
	if len(programs) == 0 {
		return records
	}
	set := make(map[string]struct{}, len(programs))
	for _, p := range programs {
		set[p] = struct{}{}
	}
	return keep(records, func(r record.Record) bool {
		_, ok := set[r.PGProgram()]
		return ok
	})
}

// ByCategory keeps records with exactly category. ok=false (all) is a no-op.
func ByCategory(records []record.Record, category string, ok bool) []record.Record {
	if !ok {
		return records
	}
	return keep(records, func(r record.Record) bool {
		return r.Category() == category
	})
}

// ByScoreCeiling keeps records whose numeric minimum score is <= ceiling.
// Records whose score cannot be coerced never satisfy the ceiling.
func ByScoreCeiling(records []record.Record, ceiling int) []record.Record {
	limit := float64(ceiling)
	return keep(records, func(r record.Record) bool {
		v, ok := r.Score()
		return ok && v <= limit
	})
}

func keep(records []record.Record, pred func(record.Record) bool) []record.Record {
	out := make([]record.Record, 0, len(records))
	for _, r := range records {
		if pred(r) {
			out = append(out, r)
		}
	}
	return out
}
