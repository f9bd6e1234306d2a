// Package record holds the program rows of the admission dataset.
package record

import (
	"math"
	"strconv"
	"strings"

	"github.com/shivrajanand/CCMT-ProgramFinder2024Dataset/internal/domain/institute"
)

// Field is an additional source column carried through for display.
type Field struct {
	Name  string
	Value string
}

// Record is an immutable value object for one row of the dataset.
type Record struct {
	institute     string
	pgProgram     string
	category      string
	minScore      string
	instituteType institute.Type
	extra         []Field
}

// New creates a Record. The institute type is derived by the caller's
// classifier at load time and stored alongside the raw fields.
func New(inst, pgProgram, category, minScore string, t institute.Type, extra []Field) Record {
	return Record{
		institute:     inst,
		pgProgram:     pgProgram,
		category:      category,
		minScore:      minScore,
		instituteType: t,
		extra:         extra,
	}
}

// Institute returns the official institute name.
func (r Record) Institute() string { return r.institute }

// PGProgram returns the program name.
func (r Record) PGProgram() string { return r.pgProgram }

// Category returns the reservation category code.
func (r Record) Category() string { return r.category }

// MinScore returns the raw minimum score text.
func (r Record) MinScore() string { return r.minScore }

// InstituteType returns the derived institute type.
func (r Record) InstituteType() institute.Type { return r.instituteType }

// Extra returns the non-core source columns in header order.
func (r Record) Extra() []Field { return r.extra }

// Score coerces the minimum score to a number.
// Empty, non-numeric and non-finite values report ok=false.
func (r Record) Score() (float64, bool) {
	return ParseScore(r.minScore)
}

// ParseScore coerces score text to a finite number.
func ParseScore(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Table is the loaded dataset: ordered header plus rows. Read-only after load.
type Table struct {
	header  []string
	records []Record
}

// NewTable creates a Table.
func NewTable(header []string, records []Record) Table {
	return Table{header: header, records: records}
}

// Header returns the source column names.
func (t Table) Header() []string { return t.header }

// Records returns the rows. Callers must not modify the returned slice.
func (t Table) Records() []Record { return t.records }

// Len returns the number of rows.
func (t Table) Len() int { return len(t.records) }
