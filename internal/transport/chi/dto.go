package chi

import (
	"github.com/shivrajanand/CCMT-ProgramFinder2024Dataset/internal/domain/institute"
	"github.com/shivrajanand/CCMT-ProgramFinder2024Dataset/internal/domain/pipeline"
	"github.com/shivrajanand/CCMT-ProgramFinder2024Dataset/internal/domain/program"
	"github.com/shivrajanand/CCMT-ProgramFinder2024Dataset/internal/domain/record"
	"github.com/shivrajanand/CCMT-ProgramFinder2024Dataset/internal/domain/selection"
	finderuc "github.com/shivrajanand/CCMT-ProgramFinder2024Dataset/internal/usecase/finder"
)

// ErrorCode is a machine-readable error identifier.
type ErrorCode string

// Error codes returned in ErrorResponse.
const (
	ErrorCodeBadRequest         ErrorCode = "bad_request"
	ErrorCodeInvalidSelection   ErrorCode = "invalid_selection"
	ErrorCodeSessionNotFound    ErrorCode = "session_not_found"
	ErrorCodeDatasetUnavailable ErrorCode = "dataset_unavailable"
	ErrorCodeInternalError      ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// InfoResponse is the body of GET /api/v1/info.
type InfoResponse struct {
	Title      string   `json:"title"`
	Version    string   `json:"version"`
	Rows       int      `json:"rows"`
	Columns    []string `json:"columns"`
	Strategy   string   `json:"strategy"`
	SourceNote string   `json:"source_note,omitempty"`
}

// Program is one row of the result table.
type Program struct {
	Institute     string            `json:"institute"`
	InstituteType string            `json:"institute_type"`
	PGProgram     string            `json:"pg_program"`
	Category      string            `json:"category"`
	MinScore      string            `json:"min_score"`
	Extra         map[string]string `json:"extra,omitempty"`
}

// StageCount reports rows entering and leaving one filter stage.
type StageCount struct {
	Name string `json:"name"`
	In   int    `json:"in"`
	Out  int    `json:"out"`
}

// ProgramListResponse is the body of the program listing endpoints.
type ProgramListResponse struct {
	Count  int          `json:"count"`
	Items  []Program    `json:"items"`
	Stages []StageCount `json:"stages"`
}

// OptionsResponse lists the choices a client can offer for the current selection.
type OptionsResponse struct {
	InstituteTypes []string `json:"institute_types"`
	QuickFilters   []string `json:"quick_filters"`
	Programs       []string `json:"programs"`
	Categories     []string `json:"categories"`
}

// SelectionBody is the wire form of a selection. Omitted fields take their defaults.
type SelectionBody struct {
	InstituteType *string   `json:"institute_type,omitempty"`
	Programs      *[]string `json:"programs,omitempty"`
	QuickFilter   *string   `json:"quick_filter,omitempty"`
	Category      *string   `json:"category,omitempty"`
	MaxScore      *int      `json:"max_score,omitempty"`
}

// Selection is the normalized selection echoed back to clients.
type Selection struct {
	InstituteType string   `json:"institute_type"`
	Programs      []string `json:"programs"`
	QuickFilter   string   `json:"quick_filter"`
	Category      string   `json:"category"`
	MaxScore      int      `json:"max_score"`
}

// SessionResponse is the body of the session endpoints.
type SessionResponse struct {
	ID        string    `json:"id"`
	Selection Selection `json:"selection"`
}

// SessionProgramsResponse is the body of GET /api/v1/sessions/{id}/programs.
type SessionProgramsResponse struct {
	Session SessionResponse `json:"session"`
	ProgramListResponse
}

func (b SelectionBody) toDomain() (selection.Selection, error) {
	ceiling := selection.DefaultCeiling
	if b.MaxScore != nil {
		ceiling = *b.MaxScore
	}
	var programs []string
	if b.Programs != nil {
		programs = *b.Programs
	}
	return selection.New(deref(b.InstituteType), programs, deref(b.QuickFilter), deref(b.Category), ceiling)
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func selectionToDTO(sel selection.Selection) Selection {
	programs := sel.Programs()
	if programs == nil {
		programs = []string{}
	}
	return Selection{
		InstituteType: sel.InstituteChoice(),
		Programs:      programs,
		QuickFilter:   string(sel.QuickFilter()),
		Category:      sel.CategoryChoice(),
		MaxScore:      sel.Ceiling(),
	}
}

func sessionToDTO(s finderuc.Session) SessionResponse {
	return SessionResponse{ID: s.ID, Selection: selectionToDTO(s.Selection)}
}

func programToDTO(r record.Record) Program {
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

func resultToDTO(res pipeline.Result) ProgramListResponse {
	items := make([]Program, 0, res.Count())
	for _, r := range res.Records() {
		items = append(items, programToDTO(r))
	}
	stages := make([]StageCount, 0, len(res.Stages()))
	for _, st := range res.Stages() {
		stages = append(stages, StageCount{Name: st.Name, In: st.In, Out: st.Out})
	}
	return ProgramListResponse{Count: res.Count(), Items: items, Stages: stages}
}

func facetsToDTO(f pipeline.Facets) OptionsResponse {
	types := []string{selection.AllInstitutes}
	for _, t := range institute.Types() {
		types = append(types, string(t))
	}
	quick := make([]string, 0, len(program.QuickFilters()))
	for _, q := range program.QuickFilters() {
		quick = append(quick, string(q))
	}
	categories := append([]string{selection.AllCategories}, f.Categories...)
	programs := f.Programs
	if programs == nil {
		programs = []string{}
	}
	return OptionsResponse{
		InstituteTypes: types,
		QuickFilters:   quick,
		Programs:       programs,
		Categories:     categories,
	}
}
