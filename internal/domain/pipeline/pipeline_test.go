package pipeline

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/shivrajanand/CCMT-ProgramFinder2024Dataset/internal/domain/institute"
	"github.com/shivrajanand/CCMT-ProgramFinder2024Dataset/internal/domain/program"
	"github.com/shivrajanand/CCMT-ProgramFinder2024Dataset/internal/domain/record"
	"github.com/shivrajanand/CCMT-ProgramFinder2024Dataset/internal/domain/selection"
)

var allowRecord = cmp.AllowUnexported(record.Record{})

func rec(inst, prog, cat, score string) record.Record {
	return record.New(inst, prog, cat, score, institute.Classify(inst), nil)
}

func fixture() []record.Record {
	return []record.Record{
		rec("Indian Institute of Technology Delhi", "Computer Science & Engineering", "OPEN", "450"),
		rec("Indian Institute of Technology Delhi", "Data Science", "OBC-NCL", "410"),
		rec("National Institute of Technology, Warangal", "Computer Science & Engineering", "OPEN", "600"),
		rec("National Institute of Technology, Warangal", "Civil Engineering", "SC", "N/A"),
		rec("Indian Institute of Information Technology, Allahabad", "Data Science & Engineering", "OPEN", "380"),
		rec("XYZ College", "Mechanical Engineering", "OPEN", "300"),
		rec("XYZ College", "Artificial Intelligence", "EWS", ""),
	}
}

func mustSel(t *testing.T, inst string, programs []string, quick, cat string, ceiling int) selection.Selection {
	t.Helper()
	s, err := selection.New(inst, programs, quick, cat, ceiling)
	if err != nil {
		t.Fatalf("selection.New: %v", err)
	}
	return s
}

func names(rs []record.Record) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.Institute() + "/" + r.PGProgram() + "/" + r.Category()
	}
	return out
}

func exactPipeline(t *testing.T) *Pipeline {
	t.Helper()
	m, err := program.NewMatcher(program.Exact)
	if err != nil {
		t.Fatal(err)
	}
	return New(m)
}

// --- stage tests ---

func TestByInstituteType(t *testing.T) {
	in := fixture()

	got := ByInstituteType(in, institute.NIT, true)
	if len(got) != 2 {
		t.Fatalf("NIT: got %d rows, want 2", len(got))
	}
	for _, r := range got {
		if r.InstituteType() != institute.NIT {
			t.Errorf("unexpected type %q", r.InstituteType())
		}
	}

	if got := ByInstituteType(in, institute.Other, true); len(got) != 2 {
		t.Errorf("OTHER: got %d rows, want 2", len(got))
	}
}

func TestByInstituteType_AllIsIdentity(t *testing.T) {
	in := fixture()
	got := ByInstituteType(in, "", false)
	if diff := cmp.Diff(in, got, allowRecord); diff != "" {
		t.Errorf("all should be identity (-want +got):\n%s", diff)
	}
}

func TestByQuickFilter(t *testing.T) {
	in := fixture()
	exact := program.NewExactList(program.CSPrograms, program.AIMLPrograms)

	if got := ByQuickFilter(in, exact, program.QuickNone); len(got) != len(in) {
		t.Errorf("none: got %d rows, want %d", len(got), len(in))
	}

	cs := ByQuickFilter(in, exact, program.QuickCS)
	want := []string{
		"Indian Institute of Technology Delhi/Computer Science & Engineering/OPEN",
		"National Institute of Technology, Warangal/Computer Science & Engineering/OPEN",
	}
	if diff := cmp.Diff(want, names(cs)); diff != "" {
		t.Errorf("cs (-want +got):\n%s", diff)
	}

	aiml := ByQuickFilter(in, exact, program.QuickAIML)
	if len(aiml) != 3 {
		t.Errorf("aiml: got %v", names(aiml))
	}
}

func TestByQuickFilter_Keyword(t *testing.T) {
	in := []record.Record{
		rec("A", "Data Science & Engineering", "OPEN", "100"),
		rec("B", "Civil Engineering", "OPEN", "100"),
	}
	got := ByQuickFilter(in, program.NewKeyword(), program.QuickAIML)
	if len(got) != 1 || got[0].PGProgram() != "Data Science & Engineering" {
		t.Errorf("got %v", names(got))
	}
}

func TestByPrograms(t *testing.T) {
	in := fixture()

	if got := ByPrograms(in, nil); len(got) != len(in) {
		t.Errorf("empty selection should be no-op, got %d rows", len(got))
	}

	got := ByPrograms(in, []string{"Data Science", "Civil Engineering", "Not Offered"})
	if len(got) != 2 {
		t.Errorf("got %v", names(got))
	}

	if got := ByPrograms(in, []string{"data science"}); len(got) != 0 {
		t.Errorf("match must be exact, got %v", names(got))
	}
}

func TestByCategory(t *testing.T) {
	in := fixture()

	if got := ByCategory(in, "", false); len(got) != len(in) {
		t.Errorf("all should be no-op, got %d rows", len(got))
	}
	if got := ByCategory(in, "OPEN", true); len(got) != 4 {
		t.Errorf("OPEN: got %v", names(got))
	}
	if got := ByCategory(in, "open", true); len(got) != 0 {
		t.Errorf("match must be exact, got %v", names(got))
	}
}

func TestByScoreCeiling(t *testing.T) {
	in := fixture()

	got := ByScoreCeiling(in, 410)
	want := []string{
		"Indian Institute of Technology Delhi/Data Science/OBC-NCL",
		"Indian Institute of Information Technology, Allahabad/Data Science & Engineering/OPEN",
		"XYZ College/Mechanical Engineering/OPEN",
	}
	if diff := cmp.Diff(want, names(got)); diff != "" {
		t.Errorf("ceiling 410 (-want +got):\n%s", diff)
	}
}

func TestByScoreCeiling_MalformedExcluded(t *testing.T) {
	in := []record.Record{
		rec("A", "P", "OPEN", "N/A"),
		rec("B", "P", "OPEN", ""),
		rec("C", "P", "OPEN", "999"),
	}
	got := ByScoreCeiling(in, 1000)
	if len(got) != 1 || got[0].Institute() != "C" {
		t.Errorf("got %v", names(got))
	}
}

func TestStages_DoNotMutateInput(t *testing.T) {
	in := fixture()
	snapshot := fixture()
	exact := program.NewExactList(program.CSPrograms, program.AIMLPrograms)

	_ = ByInstituteType(in, institute.IIT, true)
	_ = ByQuickFilter(in, exact, program.QuickCS)
	_ = ByPrograms(in, []string{"Data Science"})
	_ = ByCategory(in, "SC", true)
	_ = ByScoreCeiling(in, 0)

	if diff := cmp.Diff(snapshot, in, allowRecord); diff != "" {
		t.Errorf("input mutated (-want +got):\n%s", diff)
	}
}

// --- properties ---

func TestCategoryAndCeilingCommute(t *testing.T) {
	in := fixture()
	for _, cat := range []string{"OPEN", "SC", "EWS", "OBC-NCL"} {
		for _, ceiling := range []int{0, 300, 400, 450, 1000} {
			a := ByScoreCeiling(ByCategory(in, cat, true), ceiling)
			b := ByCategory(ByScoreCeiling(in, ceiling), cat, true)
			if diff := cmp.Diff(a, b, allowRecord); diff != "" {
				t.Errorf("cat=%s ceiling=%d do not commute:\n%s", cat, ceiling, diff)
			}
		}
	}
}

func TestScoreCeilingIsMonotonic(t *testing.T) {
	in := fixture()
	prev := map[string]bool{}
	for ceiling := 0; ceiling <= 1000; ceiling += 10 {
		cur := map[string]bool{}
		for _, n := range names(ByScoreCeiling(in, ceiling)) {
			cur[n] = true
		}
		for n := range prev {
			if !cur[n] {
				t.Fatalf("ceiling %d dropped %q", ceiling, n)
			}
		}
		prev = cur
	}
}

func TestRunIsIdempotent(t *testing.T) {
	p := exactPipeline(t)
	sels := []selection.Selection{
		selection.Default(),
		mustSel(t, "IIT", nil, "", "", 500),
		mustSel(t, "", nil, "AIML-programs", "OPEN", 1000),
		mustSel(t, "", []string{"Computer Science & Engineering"}, "CS-programs", "", 700),
	}
	for _, sel := range sels {
		first := p.Run(fixture(), sel)
		second := p.Run(first.Records(), sel)
		if diff := cmp.Diff(first.Records(), second.Records(), allowRecord); diff != "" {
			t.Errorf("not idempotent:\n%s", diff)
		}
	}
}

// --- end-to-end ---

func TestRun_IITUnderCeiling(t *testing.T) {
	in := []record.Record{
		rec("Indian Institute of Technology Delhi", "Computer Science & Engineering", "OPEN", "450"),
		rec("XYZ College", "Mechanical Engineering", "OPEN", "300"),
	}
	res := exactPipeline(t).Run(in, mustSel(t, "IIT", nil, "", "", 500))

	if res.Count() != 1 {
		t.Fatalf("Count() = %d, want 1", res.Count())
	}
	if diff := cmp.Diff(in[:1], res.Records(), allowRecord); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestRun_MalformedScoreExcluded(t *testing.T) {
	in := []record.Record{rec("XYZ College", "Civil Engineering", "OPEN", "N/A")}
	res := exactPipeline(t).Run(in, selection.Default())
	if res.Count() != 0 {
		t.Errorf("Count() = %d, want 0", res.Count())
	}
}

func TestRun_KeywordStrategy(t *testing.T) {
	in := []record.Record{
		rec("A", "Data Science & Engineering", "OPEN", "400"),
		rec("B", "Civil Engineering", "OPEN", "400"),
	}
	p := New(program.NewKeyword())
	res := p.Run(in, mustSel(t, "", nil, "AIML-programs", "", 1000))

	if res.Count() != 1 || res.Records()[0].PGProgram() != "Data Science & Engineering" {
		t.Errorf("got %v", names(res.Records()))
	}
	if p.Strategy() != program.Keyword {
		t.Errorf("Strategy() = %q", p.Strategy())
	}
}

func TestRun_QuickFilterAndProgramsCombine(t *testing.T) {
	res := exactPipeline(t).Run(fixture(),
		mustSel(t, "", []string{"Data Science", "Mechanical Engineering"}, "AIML-programs", "", 1000))

	want := []string{"Indian Institute of Technology Delhi/Data Science/OBC-NCL"}
	if diff := cmp.Diff(want, names(res.Records())); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestRun_StageReports(t *testing.T) {
	res := exactPipeline(t).Run(fixture(), mustSel(t, "NIT", nil, "", "OPEN", 500))

	want := []StageReport{
		{Name: StageInstituteType, In: 7, Out: 2},
		{Name: StageQuickFilter, In: 2, Out: 2},
		{Name: StagePrograms, In: 2, Out: 2},
		{Name: StageCategory, In: 2, Out: 1},
		{Name: StageScoreCeiling, In: 1, Out: 0},
	}
	if diff := cmp.Diff(want, res.Stages()); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestFacets(t *testing.T) {
	p := exactPipeline(t)

	f := p.Facets(fixture(), mustSel(t, "IIT", nil, "", "", 1000))
	if diff := cmp.Diff([]string{"Computer Science & Engineering", "Data Science"}, f.Programs); diff != "" {
		t.Errorf("programs (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"OBC-NCL", "OPEN"}, f.Categories); diff != "" {
		t.Errorf("categories (-want +got):\n%s", diff)
	}

	f = p.Facets(fixture(), mustSel(t, "", nil, "CS-programs", "", 1000))
	if len(f.Programs) != 6 {
		t.Errorf("programs should ignore the quick filter, got %v", f.Programs)
	}
	if diff := cmp.Diff([]string{"OPEN"}, f.Categories); diff != "" {
		t.Errorf("categories (-want +got):\n%s", diff)
	}
}
