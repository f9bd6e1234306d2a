package chi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	gochi "github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shivrajanand/CCMT-ProgramFinder2024Dataset/internal/domain/institute"
	"github.com/shivrajanand/CCMT-ProgramFinder2024Dataset/internal/domain/pipeline"
	"github.com/shivrajanand/CCMT-ProgramFinder2024Dataset/internal/domain/program"
	"github.com/shivrajanand/CCMT-ProgramFinder2024Dataset/internal/domain/record"
	"github.com/shivrajanand/CCMT-ProgramFinder2024Dataset/internal/repository/session"
	finderuc "github.com/shivrajanand/CCMT-ProgramFinder2024Dataset/internal/usecase/finder"
	healthuc "github.com/shivrajanand/CCMT-ProgramFinder2024Dataset/internal/usecase/health"
)

type stubTables struct {
	tbl record.Table
	err error
}

func (s *stubTables) Table(_ context.Context) (record.Table, error) { return s.tbl, s.err }

func (s *stubTables) Ping(_ context.Context) error { return s.err }

func row(inst, prog, cat, score string) record.Record {
	return record.New(inst, prog, cat, score, institute.Classify(inst), []record.Field{{Name: "Round", Value: "1"}})
}

func testTable() record.Table {
	return record.NewTable(
		[]string{"Institute", "PG Program", "Category", "Min GATE Score", "Round"},
		[]record.Record{
			row("Indian Institute of Technology Delhi", "Computer Science & Engineering", "OPEN", "450"),
			row("Indian Institute of Technology Delhi", "Data Science", "OBC-NCL", "410"),
			row("National Institute of Technology, Warangal", "Computer Science & Engineering", "OPEN", "600"),
			row("National Institute of Technology, Warangal", "Civil Engineering", "SC", "N/A"),
			row("XYZ College", "Mechanical Engineering", "OPEN", "300"),
		},
	)
}

func newTestRouter(t *testing.T, tables *stubTables) http.Handler {
	t.Helper()

	store := session.NewMemory(time.Hour, time.Hour)
	t.Cleanup(store.Close)

	m, err := program.NewMatcher(program.Exact)
	require.NoError(t, err)

	finder := finderuc.New(tables, store, pipeline.New(m)).WithSourceNote("test data")
	health := healthuc.New(tables, store)

	r := gochi.NewRouter()
	NewServer(finder, health, zap.NewNop()).Register(r)
	return r
}

func do(t *testing.T, h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestListPrograms(t *testing.T) {
	h := newTestRouter(t, &stubTables{tbl: testTable()})

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"defaults", "", 4},
		{"institute type", "?institute_type=IIT", 2},
		{"lowercase institute type", "?institute_type=nit", 1},
		{"score ceiling", "?max_score=420", 2},
		{"category", "?category=OPEN", 3},
		{"all category", "?category=All", 4},
		{"explicit programs", "?program=Data%20Science&program=Mechanical%20Engineering", 2},
		{"cs quick filter", "?quick_filter=CS-programs", 2},
		{"zero ceiling", "?max_score=0", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodGet, "/api/v1/programs"+tt.query, nil)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			resp := decode[ProgramListResponse](t, rec)
			assert.Equal(t, tt.want, resp.Count)
			assert.Len(t, resp.Items, tt.want)
			assert.Len(t, resp.Stages, 5)
		})
	}
}

func TestListPrograms_ItemShape(t *testing.T) {
	h := newTestRouter(t, &stubTables{tbl: testTable()})

	rec := do(t, h, http.MethodGet, "/api/v1/programs?institute_type=OTHER", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[ProgramListResponse](t, rec)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, Program{
		Institute:     "XYZ College",
		InstituteType: "OTHER",
		PGProgram:     "Mechanical Engineering",
		Category:      "OPEN",
		MinScore:      "300",
		Extra:         map[string]string{"Round": "1"},
	}, resp.Items[0])
}

func TestListPrograms_BadRequests(t *testing.T) {
	h := newTestRouter(t, &stubTables{tbl: testTable()})

	tests := []struct {
		name  string
		query string
		code  ErrorCode
	}{
		{"unknown institute type", "?institute_type=IIM", ErrorCodeInvalidSelection},
		{"unknown quick filter", "?quick_filter=physics", ErrorCodeInvalidSelection},
		{"negative ceiling", "?max_score=-1", ErrorCodeInvalidSelection},
		{"non-numeric ceiling", "?max_score=lots", ErrorCodeBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodGet, "/api/v1/programs"+tt.query, nil)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.code, decode[ErrorResponse](t, rec).Code)
		})
	}
}

func TestListPrograms_DatasetUnavailable(t *testing.T) {
	h := newTestRouter(t, &stubTables{err: errors.New("open /data/programs.psv: permission denied")})

	rec := do(t, h, http.MethodGet, "/api/v1/programs", nil)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	resp := decode[ErrorResponse](t, rec)
	assert.Equal(t, ErrorCodeDatasetUnavailable, resp.Code)
	assert.NotContains(t, resp.Message, "/data/programs.psv")
}

func TestGetOptions(t *testing.T) {
	h := newTestRouter(t, &stubTables{tbl: testTable()})

	rec := do(t, h, http.MethodGet, "/api/v1/options?institute_type=IIT", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[OptionsResponse](t, rec)
	assert.Equal(t, []string{"ALL", "IIT", "NIT", "IIIT", "OTHER"}, resp.InstituteTypes)
	assert.Equal(t, []string{"None", "CS-programs", "AIML-programs"}, resp.QuickFilters)
	assert.Equal(t, []string{"Computer Science & Engineering", "Data Science"}, resp.Programs)
	assert.Equal(t, []string{"All", "OBC-NCL", "OPEN"}, resp.Categories)
}

func TestGetInfo(t *testing.T) {
	h := newTestRouter(t, &stubTables{tbl: testTable()})

	rec := do(t, h, http.MethodGet, "/api/v1/info", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[InfoResponse](t, rec)
	assert.Equal(t, Title, resp.Title)
	assert.Equal(t, 5, resp.Rows)
	assert.Equal(t, "exact", resp.Strategy)
	assert.Equal(t, "test data", resp.SourceNote)
	assert.Len(t, resp.Columns, 5)
}

func TestSessionLifecycle(t *testing.T) {
	h := newTestRouter(t, &stubTables{tbl: testTable()})

	rec := do(t, h, http.MethodPost, "/api/v1/sessions", nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[SessionResponse](t, rec)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "/api/v1/sessions/"+created.ID, rec.Header().Get("Location"))
	assert.Equal(t, Selection{
		InstituteType: "ALL",
		Programs:      []string{},
		QuickFilter:   "None",
		Category:      "All",
		MaxScore:      1000,
	}, created.Selection)

	path := "/api/v1/sessions/" + created.ID

	inst, ceiling := "IIT", 420
	rec = do(t, h, http.MethodPut, path, SelectionBody{InstituteType: &inst, MaxScore: &ceiling})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "IIT", decode[SessionResponse](t, rec).Selection.InstituteType)

	rec = do(t, h, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 420, decode[SessionResponse](t, rec).Selection.MaxScore)

	rec = do(t, h, http.MethodGet, path+"/programs", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[SessionProgramsResponse](t, rec)
	assert.Equal(t, created.ID, list.Session.ID)
	assert.Equal(t, 1, list.Count)

	rec = do(t, h, http.MethodDelete, path, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, http.MethodGet, path, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, ErrorCodeSessionNotFound, decode[ErrorResponse](t, rec).Code)
}

func TestCreateSession_InvalidBody(t *testing.T) {
	h := newTestRouter(t, &stubTables{tbl: testTable()})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, ErrorCodeBadRequest, decode[ErrorResponse](t, rec).Code)
}

func TestCreateSession_InvalidSelection(t *testing.T) {
	h := newTestRouter(t, &stubTables{tbl: testTable()})

	quick := "everything"
	rec := do(t, h, http.MethodPost, "/api/v1/sessions", SelectionBody{QuickFilter: &quick})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, ErrorCodeInvalidSelection, decode[ErrorResponse](t, rec).Code)
}

func TestUpdateSession_NotFound(t *testing.T) {
	h := newTestRouter(t, &stubTables{tbl: testTable()})

	rec := do(t, h, http.MethodPut, "/api/v1/sessions/nope", SelectionBody{})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthCheck(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		h := newTestRouter(t, &stubTables{tbl: testTable()})
		rec := do(t, h, http.MethodGet, "/health", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		resp := decode[HealthResponse](t, rec)
		assert.Equal(t, "ok", resp.Status)
		assert.Equal(t, map[string]string{"dataset": "ok", "sessions": "ok"}, resp.Checks)
	})

	t.Run("dataset down", func(t *testing.T) {
		h := newTestRouter(t, &stubTables{err: errors.New("missing file")})
		rec := do(t, h, http.MethodGet, "/health", nil)
		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "error", decode[HealthResponse](t, rec).Status)
	})
}
