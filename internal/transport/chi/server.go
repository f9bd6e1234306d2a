package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	gochi "github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/shivrajanand/CCMT-ProgramFinder2024Dataset/internal/domain"
	"github.com/shivrajanand/CCMT-ProgramFinder2024Dataset/internal/domain/selection"
	finderuc "github.com/shivrajanand/CCMT-ProgramFinder2024Dataset/internal/usecase/finder"
	healthuc "github.com/shivrajanand/CCMT-ProgramFinder2024Dataset/internal/usecase/health"
	"github.com/shivrajanand/CCMT-ProgramFinder2024Dataset/internal/version"
)

// Title is the service title reported by GET /api/v1/info.
const Title = "CCMT Program Finder 2024"

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the finder HTTP API.
type Server struct {
	finder        *finderuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(finder *finderuc.Service, health *healthuc.Service, logger *zap.Logger) *Server {
	s := &Server{
		finder: finder,
		health: health,
		logger: logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidSelection, http.StatusBadRequest, ErrorCodeInvalidSelection),
		sentinelHandler(domain.ErrSessionNotFound, http.StatusNotFound, ErrorCodeSessionNotFound),
		sentinelHandler(domain.ErrDatasetUnavailable, http.StatusServiceUnavailable, ErrorCodeDatasetUnavailable),
	}
	return s
}

// Register mounts every route on r.
func (s *Server) Register(r gochi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route("/api/v1", func(r gochi.Router) {
		r.Get("/info", s.GetInfo)
		r.Get("/programs", s.ListPrograms)
		r.Get("/options", s.GetOptions)

		r.Post("/sessions", s.CreateSession)
		r.Route("/sessions/{id}", func(r gochi.Router) {
			r.Get("/", s.GetSession)
			r.Put("/", s.UpdateSession)
			r.Delete("/", s.DeleteSession)
			r.Get("/programs", s.ListSessionPrograms)
		})
	})
}

// GetInfo handles GET /api/v1/info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	info, err := s.finder.Info(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, InfoResponse{
		Title:      Title,
		Version:    version.Version,
		Rows:       info.Rows,
		Columns:    info.Columns,
		Strategy:   string(info.Strategy),
		SourceNote: info.SourceNote,
	})
}

// ListPrograms handles GET /api/v1/programs.
func (s *Server) ListPrograms(w http.ResponseWriter, r *http.Request) {
	sel, ok := s.bindSelection(w, r)
	if !ok {
		return
	}

	res, err := s.finder.Find(r.Context(), sel)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resultToDTO(res))
}

// GetOptions handles GET /api/v1/options.
func (s *Server) GetOptions(w http.ResponseWriter, r *http.Request) {
	sel, ok := s.bindSelection(w, r)
	if !ok {
		return
	}

	facets, err := s.finder.Options(r.Context(), sel)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, facetsToDTO(facets))
}

// CreateSession handles POST /api/v1/sessions.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	sel, ok := s.decodeSelection(w, r)
	if !ok {
		return
	}

	sess, err := s.finder.CreateSession(r.Context(), sel)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.Header().Set("Location", "/api/v1/sessions/"+sess.ID)
	writeJSON(w, http.StatusCreated, sessionToDTO(sess))
}

// GetSession handles GET /api/v1/sessions/{id}.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.finder.GetSession(r.Context(), gochi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sessionToDTO(sess))
}

// UpdateSession handles PUT /api/v1/sessions/{id}.
func (s *Server) UpdateSession(w http.ResponseWriter, r *http.Request) {
	sel, ok := s.decodeSelection(w, r)
	if !ok {
		return
	}

	sess, err := s.finder.UpdateSession(r.Context(), gochi.URLParam(r, "id"), sel)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sessionToDTO(sess))
}

// DeleteSession handles DELETE /api/v1/sessions/{id}.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.finder.DeleteSession(r.Context(), gochi.URLParam(r, "id")); err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListSessionPrograms handles GET /api/v1/sessions/{id}/programs.
func (s *Server) ListSessionPrograms(w http.ResponseWriter, r *http.Request) {
	sess, res, err := s.finder.FindForSession(r.Context(), gochi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, SessionProgramsResponse{
		Session:             sessionToDTO(sess),
		ProgramListResponse: resultToDTO(res),
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// selectionParams are the query parameters shared by the listing endpoints.
type selectionParams struct {
	InstituteType *string
	QuickFilter   *string
	Programs      *[]string
	Category      *string
	MaxScore      *int
}

// bindSelection binds the query string into a selection, writing a 400 on failure.
func (s *Server) bindSelection(w http.ResponseWriter, r *http.Request) (selection.Selection, bool) {
	var params selectionParams
	query := r.URL.Query()

	binds := []struct {
		name string
		dest any
	}{
		{"institute_type", &params.InstituteType},
		{"quick_filter", &params.QuickFilter},
		{"program", &params.Programs},
		{"category", &params.Category},
		{"max_score", &params.MaxScore},
	}
	for _, b := range binds {
		if err := runtime.BindQueryParameter("form", true, false, b.name, query, b.dest); err != nil {
			writeError(w, http.StatusBadRequest, ErrorCodeBadRequest,
				fmt.Sprintf("Invalid format for parameter %s", b.name))
			return selection.Selection{}, false
		}
	}

	body := SelectionBody{
		InstituteType: params.InstituteType,
		Programs:      params.Programs,
		QuickFilter:   params.QuickFilter,
		Category:      params.Category,
		MaxScore:      params.MaxScore,
	}
	sel, err := body.toDomain()
	if err != nil {
		s.handleDomainError(w, err)
		return selection.Selection{}, false
	}
	return sel, true
}

// decodeSelection reads an optional JSON selection body. An empty body yields the default selection.
func (s *Server) decodeSelection(w http.ResponseWriter, r *http.Request) (selection.Selection, bool) {
	var body SelectionBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return selection.Selection{}, false
	}

	sel, err := body.toDomain()
	if err != nil {
		s.handleDomainError(w, err)
		return selection.Selection{}, false
	}
	return sel, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a client-safe message without exposing internals.
// Invalid selections carry user input only, so their full message is returned.
func safeDomainMessage(err error) string {
	if errors.Is(err, domain.ErrInvalidSelection) {
		return err.Error()
	}
	sentinels := []error{
		domain.ErrSessionNotFound,
		domain.ErrDatasetUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}
