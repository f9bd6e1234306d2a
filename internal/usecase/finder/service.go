// Package finder serves filtered program views over the loaded dataset.
package finder

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shivrajanand/CCMT-ProgramFinder2024Dataset/internal/domain"
	"github.com/shivrajanand/CCMT-ProgramFinder2024Dataset/internal/domain/pipeline"
	"github.com/shivrajanand/CCMT-ProgramFinder2024Dataset/internal/domain/program"
	"github.com/shivrajanand/CCMT-ProgramFinder2024Dataset/internal/domain/record"
	"github.com/shivrajanand/CCMT-ProgramFinder2024Dataset/internal/domain/selection"
	logpkg "github.com/shivrajanand/CCMT-ProgramFinder2024Dataset/internal/logger"
	"github.com/shivrajanand/CCMT-ProgramFinder2024Dataset/internal/metrics"
)

// Filter sources for metrics.
const (
	sourceQuery   = "query"
	sourceSession = "session"
)

// Session is a session id with its current selection.
type Session struct {
	ID        string
	Selection selection.Selection
}

// Info describes the loaded dataset.
type Info struct {
	Rows       int
	Columns    []string
	Strategy   program.Strategy
	SourceNote string
}

// Service filters the base table for stateless queries and sessions.
type Service struct {
	tables     TableSource
	sessions   SessionStore
	pipeline   *pipeline.Pipeline
	sourceNote string
	newID      func() string
}

// New creates a finder service.
func New(tables TableSource, sessions SessionStore, p *pipeline.Pipeline) *Service {
	return &Service{
		tables:   tables,
		sessions: sessions,
		pipeline: p,
		newID:    uuid.NewString,
	}
}

// WithSourceNote sets the data-source note returned by Info.
func (s *Service) WithSourceNote(note string) *Service {
	s.sourceNote = note
	return s
}

// Find runs the pipeline for sel.
func (s *Service) Find(ctx context.Context, sel selection.Selection) (pipeline.Result, error) {
	return s.run(ctx, sel, sourceQuery)
}

// Options returns the program and category choices available under sel.
func (s *Service) Options(ctx context.Context, sel selection.Selection) (pipeline.Facets, error) {
	tbl, err := s.table(ctx)
	if err != nil {
		return pipeline.Facets{}, err
	}
	return s.pipeline.Facets(tbl.Records(), sel), nil
}

// Info describes the dataset.
func (s *Service) Info(ctx context.Context) (Info, error) {
	tbl, err := s.table(ctx)
	if err != nil {
		return Info{}, err
	}
	return Info{
		Rows:       tbl.Len(),
		Columns:    tbl.Header(),
		Strategy:   s.pipeline.Strategy(),
		SourceNote: s.sourceNote,
	}, nil
}

// CreateSession starts a session with sel.
func (s *Service) CreateSession(ctx context.Context, sel selection.Selection) (Session, error) {
	id := s.newID()
	if err := s.sessions.Save(ctx, id, sel); err != nil {
		sessionOp("create", err)
		return Session{}, fmt.Errorf("create session: %w", err)
	}
	sessionOp("create", nil)
	logpkg.FromContext(ctx).Debug("session created", zap.String("session_id", id))
	return Session{ID: id, Selection: sel}, nil
}

// GetSession returns the session's current selection.
func (s *Service) GetSession(ctx context.Context, id string) (Session, error) {
	sel, err := s.sessions.Load(ctx, id)
	sessionOp("get", err)
	if err != nil {
		return Session{}, fmt.Errorf("get session: %w", err)
	}
	return Session{ID: id, Selection: sel}, nil
}

// UpdateSession replaces the session's selection. The session must exist.
func (s *Service) UpdateSession(ctx context.Context, id string, sel selection.Selection) (Session, error) {
	if _, err := s.sessions.Load(ctx, id); err != nil {
		sessionOp("update", err)
		return Session{}, fmt.Errorf("update session: %w", err)
	}
	if err := s.sessions.Save(ctx, id, sel); err != nil {
		sessionOp("update", err)
		return Session{}, fmt.Errorf("update session: %w", err)
	}
	sessionOp("update", nil)
	return Session{ID: id, Selection: sel}, nil
}

// DeleteSession ends the session.
func (s *Service) DeleteSession(ctx context.Context, id string) error {
	err := s.sessions.Delete(ctx, id)
	sessionOp("delete", err)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// FindForSession runs the pipeline for the session's stored selection.
func (s *Service) FindForSession(ctx context.Context, id string) (Session, pipeline.Result, error) {
	sess, err := s.GetSession(ctx, id)
	if err != nil {
		return Session{}, pipeline.Result{}, err
	}
	res, err := s.run(ctx, sess.Selection, sourceSession)
	if err != nil {
		return Session{}, pipeline.Result{}, err
	}
	return sess, res, nil
}

func (s *Service) run(ctx context.Context, sel selection.Selection, source string) (pipeline.Result, error) {
	tbl, err := s.table(ctx)
	if err != nil {
		return pipeline.Result{}, err
	}

	res := s.pipeline.Run(tbl.Records(), sel)

	metrics.FilterRequestsTotal.WithLabelValues(source, string(sel.QuickFilter())).Inc()
	metrics.FilterResultRows.Observe(float64(res.Count()))

	if log := logpkg.FromContext(ctx); log.Core().Enabled(zap.DebugLevel) {
		fields := make([]zap.Field, 0, len(res.Stages())+1)
		fields = append(fields, zap.String("source", source))
		for _, st := range res.Stages() {
			fields = append(fields, zap.Int(st.Name, st.Out))
		}
		log.Debug("pipeline run", fields...)
	}

	return res, nil
}

func (s *Service) table(ctx context.Context) (record.Table, error) {
	tbl, err := s.tables.Table(ctx)
	if err != nil {
		return record.Table{}, fmt.Errorf("%w: %w", domain.ErrDatasetUnavailable, err)
	}
	return tbl, nil
}

func sessionOp(op string, err error) {
	result := "ok"
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrSessionNotFound):
		result = "not_found"
	default:
		result = "error"
	}
	metrics.SessionOpsTotal.WithLabelValues(op, result).Inc()
}
