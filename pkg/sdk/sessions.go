package ccmtfinder

import (
	"context"
	"fmt"
	"time"
)

// SessionService manages per-session selections.
type SessionService struct {
	svc finderUseCase
	obs *observer
}

// Create starts a session with sel.
func (s *SessionService) Create(ctx context.Context, sel Selection) (sess Session, err error) {
	start := time.Now()
	defer func() { s.obs.observe("session_create", start, err) }()

	dsel, err := sel.toDomain()
	if err != nil {
		return Session{}, err
	}
	out, err := s.svc.CreateSession(ctx, dsel)
	if err != nil {
		return Session{}, fmt.Errorf("create session: %w", err)
	}
	return sessionFromDomain(out), nil
}

// Get returns the session's current selection.
func (s *SessionService) Get(ctx context.Context, id string) (sess Session, err error) {
	start := time.Now()
	defer func() { s.obs.observe("session_get", start, err) }()

	out, err := s.svc.GetSession(ctx, id)
	if err != nil {
		return Session{}, fmt.Errorf("get session %s: %w", id, err)
	}
	return sessionFromDomain(out), nil
}

// Update replaces the session's selection.
func (s *SessionService) Update(ctx context.Context, id string, sel Selection) (sess Session, err error) {
	start := time.Now()
	defer func() { s.obs.observe("session_update", start, err) }()

	dsel, err := sel.toDomain()
	if err != nil {
		return Session{}, err
	}
	out, err := s.svc.UpdateSession(ctx, id, dsel)
	if err != nil {
		return Session{}, fmt.Errorf("update session %s: %w", id, err)
	}
	return sessionFromDomain(out), nil
}

// Delete ends the session.
func (s *SessionService) Delete(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("session_delete", start, err) }()

	if err = s.svc.DeleteSession(ctx, id); err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	return nil
}

// Programs runs the filter pipeline for the session's selection.
func (s *SessionService) Programs(ctx context.Context, id string) (sess Session, res Result, err error) {
	start := time.Now()
	defer func() { s.obs.observe("session_programs", start, err) }()

	out, r, err := s.svc.FindForSession(ctx, id)
	if err != nil {
		return Session{}, Result{}, fmt.Errorf("session programs %s: %w", id, err)
	}
	return sessionFromDomain(out), resultFromDomain(r), nil
}
