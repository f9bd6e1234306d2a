// Package session stores per-session filter selections.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shivrajanand/CCMT-ProgramFinder2024Dataset/internal/db"
	"github.com/shivrajanand/CCMT-ProgramFinder2024Dataset/internal/domain"
	"github.com/shivrajanand/CCMT-ProgramFinder2024Dataset/internal/domain/selection"
)

// kvStore is the consumer interface for the KV-backed session store (ISP).
type kvStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}

// KV keeps selections in Redis/Valkey with a TTL refreshed on every save.
type KV struct {
	store  kvStore
	prefix string
	ttl    time.Duration
}

// NewKV creates a KV session store. Keys are "<prefix>session:<id>".
func NewKV(store kvStore, prefix string, ttl time.Duration) *KV {
	return &KV{store: store, prefix: prefix + "session:", ttl: ttl}
}

// Save stores sel under id.
func (s *KV) Save(ctx context.Context, id string, sel selection.Selection) error {
	data, err := encodeSelection(sel)
	if err != nil {
		return err
	}
	if err := s.store.SetWithTTL(ctx, s.key(id), data, s.ttl); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Load returns the selection stored under id.
func (s *KV) Load(ctx context.Context, id string) (selection.Selection, error) {
	data, err := s.store.Get(ctx, s.key(id))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return selection.Selection{}, domain.ErrSessionNotFound
		}
		return selection.Selection{}, fmt.Errorf("load session: %w", err)
	}
	return decodeSelection(data)
}

// Delete removes the session.
func (s *KV) Delete(ctx context.Context, id string) error {
	if err := s.store.Del(ctx, s.key(id)); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Ping checks the backing store.
func (s *KV) Ping(ctx context.Context) error {
	return s.store.Ping(ctx) //nolint:wrapcheck // health check passes the store error through
}

func (s *KV) key(id string) string {
	return s.prefix + id
}
