package session

import (
	"context"
	"sync"
	"time"

	"github.com/shivrajanand/CCMT-ProgramFinder2024Dataset/internal/domain"
	"github.com/shivrajanand/CCMT-ProgramFinder2024Dataset/internal/domain/selection"
)

type entry struct {
	sel       selection.Selection
	expiresAt time.Time
}

// Memory keeps selections in process memory. Expired sessions are invisible
// immediately and purged by a background janitor until Close is called.
type Memory struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[string]entry

	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// NewMemory creates a Memory store and starts its janitor.
func NewMemory(ttl, sweepEvery time.Duration) *Memory {
	m := &Memory{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]entry),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go m.janitor(sweepEvery)
	return m
}

// Save stores sel under id and refreshes its expiry.
func (m *Memory) Save(_ context.Context, id string, sel selection.Selection) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[id] = entry{sel: sel, expiresAt: m.now().Add(m.ttl)}
	return nil
}

// Load returns the selection stored under id.
func (m *Memory) Load(_ context.Context, id string) (selection.Selection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok || !m.now().Before(e.expiresAt) {
		return selection.Selection{}, domain.ErrSessionNotFound
	}
	return e.sel, nil
}

// Delete removes the session.
func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, id)
	return nil
}

// Ping always succeeds.
func (m *Memory) Ping(_ context.Context) error { return nil }

// Len returns the number of stored sessions, including expired ones not yet purged.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Close stops the janitor and waits for it to exit.
func (m *Memory) Close() {
	m.once.Do(func() { close(m.stop) })
	<-m.done
}

func (m *Memory) janitor(every time.Duration) {
	defer close(m.done)
	if every <= 0 {
		<-m.stop
		return
	}

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.purge()
		}
	}
}

func (m *Memory) purge() {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	for id, e := range m.entries {
		if !now.Before(e.expiresAt) {
			delete(m.entries, id)
		}
	}
}
