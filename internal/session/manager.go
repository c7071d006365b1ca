// Package session keeps one cleaning workspace per browser session.
//
// Sessions live in memory only. Each is identified by a random uuid, and one
// idle for longer than the TTL is evicted by Sweep, which Run calls on a
// ticker until its context is cancelled.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/dataclean/internal/core"
)

var (
	// ErrSessionNotFound is returned for unknown or expired session ids.
	ErrSessionNotFound = errors.New("session not found")

	// ErrTooManySessions is returned by Create when the manager is full.
	ErrTooManySessions = errors.New("too many sessions, please try again later")
)

const (
	DefaultTTL           = 2 * time.Hour
	DefaultMaxSessions   = 1000
	DefaultSweepInterval = 5 * time.Minute
)

// Factory builds the workspace for a new session id.
type Factory func(id string) *core.Workspace

// Options configures a Manager. Zero values select the defaults.
type Options struct {
	TTL           time.Duration
	MaxSessions   int
	SweepInterval time.Duration

	// Factory defaults to core.NewWorkspace with no options.
	Factory Factory

	// OnCountChange is called with the new session count after every change.
	// It runs with the manager locked, so calls arrive in order and it must
	// not call back into the Manager.
	OnCountChange func(n int)
}

type entry struct {
	ws       *core.Workspace
	lastSeen time.Time
}

// Manager maps session ids to workspaces.
type Manager struct {
	opts Options
	now  func() time.Time

	mu       sync.Mutex
	sessions map[string]*entry
}

// NewManager creates an empty manager.
func NewManager(opts Options) *Manager {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.MaxSessions <= 0 {
		opts.MaxSessions = DefaultMaxSessions
	}
	if opts.SweepInterval <= 0 {
		opts.SweepInterval = DefaultSweepInterval
	}
	if opts.Factory == nil {
		opts.Factory = func(id string) *core.Workspace { return core.NewWorkspace(id) }
	}
	return &Manager{
		opts:     opts,
		now:      time.Now,
		sessions: make(map[string]*entry),
	}
}

// Create starts a new session with an empty workspace.
func (m *Manager) Create() (*core.Workspace, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.sessions) >= m.opts.MaxSessions && m.sweepLocked() > 0 {
		m.countChangedLocked()
	}
	if len(m.sessions) >= m.opts.MaxSessions {
		return nil, ErrTooManySessions
	}

	id := uuid.NewString()
	ws := m.opts.Factory(id)
	m.sessions[id] = &entry{ws: ws, lastSeen: m.now()}
	m.countChangedLocked()
	return ws, nil
}

// Get returns the workspace for id and refreshes its idle timer.
func (m *Manager) Get(id string) (*core.Workspace, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	now := m.now()
	if now.Sub(e.lastSeen) > m.opts.TTL {
		delete(m.sessions, id)
		m.countChangedLocked()
		return nil, ErrSessionNotFound
	}
	e.lastSeen = now
	return e.ws, nil
}

// Replace discards the workspace for id and installs a fresh one under the
// same id. This is how a new upload reloads a session.
func (m *Manager) Replace(id string) (*core.Workspace, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	e.ws = m.opts.Factory(id)
	e.lastSeen = m.now()
	return e.ws, nil
}

// Delete removes a session. Unknown ids are ignored.
func (m *Manager) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; ok {
		delete(m.sessions, id)
		m.countChangedLocked()
	}
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep evicts sessions idle for longer than the TTL and returns how many
// were removed.
func (m *Manager) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := m.sweepLocked()
	if removed > 0 {
		m.countChangedLocked()
	}
	return removed
}

func (m *Manager) sweepLocked() int {
	cutoff := m.now().Add(-m.opts.TTL)
	removed := 0
	for id, e := range m.sessions {
		if e.lastSeen.Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// Run sweeps every SweepInterval until ctx is cancelled.
func (m *Manager) Run(ctx context.Context) error {
	slog.Info("session sweeper started",
		"ttl", m.opts.TTL.String(),
		"interval", m.opts.SweepInterval.String(),
		"max_sessions", m.opts.MaxSessions,
	)

	ticker := time.NewTicker(m.opts.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("session sweeper stopped")
			return nil
		case <-ticker.C:
			start := time.Now()
			if removed := m.Sweep(); removed > 0 {
				slog.Info("expired sessions evicted",
					"evicted", removed,
					"remaining", m.Len(),
					"duration_ms", time.Since(start).Milliseconds(),
				)
			}
		}
	}
}

func (m *Manager) countChangedLocked() {
	if m.opts.OnCountChange != nil {
		m.opts.OnCountChange(len(m.sessions))
	}
}
