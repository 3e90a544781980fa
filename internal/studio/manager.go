package studio

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"server/internal/infra"
)

// Manager is the in-memory preview session store. Sessions are bound to a
// single browsing session and are reaped when abandoned; there is no durable
// backing store.
type Manager struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session

	maxAge  time.Duration
	maxIdle time.Duration
	logger  *infra.Logger
}

// NewManager builds a session store. maxAge bounds session lifetime
// absolutely, maxIdle reaps sessions with no recent activity.
func NewManager(logger *infra.Logger, maxAge, maxIdle time.Duration) *Manager {
	if maxAge <= 0 {
		maxAge = 24 * time.Hour
	}
	if maxIdle <= 0 {
		maxIdle = 2 * time.Hour
	}
	return &Manager{
		sessions: make(map[uuid.UUID]*Session),
		maxAge:   maxAge,
		maxIdle:  maxIdle,
		logger:   logger,
	}
}

func (m *Manager) add(s *Session) {
	m.mu.Lock()
	m.sessions[s.id] = s
	total := len(m.sessions)
	m.mu.Unlock()
	m.logger.Debug().Str("session_id", s.id.String()).Int("active", total).Msg("studio: session created")
}

func (m *Manager) get(id uuid.UUID) (*Session, bool) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	return s, ok
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// StartCleanup reaps expired and idle sessions on the given interval until
// ctx is done.
func (m *Manager) StartCleanup(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if reaped := m.reap(time.Now()); reaped > 0 {
					m.logger.Info().Int("reaped", reaped).Int("active", m.Len()).Msg("studio: cleaned up sessions")
				}
			}
		}
	}()
}

func (m *Manager) reap(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	reaped := 0
	for id, s := range m.sessions {
		if s.expired(now, m.maxAge, m.maxIdle) {
			delete(m.sessions, id)
			reaped++
		}
	}
	return reaped
}

func (s *Session) expired(now time.Time, maxAge, maxIdle time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.createdAt) > maxAge || now.Sub(s.lastActivity) > maxIdle
}
