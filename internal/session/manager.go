package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Key identifies a session.
type Key struct {
	LearnerID int
	CourseID  int
}

// Manager owns the live controllers of a process, one per (learner, course).
type Manager struct {
	deps    Deps
	idleTTL time.Duration
	log     zerolog.Logger

	mu       sync.Mutex
	sessions map[Key]*Controller
}

// NewManager creates an empty registry. Sessions idle for longer than idleTTL
// are removed by Sweep; idleTTL <= 0 disables sweeping.
func NewManager(deps Deps, idleTTL time.Duration) *Manager {
	return &Manager{
		deps:     deps,
		idleTTL:  idleTTL,
		log:      deps.Log.With().Str("component", "session_manager").Logger(),
		sessions: make(map[Key]*Controller),
	}
}

// Open returns the session for (learnerID, courseID), creating it from the
// course's topic list on first use.
func (m *Manager) Open(ctx context.Context, learnerID, courseID int) (*Controller, error) {
	key := Key{LearnerID: learnerID, CourseID: courseID}
	if c, ok := m.Get(learnerID, courseID); ok {
		return c, nil
	}

	topics, err := m.deps.Catalog.ListTopics(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.sessions[key]; ok {
		return c, nil
	}
	c := NewController(learnerID, courseID, topics, m.deps)
	m.sessions[key] = c
	m.log.Debug().Int("learner_id", learnerID).Int("course_id", courseID).Str("session_id", c.ID()).Msg("session opened")
	return c, nil
}

// Attach opens the session and holds it against Sweep until release is called.
// Live views use it for the lifetime of their connection.
func (m *Manager) Attach(ctx context.Context, learnerID, courseID int) (*Controller, func(), error) {
	key := Key{LearnerID: learnerID, CourseID: courseID}
	for {
		c, err := m.Open(ctx, learnerID, courseID)
		if err != nil {
			return nil, nil, err
		}
		if release, ok := c.Attach(); ok {
			return c, release, nil
		}

		// Closed under us: drop it so the next Open builds a fresh controller.
		m.mu.Lock()
		if m.sessions[key] == c {
			delete(m.sessions, key)
		}
		m.mu.Unlock()
	}
}

// Get returns an existing session.
func (m *Manager) Get(learnerID, courseID int) (*Controller, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.sessions[Key{LearnerID: learnerID, CourseID: courseID}]
	return c, ok
}

// Close destroys a session. It reports whether one existed.
func (m *Manager) Close(ctx context.Context, learnerID, courseID int) bool {
	key := Key{LearnerID: learnerID, CourseID: courseID}
	m.mu.Lock()
	c, ok := m.sessions[key]
	delete(m.sessions, key)
	m.mu.Unlock()

	if ok {
		c.Close(ctx)
	}
	return ok
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep closes sessions idle since before now-idleTTL and returns how many it
// removed. Attached sessions are never idle.
func (m *Manager) Sweep(ctx context.Context, now time.Time) int {
	if m.idleTTL <= 0 {
		return 0
	}

	cutoff := now.Add(-m.idleTTL)
	var idle []*Controller
	m.mu.Lock()
	for key, c := range m.sessions {
		if c.idle(cutoff) {
			idle = append(idle, c)
			delete(m.sessions, key)
		}
	}
	m.mu.Unlock()

	for _, c := range idle {
		c.Close(ctx)
	}
	if len(idle) > 0 {
		m.log.Info().Int("closed", len(idle)).Msg("swept idle sessions")
	}
	return len(idle)
}

// Run sweeps idle sessions every minute until ctx is done.
func (m *Manager) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			m.Sweep(ctx, now)
		}
	}
}
