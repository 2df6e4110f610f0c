package callsession

import (
	"errors"
	"sync"
)

// ErrSessionActive is returned when a second incoming call arrives
// while one is still ringing
var ErrSessionActive = errors.New("another call session is still ringing")

/* Manager holds at most one active session
 * The UI presents a single incoming-call notification; a second ring
 * while one is active is rejected rather than queued or replaced, so
 * the caller hears busy treatment instead of silently stealing the
 * notification.
 */
type Manager struct {
	mu     sync.Mutex
	active *Session
}

// NewManager creates an empty session manager
func NewManager() *Manager {
	return &Manager{}
}

// Offer creates and starts a session for an incoming call. It fails
// with ErrSessionActive while a previous session is still ringing.
func (m *Manager) Offer(info CallInfo, callbacks Callbacks, opts ...Option) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active != nil && m.active.Active() {
		return nil, ErrSessionActive
	}

	session := NewSession(info, callbacks, opts...)
	session.Start()
	m.active = session
	return session, nil
}

// Active returns the current session, or nil when none is ringing
func (m *Manager) Active() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active != nil && m.active.Active() {
		return m.active
	}
	return nil
}
