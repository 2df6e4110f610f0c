package callsession

import (
	"errors"
	"sync"
	"time"
)

/* Session is the incoming-call countdown state machine
 * One session exists per ringing call. It owns a cancellable timer
 * handle explicitly: cancellation is a first-class operation invoked on
 * every terminal transition and on detach, never an implicit side
 * effect of UI teardown.
 */

// DefaultRingWindow is how long an incoming call rings before it is
// automatically declined, mirroring the carrier's own deadline
const DefaultRingWindow = 30

// ErrNotRinging is returned when a transition is attempted on a session
// that already terminated or was detached
var ErrNotRinging = errors.New("call session is not ringing")

// CallInfo is the metadata shown while a call rings
type CallInfo struct {
	From       string
	To         string
	CallerName string
}

/* Callbacks notify the embedding UI of transitions.
 * Every callback is optional: a nil callback still lets the transition
 * happen, it just fires nothing.
 */
type Callbacks struct {
	// Accept fires when the user answers the call
	Accept func()

	// Decline fires exactly once per session, on user decline or on
	// ring-window expiry
	Decline func(Cause)

	// Mute fires with the new mute state on every toggle
	Mute func(bool)
}

type Session struct {
	mu        sync.Mutex
	info      CallInfo
	callbacks Callbacks
	status    Status
	cause     Cause
	remaining int
	muted     bool
	detached  bool
	started   bool

	interval time.Duration
	done     chan struct{}
	stopOnce sync.Once
}

// Option configures a session
type Option func(*Session)

// WithRingWindow overrides the countdown start, in seconds
func WithRingWindow(seconds int) Option {
	return func(s *Session) {
		if seconds > 0 {
			s.remaining = seconds
		}
	}
}

// WithTickInterval overrides the one-second tick, used by tests
func WithTickInterval(interval time.Duration) Option {
	return func(s *Session) {
		if interval > 0 {
			s.interval = interval
		}
	}
}

// NewSession creates a ringing session for an incoming call
func NewSession(info CallInfo, callbacks Callbacks, opts ...Option) *Session {
	s := &Session{
		info:      info,
		callbacks: callbacks,
		status:    Ringing,
		remaining: DefaultRingWindow,
		interval:  time.Second,
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start arms the countdown timer. It is safe to call once per session;
// later calls are no-ops.
func (s *Session) Start() {
	s.mu.Lock()
	if s.started || s.detached || s.status != Ringing {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.mu.Unlock()

	go s.run()
}

func (s *Session) run() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			if !s.Tick() {
				return
			}
		}
	}
}

/* Tick advances the countdown by one second and reports whether the
 * session is still ringing. Start drives it from the internal timer;
 * an embedder that owns its own render timer may drive it directly
 * instead. Once the countdown reaches zero the session declines with
 * CauseExpiry exactly once and no further tick has any effect.
 */
func (s *Session) Tick() bool {
	s.mu.Lock()
	if s.detached || s.status != Ringing {
		s.mu.Unlock()
		return false
	}

	s.remaining--
	if s.remaining > 0 {
		s.mu.Unlock()
		return true
	}

	s.remaining = 0
	s.status = Declined
	s.cause = CauseExpiry
	decline := s.callbacks.Decline
	s.mu.Unlock()

	s.stopTimer()
	if decline != nil {
		decline(CauseExpiry)
	}
	return false
}

// Accept answers the call while it is still ringing
func (s *Session) Accept() error {
	s.mu.Lock()
	if s.detached || s.status != Ringing {
		s.mu.Unlock()
		return ErrNotRinging
	}
	s.status = Accepted
	accept := s.callbacks.Accept
	s.mu.Unlock()

	s.stopTimer()
	if accept != nil {
		accept()
	}
	return nil
}

// Decline rejects the call on behalf of the user (explicit decline or
// send-to-voicemail)
func (s *Session) Decline() error {
	s.mu.Lock()
	if s.detached || s.status != Ringing {
		s.mu.Unlock()
		return ErrNotRinging
	}
	s.status = Declined
	s.cause = CauseUser
	decline := s.callbacks.Decline
	s.mu.Unlock()

	s.stopTimer()
	if decline != nil {
		decline(CauseUser)
	}
	return nil
}

// ToggleMute flips the mute flag. Mute is orthogonal to the countdown
// and permitted in any non-terminal state.
func (s *Session) ToggleMute() (bool, error) {
	s.mu.Lock()
	if s.detached || s.status.IsFinal() {
		muted := s.muted
		s.mu.Unlock()
		return muted, ErrNotRinging
	}
	s.muted = !s.muted
	muted := s.muted
	mute := s.callbacks.Mute
	s.mu.Unlock()

	if mute != nil {
		mute(muted)
	}
	return muted, nil
}

/* Detach releases the session when the notification unmounts while the
 * call is still ringing. The timer stops and no callback fires, so the
 * UI cannot signal a duplicate accept or decline after it is gone.
 */
func (s *Session) Detach() {
	s.mu.Lock()
	s.detached = true
	s.mu.Unlock()
	s.stopTimer()
}

// Status returns the session state
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Cause returns why the session was declined; only meaningful when
// Status() is Declined
func (s *Session) Cause() Cause {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cause
}

// Remaining returns the countdown seconds left
func (s *Session) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remaining
}

// Muted returns the mute flag
func (s *Session) Muted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.muted
}

// Info returns the call metadata
func (s *Session) Info() CallInfo {
	return s.info
}

// Active reports whether the session still holds the incoming call
func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.detached && s.status == Ringing
}

func (s *Session) stopTimer() {
	s.stopOnce.Do(func() {
		close(s.done)
	})
}
