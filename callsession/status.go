package callsession

import "fmt"

/* Status represents the state of a ringing-call session
 * Follows the lifecycle: Ringing -> Accepted/Declined
 * Expiry is a decline cause, not a separate state.
 */
type Status int

const (
	Ringing Status = iota + 1
	Accepted
	Declined
)

// String returns the string representation of the status
func (s Status) String() string {
	switch s {
	case Ringing:
		return "ringing"
	case Accepted:
		return "accepted"
	case Declined:
		return "declined"
	default:
		return "unknown"
	}
}

// Validate checks if the status is valid
func (s Status) Validate() error {
	if s < Ringing || s > Declined {
		return fmt.Errorf("invalid session status: %d", s)
	}
	return nil
}

// IsFinal returns true if the status is a terminal state
func (s Status) IsFinal() bool {
	return s == Accepted || s == Declined
}

// Cause distinguishes who declined a call
type Cause int

const (
	// CauseUser is an explicit decline or send-to-voicemail action
	CauseUser Cause = iota + 1

	// CauseExpiry is the automatic decline when the ring window runs out
	CauseExpiry
)

// String returns the string representation of the cause
func (c Cause) String() string {
	switch c {
	case CauseUser:
		return "user"
	case CauseExpiry:
		return "expiry"
	default:
		return "unknown"
	}
}
