package routes

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/ringhub/voice-gateway/twiml"
)

/* Route maps a webhook path to the call treatment the carrier should
 * apply: speak a message, play audio, hang up or reject.
 */

// Action is the call treatment for a voice route
type Action int

const (
	Say Action = iota + 1
	Play
	Hangup
	Reject
)

// String returns the string representation of the action
func (a Action) String() string {
	switch a {
	case Say:
		return "say"
	case Play:
		return "play"
	case Hangup:
		return "hangup"
	case Reject:
		return "reject"
	default:
		return "unknown"
	}
}

// NewAction creates an Action from a string
func NewAction(s string) Action {
	switch s {
	case "say":
		return Say
	case "play":
		return Play
	case "hangup":
		return Hangup
	case "reject":
		return Reject
	default:
		return Hangup // safest default: a valid document that ends the call
	}
}

// Validate checks if the action is valid
func (a Action) Validate() error {
	if a < Say || a > Reject {
		return fmt.Errorf("invalid action: %d", a)
	}
	return nil
}

// Route represents one voice webhook endpoint
type Route struct {
	Path    string
	Action  Action
	Text    string // spoken message for Say
	Voice   string // optional voice name for Say
	PlayURL string // audio URL for Play
	Loop    int    // optional loop count for Play
}

// Validate checks if the route configuration is valid
func (r *Route) Validate() error {
	if r.Path == "" {
		return fmt.Errorf("path cannot be empty")
	}
	if !strings.HasPrefix(r.Path, "/") {
		return fmt.Errorf("path must start with / for route %s", r.Path)
	}
	if err := r.Action.Validate(); err != nil {
		return fmt.Errorf("invalid action for route %s: %w", r.Path, err)
	}
	if r.Action == Say && r.Text == "" {
		return fmt.Errorf("say routes require text for route %s", r.Path)
	}
	if r.Action == Play {
		if r.PlayURL == "" {
			return fmt.Errorf("play routes require a URL for route %s", r.Path)
		}
		if _, err := url.ParseRequestURI(r.PlayURL); err != nil {
			return fmt.Errorf("invalid play URL for route %s: %w", r.Path, err)
		}
	}
	if r.Loop < 0 {
		return fmt.Errorf("loop cannot be negative for route %s", r.Path)
	}
	return nil
}

// Document renders the voice document for this route's treatment
func (r *Route) Document() (string, error) {
	switch r.Action {
	case Say:
		return twiml.New(twiml.Say{Voice: r.Voice, Text: r.Text}, twiml.Hangup{}).Render()
	case Play:
		return twiml.New(twiml.Play{URL: r.PlayURL, Loop: r.Loop}, twiml.Hangup{}).Render()
	case Reject:
		return twiml.New(twiml.Reject{Reason: "busy"}).Render()
	default:
		return twiml.New(twiml.Hangup{}).Render()
	}
}
