package callsession_test

import (
	"testing"

	"github.com/ringhub/voice-gateway/callsession"
	"github.com/stretchr/testify/assert"
)

func TestStatus(t *testing.T) {
	t.Run("string form", func(t *testing.T) {
		assert.Equal(t, "ringing", callsession.Ringing.String())
		assert.Equal(t, "accepted", callsession.Accepted.String())
		assert.Equal(t, "declined", callsession.Declined.String())
		assert.Equal(t, "unknown", callsession.Status(0).String())
	})

	t.Run("terminal states", func(t *testing.T) {
		assert.False(t, callsession.Ringing.IsFinal())
		assert.True(t, callsession.Accepted.IsFinal())
		assert.True(t, callsession.Declined.IsFinal())
	})

	t.Run("validation", func(t *testing.T) {
		assert.NoError(t, callsession.Ringing.Validate())
		assert.Error(t, callsession.Status(0).Validate())
		assert.Error(t, callsession.Status(4).Validate())
	})
}

func TestCause(t *testing.T) {
	assert.Equal(t, "user", callsession.CauseUser.String())
	assert.Equal(t, "expiry", callsession.CauseExpiry.String())
	assert.Equal(t, "unknown", callsession.Cause(0).String())
}
