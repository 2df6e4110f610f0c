package callsession_test

import (
	"testing"

	"github.com/ringhub/voice-gateway/callsession"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerOffer(t *testing.T) {
	info := callsession.CallInfo{From: "+15551230001", To: "+15559870002"}

	t.Run("holds the first ringing call", func(t *testing.T) {
		manager := callsession.NewManager()

		session, err := manager.Offer(info, callsession.Callbacks{})

		require.NoError(t, err)
		require.NotNil(t, session)
		assert.Same(t, session, manager.Active())
	})

	t.Run("rejects a second ring while one is active", func(t *testing.T) {
		manager := callsession.NewManager()
		_, err := manager.Offer(info, callsession.Callbacks{})
		require.NoError(t, err)

		second, err := manager.Offer(callsession.CallInfo{From: "+15550000003"}, callsession.Callbacks{})

		assert.ErrorIs(t, err, callsession.ErrSessionActive)
		assert.Nil(t, second)
	})

	t.Run("accepts a new ring after the previous call terminated", func(t *testing.T) {
		manager := callsession.NewManager()
		first, err := manager.Offer(info, callsession.Callbacks{})
		require.NoError(t, err)
		require.NoError(t, first.Decline())

		second, err := manager.Offer(info, callsession.Callbacks{})

		require.NoError(t, err)
		assert.Same(t, second, manager.Active())
	})

	t.Run("accepts a new ring after the previous session detached", func(t *testing.T) {
		manager := callsession.NewManager()
		first, err := manager.Offer(info, callsession.Callbacks{})
		require.NoError(t, err)
		first.Detach()

		_, err = manager.Offer(info, callsession.Callbacks{})

		require.NoError(t, err)
	})

	t.Run("reports no active session when none rings", func(t *testing.T) {
		manager := callsession.NewManager()

		assert.Nil(t, manager.Active())
	})
}
