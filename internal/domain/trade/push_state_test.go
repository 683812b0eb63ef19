package trade

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoteDocumentStateMachine(t *testing.T) {
	t.Run("Unpushed to pushed stores remote id", func(t *testing.T) {
		d := NewRemoteDocument()
		require.NoError(t, d.MarkPushed("D1"))
		assert.Equal(t, PushStatusPushed, d.PushStatus)
		assert.Equal(t, "D1", *d.RemoteID)
		assert.NotNil(t, d.PushedAt)
	})

	t.Run("Re-push with same id is allowed", func(t *testing.T) {
		d := NewRemoteDocument()
		require.NoError(t, d.MarkPushed("D1"))
		require.NoError(t, d.MarkPushed("D1"))
		assert.Equal(t, "D1", *d.RemoteID)
	})

	t.Run("Second remote id is rejected", func(t *testing.T) {
		d := NewRemoteDocument()
		require.NoError(t, d.MarkPushed("D1"))
		assert.ErrorIs(t, d.MarkPushed("D2"), ErrRemoteIDMismatch)
		assert.Equal(t, "D1", *d.RemoteID)
	})

	t.Run("Empty remote id is rejected", func(t *testing.T) {
		d := NewRemoteDocument()
		assert.ErrorIs(t, d.MarkPushed(""), ErrEmptyRemoteID)
	})

	t.Run("Void requires pushed state", func(t *testing.T) {
		d := NewRemoteDocument()
		assert.ErrorIs(t, d.MarkVoided(), ErrNotPushed)
	})

	t.Run("Void retains historical remote id", func(t *testing.T) {
		d := NewRemoteDocument()
		require.NoError(t, d.MarkPushed("D1"))
		require.NoError(t, d.MarkVoided())
		assert.Equal(t, PushStatusVoided, d.PushStatus)
		assert.Equal(t, "D1", *d.RemoteID)
		assert.NotNil(t, d.VoidedAt)
	})

	t.Run("Push after void is rejected", func(t *testing.T) {
		d := NewRemoteDocument()
		require.NoError(t, d.MarkPushed("D1"))
		require.NoError(t, d.MarkVoided())
		assert.ErrorIs(t, d.MarkPushed("D1"), ErrAlreadyVoided)
	})

	t.Run("Double void is rejected", func(t *testing.T) {
		d := NewRemoteDocument()
		require.NoError(t, d.MarkPushed("D1"))
		require.NoError(t, d.MarkVoided())
		assert.ErrorIs(t, d.MarkVoided(), ErrAlreadyVoided)
	})
}
