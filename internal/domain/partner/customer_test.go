package partner

import (
	"testing"
	"time"

	"github.com/fabworks/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCustomer(t *testing.T) {
	t.Run("Valid customer", func(t *testing.T) {
		c, err := NewCustomer("Acme Ltd")
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, c.ID)
		assert.Equal(t, "Acme Ltd", c.Name)
		assert.True(t, c.Active)
		assert.False(t, c.IsLinked())
	})

	t.Run("Empty name", func(t *testing.T) {
		_, err := NewCustomer("   ")
		assert.Error(t, err)
	})
}

func TestCustomerLinkRemote(t *testing.T) {
	t.Run("Links unlinked customer", func(t *testing.T) {
		c, _ := NewCustomer("Acme Ltd")
		require.NoError(t, c.LinkRemote("REM-1"))
		assert.True(t, c.IsLinked())
		assert.Equal(t, "REM-1", *c.RemoteID)
	})

	t.Run("Relinking same id is a no-op", func(t *testing.T) {
		c, _ := NewCustomer("Acme Ltd")
		require.NoError(t, c.LinkRemote("REM-1"))
		require.NoError(t, c.LinkRemote("REM-1"))
	})

	t.Run("Rebinding to different id is rejected", func(t *testing.T) {
		c, _ := NewCustomer("Acme Ltd")
		require.NoError(t, c.LinkRemote("REM-1"))
		assert.ErrorIs(t, c.LinkRemote("REM-2"), shared.ErrConcurrencyConflict)
		assert.Equal(t, "REM-1", *c.RemoteID)
	})

	t.Run("Empty id is rejected", func(t *testing.T) {
		c, _ := NewCustomer("Acme Ltd")
		assert.ErrorIs(t, c.LinkRemote(""), shared.ErrInvalidInput)
	})
}

func TestCustomerApplyRemote(t *testing.T) {
	modified := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("First apply reports change", func(t *testing.T) {
		c, _ := NewCustomer("Acme Ltd")
		changed := c.ApplyRemote("Acme Ltd", "office@acme.test", "555-0100", modified)
		assert.True(t, changed)
		assert.Equal(t, "office@acme.test", c.Email)
		require.NotNil(t, c.RemoteLastModified)
		assert.True(t, c.RemoteLastModified.Equal(modified))
	})

	t.Run("Re-applying current record is a no-op", func(t *testing.T) {
		c, _ := NewCustomer("Acme Ltd")
		c.ApplyRemote("Acme Ltd", "office@acme.test", "555-0100", modified)
		changed := c.ApplyRemote("Acme Ltd", "office@acme.test", "555-0100", modified)
		assert.False(t, changed)
	})

	t.Run("Empty remote name never clears local name", func(t *testing.T) {
		c, _ := NewCustomer("Acme Ltd")
		c.ApplyRemote("", "", "", modified)
		assert.Equal(t, "Acme Ltd", c.Name)
	})
}

func TestContactPersonRemoteMirror(t *testing.T) {
	customerID := uuid.New()

	t.Run("Local contact is not a mirror", func(t *testing.T) {
		p, err := NewContactPerson(customerID, "Dana")
		require.NoError(t, err)
		assert.False(t, p.IsRemoteMirror())
	})

	t.Run("ApplyRemote is idempotent", func(t *testing.T) {
		p, _ := NewContactPerson(customerID, "Dana")
		modified := time.Now().UTC()
		assert.True(t, p.ApplyRemote("Dana", "dana@acme.test", "", modified))
		assert.False(t, p.ApplyRemote("Dana", "dana@acme.test", "", modified))
	})
}
