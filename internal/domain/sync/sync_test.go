package sync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDependencyOrder(t *testing.T) {
	order := DependencyOrder()

	t.Run("Covers every entity type exactly once", func(t *testing.T) {
		seen := make(map[EntityType]bool)
		for _, et := range order {
			assert.True(t, et.IsValid())
			assert.False(t, seen[et], "duplicate entity type %s", et)
			seen[et] = true
		}
		assert.Len(t, order, 7)
	})

	t.Run("Parties precede financial documents", func(t *testing.T) {
		idx := make(map[EntityType]int)
		for i, et := range order {
			idx[et] = i
		}
		assert.Less(t, idx[EntityTypeAccounts], idx[EntityTypeCustomers])
		assert.Less(t, idx[EntityTypeCustomers], idx[EntityTypeSalesDocuments])
		assert.Less(t, idx[EntityTypeProjects], idx[EntityTypeSalesDocuments])
		assert.Less(t, idx[EntityTypeSalesDocuments], idx[EntityTypeStockItems])
		assert.Less(t, idx[EntityTypeStockItems], idx[EntityTypePayrollItems])
	})
}

func TestWindowValidate(t *testing.T) {
	now := time.Now()

	t.Run("Valid window", func(t *testing.T) {
		w := Window{Start: now.Add(-24 * time.Hour), End: now}
		require.NoError(t, w.Validate())
	})

	t.Run("Start after end", func(t *testing.T) {
		w := Window{Start: now, End: now.Add(-time.Hour)}
		assert.ErrorIs(t, w.Validate(), ErrInvalidWindow)
	})

	t.Run("Zero bounds", func(t *testing.T) {
		assert.ErrorIs(t, Window{}.Validate(), ErrInvalidWindow)
	})

	t.Run("Window too wide", func(t *testing.T) {
		w := Window{Start: now.Add(-2 * 366 * 24 * time.Hour), End: now}
		assert.ErrorIs(t, w.Validate(), ErrInvalidWindow)
	})
}

func TestRemoteRecordValidate(t *testing.T) {
	t.Run("Valid record", func(t *testing.T) {
		rec := RemoteRecord{RemoteID: "C-100", EntityType: EntityTypeCustomers, ModifiedAt: time.Now()}
		require.NoError(t, rec.Validate())
	})

	t.Run("Missing remote id", func(t *testing.T) {
		rec := RemoteRecord{EntityType: EntityTypeCustomers}
		assert.Error(t, rec.Validate())
	})

	t.Run("Unknown entity type", func(t *testing.T) {
		rec := RemoteRecord{RemoteID: "X", EntityType: EntityType("widgets")}
		assert.ErrorIs(t, rec.Validate(), ErrInvalidEntityType)
	})
}

func TestErrorClassification(t *testing.T) {
	assert.True(t, IsTransient(ErrRemoteRateLimited))
	assert.True(t, IsTransient(ErrRemoteUnavailable))
	assert.False(t, IsTransient(ErrRemoteRejected))
	assert.False(t, IsTransient(ErrRemoteAuth))

	assert.True(t, IsFatal(ErrRemoteAuth))
	assert.False(t, IsFatal(ErrRemoteRejected))
}

func TestRunResult(t *testing.T) {
	r := RunResult{
		Entities: []EntityResult{
			{EntityType: EntityTypeCustomers, Status: EntityStatusSuccess, Created: 2, Linked: 1},
			{EntityType: EntityTypeProjects, Status: EntityStatusFailed, Error: "boom"},
		},
	}

	assert.True(t, r.Failed())
	require.NotNil(t, r.Find(EntityTypeCustomers))
	assert.Equal(t, 3, r.Find(EntityTypeCustomers).Writes())
	assert.Nil(t, r.Find(EntityTypeStockItems))
}
