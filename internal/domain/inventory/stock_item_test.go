package inventory

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStockItem(t *testing.T) {
	t.Run("Normalizes code", func(t *testing.T) {
		item, err := NewStockItem("  steel-3mm ", "3mm sheet")
		require.NoError(t, err)
		assert.Equal(t, "STEEL-3MM", item.Code)
		assert.True(t, item.Quantity.IsZero())
	})

	t.Run("Empty code", func(t *testing.T) {
		_, err := NewStockItem("  ", "")
		assert.Error(t, err)
	})
}

func TestStockItemApplyMovement(t *testing.T) {
	item, _ := NewStockItem("STEEL-3MM", "3mm sheet")

	require.NoError(t, item.ApplyMovement(decimal.NewFromInt(10)))
	require.NoError(t, item.ApplyMovement(decimal.NewFromInt(-4)))
	assert.True(t, item.Quantity.Equal(decimal.NewFromInt(6)))

	t.Run("Cannot go negative", func(t *testing.T) {
		err := item.ApplyMovement(decimal.NewFromInt(-7))
		assert.Error(t, err)
		assert.True(t, item.Quantity.Equal(decimal.NewFromInt(6)))
	})
}

func TestStockItemApplyRemoteKeepsQuantity(t *testing.T) {
	item, _ := NewStockItem("STEEL-3MM", "3mm sheet")
	require.NoError(t, item.ApplyMovement(decimal.NewFromInt(5)))

	changed := item.ApplyRemote("3mm mild steel sheet", "m2", decimal.NewFromFloat(42.50), item.UpdatedAt)
	assert.True(t, changed)
	assert.True(t, item.Quantity.Equal(decimal.NewFromInt(5)), "sync must not overwrite accumulated quantity")
}
