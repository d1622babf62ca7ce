package model_test

import (
	"hotelops/internal/domains/order/model"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItems_Total(t *testing.T) {
	items := model.Items{
		{Name: "Tibs", Quantity: 2, Price: decimal.RequireFromString("12.75")},
		{Name: "Macchiato", Quantity: 1, Price: decimal.RequireFromString("3.50")},
	}

	assert.Equal(t, "29.00", items.Total().StringFixed(2))
	assert.True(t, model.Items{}.Total().IsZero())
}

func TestItems_ScanValue(t *testing.T) {
	items := model.Items{{Name: "Shiro", Quantity: 3, Price: decimal.RequireFromString("8.10"), Notes: "extra injera"}}

	raw, err := items.Value()
	require.NoError(t, err)

	var scanned model.Items
	require.NoError(t, scanned.Scan(raw))
	require.Len(t, scanned, 1)
	assert.Equal(t, "Shiro", scanned[0].Name)
	assert.True(t, scanned[0].Price.Equal(decimal.RequireFromString("8.10")))

	require.NoError(t, scanned.Scan(nil))
	assert.Empty(t, scanned)

	assert.Error(t, scanned.Scan(42))
	assert.Error(t, scanned.Scan("{not json"))

	var empty model.Items
	raw, err = empty.Value()
	require.NoError(t, err)
	assert.Equal(t, []byte("[]"), raw)
}
