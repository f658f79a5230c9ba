package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDeriveDeliveryItemStatus(t *testing.T) {
	cases := []struct {
		name      string
		ordered   string
		delivered string
		want      DeliveryItemStatus
	}{
		{"nothing delivered", "10", "0", DeliveryItemPending},
		{"negative delivered", "10", "-1", DeliveryItemPending},
		{"under ordered", "10", "4.5", DeliveryItemPartial},
		{"exactly ordered", "10", "10", DeliveryItemDelivered},
		{"over ordered", "10", "10.01", DeliveryItemExcess},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DeriveDeliveryItemStatus(decimal.RequireFromString(tc.ordered), decimal.RequireFromString(tc.delivered))
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestExceedsSurplusTolerance(t *testing.T) {
	ordered := decimal.NewFromInt(100)

	assert.False(t, ExceedsSurplusTolerance(ordered, decimal.NewFromInt(100)))
	// Exactly 110% is still within tolerance.
	assert.False(t, ExceedsSurplusTolerance(ordered, decimal.NewFromInt(110)))
	assert.True(t, ExceedsSurplusTolerance(ordered, decimal.RequireFromString("110.01")))

	// Zero or negative ordered quantity never trips the tolerance.
	assert.False(t, ExceedsSurplusTolerance(decimal.Zero, decimal.NewFromInt(500)))
	assert.False(t, ExceedsSurplusTolerance(decimal.NewFromInt(-1), decimal.NewFromInt(500)))
}
