package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampQuantity(t *testing.T) {
	tests := []struct {
		name         string
		requested    int
		stock        int
		track        bool
		wantAllowed  int
		wantAdjusted bool
	}{
		{"within stock", 2, 5, true, 2, false},
		{"exactly stock", 3, 3, true, 3, false},
		{"over stock clamps", 5, 3, true, 3, true},
		{"untracked passes through", 50, 3, false, 50, false},
		{"zero stock clamps to zero", 4, 0, true, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			allowed, adjusted := clampQuantity(tt.requested, tt.stock, tt.track)
			assert.Equal(t, tt.wantAllowed, allowed)
			assert.Equal(t, tt.wantAdjusted, adjusted)
		})
	}
}

func TestAdjustmentMessage(t *testing.T) {
	msg := adjustmentMessage("Blue Mug", 3)
	assert.Equal(t, "Only 3 of Blue Mug available; quantity was adjusted", msg)
}

func TestAddItemOutOfStock(t *testing.T) {
	// Adding an out-of-stock product returns ErrOutOfStock rather than
	// silently clamping the line to zero. The same applies when a stale
	// stock cache clamps the quantity to zero: no empty line is persisted.
	t.Skip("Requires mocked store")
}

func TestReplaceCartDropsUnknownProducts(t *testing.T) {
	t.Skip("Requires mocked store")
}
