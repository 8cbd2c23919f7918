package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInStock(t *testing.T) {
	p := &Product{Inventory: Inventory{Quantity: 3, TrackQuantity: true}}
	assert.True(t, p.InStock())

	p = &Product{Inventory: Inventory{Quantity: 0, TrackQuantity: true}}
	assert.False(t, p.InStock())

	// Untracked products are always in stock
	p = &Product{Inventory: Inventory{Quantity: 0, TrackQuantity: false}}
	assert.True(t, p.InStock())
}

func TestLowStock(t *testing.T) {
	p := &Product{Inventory: Inventory{Quantity: 2, TrackQuantity: true, LowStockThreshold: 5}}
	assert.True(t, p.LowStock())

	p = &Product{Inventory: Inventory{Quantity: 10, TrackQuantity: true, LowStockThreshold: 5}}
	assert.False(t, p.LowStock())

	p = &Product{Inventory: Inventory{Quantity: 0, TrackQuantity: false, LowStockThreshold: 5}}
	assert.False(t, p.LowStock())
}

func TestNewGeoPoint(t *testing.T) {
	point := NewGeoPoint(12.9716, 77.5946)

	assert.Equal(t, "Point", point.Type)
	// GeoJSON stores longitude first
	assert.Equal(t, []float64{77.5946, 12.9716}, point.Coordinates)
}
