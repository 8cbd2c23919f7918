package service

import (
	"testing"
	"time"

	"marketplace-service/config"
	"marketplace-service/internal/models"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestComputePricing(t *testing.T) {
	s := &OrderService{cfg: config.BusinessConfig{
		TaxRatePercent:  10,
		FreeShippingMin: 50000,
		ShippingFlat:    4000,
	}}

	items := []models.OrderItem{
		{UnitPrice: 1000, Quantity: 2},
		{UnitPrice: 500, Quantity: 1},
	}

	pricing := s.computePricing(items)

	assert.Equal(t, int64(2500), pricing.Subtotal)
	assert.Equal(t, int64(250), pricing.Tax)
	assert.Equal(t, int64(4000), pricing.Shipping)
	assert.Equal(t, int64(6750), pricing.Total)
}

func TestComputePricingFreeShipping(t *testing.T) {
	s := &OrderService{cfg: config.BusinessConfig{
		TaxRatePercent:  10,
		FreeShippingMin: 50000,
		ShippingFlat:    4000,
	}}

	items := []models.OrderItem{{UnitPrice: 25000, Quantity: 2}}

	pricing := s.computePricing(items)

	assert.Equal(t, int64(50000), pricing.Subtotal)
	assert.Equal(t, int64(0), pricing.Shipping)
	assert.Equal(t, int64(55000), pricing.Total)
}

func TestGroupVendorOrders(t *testing.T) {
	vendorA := primitive.NewObjectID()
	vendorB := primitive.NewObjectID()

	items := []models.OrderItem{
		{ProductID: primitive.NewObjectID(), OwnerID: vendorA, OwnerType: models.OwnerTypeVendor, UnitPrice: 1000, Quantity: 2},
		{ProductID: primitive.NewObjectID(), OwnerID: vendorB, OwnerType: models.OwnerTypeSeller, UnitPrice: 500, Quantity: 1},
		{ProductID: primitive.NewObjectID(), OwnerID: vendorA, OwnerType: models.OwnerTypeVendor, UnitPrice: 300, Quantity: 3},
	}

	vendorOrders := groupVendorOrders(items)

	assert.Len(t, vendorOrders, 2)

	// First-seen owner order is preserved
	assert.Equal(t, vendorA, vendorOrders[0].OwnerID)
	assert.Equal(t, vendorB, vendorOrders[1].OwnerID)

	assert.Len(t, vendorOrders[0].Items, 2)
	assert.Equal(t, int64(2*1000+3*300), vendorOrders[0].Subtotal)
	assert.Equal(t, models.OrderStatusPending, vendorOrders[0].Status)

	assert.Len(t, vendorOrders[1].Items, 1)
	assert.Equal(t, int64(500), vendorOrders[1].Subtotal)
	assert.Equal(t, models.OwnerTypeSeller, vendorOrders[1].OwnerType)
}

func TestWithinReturnWindow(t *testing.T) {
	delivered := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.True(t, WithinReturnWindow(delivered, delivered.Add(24*time.Hour), 7))
	assert.True(t, WithinReturnWindow(delivered, delivered.Add(7*24*time.Hour), 7))
	assert.False(t, WithinReturnWindow(delivered, delivered.Add(7*24*time.Hour+time.Minute), 7))
	assert.False(t, WithinReturnWindow(delivered, delivered.Add(30*24*time.Hour), 7))
}

func TestMainImageURL(t *testing.T) {
	p := &models.Product{Images: []models.Image{
		{URL: "https://cdn.example.com/a.jpg"},
		{URL: "https://cdn.example.com/b.jpg", IsMain: true},
	}}
	assert.Equal(t, "https://cdn.example.com/b.jpg", mainImageURL(p))

	p = &models.Product{Images: []models.Image{{URL: "https://cdn.example.com/a.jpg"}}}
	assert.Equal(t, "https://cdn.example.com/a.jpg", mainImageURL(p))

	assert.Equal(t, "", mainImageURL(&models.Product{}))
}

func TestEventItems(t *testing.T) {
	productID := primitive.NewObjectID()
	items := []models.OrderItem{{ProductID: productID, Quantity: 2, UnitPrice: 1500}}

	data := eventItems(items)

	assert.Len(t, data, 1)
	assert.Equal(t, productID.Hex(), data[0].ProductID)
	assert.Equal(t, 2, data[0].Quantity)
	assert.Equal(t, int64(1500), data[0].UnitPrice)
}

func TestPlaceOrderCompensation(t *testing.T) {
	// A failed decrement mid-loop must restore the already-decremented lines
	t.Skip("Requires mocked store")
}

func TestPlaceOrderIdempotentReplay(t *testing.T) {
	// A repeated idempotency key returns the original order without a second
	// decrement, whether the key is found in Redis or on the Mongo index
	t.Skip("Integration test - requires MongoDB and Redis")
}

func TestCancelRestoresInventory(t *testing.T) {
	// Cancelling a pending order puts back exactly the ordered quantities
	t.Skip("Requires mocked store")
}
