package store

import (
	"context"
	"testing"

	"marketplace-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreateUserDuplicateEmail(t *testing.T) {
	// In real scenarios, use testcontainers or a local replica set

	t.Skip("Integration test - requires MongoDB")

	store, err := NewStore("mongodb://localhost:27017", "marketplace_test")
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()

	user := &models.User{
		Name:     "Test User",
		Email:    "dup@example.com",
		Password: "hashed",
		Role:     models.RoleCustomer,
	}

	err = store.CreateUser(ctx, user)
	assert.NoError(t, err)
	assert.False(t, user.ID.IsZero())

	second := &models.User{
		Name:     "Another User",
		Email:    "dup@example.com",
		Password: "hashed",
		Role:     models.RoleCustomer,
	}

	err = store.CreateUser(ctx, second)
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestCreateSellerDuplicateEmail(t *testing.T) {
	t.Skip("Integration test - requires MongoDB")

	store, err := NewStore("mongodb://localhost:27017", "marketplace_test")
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()

	seller := &models.Seller{
		Name:      "Test Seller",
		Email:     "dupseller@example.com",
		Password:  "hashed",
		StoreName: "First Store",
		Location:  models.NewGeoPoint(12.9716, 77.5946),
		Pincode:   "560001",
	}

	err = store.CreateSeller(ctx, seller)
	assert.NoError(t, err)
	assert.False(t, seller.ID.IsZero())

	second := &models.Seller{
		Name:      "Another Seller",
		Email:     "dupseller@example.com",
		Password:  "hashed",
		StoreName: "Second Store",
		Location:  models.NewGeoPoint(12.9716, 77.5946),
		Pincode:   "560002",
	}

	err = store.CreateSeller(ctx, second)
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestHasDeliveredOrderWithProduct(t *testing.T) {
	t.Skip("Integration test - requires MongoDB")

	store, err := NewStore("mongodb://localhost:27017", "marketplace_test")
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()

	userID := primitive.NewObjectID()
	productID := primitive.NewObjectID()

	order := &models.Order{
		UserID: userID,
		Items:  []models.OrderItem{{ProductID: productID, Quantity: 1, UnitPrice: 1000}},
		Status: models.OrderStatusPending,
	}
	require.NoError(t, store.CreateOrder(ctx, order))

	// Not eligible until the order is delivered
	_, eligible, err := store.HasDeliveredOrderWithProduct(ctx, userID, productID)
	assert.NoError(t, err)
	assert.False(t, eligible)

	require.NoError(t, store.UpdateOrderStatus(ctx, order.ID, models.OrderStatusDelivered))

	orderID, eligible, err := store.HasDeliveredOrderWithProduct(ctx, userID, productID)
	assert.NoError(t, err)
	assert.True(t, eligible)
	assert.Equal(t, order.ID, orderID)

	// A delivered order for someone else grants nothing
	_, eligible, err = store.HasDeliveredOrderWithProduct(ctx, primitive.NewObjectID(), productID)
	assert.NoError(t, err)
	assert.False(t, eligible)
}

func TestRestoreStockRoundTrip(t *testing.T) {
	t.Skip("Integration test - requires MongoDB")

	store, err := NewStore("mongodb://localhost:27017", "marketplace_test")
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()

	product := &models.Product{
		Name:      "Returnable Item",
		Category:  "misc",
		Price:     1000,
		Status:    models.ProductStatusActive,
		Inventory: models.Inventory{Quantity: 5, TrackQuantity: true},
	}
	require.NoError(t, store.CreateProduct(ctx, product))

	require.NoError(t, store.DecrementStock(ctx, product.ID, 3))
	require.NoError(t, store.RestoreStock(ctx, product.ID, 3))

	// A cancellation restores exactly the quantity that was taken
	fetched, err := store.GetProductByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, fetched.Inventory.Quantity)
}

func TestSaveCartUpsert(t *testing.T) {
	t.Skip("Integration test - requires MongoDB")

	store, err := NewStore("mongodb://localhost:27017", "marketplace_test")
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()

	user := &models.User{Name: "Cart User", Email: "cart@example.com", Password: "hashed", Role: models.RoleCustomer}
	require.NoError(t, store.CreateUser(ctx, user))

	// First save upserts, second save overwrites
	cart, err := store.SaveCart(ctx, user.ID, nil)
	assert.NoError(t, err)
	assert.Equal(t, user.ID, cart.UserID)

	fetched, err := store.GetCartByUserID(ctx, user.ID)
	assert.NoError(t, err)
	assert.Empty(t, fetched.Items)
}

func TestDecrementStockInsufficient(t *testing.T) {
	t.Skip("Integration test - requires MongoDB")

	store, err := NewStore("mongodb://localhost:27017", "marketplace_test")
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()

	product := &models.Product{
		Name:      "Scarce Item",
		Category:  "misc",
		Price:     1000,
		Status:    models.ProductStatusActive,
		Inventory: models.Inventory{Quantity: 2, TrackQuantity: true},
	}
	require.NoError(t, store.CreateProduct(ctx, product))

	err = store.DecrementStock(ctx, product.ID, 3)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	err = store.DecrementStock(ctx, product.ID, 2)
	assert.NoError(t, err)
}
