package service

import (
	"testing"

	"marketplace-service/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionOrder(t *testing.T) {
	assert.True(t, CanTransitionOrder(models.OrderStatusPending, models.OrderStatusConfirmed))
	assert.True(t, CanTransitionOrder(models.OrderStatusConfirmed, models.OrderStatusProcessing))
	assert.True(t, CanTransitionOrder(models.OrderStatusProcessing, models.OrderStatusShipped))
	assert.True(t, CanTransitionOrder(models.OrderStatusShipped, models.OrderStatusDelivered))
	assert.True(t, CanTransitionOrder(models.OrderStatusDelivered, models.OrderStatusRefunded))

	// No skipping stages
	assert.False(t, CanTransitionOrder(models.OrderStatusPending, models.OrderStatusShipped))
	assert.False(t, CanTransitionOrder(models.OrderStatusConfirmed, models.OrderStatusDelivered))

	// No moving backwards
	assert.False(t, CanTransitionOrder(models.OrderStatusShipped, models.OrderStatusProcessing))

	// Terminal states
	assert.False(t, CanTransitionOrder(models.OrderStatusCancelled, models.OrderStatusPending))
	assert.False(t, CanTransitionOrder(models.OrderStatusRefunded, models.OrderStatusPending))

	// Cancellation only before fulfillment starts
	assert.True(t, CanTransitionOrder(models.OrderStatusPending, models.OrderStatusCancelled))
	assert.True(t, CanTransitionOrder(models.OrderStatusConfirmed, models.OrderStatusCancelled))
	assert.False(t, CanTransitionOrder(models.OrderStatusProcessing, models.OrderStatusCancelled))
	assert.False(t, CanTransitionOrder(models.OrderStatusShipped, models.OrderStatusCancelled))
}

func TestCanTransitionPayment(t *testing.T) {
	assert.True(t, CanTransitionPayment(models.PaymentStatusPending, models.PaymentStatusProcessing))
	assert.True(t, CanTransitionPayment(models.PaymentStatusProcessing, models.PaymentStatusCompleted))
	assert.True(t, CanTransitionPayment(models.PaymentStatusProcessing, models.PaymentStatusFailed))
	assert.True(t, CanTransitionPayment(models.PaymentStatusCompleted, models.PaymentStatusRefunded))

	// A failed payment may be retried
	assert.True(t, CanTransitionPayment(models.PaymentStatusFailed, models.PaymentStatusProcessing))

	assert.False(t, CanTransitionPayment(models.PaymentStatusPending, models.PaymentStatusCompleted))
	assert.False(t, CanTransitionPayment(models.PaymentStatusRefunded, models.PaymentStatusProcessing))
	assert.False(t, CanTransitionPayment(models.PaymentStatusCompleted, models.PaymentStatusPending))
}

func TestOrderCancellable(t *testing.T) {
	assert.True(t, orderCancellable(models.OrderStatusPending))
	assert.True(t, orderCancellable(models.OrderStatusConfirmed))
	assert.False(t, orderCancellable(models.OrderStatusProcessing))
	assert.False(t, orderCancellable(models.OrderStatusShipped))
	assert.False(t, orderCancellable(models.OrderStatusDelivered))
	assert.False(t, orderCancellable(models.OrderStatusCancelled))
}
