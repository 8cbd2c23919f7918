package service

import "marketplace-service/internal/models"

// orderTransitions lists the allowed next statuses for an order. The same
// machine applies to vendor sub-orders, which advance independently.
var orderTransitions = map[string][]string{
	models.OrderStatusPending:    {models.OrderStatusConfirmed, models.OrderStatusCancelled},
	models.OrderStatusConfirmed:  {models.OrderStatusProcessing, models.OrderStatusCancelled},
	models.OrderStatusProcessing: {models.OrderStatusShipped},
	models.OrderStatusShipped:    {models.OrderStatusDelivered},
	models.OrderStatusDelivered:  {models.OrderStatusRefunded},
	models.OrderStatusCancelled:  {},
	models.OrderStatusRefunded:   {},
}

// paymentTransitions lists the allowed next statuses for a payment
var paymentTransitions = map[string][]string{
	models.PaymentStatusPending:    {models.PaymentStatusProcessing, models.PaymentStatusFailed},
	models.PaymentStatusProcessing: {models.PaymentStatusCompleted, models.PaymentStatusFailed},
	models.PaymentStatusCompleted:  {models.PaymentStatusRefunded},
	models.PaymentStatusFailed:     {models.PaymentStatusProcessing},
	models.PaymentStatusRefunded:   {},
}

// CanTransitionOrder reports whether an order may move from one status to another
func CanTransitionOrder(from, to string) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CanTransitionPayment reports whether a payment may move from one status to another
func CanTransitionPayment(from, to string) bool {
	for _, next := range paymentTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// cancellable statuses restore inventory on cancellation
func orderCancellable(status string) bool {
	return status == models.OrderStatusPending || status == models.OrderStatusConfirmed
}
