package worker

import (
	"context"
	"log"

	"marketplace-service/internal/broker"
	"marketplace-service/internal/models"
	"marketplace-service/internal/service"
	"marketplace-service/internal/store"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FulfillmentWorker advances orders in response to payment events
type FulfillmentWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	orderService *service.OrderService
}

// NewFulfillmentWorker creates a new fulfillment worker
func NewFulfillmentWorker(
	consumer *broker.Consumer,
	orderService *service.OrderService,
) *FulfillmentWorker {
	eventHandler := broker.NewEventHandler()

	w := &FulfillmentWorker{
		consumer:     consumer,
		eventHandler: eventHandler,
		orderService: orderService,
	}

	eventHandler.OnPaymentSucceeded(w.handlePaymentSucceeded)
	eventHandler.OnPaymentFailed(w.handlePaymentFailed)

	return w
}

// Start starts the worker
func (w *FulfillmentWorker) Start(ctx context.Context) error {
	log.Println("Starting fulfillment worker...")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *FulfillmentWorker) Stop() error {
	log.Println("Stopping fulfillment worker...")
	return w.consumer.Close()
}

func (w *FulfillmentWorker) handlePaymentSucceeded(ctx context.Context, event *models.PaymentSucceededEvent) error {
	orderID, err := primitive.ObjectIDFromHex(event.OrderID)
	if err != nil {
		log.Printf("Invalid order ID in PaymentSucceeded event: %s", event.OrderID)
		return nil
	}

	log.Printf("Confirming paid order: %s", event.OrderID)
	if err := w.orderService.UpdateStatus(ctx, orderID, models.OrderStatusConfirmed); err != nil {
		// Already-confirmed orders are fine, the event was redelivered
		log.Printf("Failed to confirm order %s: %v", event.OrderID, err)
	}
	return nil
}

func (w *FulfillmentWorker) handlePaymentFailed(ctx context.Context, event *models.PaymentFailedEvent) error {
	log.Printf("Payment failed for order %s: %s", event.OrderID, event.Reason)
	return nil
}

// AnalyticsWorker maintains per-product sales counters from order events
type AnalyticsWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	store        *store.Store
}

// NewAnalyticsWorker creates a new analytics worker
func NewAnalyticsWorker(consumer *broker.Consumer, st *store.Store) *AnalyticsWorker {
	eventHandler := broker.NewEventHandler()

	w := &AnalyticsWorker{
		consumer:     consumer,
		eventHandler: eventHandler,
		store:        st,
	}

	eventHandler.OnOrderCreated(w.handleOrderCreated)

	return w
}

// Start starts the worker
func (w *AnalyticsWorker) Start(ctx context.Context) error {
	log.Println("Starting analytics worker...")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *AnalyticsWorker) Stop() error {
	log.Println("Stopping analytics worker...")
	return w.consumer.Close()
}

func (w *AnalyticsWorker) handleOrderCreated(ctx context.Context, event *models.OrderCreatedEvent) error {
	for _, item := range event.Items {
		productID, err := primitive.ObjectIDFromHex(item.ProductID)
		if err != nil {
			log.Printf("Invalid product ID in OrderCreated event: %s", item.ProductID)
			continue
		}
		if err := w.store.IncrementSales(ctx, productID, item.Quantity); err != nil {
			log.Printf("Failed to increment sales for product %s: %v", item.ProductID, err)
		}
	}
	return nil
}
