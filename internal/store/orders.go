package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"marketplace-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// CreateOrder inserts a new order
func (s *Store) CreateOrder(ctx context.Context, order *models.Order) error {
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt

	result, err := s.orders.InsertOne(ctx, order)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to insert order: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		order.ID = oid
	}
	return nil
}

// GetOrderByID retrieves an order by ID
func (s *Store) GetOrderByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	var order models.Order
	err := s.orders.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find order: %w", err)
	}
	return &order, nil
}

// GetOrderByIdempotencyKey returns nil when no order carries the key
func (s *Store) GetOrderByIdempotencyKey(ctx context.Context, key string) (*models.Order, error) {
	var order models.Order
	err := s.orders.FindOne(ctx, bson.M{"idempotency_key": key}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find order by idempotency key: %w", err)
	}
	return &order, nil
}

// ListOrdersByUser retrieves a user's orders, newest first
func (s *Store) ListOrdersByUser(ctx context.Context, userID primitive.ObjectID, page, limit int) ([]models.Order, int64, error) {
	filter := bson.M{"user_id": userID}
	return s.listOrders(ctx, filter, page, limit)
}

// ListOrders retrieves all orders, optionally filtered by status
func (s *Store) ListOrders(ctx context.Context, status string, page, limit int) ([]models.Order, int64, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	return s.listOrders(ctx, filter, page, limit)
}

// ListOrdersByVendor retrieves orders containing a vendor's sub-order
func (s *Store) ListOrdersByVendor(ctx context.Context, ownerID primitive.ObjectID, page, limit int) ([]models.Order, int64, error) {
	filter := bson.M{"vendor_orders.owner_id": ownerID}
	return s.listOrders(ctx, filter, page, limit)
}

func (s *Store) listOrders(ctx context.Context, filter bson.M, page, limit int) ([]models.Order, int64, error) {
	total, err := s.orders.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	cursor, err := s.orders.Find(ctx, filter, pageOptions(page, limit, bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// UpdateOrderStatus sets the order status, stamping delivered_at on delivery
func (s *Store) UpdateOrderStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	set := bson.M{"status": status, "updated_at": time.Now()}
	if status == models.OrderStatusDelivered {
		set["delivered_at"] = time.Now()
	}

	result, err := s.orders.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateOrderPayment overwrites the payment sub-document
func (s *Store) UpdateOrderPayment(ctx context.Context, id primitive.ObjectID, payment models.Payment) error {
	result, err := s.orders.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"payment": payment, "updated_at": time.Now()},
	})
	if err != nil {
		return fmt.Errorf("failed to update order payment: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateVendorOrder sets status and tracking on one vendor's sub-order
func (s *Store) UpdateVendorOrder(ctx context.Context, orderID, ownerID primitive.ObjectID, status, trackingID, carrier string) error {
	set := bson.M{
		"vendor_orders.$.status":     status,
		"vendor_orders.$.updated_at": time.Now(),
		"updated_at":                 time.Now(),
	}
	if trackingID != "" {
		set["vendor_orders.$.tracking_id"] = trackingID
	}
	if carrier != "" {
		set["vendor_orders.$.carrier"] = carrier
	}

	result, err := s.orders.UpdateOne(ctx, bson.M{
		"_id":                    orderID,
		"vendor_orders.owner_id": ownerID,
	}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update vendor order: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// AddReturnRequest appends a return request to the order
func (s *Store) AddReturnRequest(ctx context.Context, orderID primitive.ObjectID, request models.ReturnRequest) error {
	result, err := s.orders.UpdateOne(ctx, bson.M{"_id": orderID}, bson.M{
		"$push": bson.M{"return_requests": request},
		"$set":  bson.M{"updated_at": time.Now()},
	})
	if err != nil {
		return fmt.Errorf("failed to add return request: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// HasDeliveredOrderWithProduct reports whether the user has a delivered order
// containing the product. Reviews are gated on this.
func (s *Store) HasDeliveredOrderWithProduct(ctx context.Context, userID, productID primitive.ObjectID) (primitive.ObjectID, bool, error) {
	var order models.Order
	err := s.orders.FindOne(ctx, bson.M{
		"user_id":          userID,
		"status":           models.OrderStatusDelivered,
		"items.product_id": productID,
	}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return primitive.NilObjectID, false, nil
	}
	if err != nil {
		return primitive.NilObjectID, false, fmt.Errorf("failed to check delivered orders: %w", err)
	}
	return order.ID, true, nil
}
