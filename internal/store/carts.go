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
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetCartByUserID retrieves a user's cart, returning an empty cart when none exists
func (s *Store) GetCartByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	var cart models.Cart
	err := s.carts.FindOne(ctx, bson.M{"user_id": userID}).Decode(&cart)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return &models.Cart{UserID: userID, Items: []models.CartItem{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find cart: %w", err)
	}
	return &cart, nil
}

// SaveCart replaces the cart's items wholesale. Last write wins; there is no
// locking between concurrent modifications of the same cart.
func (s *Store) SaveCart(ctx context.Context, userID primitive.ObjectID, items []models.CartItem) (*models.Cart, error) {
	if items == nil {
		items = []models.CartItem{}
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var cart models.Cart
	err := s.carts.FindOneAndUpdate(ctx,
		bson.M{"user_id": userID},
		bson.M{"$set": bson.M{"items": items, "updated_at": time.Now()}},
		opts,
	).Decode(&cart)
	if err != nil {
		return nil, fmt.Errorf("failed to save cart: %w", err)
	}
	return &cart, nil
}

// DeleteCart removes the user's cart document
func (s *Store) DeleteCart(ctx context.Context, userID primitive.ObjectID) error {
	_, err := s.carts.DeleteOne(ctx, bson.M{"user_id": userID})
	if err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	return nil
}
